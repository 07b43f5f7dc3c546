package quiz

import (
	"errors"
	"time"
)

var (
	ErrNoQuestions     = errors.New("quiz has no questions")
	ErrAttemptFinished = errors.New("attempt already finished")
	ErrNotAnswered     = errors.New("current question has not been answered")
	ErrInvalidOption   = errors.New("option index out of range")
)

// Result is the outcome of a finished attempt.
type Result struct {
	Score      int
	Correct    int
	Total      int
	Answers    []int
	TimedOut   bool
	FinishedAt time.Time
}

// State is the persistable snapshot of an attempt.
type State struct {
	Current    int
	Answers    []int
	StartedAt  time.Time
	Deadline   time.Time
	Finished   bool
	TimedOut   bool
	FinishedAt time.Time
}

// Attempt walks a student through the questions one at a time. Every
// mutating call takes the current time so an expired attempt finishes
// before the call is applied.
type Attempt struct {
	questions []Question
	state     State
	result    *Result
}

// NewAttempt starts an attempt at the first question. The deadline is fixed
// at start as perQuestion times the number of questions.
func NewAttempt(questions []Question, startedAt time.Time, perQuestion time.Duration) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Attempt{
		questions: questions,
		state: State{
			Answers:   answers,
			StartedAt: startedAt,
			Deadline:  startedAt.Add(TimeLimit(len(questions), perQuestion)),
		},
	}, nil
}

// Restore rebuilds an attempt from a stored snapshot.
func Restore(questions []Question, st State) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
		if i < len(st.Answers) {
			answers[i] = st.Answers[i]
		}
	}
	st.Answers = answers
	if st.Current < 0 {
		st.Current = 0
	}
	if st.Current >= len(questions) {
		st.Current = len(questions) - 1
	}
	a := &Attempt{questions: questions, state: st}
	if st.Finished {
		a.result = a.grade()
	}
	return a, nil
}

func (a *Attempt) State() State {
	st := a.state
	st.Answers = append([]int(nil), a.state.Answers...)
	return st
}

func (a *Attempt) Current() int { return a.state.Current }

func (a *Attempt) Total() int { return len(a.questions) }

func (a *Attempt) Question() Question { return a.questions[a.state.Current] }

func (a *Attempt) IsLast() bool { return a.state.Current == len(a.questions)-1 }

func (a *Attempt) Finished() bool { return a.state.Finished }

func (a *Attempt) Deadline() time.Time { return a.state.Deadline }

// Answers returns a copy of the answers given so far.
func (a *Attempt) Answers() []int {
	return append([]int(nil), a.state.Answers...)
}

// TimeLeft never goes below zero.
func (a *Attempt) TimeLeft(now time.Time) time.Duration {
	if a.state.Finished {
		return 0
	}
	left := a.state.Deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Result reports the outcome once the attempt has finished.
func (a *Attempt) Result() (Result, bool) {
	if a.result == nil {
		return Result{}, false
	}
	r := *a.result
	r.Answers = append([]int(nil), a.result.Answers...)
	return r, true
}

// Expire finishes the attempt when the deadline has passed. It reports
// whether this call finished it.
func (a *Attempt) Expire(now time.Time) bool {
	if a.state.Finished || now.Before(a.state.Deadline) {
		return false
	}
	a.finish(now, true)
	return true
}

// Select records an answer for the current question.
func (a *Attempt) Select(now time.Time, option int) error {
	if err := a.live(now); err != nil {
		return err
	}
	if option < 0 || option >= len(a.questions[a.state.Current].Options) {
		return ErrInvalidOption
	}
	a.state.Answers[a.state.Current] = option
	return nil
}

// Next advances to the following question, or finishes the attempt when
// called on the last one. It reports whether the attempt finished.
func (a *Attempt) Next(now time.Time) (bool, error) {
	if err := a.live(now); err != nil {
		return false, err
	}
	if a.state.Answers[a.state.Current] == Unanswered {
		return false, ErrNotAnswered
	}
	if a.IsLast() {
		a.finish(now, false)
		return true, nil
	}
	a.state.Current++
	return false, nil
}

// Previous steps back one question, stopping at the first.
func (a *Attempt) Previous(now time.Time) error {
	if err := a.live(now); err != nil {
		return err
	}
	if a.state.Current > 0 {
		a.state.Current--
	}
	return nil
}

func (a *Attempt) live(now time.Time) error {
	if a.state.Finished {
		return ErrAttemptFinished
	}
	if a.Expire(now) {
		return ErrAttemptFinished
	}
	return nil
}

func (a *Attempt) finish(now time.Time, timedOut bool) {
	a.state.Finished = true
	a.state.TimedOut = timedOut
	a.state.FinishedAt = now
	a.result = a.grade()
}

func (a *Attempt) grade() *Result {
	correct := CountCorrect(a.state.Answers, a.questions)
	return &Result{
		Score:      Percent(correct, len(a.questions)),
		Correct:    correct,
		Total:      len(a.questions),
		Answers:    append([]int(nil), a.state.Answers...),
		TimedOut:   a.state.TimedOut,
		FinishedAt: a.state.FinishedAt,
	}
}
