// Package quiz grades multiple-choice answers and drives a timed,
// one-question-at-a-time quiz attempt.
package quiz

import (
	"fmt"
	"math"
	"time"
)

// Unanswered marks a question the student has not answered yet.
const Unanswered = -1

// DefaultSecondsPerQuestion is the time budget each question adds to an attempt.
const DefaultSecondsPerQuestion = 30

// Question is the grading view of a quiz question.
type Question struct {
	Text    string
	Options []string
	Correct int
}

// ReviewItem describes how one question was answered.
type ReviewItem struct {
	Index     int      `json:"index"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Chosen    int      `json:"chosen"`
	Correct   int      `json:"correct"`
	IsCorrect bool     `json:"is_correct"`
}

// CountCorrect returns how many answers match the correct option. Answers
// beyond the question list are ignored and missing answers count as wrong.
func CountCorrect(answers []int, questions []Question) int {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.Correct {
			correct++
		}
	}
	return correct
}

// Score is the rounded percentage of correctly answered questions.
func Score(answers []int, questions []Question) int {
	if len(questions) == 0 {
		return 0
	}
	return Percent(CountCorrect(answers, questions), len(questions))
}

// Percent rounds correct/total to a whole percentage.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// CorrectFromScore recovers an approximate correct count from a stored score.
func CorrectFromScore(score, total int) int {
	return int(math.Round(float64(score) / 100 * float64(total)))
}

// Review pairs each question with the chosen and correct options.
func Review(answers []int, questions []Question) []ReviewItem {
	items := make([]ReviewItem, len(questions))
	for i, q := range questions {
		chosen := Unanswered
		if i < len(answers) {
			chosen = answers[i]
		}
		items[i] = ReviewItem{
			Index:     i,
			Text:      q.Text,
			Options:   q.Options,
			Chosen:    chosen,
			Correct:   q.Correct,
			IsCorrect: chosen == q.Correct,
		}
	}
	return items
}

// TimeLimit is the total time allowed for n questions.
func TimeLimit(n int, perQuestion time.Duration) time.Duration {
	return time.Duration(n) * perQuestion
}

// FormatClock renders a remaining duration as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
