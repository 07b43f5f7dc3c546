package controllers

import (
	"errors"
	"time"

	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/quiz"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AttemptsController runs timed quiz attempts on the server. Every call
// checks the deadline before it is applied.
type AttemptsController struct {
	*QuizController
	Now func() time.Time
}

// NewAttemptsController reads the current time from now, or from the wall
// clock when now is nil.
func NewAttemptsController(qc *QuizController, now func() time.Time) *AttemptsController {
	if now == nil {
		now = time.Now
	}
	return &AttemptsController{QuizController: qc, Now: now}
}

type SelectRequest struct {
	Option *int `json:"option" validate:"required"`
}

func stateOf(rec *models.QuizAttempt) quiz.State {
	st := quiz.State{
		Current:   rec.CurrentIndex,
		Answers:   rec.Answers,
		StartedAt: rec.StartedAt,
		Deadline:  rec.Deadline,
		Finished:  rec.Finished,
		TimedOut:  rec.TimedOut,
	}
	if rec.FinishedAt != nil {
		st.FinishedAt = *rec.FinishedAt
	}
	return st
}

func applyState(rec *models.QuizAttempt, st quiz.State) {
	rec.CurrentIndex = st.Current
	rec.Answers = st.Answers
	rec.Finished = st.Finished
	rec.TimedOut = st.TimedOut
	if st.Finished {
		at := st.FinishedAt
		rec.FinishedAt = &at
	}
}

func attemptView(rec *models.QuizAttempt, q *models.Quiz, a *quiz.Attempt, now time.Time) fiber.Map {
	left := a.TimeLeft(now)
	view := fiber.Map{
		"id":                rec.ID,
		"quiz_id":           q.ID,
		"quiz_title":        q.Title,
		"current":           a.Current(),
		"total":             a.Total(),
		"is_last":           a.IsLast(),
		"answers":           a.Answers(),
		"started_at":        rec.StartedAt,
		"deadline":          a.Deadline(),
		"time_left_seconds": int(left.Round(time.Second) / time.Second),
		"clock":             quiz.FormatClock(left),
		"finished":          a.Finished(),
	}
	if !a.Finished() {
		question := a.Question()
		view["question"] = fiber.Map{
			"text":    question.Text,
			"options": question.Options,
			"chosen":  a.Answers()[a.Current()],
		}
	}
	if res, ok := a.Result(); ok {
		questions := gradable(q.Questions)
		view["result"] = fiber.Map{
			"id":              rec.ResultID,
			"score":           res.Score,
			"correct_answers": res.Correct,
			"total_questions": res.Total,
			"timed_out":       res.TimedOut,
			"finished_at":     res.FinishedAt,
			"review":          quiz.Review(res.Answers, questions),
		}
	}
	return view
}

// StartAttempt godoc
// @Summary Start a timed quiz attempt
// @Description The deadline is fixed at start: seconds per question times the question count
// @Tags attempts
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quizzes/{id}/attempts [post]
func (ac *AttemptsController) StartAttempt(c *fiber.Ctx) error {
	quizID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	q, err := ac.Store.QuizByID(c.UserContext(), quizID)
	if err != nil {
		return storeError(c, err, "Quiz not found")
	}
	userID := middleware.UserID(c)
	if ok, err := ac.unlocked(c, userID, q.CourseID); !ok {
		return err
	}

	now := ac.Now()
	a, err := quiz.NewAttempt(gradable(q.Questions), now, ac.perQuestion())
	if errors.Is(err, quiz.ErrNoQuestions) {
		return utils.BadRequest(c, "Quiz has no questions")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not start attempt")
	}

	st := a.State()
	rec := models.QuizAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		QuizID:    q.ID,
		StartedAt: st.StartedAt,
		Deadline:  st.Deadline,
	}
	applyState(&rec, st)
	if err := ac.Store.CreateAttempt(c.UserContext(), &rec); err != nil {
		return utils.InternalServerError(c, "Could not start attempt")
	}
	return utils.Created(c, attemptView(&rec, q, a, now))
}

func (ac *AttemptsController) GetAttempt(c *fiber.Ctx) error {
	return ac.apply(c, func(*quiz.Attempt, time.Time) error { return nil })
}

func (ac *AttemptsController) SelectOption(c *fiber.Ctx) error {
	var input SelectRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	return ac.apply(c, func(a *quiz.Attempt, now time.Time) error { return a.Select(now, *input.Option) })
}

// NextQuestion advances, or finishes the attempt on the last question.
func (ac *AttemptsController) NextQuestion(c *fiber.Ctx) error {
	return ac.apply(c, func(a *quiz.Attempt, now time.Time) error {
		_, err := a.Next(now)
		return err
	})
}

func (ac *AttemptsController) PreviousQuestion(c *fiber.Ctx) error {
	return ac.apply(c, func(a *quiz.Attempt, now time.Time) error { return a.Previous(now) })
}

// apply loads the caller's attempt, expires it if the deadline has passed,
// runs op and persists the new state. A finished attempt has its result
// stored exactly once.
func (ac *AttemptsController) apply(c *fiber.Ctx, op func(*quiz.Attempt, time.Time) error) error {
	rec, err := ac.Store.AttemptByID(c.UserContext(), c.Params("id"))
	if err != nil || rec.UserID != middleware.UserID(c) {
		return utils.NotFound(c, "Attempt not found")
	}
	q, err := ac.Store.QuizByID(c.UserContext(), rec.QuizID)
	if err != nil {
		return storeError(c, err, "Quiz not found")
	}
	a, err := quiz.Restore(gradable(q.Questions), stateOf(rec))
	if err != nil {
		return utils.InternalServerError(c, "Could not load attempt")
	}

	now := ac.Now()
	wasFinished := rec.Finished
	a.Expire(now)
	opErr := op(a, now)

	applyState(rec, a.State())
	switch {
	case a.Finished() && rec.ResultID == nil:
		if err := ac.finish(c, rec, q, a); err != nil {
			return utils.InternalServerError(c, "Could not save result")
		}
	case !wasFinished:
		if err := ac.Store.SaveAttempt(c.UserContext(), rec); err != nil {
			return utils.InternalServerError(c, "Could not save attempt")
		}
	}

	view := attemptView(rec, q, a, now)
	switch {
	case opErr == nil:
		return utils.Success(c, fiber.StatusOK, view)
	case errors.Is(opErr, quiz.ErrAttemptFinished):
		return utils.Error(c, fiber.StatusConflict, opErr, view)
	case errors.Is(opErr, quiz.ErrNotAnswered), errors.Is(opErr, quiz.ErrInvalidOption):
		return utils.Error(c, fiber.StatusBadRequest, opErr, view)
	default:
		return utils.InternalServerError(c, "Could not update attempt")
	}
}

func (ac *AttemptsController) finish(c *fiber.Ctx, rec *models.QuizAttempt, q *models.Quiz, a *quiz.Attempt) error {
	res, _ := a.Result()
	result := models.QuizResult{
		UserID:         rec.UserID,
		QuizID:         q.ID,
		AttemptID:      rec.ID,
		Score:          res.Score,
		TotalQuestions: res.Total,
		CorrectAnswers: res.Correct,
		Answers:        res.Answers,
		TimedOut:       res.TimedOut,
		CompletedAt:    res.FinishedAt,
	}
	created, err := ac.Store.FinishAttempt(c.UserContext(), rec, &result)
	if err != nil {
		return err
	}
	if created {
		ac.completed(c, &result)
	}
	return nil
}
