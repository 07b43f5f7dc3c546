package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"eduquiz/backend/config"
	"eduquiz/backend/events"
	"eduquiz/backend/metrics"
	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/quiz"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	Store     *store.Store
	Cfg       *config.Config
	Publisher events.Publisher
	Logger    *log.Logger
}

func NewQuizController(st *store.Store, cfg *config.Config, pub events.Publisher, logger *log.Logger) *QuizController {
	return &QuizController{Store: st, Cfg: cfg, Publisher: pub, Logger: logger}
}

type QuestionInput struct {
	Text               string   `json:"text" validate:"required"`
	Options            []string `json:"options" validate:"len=4,dive,required"`
	CorrectOptionIndex *int     `json:"correct_option_index" validate:"required,min=0,max=3"`
}

type CreateQuizRequest struct {
	Title     string          `json:"title" validate:"required,max=200"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type SubmitRequest struct {
	Answers []int `json:"answers" validate:"required,dive,min=-1,max=3"`
}

func (r *CreateQuizRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	for i := range r.Questions {
		q := &r.Questions[i]
		q.Text = strings.TrimSpace(q.Text)
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}
}

func gradable(questions []models.Question) []quiz.Question {
	out := make([]quiz.Question, len(questions))
	for i, q := range questions {
		out[i] = quiz.Question{Text: q.Text, Options: q.Options, Correct: q.CorrectOptionIndex}
	}
	return out
}

func (qc *QuizController) perQuestion() time.Duration {
	if qc.Cfg.SecondsPerQuestion > 0 {
		return time.Duration(qc.Cfg.SecondsPerQuestion) * time.Second
	}
	return quiz.DefaultSecondsPerQuestion * time.Second
}

// quizView hides the correct answers.
func quizView(q *models.Quiz, perQuestion time.Duration) fiber.Map {
	questions := make([]fiber.Map, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = fiber.Map{
			"id":       question.ID,
			"position": question.Position,
			"text":     question.Text,
			"options":  question.Options,
		}
	}
	return fiber.Map{
		"id":                 q.ID,
		"course_id":          q.CourseID,
		"title":              q.Title,
		"question_count":     len(q.Questions),
		"time_limit_seconds": int(quiz.TimeLimit(len(q.Questions), perQuestion) / time.Second),
		"questions":          questions,
	}
}

func resultView(r *models.QuizResult, title string) fiber.Map {
	return fiber.Map{
		"id":              r.ID,
		"quiz_id":         r.QuizID,
		"quiz_title":      title,
		"user_id":         r.UserID,
		"score":           r.Score,
		"correct_answers": r.CorrectAnswers,
		"total_questions": r.TotalQuestions,
		"answers":         r.Answers,
		"timed_out":       r.TimedOut,
		"completed_at":    r.CompletedAt,
	}
}

// CreateQuiz godoc
// @Summary Create the quiz for a course
// @Description Only the teacher who authored the course may add its quiz. A course holds one quiz.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body CreateQuizRequest true "Quiz"
// @Success 201 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/quiz [post]
func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input CreateQuizRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	input.normalize()
	if errs := utils.Validate(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	course, err := qc.Store.CourseByID(c.UserContext(), courseID)
	if err != nil {
		return storeError(c, err, "Course not found")
	}
	if course.TeacherID != middleware.UserID(c) {
		return utils.Forbidden(c, "Only the course author can add a quiz")
	}

	q := models.Quiz{CourseID: course.ID, Title: input.Title}
	for _, in := range input.Questions {
		q.Questions = append(q.Questions, models.Question{
			Text:               in.Text,
			Options:            in.Options,
			CorrectOptionIndex: *in.CorrectOptionIndex,
		})
	}

	if err := qc.Store.CreateQuiz(c.UserContext(), &q); err != nil {
		if errors.Is(err, store.ErrQuizExists) {
			return utils.Conflict(c, "Course already has a quiz")
		}
		return utils.InternalServerError(c, "Could not create quiz")
	}

	qc.publish(c, events.TypeQuizCreated, fiber.Map{"quiz_id": q.ID, "course_id": q.CourseID, "questions": len(q.Questions)})
	return utils.Created(c, quizView(&q, qc.perQuestion()))
}

// GetCourseQuiz returns the course quiz without its answers.
func (qc *QuizController) GetCourseQuiz(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}
	q, err := qc.Store.QuizByCourse(c.UserContext(), courseID)
	if err != nil {
		return storeError(c, err, "Quiz not found")
	}
	return utils.Success(c, fiber.StatusOK, quizView(q, qc.perQuestion()))
}

// SubmitQuiz grades a complete set of answers in one request, for clients
// that keep their own timer. Missing answers count as wrong.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	quizID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	var input SubmitRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	q, err := qc.Store.QuizByID(c.UserContext(), quizID)
	if err != nil {
		return storeError(c, err, "Quiz not found")
	}
	userID := middleware.UserID(c)
	if ok, err := qc.unlocked(c, userID, q.CourseID); !ok {
		return err
	}

	questions := gradable(q.Questions)
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = quiz.Unanswered
		if i < len(input.Answers) {
			answers[i] = input.Answers[i]
		}
	}
	correct := quiz.CountCorrect(answers, questions)
	result := models.QuizResult{
		UserID:         userID,
		QuizID:         q.ID,
		Score:          quiz.Percent(correct, len(questions)),
		TotalQuestions: len(questions),
		CorrectAnswers: correct,
		Answers:        answers,
		CompletedAt:    time.Now(),
	}
	if err := qc.Store.CreateResult(c.UserContext(), &result); err != nil {
		return utils.InternalServerError(c, "Could not save result")
	}
	qc.completed(c, &result)

	view := resultView(&result, q.Title)
	view["review"] = quiz.Review(answers, questions)
	return utils.Created(c, view)
}

// MyResults lists the caller's results, newest first.
func (qc *QuizController) MyResults(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	results, err := qc.Store.ResultsByUser(c.UserContext(), userID, 0)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}
	views, err := qc.resultViews(c, results)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}
	return utils.Success(c, fiber.StatusOK, views)
}

func (qc *QuizController) resultViews(c *fiber.Ctx, results []models.QuizResult) ([]fiber.Map, error) {
	ids := make([]uint, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.QuizID)
	}
	quizzes, err := qc.Store.QuizzesByID(c.UserContext(), ids)
	if err != nil {
		return nil, err
	}
	views := make([]fiber.Map, 0, len(results))
	for i := range results {
		q := quizzes[results[i].QuizID]
		view := resultView(&results[i], q.Title)
		view["course_id"] = q.CourseID
		views = append(views, view)
	}
	return views, nil
}

// QuizResults lists every result for a quiz. Only the course author may
// see them.
func (qc *QuizController) QuizResults(c *fiber.Ctx) error {
	quizID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid quiz ID")
	}
	q, err := qc.Store.QuizByID(c.UserContext(), quizID)
	if err != nil {
		return storeError(c, err, "Quiz not found")
	}
	course, err := qc.Store.CourseByID(c.UserContext(), q.CourseID)
	if err != nil {
		return storeError(c, err, "Course not found")
	}
	if course.TeacherID != middleware.UserID(c) {
		return utils.Forbidden(c, "Only the course author can see quiz results")
	}

	results, err := qc.Store.ResultsByQuiz(c.UserContext(), q.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}
	userIDs := make([]uint, 0, len(results))
	for _, r := range results {
		userIDs = append(userIDs, r.UserID)
	}
	users, err := qc.Store.UsersByID(c.UserContext(), userIDs)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}

	views := make([]fiber.Map, 0, len(results))
	total := 0
	for i := range results {
		view := resultView(&results[i], q.Title)
		view["student_name"] = users[results[i].UserID].Name
		views = append(views, view)
		total += results[i].Score
	}
	average := 0
	if len(results) > 0 {
		average = quiz.Percent(total, len(results)*100)
	}

	return utils.Success(c, fiber.StatusOK, views, fiber.Map{
		"attempts":      len(results),
		"average_score": average,
	})
}

// unlocked reports whether the user may take a quiz on the course. Students
// must have read the course material through; teachers always may.
func (qc *QuizController) unlocked(c *fiber.Ctx, userID, courseID uint) (bool, error) {
	if middleware.Role(c) == models.RoleTeacher {
		return true, nil
	}
	done, err := completedReading(c, qc.Store, userID, courseID)
	if err != nil {
		return false, storeError(c, err, "Course not found")
	}
	if !done {
		return false, utils.Forbidden(c, "Finish reading the course material to unlock the quiz")
	}
	return true, nil
}

// completed records metrics and publishes the event for a stored result.
func (qc *QuizController) completed(c *fiber.Ctx, r *models.QuizResult) {
	metrics.ObserveQuiz(r.Score, r.TimedOut)
	qc.publish(c, events.TypeQuizCompleted, fiber.Map{
		"result_id": r.ID,
		"quiz_id":   r.QuizID,
		"user_id":   r.UserID,
		"score":     r.Score,
		"timed_out": r.TimedOut,
	})
}

func (qc *QuizController) publish(c *fiber.Ctx, eventType string, payload interface{}) {
	if err := qc.Publisher.Publish(c.UserContext(), eventType, payload); err != nil {
		qc.Logger.Printf("publish %s: %v", eventType, err)
	}
}
