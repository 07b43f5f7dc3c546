package routes

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quizFixture struct {
	env      *testEnv
	teacher  string
	student  string
	courseID uint
	quizID   uint
}

func newQuizFixture(t *testing.T) *quizFixture {
	env := newTestEnv(t)
	f := &quizFixture{
		env:     env,
		teacher: env.register(t, "John Teacher", "teacher@example.com", "teacher"),
		student: env.register(t, "Jane Student", "student@example.com", "student"),
	}
	f.courseID = env.createCourse(t, f.teacher, "Introduction to React", 3)
	f.quizID = env.createQuiz(t, f.teacher, f.courseID)
	return f
}

func (f *quizFixture) start(t *testing.T) string {
	t.Helper()
	resp := f.env.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/attempts", f.quizID), f.student, nil)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Raw))
	return resp.data()["id"].(string)
}

func (f *quizFixture) attempt(t *testing.T, id, action string, body interface{}) response {
	t.Helper()
	method, path := http.MethodPost, "/api/attempts/"+id+"/"+action
	if action == "" {
		method, path = http.MethodGet, "/api/attempts/"+id
	}
	return f.env.do(t, method, path, f.student, body)
}

func TestCreateQuiz_Validation(t *testing.T) {
	f := newQuizFixture(t)
	otherCourse := f.env.createCourse(t, f.teacher, "Advanced JavaScript", 2)
	path := fmt.Sprintf("/api/courses/%d/quiz", otherCourse)

	threeOptions := sampleQuizBody()
	threeOptions["questions"] = []map[string]interface{}{
		{"text": "Q?", "options": []string{"a", "b", "c"}, "correct_option_index": 0},
	}
	badIndex := sampleQuizBody()
	badIndex["questions"] = []map[string]interface{}{
		{"text": "Q?", "options": []string{"a", "b", "c", "d"}, "correct_option_index": 4},
	}
	blankOption := sampleQuizBody()
	blankOption["questions"] = []map[string]interface{}{
		{"text": "Q?", "options": []string{"a", " ", "c", "d"}, "correct_option_index": 0},
	}
	noQuestions := sampleQuizBody()
	noQuestions["questions"] = []map[string]interface{}{}

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"three options", threeOptions, "questions[0].options"},
		{"correct index out of range", badIndex, "questions[0].correct_option_index"},
		{"blank option", blankOption, "questions[0].options[1]"},
		{"no questions", noQuestions, "questions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.env.do(t, http.MethodPost, path, f.teacher, tt.body)
			require.Equal(t, fiber.StatusUnprocessableEntity, resp.Status, string(resp.Raw))
			assert.Contains(t, resp.Body["details"], tt.field)
		})
	}
}

func TestCreateQuiz_AuthorOnlyAndOnce(t *testing.T) {
	f := newQuizFixture(t)
	other := f.env.register(t, "Other Teacher", "other@example.com", "teacher")
	path := fmt.Sprintf("/api/courses/%d/quiz", f.courseID)

	resp := f.env.do(t, http.MethodPost, path, f.teacher, sampleQuizBody())
	assert.Equal(t, fiber.StatusConflict, resp.Status)

	otherCourse := f.env.createCourse(t, f.teacher, "Advanced JavaScript", 2)
	resp = f.env.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/quiz", otherCourse), other, sampleQuizBody())
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = f.env.do(t, http.MethodPost, path, f.student, sampleQuizBody())
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
}

func TestGetCourseQuiz_HidesAnswers(t *testing.T) {
	f := newQuizFixture(t)

	resp := f.env.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d/quiz", f.courseID), f.student, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.EqualValues(t, 90, resp.data()["time_limit_seconds"])
	questions := resp.data()["questions"].([]interface{})
	require.Len(t, questions, 3)
	first := questions[0].(map[string]interface{})
	assert.Equal(t, "What function allows you to update state in React?", first["text"])
	assert.NotContains(t, first, "correct_option_index")
	assert.NotContains(t, string(resp.Raw), "correct")
}

func TestStartAttempt_LockedUntilRead(t *testing.T) {
	f := newQuizFixture(t)

	resp := f.env.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/attempts", f.quizID), f.student, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = f.env.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/attempts", f.quizID), f.teacher, nil)
	assert.Equal(t, fiber.StatusCreated, resp.Status, "teachers can preview their quiz")

	f.env.finishReading(t, f.student, f.courseID, 3)
	f.start(t)
}

func TestAttempt_FullRun(t *testing.T) {
	f := newQuizFixture(t)
	f.env.finishReading(t, f.student, f.courseID, 3)
	id := f.start(t)

	resp := f.attempt(t, id, "", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.EqualValues(t, 90, resp.data()["time_left_seconds"])
	assert.Equal(t, "1:30", resp.data()["clock"])
	assert.EqualValues(t, 0, resp.data()["current"])

	resp = f.attempt(t, id, "next", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status, "next needs an answer")

	resp = f.attempt(t, id, "select", map[string]int{"option": 4})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	f.env.now = f.env.now.Add(10 * time.Second)
	for _, step := range []struct {
		action string
		body   interface{}
	}{
		{"select", map[string]int{"option": 1}},
		{"next", nil},
		{"previous", nil},
		{"next", nil},
		{"select", map[string]int{"option": 2}},
		{"next", nil},
		{"select", map[string]int{"option": 0}},
	} {
		resp = f.attempt(t, id, step.action, step.body)
		require.Equal(t, fiber.StatusOK, resp.Status, "%s: %s", step.action, resp.Raw)
	}
	assert.EqualValues(t, 2, resp.data()["current"])
	assert.Equal(t, true, resp.data()["is_last"])
	assert.EqualValues(t, 80, resp.data()["time_left_seconds"])

	resp = f.attempt(t, id, "next", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, resp.data()["finished"])
	result := resp.data()["result"].(map[string]interface{})
	assert.EqualValues(t, 67, result["score"])
	assert.EqualValues(t, 2, result["correct_answers"])
	assert.Equal(t, false, result["timed_out"])
	assert.Len(t, result["review"], 3)

	resp = f.attempt(t, id, "select", map[string]int{"option": 1})
	assert.Equal(t, fiber.StatusConflict, resp.Status)

	resp = f.env.do(t, http.MethodGet, "/api/results", f.student, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	results := resp.list()
	require.Len(t, results, 1)
	mine := results[0].(map[string]interface{})
	assert.Equal(t, "React Fundamentals Quiz", mine["quiz_title"])
	assert.EqualValues(t, f.courseID, mine["course_id"])
	assert.EqualValues(t, 67, mine["score"])
}

func TestAttempt_ExpiresAtDeadline(t *testing.T) {
	f := newQuizFixture(t)
	f.env.finishReading(t, f.student, f.courseID, 3)
	id := f.start(t)

	resp := f.attempt(t, id, "select", map[string]int{"option": 1})
	require.Equal(t, fiber.StatusOK, resp.Status)

	f.env.now = f.env.now.Add(90 * time.Second)
	resp = f.attempt(t, id, "select", map[string]int{"option": 2})
	require.Equal(t, fiber.StatusConflict, resp.Status)
	view := resp.Body["details"].(map[string]interface{})
	assert.Equal(t, true, view["finished"])
	assert.Equal(t, "0:00", view["clock"])
	result := view["result"].(map[string]interface{})
	assert.Equal(t, true, result["timed_out"])
	assert.EqualValues(t, 33, result["score"])

	resp = f.attempt(t, id, "", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, true, resp.data()["finished"])

	results, err := f.env.st.ResultsByQuiz(context.Background(), f.quizID)
	require.NoError(t, err)
	require.Len(t, results, 1, "an attempt stores one result")
	assert.True(t, results[0].TimedOut)
}

func TestAttempt_OtherUsersAttemptIsHidden(t *testing.T) {
	f := newQuizFixture(t)
	f.env.finishReading(t, f.student, f.courseID, 3)
	id := f.start(t)
	other := f.env.register(t, "Sam", "sam@example.com", "student")

	resp := f.env.do(t, http.MethodGet, "/api/attempts/"+id, other, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestSubmitQuiz(t *testing.T) {
	f := newQuizFixture(t)
	path := fmt.Sprintf("/api/quizzes/%d/submit", f.quizID)

	resp := f.env.do(t, http.MethodPost, path, f.student, map[string][]int{"answers": {1, 2, 2}})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	f.env.finishReading(t, f.student, f.courseID, 3)

	resp = f.env.do(t, http.MethodPost, path, f.student, map[string][]int{"answers": {1, 7}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.Status)

	resp = f.env.do(t, http.MethodPost, path, f.student, map[string][]int{"answers": {1, -1}})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Raw))
	assert.EqualValues(t, 33, resp.data()["score"])
	assert.Equal(t, []interface{}{1.0, -1.0, -1.0}, resp.data()["answers"])
	assert.Len(t, resp.data()["review"], 3)
}

func TestQuizResults_AuthorOnly(t *testing.T) {
	f := newQuizFixture(t)
	f.env.finishReading(t, f.student, f.courseID, 3)
	path := fmt.Sprintf("/api/quizzes/%d/submit", f.quizID)
	f.env.do(t, http.MethodPost, path, f.student, map[string][]int{"answers": {1, 2, 2}})
	f.env.do(t, http.MethodPost, path, f.student, map[string][]int{"answers": {1, 0, 0}})

	resp := f.env.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/results", f.quizID), f.teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.list(), 2)
	assert.Equal(t, "Jane Student", resp.list()[0].(map[string]interface{})["student_name"])
	meta := resp.Body["meta"].(map[string]interface{})
	assert.EqualValues(t, 2, meta["attempts"])
	assert.EqualValues(t, 67, meta["average_score"])

	other := f.env.register(t, "Other Teacher", "other@example.com", "teacher")
	resp = f.env.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/results", f.quizID), other, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = f.env.do(t, http.MethodGet, fmt.Sprintf("/api/quizzes/%d/results", f.quizID), f.student, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
}

func TestDashboard(t *testing.T) {
	f := newQuizFixture(t)
	f.env.finishReading(t, f.student, f.courseID, 3)
	f.env.do(t, http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", f.quizID), f.student, map[string][]int{"answers": {1, 2, 0}})

	resp := f.env.do(t, http.MethodGet, "/api/dashboard", f.student, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	data := resp.data()
	assert.Len(t, data["available_courses"], 1)
	assert.NotContains(t, data, "my_courses")

	recent := data["recent_results"].([]interface{})
	require.Len(t, recent, 1)
	first := recent[0].(map[string]interface{})
	assert.Equal(t, "React Fundamentals Quiz", first["quiz_title"])
	assert.Equal(t, "2 of 3 correct", first["correct_label"])

	stats := data["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["quizzes_taken"])
	assert.EqualValues(t, 67, stats["average_score"])
	assert.EqualValues(t, 1, stats["courses_completed"])

	resp = f.env.do(t, http.MethodGet, "/api/dashboard", f.teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Len(t, resp.data()["my_courses"], 1)
}
