package controllers

import (
	"fmt"

	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/quiz"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	dashboardCourses = 6
	dashboardResults = 5
)

type OverviewController struct {
	Courses *CoursesController
	Quizzes *QuizController
}

func NewOverviewController(courses *CoursesController, quizzes *QuizController) *OverviewController {
	return &OverviewController{Courses: courses, Quizzes: quizzes}
}

// Dashboard returns the caller's home screen: available courses, recent
// quiz results with their quiz titles, and summary stats. Teachers also get
// the courses they authored.
func (oc *OverviewController) Dashboard(c *fiber.Ctx) error {
	st := oc.Courses.Store
	userID := middleware.UserID(c)

	courses, _, err := st.ListCourses(c.UserContext(), store.CourseFilter{Limit: dashboardCourses})
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}
	available, err := oc.Courses.views(c, courses)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}

	results, err := st.ResultsByUser(c.UserContext(), userID, 0)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}
	recent := results
	if len(recent) > dashboardResults {
		recent = recent[:dashboardResults]
	}
	recentViews, err := oc.Quizzes.resultViews(c, recent)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch results")
	}
	for _, v := range recentViews {
		v["correct_label"] = correctLabel(v)
	}

	completed, err := st.CompletedCourses(c.UserContext(), userID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	average := 0
	if len(results) > 0 {
		sum := 0
		for _, r := range results {
			sum += r.Score
		}
		average = quiz.Percent(sum, len(results)*100)
	}

	data := fiber.Map{
		"available_courses": available,
		"recent_results":    recentViews,
		"stats": fiber.Map{
			"quizzes_taken":     len(results),
			"average_score":     average,
			"courses_completed": completed,
		},
	}

	if middleware.Role(c) == models.RoleTeacher {
		own, _, err := st.ListCourses(c.UserContext(), store.CourseFilter{TeacherID: userID})
		if err != nil {
			return utils.InternalServerError(c, "Failed to fetch courses")
		}
		ownViews, err := oc.Courses.views(c, own)
		if err != nil {
			return utils.InternalServerError(c, "Failed to fetch courses")
		}
		data["my_courses"] = ownViews
	}

	return utils.Success(c, fiber.StatusOK, data)
}

// correctLabel renders "N of M correct" from a result view.
func correctLabel(v fiber.Map) string {
	score, _ := v["score"].(int)
	total, _ := v["total_questions"].(int)
	return fmt.Sprintf("%d of %d correct", quiz.CorrectFromScore(score, total), total)
}
