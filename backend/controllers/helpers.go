package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"eduquiz/backend/models"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// storeError answers for an error returned by the store.
func storeError(c *fiber.Ctx, err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return utils.NotFound(c, notFound)
	case errors.Is(err, store.ErrDuplicate):
		return utils.Conflict(c, "Already exists")
	default:
		return utils.InternalServerError(c, "Could not query database")
	}
}

// parseBody decodes and validates a JSON request body. It returns false
// after having written the error response.
func parseBody(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.Validate(dst); errs != nil {
		return false, utils.ValidationError(c, errs)
	}
	return true, nil
}

func userView(u *models.User) fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt,
	}
}

func courseView(course *models.Course, hasQuiz bool) fiber.Map {
	return fiber.Map{
		"id":            course.ID,
		"title":         course.Title,
		"description":   course.Description,
		"teacher_id":    course.TeacherID,
		"teacher_name":  course.TeacherName,
		"pdf_pages":     course.PDFPages,
		"pdf_url":       fmt.Sprintf("/api/courses/%d/pdf", course.ID),
		"thumbnail_url": course.ThumbnailURL,
		"has_quiz":      hasQuiz,
		"created_at":    course.CreatedAt,
	}
}
