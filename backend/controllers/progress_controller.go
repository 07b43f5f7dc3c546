package controllers

import (
	"errors"
	"log"
	"time"

	"eduquiz/backend/events"
	"eduquiz/backend/metrics"
	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/reader"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// ProgressController pages a student through a course PDF.
type ProgressController struct {
	Store     *store.Store
	Publisher events.Publisher
	Logger    *log.Logger
}

func NewProgressController(st *store.Store, pub events.Publisher, logger *log.Logger) *ProgressController {
	return &ProgressController{Store: st, Publisher: pub, Logger: logger}
}

type MoveRequest struct {
	Offset *int `json:"offset" validate:"required"`
}

type GotoRequest struct {
	Page int `json:"page" validate:"required"`
}

// loadReading returns the stored progress, or a fresh one on the first page
// when the user has not opened the course yet.
func loadReading(c *fiber.Ctx, st *store.Store, userID uint, course *models.Course) (*models.ReadingProgress, *reader.Tracker, error) {
	total := course.PDFPages
	if total < 1 {
		total = 1
	}

	progress, err := st.ReadingProgress(c.UserContext(), userID, course.ID)
	if errors.Is(err, store.ErrNotFound) {
		progress = &models.ReadingProgress{UserID: userID, CourseID: course.ID, Page: 1, TotalPages: total}
	} else if err != nil {
		return nil, nil, err
	}

	tracker, err := reader.Restore(progress.Page, total, progress.Completed)
	if err != nil {
		return nil, nil, err
	}
	syncProgress(progress, tracker)
	return progress, tracker, nil
}

func syncProgress(p *models.ReadingProgress, t *reader.Tracker) {
	p.Page = t.Page()
	p.TotalPages = t.Total()
	if t.Completed() && !p.Completed {
		now := time.Now()
		p.Completed = true
		p.CompletedAt = &now
	}
}

func readingView(p *models.ReadingProgress) fiber.Map {
	return fiber.Map{
		"course_id":    p.CourseID,
		"page":         p.Page,
		"total_pages":  p.TotalPages,
		"progress":     p.Page * 100 / p.TotalPages,
		"completed":    p.Completed,
		"completed_at": p.CompletedAt,
	}
}

// completedReading reports whether the user has read the course through.
func completedReading(c *fiber.Ctx, st *store.Store, userID, courseID uint) (bool, error) {
	progress, err := st.ReadingProgress(c.UserContext(), userID, courseID)
	if errors.Is(err, store.ErrNotFound) {
		course, err := st.CourseByID(c.UserContext(), courseID)
		if err != nil {
			return false, err
		}
		return course.PDFPages <= 1, nil
	}
	if err != nil {
		return false, err
	}
	return progress.Completed, nil
}

func (pc *ProgressController) GetReading(c *fiber.Ctx) error {
	course, ok, err := pc.course(c)
	if !ok {
		return err
	}
	progress, _, err := loadReading(c, pc.Store, middleware.UserID(c), course)
	if err != nil {
		return utils.InternalServerError(c, "Could not load reading progress")
	}
	return utils.Success(c, fiber.StatusOK, readingView(progress))
}

// MovePage turns the page by a relative offset.
func (pc *ProgressController) MovePage(c *fiber.Ctx) error {
	var input MoveRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	return pc.step(c, func(t *reader.Tracker) (bool, error) { return t.Move(*input.Offset) })
}

// GotoPage jumps to an absolute page.
func (pc *ProgressController) GotoPage(c *fiber.Ctx) error {
	var input GotoRequest
	if ok, err := parseBody(c, &input); !ok {
		return err
	}
	return pc.step(c, func(t *reader.Tracker) (bool, error) { return t.Goto(input.Page) })
}

func (pc *ProgressController) step(c *fiber.Ctx, move func(*reader.Tracker) (bool, error)) error {
	course, ok, err := pc.course(c)
	if !ok {
		return err
	}
	userID := middleware.UserID(c)

	progress, tracker, err := loadReading(c, pc.Store, userID, course)
	if err != nil {
		return utils.InternalServerError(c, "Could not load reading progress")
	}
	wasCompleted := progress.Completed

	fired, err := move(tracker)
	if errors.Is(err, reader.ErrOutOfRange) {
		return utils.BadRequest(c, "Page out of range")
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not move page")
	}

	syncProgress(progress, tracker)
	if err := pc.Store.SaveReadingProgress(c.UserContext(), progress); err != nil {
		return utils.InternalServerError(c, "Could not save reading progress")
	}

	if fired && !wasCompleted {
		metrics.MaterialsCompleted.Inc()
		payload := fiber.Map{"course_id": course.ID, "user_id": userID, "total_pages": progress.TotalPages}
		if err := pc.Publisher.Publish(c.UserContext(), events.TypeMaterialCompleted, payload); err != nil {
			pc.Logger.Printf("publish %s: %v", events.TypeMaterialCompleted, err)
		}
	}

	view := readingView(progress)
	view["completion_fired"] = fired
	return utils.Success(c, fiber.StatusOK, view)
}

func (pc *ProgressController) course(c *fiber.Ctx) (*models.Course, bool, error) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return nil, false, utils.BadRequest(c, "Invalid course ID")
	}
	course, err := pc.Store.CourseByID(c.UserContext(), courseID)
	if err != nil {
		return nil, false, storeError(c, err, "Course not found")
	}
	return course, true, nil
}
