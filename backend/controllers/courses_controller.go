package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"strings"

	"eduquiz/backend/config"
	"eduquiz/backend/events"
	"eduquiz/backend/metrics"
	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
	featuredCount   = 3
	pdfContentType  = "application/pdf"
)

type CoursesController struct {
	Store     *store.Store
	Cfg       *config.Config
	Blobs     storage.Blobs
	Pages     storage.PageCounter
	Publisher events.Publisher
	Logger    *log.Logger
}

func NewCoursesController(st *store.Store, cfg *config.Config, blobs storage.Blobs, pages storage.PageCounter, pub events.Publisher, logger *log.Logger) *CoursesController {
	return &CoursesController{Store: st, Cfg: cfg, Blobs: blobs, Pages: pages, Publisher: pub, Logger: logger}
}

type CreateCourseRequest struct {
	Title        string `form:"title" validate:"required,max=200"`
	Description  string `form:"description" validate:"required"`
	ThumbnailURL string `form:"thumbnail_url" validate:"omitempty,url"`
}

// ListCourses godoc
// @Summary List courses
// @Description Newest first, filtered by a case-insensitive search on title and description
// @Tags courses
// @Produce json
// @Param search query string false "Search text"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.PaginatedResponse
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	page, pageSize := utils.PageParams(c, defaultPageSize, maxPageSize)

	courses, total, err := cc.Store.ListCourses(c.UserContext(), store.CourseFilter{
		Search: c.Query("search"),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}

	views, err := cc.views(c, courses)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}
	return utils.Paginate(c, views, total, page, pageSize)
}

// FeaturedCourses returns the newest courses for the home page.
func (cc *CoursesController) FeaturedCourses(c *fiber.Ctx) error {
	courses, _, err := cc.Store.ListCourses(c.UserContext(), store.CourseFilter{Limit: featuredCount})
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}
	views, err := cc.views(c, courses)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}
	return utils.Success(c, fiber.StatusOK, views)
}

func (cc *CoursesController) views(c *fiber.Ctx, courses []models.Course) ([]fiber.Map, error) {
	ids := make([]uint, len(courses))
	for i := range courses {
		ids[i] = courses[i].ID
	}
	hasQuiz, err := cc.Store.CoursesWithQuiz(c.UserContext(), ids)
	if err != nil {
		return nil, err
	}
	views := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		views = append(views, courseView(&courses[i], hasQuiz[courses[i].ID]))
	}
	return views, nil
}

// GetCourseDetails returns the course, its quiz id if any, and the
// caller's reading progress.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := cc.Store.CourseByID(c.UserContext(), courseID)
	if err != nil {
		return storeError(c, err, "Course not found")
	}

	view := courseView(course, false)
	quiz, err := cc.Store.QuizByCourse(c.UserContext(), courseID)
	switch {
	case err == nil:
		view["has_quiz"] = true
		view["quiz_id"] = quiz.ID
		view["question_count"] = len(quiz.Questions)
	case !errors.Is(err, store.ErrNotFound):
		return utils.InternalServerError(c, "Could not query database")
	}

	progress, _, err := loadReading(c, cc.Store, middleware.UserID(c), course)
	if err != nil {
		return utils.InternalServerError(c, "Could not load reading progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course":  view,
		"reading": readingView(progress),
	})
}

// CreateCourse godoc
// @Summary Create a course
// @Description Multipart upload of the course PDF with its title and description
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param thumbnail_url formData string false "Thumbnail URL"
// @Param pdf formData file true "Course PDF"
// @Success 201 {object} utils.SuccessResponse
// @Failure 413 {object} utils.ErrorResponse
// @Failure 415 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CreateCourseRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse form")
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if errs := utils.Validate(&input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	file, err := c.FormFile("pdf")
	if err != nil {
		return utils.ValidationError(c, map[string]string{"pdf": "this field is required"})
	}
	if mediaType, _, _ := mime.ParseMediaType(file.Header.Get(fiber.HeaderContentType)); mediaType != pdfContentType {
		return utils.Error(c, fiber.StatusUnsupportedMediaType, fmt.Errorf("pdf must be %s", pdfContentType))
	}
	if file.Size > cc.Cfg.MaxPDFBytes {
		return utils.Error(c, fiber.StatusRequestEntityTooLarge, fmt.Errorf("pdf must be at most %d MB", cc.Cfg.MaxPDFBytes>>20))
	}

	f, err := file.Open()
	if err != nil {
		return utils.BadRequest(c, "Cannot read uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, cc.Cfg.MaxPDFBytes+1))
	if err != nil {
		return utils.BadRequest(c, "Cannot read uploaded file")
	}
	if int64(len(data)) > cc.Cfg.MaxPDFBytes {
		return utils.Error(c, fiber.StatusRequestEntityTooLarge, fmt.Errorf("pdf must be at most %d MB", cc.Cfg.MaxPDFBytes>>20))
	}

	pages, err := cc.Pages.CountPages(data)
	if err != nil {
		return utils.ValidationError(c, map[string]string{"pdf": "must be a readable PDF"})
	}

	teacher, err := cc.Store.UserByID(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return storeError(c, err, "User not found")
	}

	key := storage.CourseKey()
	if err := cc.Blobs.Put(c.UserContext(), key, bytes.NewReader(data), int64(len(data)), pdfContentType); err != nil {
		cc.Logger.Printf("store course pdf: %v", err)
		return utils.InternalServerError(c, "Could not store PDF")
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		TeacherID:    teacher.ID,
		TeacherName:  teacher.Name,
		PDFKey:       key,
		PDFPages:     pages,
		ThumbnailURL: input.ThumbnailURL,
	}
	if course.ThumbnailURL == "" {
		course.ThumbnailURL = models.DefaultThumbnailURL
	}
	if err := cc.Store.CreateCourse(c.UserContext(), &course); err != nil {
		if derr := cc.Blobs.Delete(c.UserContext(), key); derr != nil {
			cc.Logger.Printf("remove orphaned pdf %s: %v", key, derr)
		}
		return utils.InternalServerError(c, "Could not create course")
	}

	metrics.CoursesCreated.Inc()
	cc.publish(c, events.TypeCourseCreated, fiber.Map{
		"course_id":  course.ID,
		"teacher_id": course.TeacherID,
		"title":      course.Title,
		"pdf_pages":  course.PDFPages,
	})

	return utils.Created(c, courseView(&course, false))
}

// GetCoursePDF streams the stored course material.
func (cc *CoursesController) GetCoursePDF(c *fiber.Ctx) error {
	courseID, ok := paramID(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid course ID")
	}
	course, err := cc.Store.CourseByID(c.UserContext(), courseID)
	if err != nil {
		return storeError(c, err, "Course not found")
	}

	r, err := cc.Blobs.Open(c.UserContext(), course.PDFKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return utils.NotFound(c, "Course material not found")
		}
		cc.Logger.Printf("open course pdf %s: %v", course.PDFKey, err)
		return utils.InternalServerError(c, "Could not open PDF")
	}

	c.Set(fiber.HeaderContentType, pdfContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="course-%d.pdf"`, course.ID))
	return c.SendStream(r)
}

func (cc *CoursesController) publish(c *fiber.Ctx, eventType string, payload interface{}) {
	if err := cc.Publisher.Publish(c.UserContext(), eventType, payload); err != nil {
		cc.Logger.Printf("publish %s: %v", eventType, err)
	}
}
