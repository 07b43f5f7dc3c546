package store

import (
	"context"
	"strings"

	"eduquiz/backend/models"

	"gorm.io/gorm"
)

// CourseFilter narrows ListCourses. Search matches title or description,
// ignoring case.
type CourseFilter struct {
	Search    string
	TeacherID uint
	Offset    int
	Limit     int
}

func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	return wrap(s.DB.WithContext(ctx).Create(course).Error, "create course")
}

func (s *Store) CourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.DB.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, wrap(err, "find course")
	}
	return &course, nil
}

// ListCourses returns one page of courses, newest first, and the total
// number of matches.
func (s *Store) ListCourses(ctx context.Context, f CourseFilter) ([]models.Course, int64, error) {
	query := s.DB.WithContext(ctx).Model(&models.Course{})

	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.TeacherID != 0 {
		query = query.Where("teacher_id = ?", f.TeacherID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count courses")
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		query = query.Offset(f.Offset).Limit(f.Limit)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, wrap(err, "list courses")
	}
	return courses, total, nil
}

// CoursesWithQuiz reports which of the given courses have a quiz.
func (s *Store) CoursesWithQuiz(ctx context.Context, courseIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := s.DB.WithContext(ctx).Model(&models.Quiz{}).
		Where("course_id IN ?", courseIDs).
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, wrap(err, "find quizzes for courses")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
