package store

import (
	"context"

	"eduquiz/backend/models"
)

func (s *Store) ReadingProgress(ctx context.Context, userID, courseID uint) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := s.DB.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, wrap(err, "find reading progress")
	}
	return &progress, nil
}

func (s *Store) SaveReadingProgress(ctx context.Context, progress *models.ReadingProgress) error {
	return wrap(s.DB.WithContext(ctx).Save(progress).Error, "save reading progress")
}

// CompletedCourses counts the courses a user has read through.
func (s *Store) CompletedCourses(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.ReadingProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).Count(&n).Error
	return n, wrap(err, "count completed courses")
}
