package store

import (
	"context"
	"time"

	"eduquiz/backend/models"

	"gorm.io/gorm"
)

func (s *Store) CreateResult(ctx context.Context, result *models.QuizResult) error {
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}
	return wrap(s.DB.WithContext(ctx).Create(result).Error, "create quiz result")
}

func (s *Store) ResultByID(ctx context.Context, id uint) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := s.DB.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, wrap(err, "find quiz result")
	}
	return &result, nil
}

// ResultsByUser returns a user's results, newest first. limit <= 0 means all.
func (s *Store) ResultsByUser(ctx context.Context, userID uint, limit int) ([]models.QuizResult, error) {
	query := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("completed_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var results []models.QuizResult
	if err := query.Find(&results).Error; err != nil {
		return nil, wrap(err, "list results for user")
	}
	return results, nil
}

func (s *Store) ResultsByQuiz(ctx context.Context, quizID uint) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := s.DB.WithContext(ctx).Where("quiz_id = ?", quizID).
		Order("completed_at DESC").Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, wrap(err, "list results for quiz")
	}
	return results, nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return wrap(s.DB.WithContext(ctx).Create(attempt).Error, "create attempt")
}

func (s *Store) AttemptByID(ctx context.Context, id string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&attempt).Error; err != nil {
		return nil, wrap(err, "find attempt")
	}
	return &attempt, nil
}

func (s *Store) SaveAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return wrap(s.DB.WithContext(ctx).Save(attempt).Error, "save attempt")
}

// FinishAttempt stores the result and links it to the attempt atomically.
// If the attempt already has a result, that result is loaded into result
// and created is false.
func (s *Store) FinishAttempt(ctx context.Context, attempt *models.QuizAttempt, result *models.QuizResult) (created bool, err error) {
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.QuizAttempt
		if err := tx.Where("id = ?", attempt.ID).First(&current).Error; err != nil {
			return wrap(err, "reload attempt")
		}
		if current.ResultID != nil {
			if err := tx.First(result, *current.ResultID).Error; err != nil {
				return wrap(err, "load existing result")
			}
			*attempt = current
			return nil
		}
		if err := tx.Create(result).Error; err != nil {
			return wrap(err, "create quiz result")
		}
		attempt.ResultID = &result.ID
		created = true
		return wrap(tx.Save(attempt).Error, "save finished attempt")
	})
	return created, err
}
