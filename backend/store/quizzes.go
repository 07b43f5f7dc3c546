package store

import (
	"context"

	"eduquiz/backend/models"

	"gorm.io/gorm"
)

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// CreateQuiz stores a quiz and its questions. A course holds at most one quiz.
func (s *Store) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Quiz{}).Where("course_id = ?", quiz.CourseID).Count(&count).Error; err != nil {
			return wrap(err, "count quizzes for course")
		}
		if count > 0 {
			return wrap(ErrQuizExists, "create quiz")
		}
		for i := range quiz.Questions {
			quiz.Questions[i].Position = i
		}
		return wrap(tx.Create(quiz).Error, "create quiz")
	})
}

func (s *Store) QuizByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := s.DB.WithContext(ctx).Preload("Questions", orderedQuestions).First(&quiz, id).Error; err != nil {
		return nil, wrap(err, "find quiz")
	}
	return &quiz, nil
}

func (s *Store) QuizByCourse(ctx context.Context, courseID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.DB.WithContext(ctx).Preload("Questions", orderedQuestions).
		Where("course_id = ?", courseID).First(&quiz).Error
	if err != nil {
		return nil, wrap(err, "find quiz for course")
	}
	return &quiz, nil
}

// QuizzesByID loads quizzes without their questions, keyed by id.
func (s *Store) QuizzesByID(ctx context.Context, ids []uint) (map[uint]models.Quiz, error) {
	out := make(map[uint]models.Quiz, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var quizzes []models.Quiz
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&quizzes).Error; err != nil {
		return nil, wrap(err, "find quizzes")
	}
	for _, q := range quizzes {
		out[q.ID] = q
	}
	return out, nil
}
