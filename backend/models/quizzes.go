package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OptionsPerQuestion is the fixed number of choices on every question.
const OptionsPerQuestion = 4

type Quiz struct {
	gorm.Model
	CourseID  uint       `json:"course_id" gorm:"uniqueIndex"`
	Title     string     `json:"title" gorm:"not null"`
	Questions []Question `json:"questions" gorm:"constraint:OnDelete:CASCADE"`
}

type Question struct {
	gorm.Model
	QuizID             uint                        `json:"quiz_id" gorm:"index"`
	Position           int                         `json:"position"`
	Text               string                      `json:"text" gorm:"not null"`
	Options            datatypes.JSONSlice[string] `json:"options"`
	CorrectOptionIndex int                         `json:"correct_option_index"`
}

type QuizResult struct {
	gorm.Model
	UserID         uint                     `json:"user_id" gorm:"index"`
	QuizID         uint                     `json:"quiz_id" gorm:"index"`
	AttemptID      string                   `json:"attempt_id,omitempty" gorm:"index"`
	Score          int                      `json:"score"`
	TotalQuestions int                      `json:"total_questions"`
	CorrectAnswers int                      `json:"correct_answers"`
	Answers        datatypes.JSONSlice[int] `json:"answers"`
	TimedOut       bool                     `json:"timed_out"`
	CompletedAt    time.Time                `json:"completed_at"`
}

// QuizAttempt is the persisted state of a quiz being taken.
type QuizAttempt struct {
	ID           string                   `json:"id" gorm:"primaryKey;size:36"`
	UserID       uint                     `json:"user_id" gorm:"index"`
	QuizID       uint                     `json:"quiz_id" gorm:"index"`
	CurrentIndex int                      `json:"current_index"`
	Answers      datatypes.JSONSlice[int] `json:"answers"`
	StartedAt    time.Time                `json:"started_at"`
	Deadline     time.Time                `json:"deadline"`
	Finished     bool                     `json:"finished"`
	TimedOut     bool                     `json:"timed_out"`
	FinishedAt   *time.Time               `json:"finished_at,omitempty"`
	ResultID     *uint                    `json:"result_id,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}
