package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultThumbnailURL is used when a course is created without a thumbnail.
const DefaultThumbnailURL = "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=800&auto=format&fit=crop"

type Course struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description" gorm:"not null"`
	TeacherID    uint   `json:"teacher_id" gorm:"index"`
	TeacherName  string `json:"teacher_name"`
	PDFKey       string `json:"-"`
	PDFPages     int    `json:"pdf_pages"`
	ThumbnailURL string `json:"thumbnail_url"`
	Quiz         *Quiz  `json:"-"`
}

// ReadingProgress tracks how far a user has paged through a course PDF.
type ReadingProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_reading_user_course"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_reading_user_course"`
	Page        int        `json:"page"`
	TotalPages  int        `json:"total_pages"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
