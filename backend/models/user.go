package models

import "gorm.io/gorm"

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Role         string `json:"role" gorm:"default:student"` // teacher, student
	AvatarURL    string `json:"avatar_url"`
}

func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
