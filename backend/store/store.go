// Package store persists users, courses, quizzes, attempts and results
// through GORM.
package store

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = stderrors.New("record not found")
	ErrDuplicate  = stderrors.New("record already exists")
	ErrQuizExists = stderrors.New("course already has a quiz")
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// wrap maps GORM errors onto the package sentinels and adds context.
func wrap(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, msg)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(ErrDuplicate, msg)
	default:
		return errors.Wrap(err, msg)
	}
}
