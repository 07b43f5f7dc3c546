package models

// All lists every table the application migrates.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&ReadingProgress{},
		&Quiz{},
		&Question{},
		&QuizResult{},
		&QuizAttempt{},
	}
}
