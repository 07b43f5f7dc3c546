// Package seed loads the demo teacher, student, courses and quizzes.
package seed

import (
	"bytes"
	"context"
	"errors"
	"log"

	"eduquiz/backend/models"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"

	"golang.org/x/crypto/bcrypt"
)

const demoPages = 5

type demoCourse struct {
	course models.Course
	quiz   models.Quiz
}

func users() []models.User {
	return []models.User{
		{Name: "John Teacher", Email: "teacher@example.com", Role: models.RoleTeacher, AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=John"},
		{Name: "Jane Student", Email: "student@example.com", Role: models.RoleStudent, AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Jane"},
	}
}

func courses() []demoCourse {
	return []demoCourse{
		{
			course: models.Course{
				Title:        "Introduction to React",
				Description:  "Learn the fundamentals of React including components, state, and props.",
				ThumbnailURL: "https://images.unsplash.com/photo-1633356122102-3fe601e05bd2?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			},
			quiz: models.Quiz{
				Title: "React Fundamentals Quiz",
				Questions: []models.Question{
					{Text: "What function allows you to update state in React?", Options: []string{"updateState()", "setState()", "changeState()", "modifyState()"}, CorrectOptionIndex: 1},
					{Text: "What is JSX?", Options: []string{"A JavaScript engine", "A database query language", "A syntax extension for JavaScript that looks like HTML", "A React-specific HTTP library"}, CorrectOptionIndex: 2},
					{Text: "What hook allows you to use state in a functional component?", Options: []string{"useEffect", "useContext", "useState", "useReducer"}, CorrectOptionIndex: 2},
				},
			},
		},
		{
			course: models.Course{
				Title:        "Advanced JavaScript",
				Description:  "Explore advanced JavaScript concepts like closures, prototypes and async programming.",
				ThumbnailURL: "https://images.unsplash.com/photo-1579468118864-1b9ea3c0db4a?w=800&auto=format&fit=crop&q=60&ixlib=rb-4.0.3",
			},
			quiz: models.Quiz{
				Title: "JavaScript Advanced Concepts",
				Questions: []models.Question{
					{Text: "What is a closure in JavaScript?", Options: []string{"A way to close browser windows", "A function that has access to variables from its outer scope", "A method to close database connections", "A way to terminate functions"}, CorrectOptionIndex: 1},
					{Text: "What does 'this' refer to in JavaScript?", Options: []string{"The current function", "The global object", "Depends on how the function is called", "The parent object"}, CorrectOptionIndex: 2},
				},
			},
		},
	}
}

// Run creates the demo data. Users that already exist are left alone and
// their courses are not created again, so running it twice is harmless.
func Run(ctx context.Context, st *store.Store, blobs storage.Blobs, password string, logger *log.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var teacher *models.User
	for _, u := range users() {
		u := u
		u.PasswordHash = string(hash)
		err := st.CreateUser(ctx, &u)
		if errors.Is(err, store.ErrDuplicate) {
			logger.Printf("seed: user %s exists, skipping", u.Email)
			continue
		}
		if err != nil {
			return err
		}
		logger.Printf("seed: created %s %s", u.Role, u.Email)
		if u.IsTeacher() {
			teacher = &u
		}
	}
	if teacher == nil {
		return nil
	}

	pdf := storage.BlankPDF(demoPages)
	for _, dc := range courses() {
		course := dc.course
		course.TeacherID = teacher.ID
		course.TeacherName = teacher.Name
		course.PDFKey = storage.CourseKey()
		course.PDFPages = demoPages

		if err := blobs.Put(ctx, course.PDFKey, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
			return err
		}
		if err := st.CreateCourse(ctx, &course); err != nil {
			return err
		}

		q := dc.quiz
		q.CourseID = course.ID
		if err := st.CreateQuiz(ctx, &q); err != nil {
			return err
		}
		logger.Printf("seed: created course %q with %d questions", course.Title, len(q.Questions))
	}
	return nil
}
