package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"eduquiz/backend/config"
	"eduquiz/backend/events"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"
	"eduquiz/backend/testutil"
	"eduquiz/backend/thumbnails"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app *fiber.App
	st  *store.Store
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		MaxPDFBytes:        1 << 20,
		SecondsPerQuestion: 30,
	}
	logger := log.New(io.Discard, "", 0)
	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	pub, err := events.NewPublisher("", "test", logger)
	require.NoError(t, err)

	env := &testEnv{
		st:  store.New(testutil.NewDB(t)),
		now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	env.app = NewApp(Deps{
		Store:      env.st,
		Cfg:        cfg,
		Blobs:      blobs,
		Pages:      storage.PDFPageCounter{},
		Publisher:  pub,
		Thumbnails: thumbnails.NewService(nil, nil, time.Hour, logger),
		Logger:     logger,
		Now:        func() time.Time { return env.now },
	}, false)
	return env
}

type response struct {
	Status int
	Body   map[string]interface{}
	Raw    []byte
	Header http.Header
}

func (r response) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (r response) list() []interface{} {
	l, _ := r.Body["data"].([]interface{})
	return l
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{Status: resp.StatusCode, Raw: raw, Header: resp.Header}
	_ = json.Unmarshal(raw, &out.Body)
	return out
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, name, email, role string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Raw))
	return resp.data()["token"].(string)
}

type upload struct {
	fields      map[string]string
	pdf         []byte
	contentType string
}

func (e *testEnv) upload(t *testing.T, token string, u upload) response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range u.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if u.pdf != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="pdf"; filename="course.pdf"`)
		ct := u.contentType
		if ct == "" {
			ct = "application/pdf"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(u.pdf)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/courses", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return e.send(t, req, token)
}

func (e *testEnv) createCourse(t *testing.T, token, title string, pages int) uint {
	t.Helper()
	resp := e.upload(t, token, upload{
		fields: map[string]string{"title": title, "description": "About " + title},
		pdf:    storage.BlankPDF(pages),
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Raw))
	return uint(resp.data()["id"].(float64))
}

func sampleQuizBody() map[string]interface{} {
	return map[string]interface{}{
		"title": "React Fundamentals Quiz",
		"questions": []map[string]interface{}{
			{"text": "What function allows you to update state in React?", "options": []string{"updateState()", "setState()", "changeState()", "modifyState()"}, "correct_option_index": 1},
			{"text": "What is JSX?", "options": []string{"An engine", "A query language", "A syntax extension", "An HTTP library"}, "correct_option_index": 2},
			{"text": "What hook allows you to use state?", "options": []string{"useEffect", "useContext", "useState", "useReducer"}, "correct_option_index": 2},
		},
	}
}

// createQuiz adds the sample quiz to a course and returns the quiz id.
func (e *testEnv) createQuiz(t *testing.T, token string, courseID uint) uint {
	t.Helper()
	resp := e.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/quiz", courseID), token, sampleQuizBody())
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Raw))
	return uint(resp.data()["id"].(float64))
}

func (e *testEnv) finishReading(t *testing.T, token string, courseID uint, pages int) {
	t.Helper()
	resp := e.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/reading/goto", courseID), token, map[string]int{"page": pages})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Raw))
	require.Equal(t, true, resp.data()["completed"])
}
