package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/quizforge/quizd/internal/api/http"
	"github.com/quizforge/quizd/internal/auth"
	"github.com/quizforge/quizd/internal/db"
	"github.com/quizforge/quizd/internal/quiz"
	"github.com/quizforge/quizd/internal/users"
)

func newTestAPI(t *testing.T, opts api.RouterOpts) http.Handler {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dbh, err := db.Open(context.Background(), db.DriverSQLite,
		fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	seed := []string{
		`INSERT INTO course (course_code, subject, quiz_code) VALUES
			(1,'python','Quiz 1'),(2,'python','Quiz 2'),
			(3,'java','Quiz 1'),(4,'java','Quiz 2'),
			(5,'CPP','Quiz 1'),(6,'CPP','Quiz 2')`,
		`INSERT INTO questions (question_id, test_id, question, choice_a, choice_b, choice_c, choice_d, correct_choice)
			VALUES (1,1,'q1','a','b','c','d','B'), (2,1,'q2','a','b','c','d','B')`,
	}
	for _, stmt := range seed {
		if _, err := dbh.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	mapping, err := quiz.ParseSubjectMapping("python:1,2;java:3,4;cpp:5,6")
	if err != nil {
		t.Fatal(err)
	}
	return api.NewRouter(users.NewStore(dbh), quiz.NewSQLStore(dbh, mapping, true), opts)
}

func doJSON(t *testing.T, h http.Handler, method, target string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func registerUser(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/create",
		map[string]string{"email": username + "@example.com", "username": username, "password": "hunter2"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/create %s: status %d body %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		UserID string `json:"user_id"`
	}
	decode(t, rec, &resp)
	return resp.UserID
}

func TestRegisterLoginFlow(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})

	id := registerUser(t, h, "alice")
	if id == "" {
		t.Fatal("empty user_id from /create")
	}

	rec := doJSON(t, h, http.MethodPost, "/create",
		map[string]string{"email": "b@example.com", "username": "alice", "password": "x"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate /create status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/login",
		map[string]string{"username": "alice", "password": "hunter2"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/login status = %d", rec.Code)
	}
	var login struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
	}
	decode(t, rec, &login)
	if login.UserID != id || login.Username != "alice" {
		t.Errorf("login = %+v, want id %s", login, id)
	}

	rec = doJSON(t, h, http.MethodPost, "/login",
		map[string]string{"username": "alice", "password": "nope"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
}

func TestResetPassword(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})
	registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodPost, "/reset_password",
		map[string]string{"username": "ghost", "password": "x"}, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/reset_password",
		map[string]string{"username": "alice", "password": "new-pass"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/login",
		map[string]string{"username": "alice", "password": "hunter2"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("old password after reset: status = %d, want 401", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/login",
		map[string]string{"username": "alice", "password": "new-pass"}, "")
	if rec.Code != http.StatusOK {
		t.Errorf("new password after reset: status = %d, want 200", rec.Code)
	}
}

func TestResetPasswordRequiresOld(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{RequireOldPassword: true})
	registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodPost, "/reset_password",
		map[string]string{"username": "alice", "password": "new-pass", "old_password": "wrong"}, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong old password status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/reset_password",
		map[string]string{"username": "alice", "password": "new-pass", "old_password": "hunter2"}, "")
	if rec.Code != http.StatusOK {
		t.Errorf("correct old password status = %d, want 200", rec.Code)
	}
}

func TestCheckUsername(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})
	registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodGet, "/check_username", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing param status = %d, want 400", rec.Code)
	}

	var resp struct {
		Exists bool `json:"exists"`
	}
	rec = doJSON(t, h, http.MethodGet, "/check_username?username=alice", nil, "")
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || !resp.Exists {
		t.Errorf("known user: status %d exists %v", rec.Code, resp.Exists)
	}

	rec = doJSON(t, h, http.MethodGet, "/check_username?username=ghost", nil, "")
	decode(t, rec, &resp)
	if rec.Code != http.StatusNotFound || resp.Exists {
		t.Errorf("unknown user: status %d exists %v", rec.Code, resp.Exists)
	}
}

func TestQuestions(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})
	id := registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodGet, "/questions?testId=1&userId="+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Questions []quiz.Question `json:"questions"`
		UserID    string          `json:"user_id"`
		TestID    int64           `json:"test_id"`
	}
	decode(t, rec, &resp)
	if len(resp.Questions) != 2 || resp.UserID != id || resp.TestID != 1 {
		t.Errorf("resp = %+v, want 2 questions echoed for user %s test 1", resp, id)
	}
}

func TestSubmitAnswerAndScores(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})
	id := registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodPost, "/submit_answer",
		map[string]interface{}{"test_id": 1, "user_id": id, "question_id": 99, "answer": "B"}, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown question status = %d, want 404", rec.Code)
	}

	var scored struct {
		Score int `json:"score"`
	}
	rec = doJSON(t, h, http.MethodPost, "/submit_answer",
		map[string]interface{}{"test_id": 1, "user_id": id, "question_id": 1, "answer": "B"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d body %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &scored)
	if scored.Score != 1 {
		t.Errorf("score = %d, want 1", scored.Score)
	}

	rec = doJSON(t, h, http.MethodPost, "/submit_answer",
		map[string]interface{}{"test_id": 1, "user_id": id, "question_id": 2, "answer": "C"}, "")
	decode(t, rec, &scored)
	if scored.Score != 0 {
		t.Errorf("wrong answer score = %d, want 0", scored.Score)
	}

	rec = doJSON(t, h, http.MethodGet, "/summary", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("summary without userId status = %d, want 400", rec.Code)
	}
	var sum quiz.Summary
	rec = doJSON(t, h, http.MethodGet, "/summary?userId="+id, nil, "")
	decode(t, rec, &sum)
	if sum.QuizzesAttempted != 1 || sum.AverageScore != 10 {
		t.Errorf("summary = %+v, want 1 quiz at 10", sum)
	}

	var attempted struct {
		Attempted bool `json:"attempted"`
	}
	rec = doJSON(t, h, http.MethodGet, "/quiz_attempted?userId="+id+"&testId=1", nil, "")
	decode(t, rec, &attempted)
	if !attempted.Attempted {
		t.Error("quiz_attempted = false after submissions")
	}
	rec = doJSON(t, h, http.MethodGet, "/quiz_attempted?userId="+id, nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("quiz_attempted missing testId status = %d, want 400", rec.Code)
	}

	var bySubject map[string]quiz.SubjectAttempts
	rec = doJSON(t, h, http.MethodGet, "/attempts_and_scores?userId="+id, nil, "")
	decode(t, rec, &bySubject)
	if bySubject["python"].Attempted != 1 || bySubject["java"].Attempted != 0 {
		t.Errorf("attempts_and_scores = %+v", bySubject)
	}
}

func TestCourseWiseScoresNoGuard(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})

	// No userId at all: still 200 with one all-null row per subject.
	rec := doJSON(t, h, http.MethodGet, "/course_wise_scores", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []quiz.CourseScore
	decode(t, rec, &rows)
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	for _, row := range rows {
		if row.Quiz1Score != nil || row.Quiz2Score != nil || row.AvgScore != nil {
			t.Errorf("%s: expected all-null scores, got %+v", row.Subject, row)
		}
	}
}

func TestGetUsername(t *testing.T) {
	h := newTestAPI(t, api.RouterOpts{})
	id := registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodGet, "/get_username", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing userId status = %d, want 400", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/get_username?userId=no-such", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown userId status = %d, want 404", rec.Code)
	}
	var resp struct {
		Username string `json:"username"`
	}
	rec = doJSON(t, h, http.MethodGet, "/get_username?userId="+id, nil, "")
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Username != "alice" {
		t.Errorf("status %d username %q, want alice", rec.Code, resp.Username)
	}
}

func TestTokenAuth(t *testing.T) {
	svc := auth.NewService("test-secret")
	h := newTestAPI(t, api.RouterOpts{Tokens: svc})

	rec := doJSON(t, h, http.MethodPost, "/create",
		map[string]string{"email": "a@example.com", "username": "alice", "password": "hunter2"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("/create status = %d", rec.Code)
	}
	var created struct {
		UserID string `json:"user_id"`
		Token  string `json:"access_token"`
	}
	decode(t, rec, &created)
	if created.Token == "" {
		t.Fatal("no access_token issued with token auth on")
	}

	rec = doJSON(t, h, http.MethodGet, "/summary?userId="+created.UserID, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no bearer status = %d, want 401", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/summary?userId="+created.UserID, nil, created.Token)
	if rec.Code != http.StatusOK {
		t.Errorf("bearer status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	claims, err := svc.Parse(created.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != created.UserID {
		t.Errorf("token sub = %s, want %s", claims.Subject, created.UserID)
	}
}
