package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quizforge/quizd/internal/quiz"
)

// GET /questions?testId=...&userId=...
// The user id is not needed for the lookup; it is echoed back so the
// frontend can thread it through the quiz screen.
func QuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		testID, err := strconv.ParseInt(r.URL.Query().Get("testId"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "testId must be an integer"})
			return
		}
		qs, err := store.GetQuestions(r.Context(), testID)
		if err != nil {
			storeError(w, "questions", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"questions": qs,
			"user_id":   userID,
			"test_id":   testID,
		})
	}
}

func SubmitAnswerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestID     int64  `json:"test_id"`
			UserID     string `json:"user_id"`
			QuestionID int64  `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid input"})
			return
		}
		res, err := store.SubmitAnswer(r.Context(), quiz.Answer{
			TestID:     req.TestID,
			UserID:     req.UserID,
			QuestionID: req.QuestionID,
			UserAnswer: req.Answer,
		})
		switch {
		case errors.Is(err, quiz.ErrQuestionNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Question not found"})
		case errors.Is(err, quiz.ErrDuplicateSubmission):
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Answer already submitted"})
		case err != nil:
			storeError(w, "submit_answer", err)
		default:
			writeJSON(w, http.StatusOK, res)
		}
	}
}

func QuizAttemptedHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		rawTest := r.URL.Query().Get("testId")
		if userID == "" || rawTest == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and testId are required"})
			return
		}
		testID, err := strconv.ParseInt(rawTest, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "testId must be an integer"})
			return
		}
		attempted, err := store.HasAttempted(r.Context(), userID, testID)
		if err != nil {
			storeError(w, "quiz_attempted", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"attempted": attempted})
	}
}
