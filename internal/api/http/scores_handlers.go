package http

import (
	"net/http"

	"github.com/quizforge/quizd/internal/quiz"
)

func SummaryHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId parameter is required"})
			return
		}
		sum, err := store.Summary(r.Context(), userID, r.URL.Query().Get("subject"))
		if err != nil {
			storeError(w, "summary", err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func AttemptsAndScoresHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "userId parameter is required"})
			return
		}
		out, err := store.AttemptedBySubject(r.Context(), userID)
		if err != nil {
			storeError(w, "attempts_and_scores", err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// No userId guard here: the original store answered an empty breakdown
// for an unknown or missing user, and callers rely on that.
func CourseWiseScoresHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := store.CourseWiseScores(r.Context(), r.URL.Query().Get("userId"))
		if err != nil {
			storeError(w, "course_wise_scores", err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
