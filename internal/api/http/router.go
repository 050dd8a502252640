package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizd/internal/auth"
	"github.com/quizforge/quizd/internal/quiz"
	"github.com/quizforge/quizd/internal/users"
)

type RouterOpts struct {
	// Tokens, when non-nil, makes login/register issue bearer tokens and
	// puts the quiz and score routes behind token verification.
	Tokens *auth.Service
	// RequireOldPassword makes /reset_password verify old_password first.
	RequireOldPassword bool
}

// NewRouter mounts the API surface. Process middleware (logging, CORS,
// timeouts) is the caller's business.
func NewRouter(userStore *users.Store, quizStore quiz.Store, opts RouterOpts) http.Handler {
	r := chi.NewRouter()

	r.Post("/create", RegisterHandler(userStore, opts.Tokens))
	r.Post("/login", LoginHandler(userStore, opts.Tokens))
	r.Post("/reset_password", ResetPasswordHandler(userStore, opts.RequireOldPassword))
	r.Get("/check_username", CheckUsernameHandler(userStore))

	r.Group(func(pr chi.Router) {
		if opts.Tokens != nil {
			pr.Use(auth.Middleware(opts.Tokens))
		}
		pr.Get("/questions", QuestionsHandler(quizStore))
		pr.Post("/submit_answer", SubmitAnswerHandler(quizStore))
		pr.Get("/get_username", GetUsernameHandler(userStore))
		pr.Get("/summary", SummaryHandler(quizStore))
		pr.Get("/attempts_and_scores", AttemptsAndScoresHandler(quizStore))
		pr.Get("/quiz_attempted", QuizAttemptedHandler(quizStore))
		pr.Get("/course_wise_scores", CourseWiseScoresHandler(quizStore))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	return r
}
