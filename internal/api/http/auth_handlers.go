package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/quizd/internal/auth"
	"github.com/quizforge/quizd/internal/users"
)

// Token stays empty (and absent from JSON) when token auth is off.
type authedUser struct {
	Message  string `json:"message,omitempty"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"access_token,omitempty"`
}

func RegisterHandler(store *users.Store, tokens *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid input"})
			return
		}
		u, err := store.Register(r.Context(), req.Email, req.Username, req.Password)
		if errors.Is(err, users.ErrUsernameTaken) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username already exists"})
			return
		}
		if err != nil {
			storeError(w, "register", err)
			return
		}
		resp := authedUser{Message: "User registered successfully", UserID: u.ID, Username: u.Username}
		attachToken(&resp, tokens)
		writeJSON(w, http.StatusOK, resp)
	}
}

func LoginHandler(store *users.Store, tokens *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid input"})
			return
		}
		u, err := store.Authenticate(r.Context(), req.Username, req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
			return
		}
		if err != nil {
			storeError(w, "login", err)
			return
		}
		resp := authedUser{UserID: u.ID, Username: u.Username}
		attachToken(&resp, tokens)
		writeJSON(w, http.StatusOK, resp)
	}
}

func attachToken(resp *authedUser, tokens *auth.Service) {
	if tokens == nil {
		return
	}
	if tok, err := tokens.Issue(resp.UserID, resp.Username); err == nil {
		resp.Token = tok
	}
}

func ResetPasswordHandler(store *users.Store, requireOld bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username    string `json:"username"`
			Password    string `json:"password"`
			OldPassword string `json:"old_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid input"})
			return
		}
		if requireOld {
			if _, err := store.Authenticate(r.Context(), req.Username, req.OldPassword); err != nil {
				if errors.Is(err, users.ErrInvalidCredentials) {
					writeJSON(w, http.StatusForbidden, map[string]string{"message": "Incorrect old password"})
					return
				}
				storeError(w, "reset_password", err)
				return
			}
		}
		err := store.ResetPassword(r.Context(), req.Username, req.Password)
		if errors.Is(err, users.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Username not found"})
			return
		}
		if err != nil {
			storeError(w, "reset_password", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	}
}

func CheckUsernameHandler(store *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		if username == "" {
			writeJSON(w, http.StatusBadRequest, map[string]bool{"exists": false})
			return
		}
		exists, err := store.Exists(r.Context(), username)
		if err != nil {
			storeError(w, "check_username", err)
			return
		}
		if !exists {
			writeJSON(w, http.StatusNotFound, map[string]bool{"exists": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"exists": true})
	}
}

func GetUsernameHandler(store *users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "User ID is required"})
			return
		}
		username, err := store.GetUsername(r.Context(), userID)
		if errors.Is(err, users.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
			return
		}
		if err != nil {
			storeError(w, "get_username", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"username": username})
	}
}
