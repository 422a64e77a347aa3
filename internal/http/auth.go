package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AbdoTarek2211/MovieMatch/internal/auth"
	"github.com/AbdoTarek2211/MovieMatch/internal/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the account shape returned to clients. The password
// hash never appears here.
type userResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		s.respondError(w, http.StatusBadRequest, codeValidation, "username, password, and fullName are required")
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			s.respondError(w, http.StatusBadRequest, codeConflict, "Username already exists")
			return
		}
		s.logger.Printf("register error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Registration failed")
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Invalid credentials")
			return
		}
		s.logger.Printf("login error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Login failed")
		return
	}

	s.setSessionCookie(w, token)
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := s.sessionToken(r)
	if !ok {
		s.respondJSON(w, http.StatusOK, messageResponse{Message: "Not logged in"})
		return
	}

	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.logger.Printf("logout error: %v", err)
		s.respondError(w, http.StatusInternalServerError, codeInternal, "Logout failed")
		return
	}

	s.clearSessionCookie(w)
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		s.respondError(w, http.StatusUnauthorized, codeUnauthorized, "Authentication required")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}
