package http

import (
	"net/http"

	"github.com/dmitrijs2005/placerate/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.fail(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Password: req.Password,
		Number:   req.Number,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeSuccess(w, http.StatusOK, successResponse{Data: toUserDTO(user, false), ID: user.ID})
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, successResponse{Data: toUserDTO(user, true)})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.fail(w, r, err)
		return
	}

	user, tokens, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, successResponse{
		Data:         toUserDTO(user, true),
		ID:           user.ID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.fail(w, r, err)
		return
	}

	tokens, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, successResponse{
		Data: tokenPairDTO{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken},
	})
}
