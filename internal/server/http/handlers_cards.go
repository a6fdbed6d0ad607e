package http

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.fail(w, r, err)
		return
	}

	card, err := s.cards.CreateCard(r.Context(), services.CardInput{
		UserID:         req.UserID,
		URLImg:         req.URLImg,
		Name:           req.Name,
		Description:    req.Description,
		Obl:            req.Obl,
		Region:         req.Region,
		DescriptionUsl: req.DescriptionUsl,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, successResponse{Data: toCardDTO(card), ID: card.ID})
}

func (s *HTTPServer) handleListCards(w http.ResponseWriter, r *http.Request) {
	views, err := s.cards.ListCards(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := make([]cardViewDTO, 0, len(views))
	for _, v := range views {
		data = append(data, toCardViewDTO(v))
	}
	writeSuccess(w, http.StatusOK, successResponse{Data: data})
}

func (s *HTTPServer) handleGetCard(w http.ResponseWriter, r *http.Request) {
	view, err := s.cards.GetCard(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, successResponse{Data: toCardViewDTO(view)})
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Rating == nil {
		s.fail(w, r, fmt.Errorf("%w: rating is required", common.ErrorValidation))
		return
	}

	comment, err := s.cards.AddComment(r.Context(), chi.URLParam(r, "cardId"), req.Description, *req.Rating)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, successResponse{Data: toCommentDTO(comment, false), ID: comment.ID})
}

func (s *HTTPServer) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.cards.ListComments(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		data = append(data, toCommentDTO(c, true))
	}
	writeSuccess(w, http.StatusOK, successResponse{Data: data})
}

// handleDeleteCard acts for the bearer token's user when a token is sent and
// for the body's userId otherwise. A body userId that names someone other
// than the token's user is refused.
func (s *HTTPServer) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	var req deleteCardRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.fail(w, r, err)
		return
	}

	acting := req.UserID
	if subject, ok := userIDFromContext(r.Context()); ok {
		if req.UserID != "" && req.UserID != subject {
			s.fail(w, r, fmt.Errorf("%w: userId does not match the access token", common.ErrorForbidden))
			return
		}
		acting = subject
	}
	if acting == "" {
		s.fail(w, r, fmt.Errorf("%w: userId is required", common.ErrorValidation))
		return
	}

	cardID := chi.URLParam(r, "cardId")
	if err := s.cards.DeleteCard(r.Context(), cardID, acting); err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Card deleted", "card_id", cardID, "user_id", acting)
	writeSuccess(w, http.StatusOK, successResponse{Data: map[string]string{"cardId": cardID}})
}

func (s *HTTPServer) handlePresignImage(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.images.PresignUpload(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, successResponse{Data: imageDTO{Key: key, URL: url}})
}
