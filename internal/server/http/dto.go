package http

import (
	"time"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/server/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Number   string `json:"number"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userDTO struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func toUserDTO(u *models.User, withID bool) userDTO {
	dto := userDTO{Name: u.Name, Number: u.Number, Email: u.Email, Role: u.Role}
	if withID {
		dto.ID = u.ID
	}
	return dto
}

type tokenPairDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// cardRequest accepts a client rating for compatibility; it is ignored.
type cardRequest struct {
	UserID         string   `json:"userId"`
	URLImg         string   `json:"urlImg"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Obl            string   `json:"obl"`
	Region         string   `json:"region"`
	DescriptionUsl string   `json:"descriptionusl"`
	Ratings        *float64 `json:"ratings,omitempty"`
}

type cardDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	URLImg         string  `json:"urlImg"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Obl            string  `json:"obl"`
	Region         string  `json:"region"`
	DescriptionUsl string  `json:"descriptionusl"`
	Ratings        float64 `json:"ratings"`
}

func toCardDTO(c *models.Card) cardDTO {
	return cardDTO{
		ID:             c.ID,
		UserID:         c.UserID,
		URLImg:         c.URLImg,
		Name:           c.Name,
		Description:    c.Description,
		Obl:            c.Obl,
		Region:         c.Region,
		DescriptionUsl: c.DescriptionUsl,
		Ratings:        c.Rating,
	}
}

// cardViewDTO always carries a comments array, empty for a card without comments.
type cardViewDTO struct {
	cardDTO
	Comments []commentDTO `json:"comments"`
}

func toCardViewDTO(v *models.CardView) cardViewDTO {
	comments := make([]commentDTO, 0, len(v.Comments))
	for _, c := range v.Comments {
		comments = append(comments, commentDTO{
			ID:          c.ID,
			Description: c.Description,
			Date:        formatDate(c.Date),
			Rating:      c.Rating,
		})
	}
	return cardViewDTO{cardDTO: toCardDTO(&v.Card), Comments: comments}
}

type commentRequest struct {
	Description string   `json:"description"`
	Rating      *float64 `json:"rating"`
}

type commentDTO struct {
	ID          string  `json:"id,omitempty"`
	CardID      string  `json:"cardId,omitempty"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Rating      float64 `json:"rating"`
}

func toCommentDTO(c *models.Comment, withIDs bool) commentDTO {
	dto := commentDTO{Description: c.Description, Date: formatDate(c.Date), Rating: c.Rating}
	if withIDs {
		dto.ID = c.ID
		dto.CardID = c.CardID
	}
	return dto
}

type deleteCardRequest struct {
	UserID string `json:"userId"`
}

type imageDTO struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func formatDate(t time.Time) string {
	return t.UTC().Format(common.DateLayout)
}
