package http

import (
	"context"

	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/dmitrijs2005/placerate/internal/server/services"
)

type fakeUsers struct {
	registerFn func(ctx context.Context, in services.RegisterInput) (*models.User, error)
	getFn      func(ctx context.Context, id string) (*models.User, error)
	loginFn    func(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	refreshFn  func(ctx context.Context, token string) (*services.TokenPair, error)
	authFn     func(token string) (string, error)
}

func (f *fakeUsers) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	return f.registerFn(ctx, in)
}

func (f *fakeUsers) GetUser(ctx context.Context, id string) (*models.User, error) {
	return f.getFn(ctx, id)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUsers) RefreshToken(ctx context.Context, token string) (*services.TokenPair, error) {
	return f.refreshFn(ctx, token)
}

func (f *fakeUsers) AuthenticateAccessToken(token string) (string, error) {
	return f.authFn(token)
}

type fakeCards struct {
	createFn       func(ctx context.Context, in services.CardInput) (*models.Card, error)
	listFn         func(ctx context.Context) ([]*models.CardView, error)
	getFn          func(ctx context.Context, id string) (*models.CardView, error)
	addCommentFn   func(ctx context.Context, cardID, description string, rating float64) (*models.Comment, error)
	listCommentsFn func(ctx context.Context, cardID string) ([]*models.Comment, error)
	deleteFn       func(ctx context.Context, cardID, actingUserID string) error
}

func (f *fakeCards) CreateCard(ctx context.Context, in services.CardInput) (*models.Card, error) {
	return f.createFn(ctx, in)
}

func (f *fakeCards) ListCards(ctx context.Context) ([]*models.CardView, error) {
	return f.listFn(ctx)
}

func (f *fakeCards) GetCard(ctx context.Context, id string) (*models.CardView, error) {
	return f.getFn(ctx, id)
}

func (f *fakeCards) AddComment(ctx context.Context, cardID, description string, rating float64) (*models.Comment, error) {
	return f.addCommentFn(ctx, cardID, description, rating)
}

func (f *fakeCards) ListComments(ctx context.Context, cardID string) ([]*models.Comment, error) {
	return f.listCommentsFn(ctx, cardID)
}

func (f *fakeCards) DeleteCard(ctx context.Context, cardID, actingUserID string) error {
	return f.deleteFn(ctx, cardID, actingUserID)
}

type fakeImages struct {
	key, url string
	err      error
}

func (f *fakeImages) PresignUpload(ctx context.Context) (string, string, error) {
	return f.key, f.url, f.err
}
