package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/placerate/internal/common"
	"github.com/dmitrijs2005/placerate/internal/logging"
	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/dmitrijs2005/placerate/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(us *fakeUsers, cs *fakeCards, is *fakeImages) http.Handler {
	if us == nil {
		us = &fakeUsers{}
	}
	if cs == nil {
		cs = &fakeCards{}
	}
	if is == nil {
		is = &fakeImages{}
	}
	return NewHTTPServer(":0", []string{"http://app.example"}, logging.NewDiscardLogger(), us, cs, is).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrorValidation, http.StatusBadRequest},
		{fmt.Errorf("%w: bad id", common.ErrorValidation), http.StatusBadRequest},
		{common.ErrorAlreadyExists, http.StatusBadRequest},
		{common.ErrorInvalidCredential, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{common.ErrorForbidden, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{errors.New("db error: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFromError(tt.err), tt.err.Error())
	}
}

func TestRegister(t *testing.T) {
	var got services.RegisterInput
	us := &fakeUsers{registerFn: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
		got = in
		return &models.User{ID: "u-1", Name: in.Name, Number: in.Number, Email: in.Email, Role: in.Role, PasswordHash: "hash"}, nil
	}}
	h := newTestServer(us, nil, nil)

	rec, out := do(t, h, http.MethodPost, "/register", `{"name":"Ann","password":"pw","number":"1","email":"a@x.com","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	assert.Equal(t, services.RegisterInput{Name: "Ann", Password: "pw", Number: "1", Email: "a@x.com", Role: "admin"}, got)
	assert.Equal(t, "success", out["message"])
	assert.Equal(t, "u-1", out["id"])
	assert.Equal(t, map[string]any{"name": "Ann", "number": "1", "email": "a@x.com", "role": "admin"}, out["data"])
	assert.NotContains(t, rec.Body.String(), "hash")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	us := &fakeUsers{registerFn: func(ctx context.Context, in services.RegisterInput) (*models.User, error) {
		if len(in.Password) > 72 {
			return nil, fmt.Errorf("%w: password exceeds 72 bytes", common.ErrorValidation)
		}
		return nil, common.ErrorAlreadyExists
	}}
	h := newTestServer(us, nil, nil)

	rec, out := do(t, h, http.MethodPost, "/register", `{"name":"Ann"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "already exists"}, out)

	long := strings.Repeat("a", 80)
	rec, out = do(t, h, http.MethodPost, "/register", `{"name":"Ann","email":"a@x.com","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "password exceeds 72 bytes")

	rec, out = do(t, h, http.MethodPost, "/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "invalid request body")
}

func TestGetUser(t *testing.T) {
	us := &fakeUsers{getFn: func(ctx context.Context, id string) (*models.User, error) {
		if id == "u-1" {
			return &models.User{ID: "u-1", Name: "Ann", Email: "a@x.com"}, nil
		}
		return nil, common.ErrorNotFound
	}}
	h := newTestServer(us, nil, nil)

	rec, out := do(t, h, http.MethodGet, "/users/u-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := out["data"].(map[string]any)
	assert.Equal(t, "u-1", data["id"])
	assert.Equal(t, "Ann", data["name"])

	rec, _ = do(t, h, http.MethodGet, "/users/u-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin(t *testing.T) {
	us := &fakeUsers{loginFn: func(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
		switch {
		case email != "a@x.com":
			return nil, nil, common.ErrorNotFound
		case password != "pw":
			return nil, nil, common.ErrorInvalidCredential
		}
		return &models.User{ID: "u-1", Name: "Ann", Email: email}, &services.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
	}}
	h := newTestServer(us, nil, nil)

	rec, out := do(t, h, http.MethodPost, "/login", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", out["id"])
	assert.Equal(t, "at", out["accessToken"])
	assert.Equal(t, "rt", out["refreshToken"])
	assert.Equal(t, "u-1", out["data"].(map[string]any)["id"])

	rec, _ = do(t, h, http.MethodPost, "/login", `{"email":"a@x.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/login", `{"email":"b@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh(t *testing.T) {
	us := &fakeUsers{refreshFn: func(ctx context.Context, token string) (*services.TokenPair, error) {
		if token == "rt" {
			return &services.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}, nil
		}
		return nil, common.ErrRefreshTokenExpired
	}}
	h := newTestServer(us, nil, nil)

	rec, out := do(t, h, http.MethodPost, "/refresh", `{"refreshToken":"rt"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"accessToken": "at2", "refreshToken": "rt2"}, out["data"])

	rec, _ = do(t, h, http.MethodPost, "/refresh", `{"refreshToken":"old"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCard_IgnoresClientRating(t *testing.T) {
	var got services.CardInput
	cs := &fakeCards{createFn: func(ctx context.Context, in services.CardInput) (*models.Card, error) {
		got = in
		return &models.Card{ID: "c-1", UserID: in.UserID, Name: in.Name, DescriptionUsl: in.DescriptionUsl}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, out := do(t, h, http.MethodPost, "/cards", `{"userId":"u-1","name":"Lake","descriptionusl":"parking","ratings":9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lake", got.Name)
	assert.Equal(t, "parking", got.DescriptionUsl)

	data := out["data"].(map[string]any)
	assert.Equal(t, "c-1", out["id"])
	assert.Equal(t, 0.0, data["ratings"])
	assert.Equal(t, "parking", data["descriptionusl"])
}

func TestListCards(t *testing.T) {
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cs := &fakeCards{listFn: func(ctx context.Context) ([]*models.CardView, error) {
		return []*models.CardView{
			{
				Card:     models.Card{ID: "c-1", Name: "Lake", Rating: 4},
				Comments: []models.CommentView{{ID: "m-1", Description: "good", Date: date, Rating: 4}},
			},
			{Card: models.Card{ID: "c-2", Name: "Hill"}, Comments: []models.CommentView{}},
		}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, _ := do(t, h, http.MethodGet, "/cards", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string        `json:"message"`
		Data    []cardViewDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, 4.0, resp.Data[0].Ratings)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", resp.Data[0].Comments[0].Date)
	assert.Contains(t, rec.Body.String(), `"comments":[]`)
}

func TestListCards_EmptyIsArray(t *testing.T) {
	cs := &fakeCards{listFn: func(ctx context.Context) ([]*models.CardView, error) {
		return []*models.CardView{}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, _ := do(t, h, http.MethodGet, "/cards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"success","data":[]}`, rec.Body.String())
}

func TestListCards_StorageFailure(t *testing.T) {
	cs := &fakeCards{listFn: func(ctx context.Context) ([]*models.CardView, error) {
		return nil, errors.New("db error: connection refused")
	}}
	h := newTestServer(nil, cs, nil)

	rec, out := do(t, h, http.MethodGet, "/cards", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "db error: connection refused", out["error"])
}

func TestGetCard(t *testing.T) {
	cs := &fakeCards{getFn: func(ctx context.Context, id string) (*models.CardView, error) {
		if id != "c-1" {
			return nil, common.ErrorNotFound
		}
		return &models.CardView{Card: models.Card{ID: "c-1"}, Comments: []models.CommentView{}}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, out := do(t, h, http.MethodGet, "/cards/c-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-1", out["data"].(map[string]any)["id"])

	rec, _ = do(t, h, http.MethodGet, "/cards/c-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddComment(t *testing.T) {
	date := time.Date(2024, 5, 1, 10, 0, 0, 250000000, time.UTC)
	cs := &fakeCards{addCommentFn: func(ctx context.Context, cardID, description string, rating float64) (*models.Comment, error) {
		if cardID != "c-1" {
			return nil, common.ErrorNotFound
		}
		return &models.Comment{ID: "m-1", CardID: cardID, Description: description, Date: date, Rating: rating}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, out := do(t, h, http.MethodPost, "/cards/c-1/comments", `{"description":"good","rating":4.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m-1", out["id"])
	assert.Equal(t, map[string]any{"description": "good", "date": "2024-05-01T10:00:00.250Z", "rating": 4.5}, out["data"])

	rec, _ = do(t, h, http.MethodPost, "/cards/c-9/comments", `{"description":"good","rating":4}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = do(t, h, http.MethodPost, "/cards/c-1/comments", `{"description":"no rating"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "rating is required")
}

func TestListComments(t *testing.T) {
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cs := &fakeCards{listCommentsFn: func(ctx context.Context, cardID string) ([]*models.Comment, error) {
		return []*models.Comment{
			{ID: "m-1", CardID: cardID, Description: "a", Date: date, Rating: 4},
			{ID: "m-2", CardID: cardID, Description: "b", Date: date, Rating: 5},
		}, nil
	}}
	h := newTestServer(nil, cs, nil)

	rec, _ := do(t, h, http.MethodGet, "/cards/c-1/comments", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []commentDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, commentDTO{ID: "m-1", CardID: "c-1", Description: "a", Date: "2024-05-01T10:00:00.000Z", Rating: 4}, resp.Data[0])
}

func TestDeleteCard(t *testing.T) {
	var gotActor string
	us := &fakeUsers{authFn: func(token string) (string, error) {
		if token == "good" {
			return "u-token", nil
		}
		return "", common.ErrInvalidToken
	}}
	cs := &fakeCards{deleteFn: func(ctx context.Context, cardID, actingUserID string) error {
		gotActor = actingUserID
		switch {
		case cardID == "missing":
			return common.ErrorNotFound
		case actingUserID == "u-stranger":
			return common.ErrorForbidden
		}
		return nil
	}}
	h := newTestServer(us, cs, nil)

	tests := []struct {
		name      string
		path      string
		body      string
		headers   []string
		wantCode  int
		wantActor string
	}{
		{"body user", "/cards/c-1", `{"userId":"u-body"}`, nil, http.StatusOK, "u-body"},
		{"token user", "/cards/c-1", "", []string{"Authorization", "Bearer good"}, http.StatusOK, "u-token"},
		{"token and same body user", "/cards/c-1", `{"userId":"u-token"}`, []string{"Authorization", "Bearer good"}, http.StatusOK, "u-token"},
		{"token and other body user", "/cards/c-1", `{"userId":"u-body"}`, []string{"Authorization", "Bearer good"}, http.StatusForbidden, ""},
		{"bad token", "/cards/c-1", `{"userId":"u-body"}`, []string{"Authorization", "Bearer bad"}, http.StatusUnauthorized, ""},
		{"not bearer", "/cards/c-1", `{"userId":"u-body"}`, []string{"Authorization", "Basic abc"}, http.StatusUnauthorized, ""},
		{"no user", "/cards/c-1", "", nil, http.StatusBadRequest, ""},
		{"stranger", "/cards/c-1", `{"userId":"u-stranger"}`, nil, http.StatusForbidden, "u-stranger"},
		{"missing card", "/cards/missing", `{"userId":"u-body"}`, nil, http.StatusNotFound, "u-body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotActor = ""
			rec, out := do(t, h, http.MethodDelete, tt.path, tt.body, tt.headers...)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantActor, gotActor)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, map[string]any{"cardId": "c-1"}, out["data"])
			} else {
				assert.NotEmpty(t, out["error"])
			}
		})
	}
}

func TestPresignImage(t *testing.T) {
	h := newTestServer(nil, nil, &fakeImages{key: "cards/k", url: "http://s3/cards/k"})

	rec, out := do(t, h, http.MethodPost, "/images", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"key": "cards/k", "url": "http://s3/cards/k"}, out["data"])

	h = newTestServer(nil, nil, &fakeImages{err: errors.New("load-fail")})
	rec, _ = do(t, h, http.MethodPost, "/images", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec, out := do(t, newTestServer(nil, nil, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["ok"])
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(nil, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/cards", nil)
	req.Header.Set("Origin", "http://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/cards", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSCredentials(t *testing.T) {
	preflight := func(origins []string) *httptest.ResponseRecorder {
		h := NewHTTPServer(":0", origins, logging.NewDiscardLogger(), &fakeUsers{}, &fakeCards{}, &fakeImages{}).Router()
		req := httptest.NewRequest(http.MethodOptions, "/cards", nil)
		req.Header.Set("Origin", "http://app.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight([]string{"http://app.example"})
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	// any origin is allowed, but never with credentials
	rec = preflight([]string{"*"})
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRecoverer(t *testing.T) {
	cs := &fakeCards{listFn: func(ctx context.Context) ([]*models.CardView, error) {
		panic("boom")
	}}
	h := newTestServer(nil, cs, nil)

	req := httptest.NewRequest(http.MethodGet, "/cards", nil)
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewHTTPServer("127.0.0.1:0", nil, logging.NewDiscardLogger(), &fakeUsers{}, &fakeCards{}, &fakeImages{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
