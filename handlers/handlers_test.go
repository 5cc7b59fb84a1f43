package handlers

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

	"github.com/Dosada05/clubhub/middleware"
	"github.com/Dosada05/clubhub/models"
	"github.com/Dosada05/clubhub/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
	}{
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{services.ErrBadCredentials, http.StatusUnauthorized},
		{services.ErrNotClubLeader, http.StatusForbidden},
		{services.ErrNotClubMember, http.StatusForbidden},
		{services.ErrClubNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", services.ErrEventNotFound), http.StatusNotFound},
		{services.ErrUserEmailConflict, http.StatusConflict},
		{services.ErrAlreadyEnrolled, http.StatusConflict},
		{services.ErrCapacityExceeded, http.StatusConflict},
		{services.ErrInvalidEventCapacity, http.StatusBadRequest},
		{services.ErrUnsupportedFileType, http.StatusBadRequest},
		{&services.ValidationError{Fields: map[string]string{"email": "bad"}}, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestMapServiceErrorToHTTP_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: password authentication failed"))
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "ok", body: `{"username":"ana","password":"x"}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "unknown field", body: `{"user":"ana"}`, wantErr: `body contains unknown key "user"`},
		{name: "wrong type", body: `{"username":1}`, wantErr: `incorrect JSON type for field "username"`},
		{name: "two values", body: `{"username":"a"}{"username":"b"}`, wantErr: "single JSON value"},
		{name: "broken", body: `{"username":`, wantErr: "badly-formed JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input services.LoginInput
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := readJSON(httptest.NewRecorder(), req, &input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "ana", input.Username)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=4&bad=-1", nil)

	v, err := queryInt(req, "limit", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = queryInt(req, "missing", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = queryInt(req, "bad", 3)
	assert.Error(t, err)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(pingFunc(func(ctx context.Context) error { return nil }))(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	HealthCheck(pingFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("connection refused")
	}))(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, rec.Body.String())
}

// fakeAuthService overrides only what a test needs; the rest panics.
type fakeAuthService struct {
	services.AuthService
	LoginFunc          func(ctx context.Context, input services.LoginInput) (*services.LoginResult, error)
	ForgotPasswordFunc func(ctx context.Context, input services.ForgotPasswordInput) error
}

func (f *fakeAuthService) Login(ctx context.Context, input services.LoginInput) (*services.LoginResult, error) {
	return f.LoginFunc(ctx, input)
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, input services.ForgotPasswordInput) error {
	return f.ForgotPasswordFunc(ctx, input)
}

func TestAuthHandler_Login(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	auth := &fakeAuthService{LoginFunc: func(ctx context.Context, input services.LoginInput) (*services.LoginResult, error) {
		if input.Password != "certa" {
			return nil, services.ErrBadCredentials
		}
		return &services.LoginResult{User: &models.User{ID: 1, Username: input.Username}, Token: "tok", ExpiresAt: expires}, nil
	}}
	h := NewAuthHandler(auth, middleware.SessionCookies{})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ana","password":"certa"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.Token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"ana","password":"errada"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_ForgotPasswordAlwaysAccepted(t *testing.T) {
	auth := &fakeAuthService{ForgotPasswordFunc: func(ctx context.Context, input services.ForgotPasswordInput) error { return nil }}
	h := NewAuthHandler(auth, middleware.SessionCookies{})

	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader(`{"email":"nobody@campus.test"}`)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAuthHandler(&fakeAuthService{}, middleware.SessionCookies{}).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

type fakeEventService struct {
	services.EventService
	EnrollFunc func(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error)
}

func (f *fakeEventService) Enroll(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error) {
	return f.EnrollFunc(ctx, identity, eventID)
}

func TestEventHandler_Enroll(t *testing.T) {
	var gotIdentity *models.Identity
	events := &fakeEventService{EnrollFunc: func(ctx context.Context, identity *models.Identity, eventID int) (*models.EventView, error) {
		gotIdentity = identity
		switch eventID {
		case 1:
			return &models.EventView{}, nil
		case 2:
			return nil, services.ErrCapacityExceeded
		}
		return nil, services.ErrEventNotFound
	}}
	r := chi.NewRouter()
	r.Post("/events/{eventID}/enroll", NewEventHandler(events).Enroll)

	call := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req = req.WithContext(middleware.WithIdentity(req.Context(), &models.Identity{UserID: 4}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("/events/1/enroll").Code)
	require.NotNil(t, gotIdentity)
	assert.Equal(t, 4, gotIdentity.UserID)

	rec := call("/events/2/enroll")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), services.ErrCapacityExceeded.Error())

	assert.Equal(t, http.StatusNotFound, call("/events/3/enroll").Code)
	assert.Equal(t, http.StatusBadRequest, call("/events/x/enroll").Code)
}

func TestCheckOrigin(t *testing.T) {
	req := func(origin, host string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "http://"+host+"/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	sameHost := checkOrigin(nil)
	assert.True(t, sameHost(req("", "api.campus.test")))
	assert.True(t, sameHost(req("https://api.campus.test", "api.campus.test")))
	assert.False(t, sameHost(req("https://evil.test", "api.campus.test")))

	listed := checkOrigin([]string{"https://app.campus.test/"})
	assert.True(t, listed(req("https://app.campus.test", "api.campus.test")))
	assert.False(t, listed(req("https://api.campus.test", "api.campus.test")))
}
