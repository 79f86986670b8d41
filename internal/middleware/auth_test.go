package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelichko/taskkeeper/internal/common"
	"github.com/avelichko/taskkeeper/internal/models"
)

type fakeValidator struct {
	subject string
	err     error
}

func (f *fakeValidator) Validate(token string) (string, error) {
	return f.subject, f.err
}

type fakeResolver struct {
	user *models.User
	err  error
}

func (f *fakeResolver) ResolveSubject(ctx context.Context, subject string) (*models.User, error) {
	return f.user, f.err
}

func TestBearerAuth_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator *fakeValidator
		resolver  *fakeResolver
	}{
		{
			name:      "missing header",
			header:    "",
			validator: &fakeValidator{subject: "alice"},
			resolver:  &fakeResolver{user: &models.User{Username: "alice"}},
		},
		{
			name:      "wrong scheme",
			header:    "Basic abc123",
			validator: &fakeValidator{subject: "alice"},
			resolver:  &fakeResolver{user: &models.User{Username: "alice"}},
		},
		{
			name:      "empty token",
			header:    "Bearer ",
			validator: &fakeValidator{subject: "alice"},
			resolver:  &fakeResolver{user: &models.User{Username: "alice"}},
		},
		{
			name:      "invalid token",
			header:    "Bearer sometoken",
			validator: &fakeValidator{err: common.ErrInvalidToken},
			resolver:  &fakeResolver{user: &models.User{Username: "alice"}},
		},
		{
			name:      "unknown subject",
			header:    "Bearer sometoken",
			validator: &fakeValidator{subject: "ghost"},
			resolver:  &fakeResolver{err: common.ErrNotFound},
		},
		{
			name:      "store failure",
			header:    "Bearer sometoken",
			validator: &fakeValidator{subject: "alice"},
			resolver:  &fakeResolver{err: errors.New("db down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not be reached")
			})
			handler := BearerAuth(tt.validator, tt.resolver)(next)

			req := httptest.NewRequest("GET", "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", res.StatusCode)
			}
			if got := res.Header.Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("expected WWW-Authenticate challenge, got %q", got)
			}
		})
	}
}

func TestBearerAuth_Success(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}
	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuth(&fakeValidator{subject: "alice"}, &fakeResolver{user: user})(next)

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer validtoken")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen != user {
		t.Errorf("expected user injected into context, got %+v", seen)
	}
}

func TestGetUserFromContext_Empty(t *testing.T) {
	if got := GetUserFromContext(context.Background()); got != nil {
		t.Errorf("expected nil user for empty context, got %+v", got)
	}
}
