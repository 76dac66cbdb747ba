package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/usecase"
)

// MockIdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) GetIdentity(ctx context.Context, accessToken string) (*usecase.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Identity), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

// MockRoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByUserID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func newGuard(identity *MockIdentityProvider, roles *MockRoleRepository) *Guard {
	resolver := usecase.NewResolveUser(identity, roles, zap.NewNop())
	return NewGuard(resolver, zap.NewNop())
}

func protectedPage(t *testing.T, reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		user := UserFromContext(r.Context())
		assert.NotNil(t, user)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthWithoutSessionRedirectsToLogin(t *testing.T) {
	guard := newGuard(new(MockIdentityProvider), new(MockRoleRepository))

	reached := false
	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()

	guard.RequireAuth(protectedPage(t, &reached)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginRoute, w.Header().Get("Location"))
	assert.False(t, reached, "handler must never run after the redirect")
}

func TestRequireAuthWithInvalidTokenRedirectsToLogin(t *testing.T) {
	identity := new(MockIdentityProvider)
	identity.On("GetIdentity", mock.Anything, "bad-token").
		Return(nil, errors.New("gotrue returned 401"))
	guard := newGuard(identity, new(MockRoleRepository))

	reached := false
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bad-token"})
	w := httptest.NewRecorder()

	guard.RequireAuth(protectedPage(t, &reached)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, LoginRoute, w.Header().Get("Location"))
	assert.False(t, reached)
}

func TestRequireAuthInjectsUser(t *testing.T) {
	identity := new(MockIdentityProvider)
	roles := new(MockRoleRepository)
	identity.On("GetIdentity", mock.Anything, "tok").
		Return(&usecase.Identity{ID: "u1", Email: "a@b.fr"}, nil)
	roles.On("FindByUserID", mock.Anything, "u1").Return("affiliate", nil)
	guard := newGuard(identity, roles)

	var seen *entity.User
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()

	guard.RequireAuth(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, seen)
	assert.Equal(t, "u1", seen.ID)
	assert.Equal(t, entity.RoleAffiliate, seen.Role)
}

func TestRequireAdminRejectsAffiliateToDashboard(t *testing.T) {
	identity := new(MockIdentityProvider)
	roles := new(MockRoleRepository)
	identity.On("GetIdentity", mock.Anything, "tok").
		Return(&usecase.Identity{ID: "u1"}, nil)
	roles.On("FindByUserID", mock.Anything, "u1").Return("affiliate", nil)
	guard := newGuard(identity, roles)

	reached := false
	req := httptest.NewRequest("GET", "/admin/leads", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()

	guard.RequireAdmin(protectedPage(t, &reached)).ServeHTTP(w, req)

	// Authenticated but under-privileged: dashboard, not login.
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, DashboardRoute, w.Header().Get("Location"))
	assert.False(t, reached)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	identity := new(MockIdentityProvider)
	roles := new(MockRoleRepository)
	identity.On("GetIdentity", mock.Anything, "tok").
		Return(&usecase.Identity{ID: "u1"}, nil)
	roles.On("FindByUserID", mock.Anything, "u1").Return("admin", nil)
	guard := newGuard(identity, roles)

	reached := false
	req := httptest.NewRequest("GET", "/admin/leads", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()

	guard.RequireAdmin(protectedPage(t, &reached)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}

func TestRequireAffiliateRejectsAdmin(t *testing.T) {
	identity := new(MockIdentityProvider)
	roles := new(MockRoleRepository)
	identity.On("GetIdentity", mock.Anything, "tok").
		Return(&usecase.Identity{ID: "u1"}, nil)
	roles.On("FindByUserID", mock.Anything, "u1").Return("admin", nil)
	guard := newGuard(identity, roles)

	reached := false
	req := httptest.NewRequest("GET", "/affiliate/leads", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
	w := httptest.NewRecorder()

	guard.RequireAffiliate(protectedPage(t, &reached)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, DashboardRoute, w.Header().Get("Location"))
	assert.False(t, reached)
}

func TestSessionTokenFromBearerHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer abc123")

	assert.Equal(t, "abc123", SessionToken(req))
}

func TestSessionTokenCookieWinsOverHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", SessionToken(req))
}
