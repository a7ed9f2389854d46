package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacecare/solace-backend/internal/services"
)

const testSecret = "auth-test-secret"

func protected(t *testing.T, roles ...string) (http.Handler, *string, *string) {
	t.Helper()
	var gotUID, gotRole string
	h := RequireAuth(testSecret, roles...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UserIDFrom(r.Context())
		gotRole = RoleFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &gotUID, &gotRole
}

func TestRequireAuth_MissingToken(t *testing.T) {
	h, _, _ := protected(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	h, _, _ := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	h, _, _ := protected(t)

	token, err := services.MakeToken("user-1", services.RoleUser, "different-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_RoleDenied(t *testing.T) {
	h, _, _ := protected(t, services.RoleAdmin)

	token, err := services.MakeToken("user-1", services.RoleUser, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuth_RoleAllowed(t *testing.T) {
	h, gotUID, gotRole := protected(t, services.RoleTherapist)

	token, err := services.MakeToken("therapist-9", services.RoleTherapist, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/therapist/availability", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "therapist-9", *gotUID)
	assert.Equal(t, services.RoleTherapist, *gotRole)
}

func TestRequireAuth_AnyRoleWhenUnrestricted(t *testing.T) {
	h, gotUID, _ := protected(t)

	token, err := services.MakeToken("admin-1", services.RoleAdmin, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin-1", *gotUID)
}

func TestRequireAuth_TokenViaQueryParam(t *testing.T) {
	h, gotUID, _ := protected(t)

	token, err := services.MakeToken("user-ws", services.RoleUser, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws/chatbot?token="+token, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-ws", *gotUID)
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearerToken("bearer abc"))
	assert.Equal(t, "", ExtractBearerToken(""))
	assert.Equal(t, "", ExtractBearerToken("abc"))
	assert.Equal(t, "", ExtractBearerToken("Basic abc"))
}
