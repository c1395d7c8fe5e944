package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pantry/internal/auth"
	"pantry/internal/config"
	httpx "pantry/internal/http"
	"pantry/internal/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer() http.Handler {
	cfg := config.Config{HTTPAddr: ":0"}
	jwtSvc := auth.NewJWT("test-secret", time.Hour)
	users := auth.NewMemoryUserStore()
	invSvc := inventory.NewService(inventory.NewMemoryStore())
	return httpx.NewRouter(cfg, users, invSvc, jwtSvc, zap.NewNop())
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func registerAndLogin(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()

	rec, _ := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginInventoryScenario(t *testing.T) {
	h := newTestServer()

	rec, body := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotNil(t, body["userId"])

	rec, body = doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["token"].(string)

	// fresh account has an empty inventory
	rec, body = doJSON(t, h, http.MethodGet, "/inventory", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	inv := body["inventory"].(map[string]any)
	assert.Equal(t, []any{}, inv["ingredients"])

	// add an ingredient, default unit applied
	rec, body = doJSON(t, h, http.MethodPost, "/inventory/ingredient", token, map[string]any{
		"ingredient": map[string]any{"name": "Eggs", "quantity": 12},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	inv = body["inventory"].(map[string]any)
	items := inv["ingredients"].([]any)
	require.Len(t, items, 1)
	entry := items[0].(map[string]any)
	assert.Equal(t, "Eggs", entry["name"])
	assert.Equal(t, float64(12), entry["quantity"])
	assert.Equal(t, "piece", entry["unit"])
	assert.NotEmpty(t, entry["id"])

	// deleting a bogus id is 404
	rec, body = doJSON(t, h, http.MethodDelete, "/inventory/ingredient/bogus", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Ingredient not found", body["message"])

	// the real id deletes fine
	rec, body = doJSON(t, h, http.MethodDelete, "/inventory/ingredient/"+entry["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inv = body["inventory"].(map[string]any)
	assert.Equal(t, []any{}, inv["ingredients"])
}

func TestRegisterDuplicateNormalizedEmail(t *testing.T) {
	h := newTestServer()

	rec, _ := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "Test@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "test@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", body["error"])
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	h := newTestServer()
	registerAndLogin(t, h, "a@b.com", "secret1")

	rec, body := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown email gets the exact same answer
	rec2, body2 := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@b.com", "password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, body["message"], body2["message"])
}

func TestRegisterValidation(t *testing.T) {
	h := newTestServer()

	rec, _ := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHeaderHandling(t *testing.T) {
	h := newTestServer()

	// no header at all
	rec, _ := doJSON(t, h, http.MethodGet, "/inventory", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// header present but token invalid
	rec, _ = doJSON(t, h, http.MethodGet, "/inventory", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReplaceInventory(t *testing.T) {
	h := newTestServer()
	token := registerAndLogin(t, h, "a@b.com", "secret1")

	// not an array
	rec, _ := doJSON(t, h, http.MethodPut, "/inventory", token, map[string]any{
		"ingredients": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// element without a name
	rec, _ = doJSON(t, h, http.MethodPut, "/inventory", token, map[string]any{
		"ingredients": []map[string]any{{"quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// duplicate names pass through untouched
	rec, body := doJSON(t, h, http.MethodPut, "/inventory", token, map[string]any{
		"ingredients": []map[string]any{
			{"name": "Flour", "quantity": 1, "unit": "kg"},
			{"name": "flour", "quantity": 2, "unit": "kg"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	inv := body["inventory"].(map[string]any)
	items := inv["ingredients"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "Flour", items[0].(map[string]any)["name"])
	assert.Equal(t, "flour", items[1].(map[string]any)["name"])
}

func TestUpsertCaseInsensitiveViaHTTP(t *testing.T) {
	h := newTestServer()
	token := registerAndLogin(t, h, "a@b.com", "secret1")

	rec, _ := doJSON(t, h, http.MethodPost, "/inventory/ingredient", token, map[string]any{
		"ingredient": map[string]any{"name": "Tomatoes"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodPost, "/inventory/ingredient", token, map[string]any{
		"ingredient": map[string]any{"name": "tomatoes", "quantity": 8},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	inv := body["inventory"].(map[string]any)
	items := inv["ingredients"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(8), items[0].(map[string]any)["quantity"])
}

func TestAddIngredientRequiresName(t *testing.T) {
	h := newTestServer()
	token := registerAndLogin(t, h, "a@b.com", "secret1")

	rec, _ := doJSON(t, h, http.MethodPost, "/inventory/ingredient", token, map[string]any{
		"ingredient": map[string]any{"quantity": 2},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/inventory/ingredient", token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserProfile(t *testing.T) {
	h := newTestServer()
	token := registerAndLogin(t, h, "profile@x.com", "secret1")

	rec, body := doJSON(t, h, http.MethodGet, "/users/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "profile@x.com", user["email"])
	assert.NotNil(t, user["createdAt"])
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)

	rec, body = doJSON(t, h, http.MethodPut, "/users/1", token, map[string]string{
		"email": "New@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	user = body["user"].(map[string]any)
	assert.Equal(t, "new@x.com", user["email"])

	rec, _ = doJSON(t, h, http.MethodGet, "/users/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPut, "/users/1", token, map[string]string{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIsolationBetweenAccounts(t *testing.T) {
	h := newTestServer()
	t1 := registerAndLogin(t, h, "one@x.com", "secret1")
	t2 := registerAndLogin(t, h, "two@x.com", "secret1")

	rec, _ := doJSON(t, h, http.MethodPost, "/inventory/ingredient", t1, map[string]any{
		"ingredient": map[string]any{"name": "Eggs"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, h, http.MethodGet, "/inventory", t2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inv := body["inventory"].(map[string]any)
	assert.Equal(t, []any{}, inv["ingredients"])
}

func TestHealth(t *testing.T) {
	h := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
