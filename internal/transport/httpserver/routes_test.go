package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"household-app-go/internal/app"
	"household-app-go/internal/config"
	"household-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "router-test-secret"

type harness struct {
	t      *testing.T
	router http.Handler
	tokens map[string]string
}

func newHarness(t *testing.T, users ...string) *harness {
	t.Helper()

	cfg := config.Config{
		StorageDriver: config.StorageDriverMemory,
		Auth:          config.AuthConfig{JWTSecret: jwtSecret, WebhookSecret: "hook"},
		CORS:          config.CORSConfig{AllowedOrigins: []string{"*"}},
		Cache:         config.CacheConfig{Size: 16, HouseholdTTL: time.Minute, IdentityTTL: time.Minute},
		Metrics:       config.MetricsConfig{Enabled: true},
	}
	application, err := app.New(cfg, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, application.Bootstrap(context.Background(), false))

	h := &harness{t: t, router: application.Router(), tokens: map[string]string{}}
	for _, name := range users {
		email := name + "@example.com"
		require.NoError(t, application.Users().AllowEmail(context.Background(), email))
		h.tokens[name] = sign(t, "ext-"+name, email)
	}
	return h
}

func sign(t *testing.T, subject, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           subject,
		"email":         email,
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{"name": subject},
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return token
}

func (h *harness) do(method, path, user string, payload interface{}) *httptest.ResponseRecorder {
	h.t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if raw, ok := payload.(string); ok {
			body.WriteString(raw)
		} else {
			require.NoError(h.t, json.NewEncoder(&body).Encode(payload))
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+h.tokens[user])
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, rec).Error.Code
}

type household struct {
	PublicID     string  `json:"public_id"`
	Name         string  `json:"name"`
	JoinQuestion string  `json:"join_question"`
	JoinAnswer   *string `json:"join_answer"`
}

type member struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	Role              string `json:"role"`
	Status            string `json:"status"`
	CanEditHousehold  bool   `json:"can_edit_household"`
	CanManageProducts bool   `json:"can_manage_products"`
}

// setupHousehold creates a household owned by alice and an accepted plain
// member bob. It returns the household base path and bob's member id.
func setupHousehold(t *testing.T, h *harness) (string, string) {
	t.Helper()

	rec := h.do(http.MethodPost, "/api/households", "alice", map[string]string{
		"name": "Home", "join_question": "Pet name?", "join_answer": "Rex",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	base := "/api/households/" + decode[household](t, rec).PublicID

	rec = h.do(http.MethodPost, base+"/join", "bob", map[string]string{"answer": "Rex"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bob := decode[member](t, rec)

	rec = h.do(http.MethodPatch, base+"/members/"+bob.ID+"/status", "alice", map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return base, bob.ID
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = h.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "household_http_requests_total")
}

func TestMeProvisionsAllowListedUser(t *testing.T) {
	h := newHarness(t, "alice")
	h.tokens["mallory"] = sign(t, "ext-mallory", "mallory@example.com")

	rec := h.do(http.MethodGet, "/api/me", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "alice@example.com", me["email"])

	rec = h.do(http.MethodGet, "/api/me", "mallory", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "email_not_allowed", errorCode(t, rec))

	rec = h.do(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHouseholdMakesCreatorAdmin(t *testing.T) {
	h := newHarness(t, "alice")

	rec := h.do(http.MethodPost, "/api/households", "alice", map[string]string{
		"name": "  Home  ", "join_question": "Pet name?", "join_answer": "Rex",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[household](t, rec)
	assert.Equal(t, "Home", created.Name)
	require.NotNil(t, created.JoinAnswer)
	assert.NotContains(t, rec.Body.String(), `"id"`)

	rec = h.do(http.MethodGet, "/api/households/"+created.PublicID+"/members", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decode[[]member](t, rec)
	require.Len(t, members, 1)
	assert.Equal(t, "admin", members[0].Role)
	assert.Equal(t, "accepted", members[0].Status)
	assert.True(t, members[0].CanEditHousehold)
	assert.True(t, members[0].CanManageProducts)

	rec = h.do(http.MethodGet, "/api/households", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]household](t, rec), 1)

	rec = h.do(http.MethodPost, "/api/households", "alice", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(t, rec))

	rec = h.do(http.MethodPost, "/api/households", "alice", `{"name":"x","owner":"me"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", errorCode(t, rec))
}

func TestPendingMemberVisibility(t *testing.T) {
	h := newHarness(t, "alice", "bob")

	rec := h.do(http.MethodPost, "/api/households", "alice", map[string]string{
		"name": "Home", "join_question": "Pet name?", "join_answer": "Rex",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	base := "/api/households/" + decode[household](t, rec).PublicID

	rec = h.do(http.MethodGet, base+"/join", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Rex")
	assert.Contains(t, rec.Body.String(), `"status":null`)

	rec = h.do(http.MethodPost, base+"/join", "bob", map[string]string{"answer": "rex"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "wrong_answer", errorCode(t, rec))

	rec = h.do(http.MethodPost, base+"/join", "bob", map[string]string{"answer": "Rex"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = h.do(http.MethodGet, base, "bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/api/households", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.do(http.MethodGet, "/api/memberships", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	// Membership rows are readable by any member, pending included.
	rec = h.do(http.MethodGet, base+"/members", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]member](t, rec), 2)
}

func TestMemberManagementChecks(t *testing.T) {
	h := newHarness(t, "alice", "bob", "carol")
	base, bobID := setupHousehold(t, h)

	rec := h.do(http.MethodGet, base+"/members", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceID string
	for _, m := range decode[[]member](t, rec) {
		if m.Role == "admin" {
			aliceID = m.ID
		}
	}
	require.NotEmpty(t, aliceID)

	rec = h.do(http.MethodPatch, base+"/members/"+aliceID+"/role", "bob", map[string]string{"role": "member"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not_admin", errorCode(t, rec))

	rec = h.do(http.MethodPatch, base+"/members/"+aliceID+"/role", "alice", map[string]string{"role": "member"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "cannot_modify_self", errorCode(t, rec))

	rec = h.do(http.MethodPatch, base+"/members/"+bobID+"/status", "alice", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_status_transition", errorCode(t, rec))

	rec = h.do(http.MethodPatch, base+"/members/00000000-0000-0000-0000-0000000000ff/role", "alice", map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(http.MethodPatch, base+"/members/nope/role", "alice", map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPatch, base+"/members/"+bobID+"/permissions", "alice", map[string]bool{"can_manage_products": true})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[member](t, rec)
	assert.True(t, updated.CanManageProducts)
	assert.False(t, updated.CanEditHousehold)

	rec = h.do(http.MethodPatch, base+"/members/"+bobID+"/role", "alice", map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	// With a second admin alice may leave; bob is then the last admin.
	rec = h.do(http.MethodPost, base+"/leave", "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodPost, base+"/leave", "bob", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "last_admin", errorCode(t, rec))

	rec = h.do(http.MethodPost, base+"/leave", "carol", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "membership_not_found", errorCode(t, rec))
}

func TestRemoveAndBanMembers(t *testing.T) {
	h := newHarness(t, "alice", "bob")
	base, bobID := setupHousehold(t, h)

	rec := h.do(http.MethodPatch, base+"/members/"+bobID+"/status", "alice", map[string]string{"status": "banned"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, base+"/recipes", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.do(http.MethodPost, base+"/join", "bob", map[string]string{"answer": "Rex"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_member", errorCode(t, rec))

	rec = h.do(http.MethodDelete, base+"/members/"+bobID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, base+"/join", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":null`)
}

func TestUpdateHouseholdIsPartial(t *testing.T) {
	h := newHarness(t, "alice", "bob")
	base, _ := setupHousehold(t, h)

	rec := h.do(http.MethodPatch, base, "alice", map[string]string{"name": "Cabin"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[household](t, rec)
	assert.Equal(t, "Cabin", updated.Name)
	assert.Equal(t, "Pet name?", updated.JoinQuestion)

	rec = h.do(http.MethodPatch, base, "bob", map[string]string{"name": "Bob's"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "unauthorized", errorCode(t, rec))

	rec = h.do(http.MethodGet, base, "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[household](t, rec).JoinAnswer)
}

func TestProductsAndRecipes(t *testing.T) {
	h := newHarness(t, "alice", "bob")
	base, _ := setupHousehold(t, h)

	rec := h.do(http.MethodPost, base+"/products", "bob", map[string]string{
		"icon": "🍅", "name": "Tomato", "category": "vegetables", "default_unit": "piece",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, base+"/products", "alice", map[string]string{
		"icon": "🍅", "name": "Tomato", "category": "vegetables", "default_unit": "piece",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tomato := decode[struct {
		ID string `json:"id"`
	}](t, rec)

	rec = h.do(http.MethodPost, base+"/products", "alice", map[string]string{
		"icon": "🍅", "name": "Tomato", "category": "vegetables", "default_unit": "piece",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "product_name_taken", errorCode(t, rec))

	rec = h.do(http.MethodGet, base+"/products?category=dairy", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	rec = h.do(http.MethodGet, base+"/products?category=vegetables", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tomato")
	rec = h.do(http.MethodGet, base+"/products?category=rocks", "bob", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	recipe := map[string]interface{}{
		"name":         "Salad",
		"instructions": []map[string]interface{}{{"order": 1, "text": "Chop"}},
		"servings":     1,
		"prep_time":    5,
		"cook_time":    0,
		"difficulty":   "easy",
		"ingredients":  []map[string]interface{}{{"product_id": tomato.ID, "quantity": 2, "unit": "piece"}},
	}
	rec = h.do(http.MethodPost, base+"/recipes", "bob", recipe)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	salad := decode[struct {
		ID          string `json:"id"`
		IsFavorite  bool   `json:"is_favorite"`
		Ingredients []struct {
			Product *struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"ingredients"`
	}](t, rec)
	require.Len(t, salad.Ingredients, 1)
	require.NotNil(t, salad.Ingredients[0].Product)
	assert.Equal(t, "Tomato", salad.Ingredients[0].Product.Name)
	assert.False(t, salad.IsFavorite)

	recipe["name"] = "Soup"
	recipe["ingredients"] = []map[string]interface{}{{"product_id": "00000000-0000-0000-0000-0000000000aa", "quantity": 1, "unit": "piece"}}
	rec = h.do(http.MethodPost, base+"/recipes", "bob", recipe)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, base+"/recipes/"+salad.ID+"/favorite", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_favorite":true}`, rec.Body.String())

	rec = h.do(http.MethodGet, base+"/favorites", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.do(http.MethodPost, base+"/recipes/"+salad.ID+"/favorite", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"is_favorite":false}`, rec.Body.String())

	rec = h.do(http.MethodDelete, base+"/products/"+tomato.ID, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, base+"/recipes/"+salad.ID, "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"product":null`)

	rec = h.do(http.MethodDelete, base+"/recipes/"+salad.ID, "bob", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, base+"/recipes/"+salad.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "recipe_not_found", errorCode(t, rec))
}

func TestDeleteHouseholdCascades(t *testing.T) {
	h := newHarness(t, "alice", "bob")
	base, _ := setupHousehold(t, h)

	rec := h.do(http.MethodDelete, base, "bob", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodDelete, base, "alice", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, base+"/join", "bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "household_not_found", errorCode(t, rec))

	rec = h.do(http.MethodGet, "/api/memberships", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestIdentityWebhook(t *testing.T) {
	h := newHarness(t, "alice")
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/me", "alice", nil).Code)

	send := func(secret string, payload interface{}) *httptest.ResponseRecorder {
		var body bytes.Buffer
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", &body)
		req.Header.Set("X-Webhook-Secret", secret)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)
		return rec
	}

	updated := map[string]interface{}{
		"type": "user.updated",
		"user": map[string]interface{}{
			"id":            "ext-alice",
			"email":         "alice@example.com",
			"user_metadata": map[string]interface{}{"name": "Alice A"},
		},
	}
	assert.Equal(t, http.StatusUnauthorized, send("wrong", updated).Code)
	require.Equal(t, http.StatusNoContent, send("hook", updated).Code)

	rec := h.do(http.MethodGet, "/api/me", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice A", decode[map[string]interface{}](t, rec)["name"])

	updated["type"] = "user.renamed"
	assert.Equal(t, http.StatusBadRequest, send("hook", updated).Code)

	updated["type"] = "user.deleted"
	require.Equal(t, http.StatusNoContent, send("hook", updated).Code)
	require.Equal(t, http.StatusNoContent, send("hook", updated).Code)
}
