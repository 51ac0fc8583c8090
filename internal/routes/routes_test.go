package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"laily-api/internal/auth"
	"laily-api/internal/export"
	"laily-api/internal/models"
	"laily-api/internal/repository"
	"laily-api/internal/service"
	"laily-api/internal/service/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type testAPI struct {
	router   *gin.Engine
	users    *mocks.MockUserStore
	products *mocks.MockProductStore
	settings *mocks.MockSettingsStore
	tokens   *auth.Tokens
}

func newTestAPI(t *testing.T, pinger fakePinger) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := &testAPI{
		router:   gin.New(),
		users:    mocks.NewMockUserStore(ctrl),
		products: mocks.NewMockProductStore(ctrl),
		settings: mocks.NewMockSettingsStore(ctrl),
		tokens:   auth.NewTokens("routes-test", time.Hour),
	}
	log := zap.NewNop()
	hasher := auth.NewHasher(bcrypt.MinCost)
	RegisterRoutes(api.router, Services{
		Auth:     service.NewAuthService(api.users, hasher, api.tokens, log),
		Users:    service.NewUserService(api.users, hasher, log),
		Products: service.NewProductService(api.products, log),
		PromoBar: service.NewPromoBarService(api.settings, "default promo", log),
		DB:       pinger,
	})
	return api
}

// tokenFor emite un token y prepara la búsqueda que hará Authenticate
func (a *testAPI) tokenFor(t *testing.T, role string) string {
	t.Helper()
	user := &models.User{ID: primitive.NewObjectID(), Email: role + "@laily.kr", Role: role}
	token, err := a.tokens.Issue(user)
	require.NoError(t, err)
	a.users.EXPECT().FindByID(gomock.Any(), user.ID.Hex()).Return(user, nil).AnyTimes()
	return token
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestRootAndHealth(t *testing.T) {
	api := newTestAPI(t, fakePinger{})
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/healthz", "", nil).Code)

	down := newTestAPI(t, fakePinger{err: errors.New("no reachable servers")})
	w := down.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "no reachable servers", decode(t, w)["details"])
}

func TestAuthRoutes(t *testing.T) {
	api := newTestAPI(t, fakePinger{})

	w := api.do(http.MethodPost, "/api/auth/kakao", "", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "no token provided", decode(t, w)["error"])

	token := api.tokenFor(t, models.RoleCustomer)
	w = api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "customer@laily.kr", user["email"])
	assert.NotContains(t, user, "password")

	api.users.EXPECT().FindByEmail(gomock.Any(), "ghost@laily.kr").Return(nil, repository.ErrNotFound)
	w = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ghost@laily.kr", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", decode(t, w)["error"])

	w = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.kr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductRoutes(t *testing.T) {
	api := newTestAPI(t, fakePinger{})
	customer := api.tokenFor(t, models.RoleCustomer)
	admin := api.tokenFor(t, models.RoleAdmin)
	payload := gin.H{
		"sku":        "abc-1",
		"name":       "Wool coat",
		"price":      gin.H{"originalPrice": 1000, "discountPercentage": 20},
		"category":   "OUTER",
		"image":      "/img/coat.jpg",
		"detailPage": "/detail/coat.html",
	}

	t.Run("create requires admin", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/products", "", payload).Code)

		w := api.do(http.MethodPost, "/api/products", customer, payload)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "admin privileges required", decode(t, w)["error"])
	})

	t.Run("create as admin", func(t *testing.T) {
		api.products.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		w := api.do(http.MethodPost, "/api/products", admin, payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		product := decode(t, w)["product"].(map[string]any)
		assert.Equal(t, "ABC-1", product["sku"])
		price := product["price"].(map[string]any)
		assert.EqualValues(t, 800, price["discountedPrice"])
		assert.EqualValues(t, 200, price["discountAmount"])
	})

	t.Run("create with missing fields", func(t *testing.T) {
		w := api.do(http.MethodPost, "/api/products", admin, gin.H{"sku": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decode(t, w)["details"])
	})

	t.Run("list paginated", func(t *testing.T) {
		api.products.EXPECT().
			FindAll(gomock.Any(), models.ProductFilter{Category: "TOP", Page: 2, PageSize: 5}).
			Return([]models.Product{{SKU: "A"}}, int64(6), nil)

		w := api.do(http.MethodGet, "/api/products?category=top&page=2&page_size=5", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 1, body["count"])
		assert.EqualValues(t, 6, body["total"])
		assert.EqualValues(t, 2, body["page"])
	})

	t.Run("list unpaginated omits total", func(t *testing.T) {
		api.products.EXPECT().FindAll(gomock.Any(), models.ProductFilter{}).Return([]models.Product{}, int64(0), nil)

		body := decode(t, api.do(http.MethodGet, "/api/products", "", nil))
		assert.NotContains(t, body, "total")
		assert.Equal(t, []any{}, body["products"])
	})

	t.Run("sku lookup", func(t *testing.T) {
		api.products.EXPECT().FindBySKU(gomock.Any(), "ABC-1").Return(&models.Product{SKU: "ABC-1"}, nil)
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/sku/abc-1", "", nil).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		api.products.EXPECT().FindByID(gomock.Any(), "nope").Return(nil, repository.ErrInvalidID)
		w := api.do(http.MethodGet, "/api/products/nope", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid product id", decode(t, w)["error"])
	})

	t.Run("stock update", func(t *testing.T) {
		productID, variantID := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()
		api.products.EXPECT().UpdateVariantStock(gomock.Any(), productID, variantID, 5).Return(&models.Product{}, nil)

		w := api.do(http.MethodPut, "/api/products/"+productID+"/variants/"+variantID+"/stock", admin, gin.H{"stock": 5})
		assert.Equal(t, http.StatusOK, w.Code)

		w = api.do(http.MethodPut, "/api/products/"+productID+"/variants/"+variantID+"/stock", admin, gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		api.products.EXPECT().FindAll(gomock.Any(), models.ProductFilter{}).
			Return([]models.Product{{ID: primitive.NewObjectID(), SKU: "ABC-1"}}, int64(1), nil)

		w := api.do(http.MethodGet, "/api/products/export", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
		assert.NotZero(t, w.Body.Len())
	})
}

func TestUserRoutes(t *testing.T) {
	api := newTestAPI(t, fakePinger{})

	w := api.do(http.MethodPost, "/api/users", "", gin.H{"email": "kim@laily.kr", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["details"].([]any)
	assert.Equal(t, "name", details[0].(map[string]any)["field"])

	w = api.do(http.MethodPost, "/api/users", "", gin.H{"email": "not-an-email", "name": "A", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid address", decode(t, w)["error"])

	var stored *models.User
	api.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		u.ID = primitive.NewObjectID()
		stored = u
		return nil
	})
	w = api.do(http.MethodPost, "/api/users", "", gin.H{"email": "  Shop@Laily.KR ", "name": "Kim", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "shop@laily.kr", stored.Email)
	assert.Equal(t, "shop@laily.kr", decode(t, w)["user"].(map[string]any)["email"])

	padded := primitive.NewObjectID()
	api.users.EXPECT().Update(gomock.Any(), padded.Hex(), bson.M{"email": "a@b.com"}, gomock.Nil()).
		Return(&models.User{ID: padded, Email: "a@b.com"}, nil)
	w = api.do(http.MethodPut, "/api/users/"+padded.Hex(), "", gin.H{"email": " A@B.com "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	id := primitive.NewObjectID()
	api.users.EXPECT().Delete(gomock.Any(), id.Hex()).Return(&models.User{ID: id, Email: "a@b.kr", Name: "A"}, nil)
	w = api.do(http.MethodDelete, "/api/users/"+id.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.kr", decode(t, w)["user"].(map[string]any)["email"])
}

func TestPromoBarRoutes(t *testing.T) {
	api := newTestAPI(t, fakePinger{})

	api.settings.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *models.Settings) (*models.Settings, error) { return s, nil })
	w := api.do(http.MethodGet, "/api/settings/promo-bar", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "default promo", settings["currentValue"])
	assert.Equal(t, "promoBar", settings["key"])

	customer := api.tokenFor(t, models.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/settings/promo-bar", customer, gin.H{}).Code)

	admin := api.tokenFor(t, models.RoleAdmin)
	api.settings.EXPECT().FindByKey(gomock.Any(), models.PromoBarKey).Return(&models.Settings{Key: models.PromoBarKey, Value: "old"}, nil)
	api.settings.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	w = api.do(http.MethodPut, "/api/settings/promo-bar", admin, gin.H{
		"messages": []gin.H{{"text": "Spring sale", "isActive": true}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	settings = decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "Spring sale", settings["value"])
	assert.Equal(t, "Spring sale", settings["currentValue"])
}

