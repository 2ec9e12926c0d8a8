package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog_system/internal/api"
	"catalog_system/internal/domain"
	"catalog_system/internal/middleware"
	"catalog_system/internal/utils"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

// newTestDB opens an isolated in-memory database and migrates the schema.
// The database name is derived from the test so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.ProductImage{}, &domain.UserBar{}))
	return db
}

// newTestRouter wires the handlers the way cmd/server does, with the cache disabled.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/users", api.RegisterHandler(db))
	r.POST("/users/login", api.LoginHandler(db, testJWTSecret))
	productGroup := r.Group("/products")
	productGroup.Use(middleware.OptionalJWTMiddleware(testJWTSecret))
	productGroup.GET("/", api.ListProductsHandler(db, nil))
	userBarGroup := r.Group("/user_bars")
	userBarGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	userBarGroup.PUT("/update/", api.UpdateUserBarHandler(db, nil))
	userBarGroup.PATCH("/update/", api.UpdateUserBarHandler(db, nil))
	return r
}

// createUser inserts a user with a hashed password and returns it.
func createUser(t *testing.T, db *gorm.DB, username string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Username: username, Password: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// createProduct inserts a product with the given image paths.
func createProduct(t *testing.T, db *gorm.DB, name string, inTrash bool, images ...string) domain.Product {
	t.Helper()
	product := domain.Product{Name: name, InTrash: inTrash}
	for _, img := range images {
		product.Images = append(product.Images, domain.ProductImage{Image: img})
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// bearerToken issues a JWT for the given user.
func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, testJWTSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

// doRequest performs a request against the router and returns the recorder.
// An empty authHeader means an anonymous request; a non-nil body is sent as JSON.
func doRequest(t *testing.T, r *gin.Engine, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeListing unmarshals a listing response envelope.
func decodeListing(t *testing.T, w *httptest.ResponseRecorder) api.PagedResponse {
	t.Helper()
	var resp api.PagedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// userBarCount returns the number of persisted bars for a user.
func userBarCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.UserBar{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}
