package userControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ecommerce-platform/auth"
	"ecommerce-platform/models"
)

var testDB *gorm.DB

func setupTestDB() (*gorm.DB, error) {
	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := dbConn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbConn.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, err
	}
	return dbConn, nil
}

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	var err error
	testDB, err = setupTestDB()
	if err != nil {
		panic("failed to open test database: " + err.Error())
	}
	m.Run()
}

func TestRegisterAndAuthenticate(t *testing.T) {
	user, err := RegisterUser(testDB, RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash, "password must be hashed")

	// Duplicate email is rejected.
	_, err = RegisterUser(testDB, RegisterRequest{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, models.ErrEmailRegistered)

	authed, err := AuthenticateUser(testDB, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = AuthenticateUser(testDB, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = AuthenticateUser(testDB, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestDeactivateUserBlocksLoginAndRevokesTokens(t *testing.T) {
	user, err := RegisterUser(testDB, RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	token, _, err := auth.IssueToken(testDB, user)
	require.NoError(t, err)

	require.NoError(t, DeactivateUser(testDB, user.ID))

	_, err = AuthenticateUser(testDB, "bob@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = auth.ValidateToken(testDB, token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated, "deactivation must kill live sessions")
}

func TestDeactivateUnknownUser(t *testing.T) {
	err := DeactivateUser(testDB, 999999)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

// principalStub stands in for RequireAuth in handler tests.
func principalStub(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", models.RoleCustomer)
		c.Next()
	}
}

func TestUpdateUserPatchesOnlyProvidedFields(t *testing.T) {
	user, err := RegisterUser(testDB, RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "secret123",
		Phone:    "111",
		Address:  "Old Street 1",
	})
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/user", principalStub(user.ID), UpdateUser(testDB))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/user", strings.NewReader(`{"phone":"222"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.User
	require.NoError(t, testDB.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "222", reloaded.Phone)
	assert.Equal(t, "Carol", reloaded.Name, "absent fields stay untouched")
	assert.Equal(t, "Old Street 1", reloaded.Address)

	// An explicit empty string is a real update, not an omission.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/user", strings.NewReader(`{"address":""}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, testDB.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "", reloaded.Address)
}

func TestLoginHandlerIssuesToken(t *testing.T) {
	_, err := RegisterUser(testDB, RegisterRequest{
		Name:     "Dave",
		Email:    "dave@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/auth/login", LoginHandler(testDB))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"dave@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	record, err := auth.ValidateToken(testDB, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, record.Role)
}

func TestLoginHandlerRejectsBadCredentials(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", LoginHandler(testDB))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"whatever1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
