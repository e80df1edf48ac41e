package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskdept/taskdept/internal/constants"
	"github.com/taskdept/taskdept/internal/dto"
	"github.com/taskdept/taskdept/internal/middleware"
	"github.com/taskdept/taskdept/internal/models"
	"github.com/taskdept/taskdept/internal/policy"
	"github.com/taskdept/taskdept/internal/repository"
	"github.com/taskdept/taskdept/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	engineering models.Department
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.Department{},
		&models.User{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	authService := services.NewAuthService(userRepo, deptRepo)
	handler := NewAuthHandler(authService)

	engineering := models.Department{Name: "Engineering"}
	require.NoError(t, db.Create(&engineering).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		engineering: engineering,
	}
}

func (env authTestEnv) createUser(t *testing.T, username, password string, roleID uint8) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Email:        username + "@example.com",
		RoleID:       roleID,
	}
	require.NoError(t, env.db.Create(&user).Error)
	return user
}

func newSessionRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "manager1", "supersecret", uint8(policy.RoleManager))

	r := newSessionRouter(env.handler)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "manager1",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "manager1", response.Username)
	require.NotEmpty(t, w.Result().Cookies(), "login must set the session cookie")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "manager1", "supersecret", uint8(policy.RoleManager))

	r := newSessionRouter(env.handler)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "manager1",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_DesignationMismatch(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.createUser(t, "emp1", "supersecret", uint8(policy.RoleEmployee))

	r := newSessionRouter(env.handler)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username":    "emp1",
		"password":    "supersecret",
		"designation": "Manager",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_SessionRoundTrip(t *testing.T) {
	env := setupAuthTestEnv(t)
	user := env.createUser(t, "admin1", "supersecret", uint8(policy.RoleAdmin))

	r := newSessionRouter(env.handler)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"username": "admin1",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Replay the session cookie against /me.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
}

func TestAuthHandler_MeWithoutSession(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := newSessionRouter(env.handler)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEmployeeHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)
	admin := env.createUser(t, "admin1", "supersecret", uint8(policy.RoleAdmin))
	employee := env.createUser(t, "emp1", "supersecret", uint8(policy.RoleEmployee))

	handler := NewEmployeeHandler(env.authService)

	payload := map[string]interface{}{
		"username":      "newhire",
		"password":      "long-enough-password",
		"email":         "newhire@example.com",
		"department_id": env.engineering.ID,
		"role_id":       uint8(policy.RoleEmployee),
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	// Non-admin principals are refused.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/employees", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", employee.ID)
	handler.RegisterEmployee(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/employees", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", admin.ID)
	handler.RegisterEmployee(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newhire", response.Username)
}
