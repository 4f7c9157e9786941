package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/mykafka"
)

var testSecret = []byte("test_secret")

func newAuthHandler(t *testing.T) *AuthHandler {
	return &AuthHandler{
		DB:        InitTestDB(t),
		JWTSecret: testSecret,
		Producer:  &mykafka.Producer{},
	}
}

func TestRegister(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	payload := map[string]string{"username": "test_user", "password": "password"}

	c, rec := newJSONContext(e, http.MethodPost, "/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "test_user", user.Username)
	require.NotEmpty(t, user.ID)
	require.False(t, user.IsStaff)
	require.NotContains(t, rec.Body.String(), "password_hash")

	c2, _ := newJSONContext(e, http.MethodPost, "/auth/register", payload)
	he := httpError(t, h.Register(c2))
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "User already exists!", he.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		map[string]string{"username": "test_user", "password": "password"})
	require.NoError(t, h.Register(c))

	// unknown user and wrong password produce the same response
	cUnknown, _ := newJSONContext(e, http.MethodPost, "/auth/login",
		map[string]string{"username": "who", "password": "password"})
	heUnknown := httpError(t, h.Login(cUnknown))

	cWrong, _ := newJSONContext(e, http.MethodPost, "/auth/login",
		map[string]string{"username": "test_user", "password": "wrong"})
	heWrong := httpError(t, h.Login(cWrong))

	require.Equal(t, http.StatusBadRequest, heUnknown.Code)
	require.Equal(t, heUnknown.Code, heWrong.Code)
	require.Equal(t, heUnknown.Message, heWrong.Message)
}

func TestAuthFlow(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	m := authmw.Middleware{DB: h.DB, JWTSecret: testSecret}

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		map[string]string{"username": "test_user", "password": "password"})
	require.NoError(t, h.Register(c))

	cLogin, recLogin := newJSONContext(e, http.MethodPost, "/auth/login",
		map[string]string{"username": "test_user", "password": "password"})
	require.NoError(t, h.Login(cLogin))
	require.Equal(t, http.StatusOK, recLogin.Code)

	var loginResp map[string]string
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &loginResp))
	access := loginResp["access"]
	refresh := loginResp["refresh"]
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	// the access token authenticates a protected route
	cMe, recMe := newJSONContext(e, http.MethodGet, "/auth/me", nil)
	cMe.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	require.NoError(t, m.RequireAuth(h.Me)(cMe))
	require.Equal(t, http.StatusOK, recMe.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(recMe.Body.Bytes(), &me))
	require.Equal(t, "test_user", me.Username)

	// refresh issues a new access token, keeps the refresh token
	cRefresh, recRefresh := newJSONContext(e, http.MethodPost, "/auth/refresh",
		map[string]string{"token": refresh})
	require.NoError(t, h.Refresh(cRefresh))
	var refreshResp map[string]string
	require.NoError(t, json.Unmarshal(recRefresh.Body.Bytes(), &refreshResp))
	require.Equal(t, refresh, refreshResp["refresh"])
	require.NotEmpty(t, refreshResp["access"])

	// logout revokes the refresh token
	cOut, recOut := newJSONContext(e, http.MethodPost, "/auth/logout",
		map[string]string{"token": refresh})
	require.NoError(t, h.LogOut(cOut))
	require.Equal(t, http.StatusOK, recOut.Code)

	var outResp map[string]any
	require.NoError(t, json.Unmarshal(recOut.Body.Bytes(), &outResp))
	require.Equal(t, "logged out user", outResp["message"])

	// replaying the revoked refresh token is rejected
	cReplay, _ := newJSONContext(e, http.MethodPost, "/auth/refresh",
		map[string]string{"token": refresh})
	he := httpError(t, h.Refresh(cReplay))
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "Token already blocked", he.Message)

	// the access token keeps working until its own TTL runs out
	cMe2, recMe2 := newJSONContext(e, http.MethodGet, "/auth/me", nil)
	cMe2.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	require.NoError(t, m.RequireAuth(h.Me)(cMe2))
	require.Equal(t, http.StatusOK, recMe2.Code)
}

func TestLogOutRejectsAccessToken(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		map[string]string{"username": "test_user", "password": "password"})
	require.NoError(t, h.Register(c))

	cLogin, recLogin := newJSONContext(e, http.MethodPost, "/auth/login",
		map[string]string{"username": "test_user", "password": "password"})
	require.NoError(t, h.Login(cLogin))
	var loginResp map[string]string
	require.NoError(t, json.Unmarshal(recLogin.Body.Bytes(), &loginResp))

	cOut, _ := newJSONContext(e, http.MethodPost, "/auth/logout",
		map[string]string{"token": loginResp["access"]})
	he := httpError(t, h.LogOut(cOut))
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Equal(t, "Invalid token", he.Message)
}

func TestSetPermissionsToUserIdempotent(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	user := models.User{Username: "test_user", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(&user).Error)
	perm := models.Permission{Name: "lesson: add", Description: "Can add lesson"}
	require.NoError(t, h.DB.Create(&perm).Error)

	payload := map[string]any{"user_id": user.ID, "permissions": []uint{perm.ID}}

	for i := 0; i < 2; i++ {
		c, rec := newJSONContext(e, http.MethodPost, "/auth/set-permissions-to-user", payload)
		require.NoError(t, h.SetPermissionsToUser(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, h.DB.Table("user_permissions").Count(&count).Error)
	require.Equal(t, int64(1), count)

	reloaded, err := authmw.LoadUser(context.Background(), h.DB, "test_user")
	require.NoError(t, err)
	require.Len(t, reloaded.Permissions, 1)
	require.Equal(t, "lesson: add", reloaded.Permissions[0].Name)
}

func TestSetPermissionsToUserUnknownPermission(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	user := models.User{Username: "test_user", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(&user).Error)

	c, _ := newJSONContext(e, http.MethodPost, "/auth/set-permissions-to-user",
		map[string]any{"user_id": user.ID, "permissions": []uint{999}})
	he := httpError(t, h.SetPermissionsToUser(c))
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRoleGrantsFlowThroughToUser(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	user := models.User{Username: "test_user", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(&user).Error)
	perm := models.Permission{Name: "booking: read", Description: "Can read booking"}
	require.NoError(t, h.DB.Create(&perm).Error)

	cRole, recRole := newJSONContext(e, http.MethodPost, "/auth/add-role",
		map[string]string{"name": "teacher"})
	require.NoError(t, h.AddRole(cRole))
	var role models.Role
	require.NoError(t, json.Unmarshal(recRole.Body.Bytes(), &role))

	cPerm, _ := newJSONContext(e, http.MethodPost, "/auth/add-permissions-to-role",
		map[string]any{"role_id": role.ID, "permissions": []uint{perm.ID}})
	require.NoError(t, h.AddPermissionsToRole(cPerm))

	cAssign, _ := newJSONContext(e, http.MethodPost, "/auth/add-role-to-user",
		map[string]any{"user_id": user.ID, "roles": []uint{role.ID}})
	require.NoError(t, h.AddRoleToUser(cAssign))

	// the role's permission is effective on the next load, no extra step
	reloaded, err := authmw.LoadUser(context.Background(), h.DB, "test_user")
	require.NoError(t, err)
	effective := authmw.EffectivePermissions(reloaded)
	require.Contains(t, effective, "booking: read")

	// re-assigning the same role does not duplicate the join row
	cAgain, _ := newJSONContext(e, http.MethodPost, "/auth/add-role-to-user",
		map[string]any{"user_id": user.ID, "roles": []uint{role.ID}})
	require.NoError(t, h.AddRoleToUser(cAgain))

	var count int64
	require.NoError(t, h.DB.Table("user_roles").Count(&count).Error)
	require.Equal(t, int64(1), count)
}
