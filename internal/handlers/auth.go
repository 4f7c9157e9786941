package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/hash"
	"github.com/smartedu/smartedu/internal/logging"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/mykafka"
	"github.com/smartedu/smartedu/internal/tokens"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// Authenticate looks the user up by username and verifies the password.
// Both unknown user and wrong password come back as nil, so the caller
// cannot enumerate usernames.
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*models.User, error) {
	user, err := authmw.LoadUser(ctx, db, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	var existing models.User
	err := h.DB.WithContext(c.Request().Context()).
		Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists!")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Roles:        []models.Role{},
		Permissions:  []models.Permission{},
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, user)
}

// AddUser is the admin-gated variant of Register: it can set the staff and
// superuser flags directly.
func (h *AuthHandler) AddUser(c echo.Context) error {
	var req struct {
		Username        string `json:"username"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		IsStaff         bool   `json:"is_staff"`
		IsSuperuser     bool   `json:"is_superuser"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}
	if req.Password != req.ConfirmPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}

	var existing models.User
	err := h.DB.WithContext(c.Request().Context()).
		Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists!")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
		Roles:        []models.Role{},
		Permissions:  []models.Permission{},
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	user, err := Authenticate(c.Request().Context(), h.DB, req.Username, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials!")
	}

	accessToken, err := tokens.NewAccessToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	refreshToken, err := tokens.NewRefreshToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, user.Username, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"access":  accessToken,
		"refresh": refreshToken,
	})
}

// LogOut revokes the presented refresh token. The access token that
// authenticated the request keeps working until its own TTL runs out.
func (h *AuthHandler) LogOut(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	ctx := c.Request().Context()
	if _, err := authmw.ValidateRefreshToken(ctx, h.DB, h.JWTSecret, req.Token); err != nil {
		return err
	}
	if err := authmw.Revoke(ctx, h.DB, req.Token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out user",
		"status":  http.StatusOK,
	})
}

// Refresh issues a fresh access token from a still-valid refresh token. The
// refresh token itself is returned unchanged, not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	ctx := c.Request().Context()
	claims, err := authmw.ValidateRefreshToken(ctx, h.DB, h.JWTSecret, req.Token)
	if err != nil {
		return err
	}

	user, err := authmw.LoadUser(ctx, h.DB, claims.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
	}
	accessToken, err := tokens.NewAccessToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"refresh": req.Token,
		"access":  accessToken,
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) SetPermissionsToUser(c echo.Context) error {
	var req struct {
		UserID      uint   `json:"user_id"`
		Permissions []uint `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == 0 || len(req.Permissions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	ctx := c.Request().Context()
	var user models.User
	if err := h.DB.WithContext(ctx).
		Preload("Roles.Permissions").Preload("Permissions").
		First(&user, req.UserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User doesn't exists!")
	}

	var perms []models.Permission
	if err := h.DB.WithContext(ctx).Where("id IN ?", req.Permissions).Find(&perms).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(perms) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Permission doesn't exists")
	}

	missing := permissionsNotHeld(user.Permissions, perms)
	if len(missing) > 0 {
		if err := h.DB.WithContext(ctx).Model(&user).
			Association("Permissions").Append(missing); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	reloaded, err := authmw.LoadUser(ctx, h.DB, user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reloaded)
}

func (h *AuthHandler) AddRole(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role name must be set!")
	}

	role := models.Role{Name: req.Name, Permissions: []models.Permission{}}
	if err := h.DB.WithContext(c.Request().Context()).Create(&role).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, role)
}

func (h *AuthHandler) AddPermissionsToRole(c echo.Context) error {
	var req struct {
		RoleID      uint   `json:"role_id"`
		Permissions []uint `json:"permissions"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.RoleID == 0 || len(req.Permissions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	ctx := c.Request().Context()
	var role models.Role
	if err := h.DB.WithContext(ctx).Preload("Permissions").First(&role, req.RoleID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Role not found!")
	}

	var perms []models.Permission
	if err := h.DB.WithContext(ctx).Where("id IN ?", req.Permissions).Find(&perms).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(perms) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Permission doesn't exists")
	}

	missing := permissionsNotHeld(role.Permissions, perms)
	if len(missing) > 0 {
		if err := h.DB.WithContext(ctx).Model(&role).
			Association("Permissions").Append(missing); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.DB.WithContext(ctx).Preload("Permissions").First(&role, role.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, role)
}

func (h *AuthHandler) AddRoleToUser(c echo.Context) error {
	var req struct {
		UserID uint   `json:"user_id"`
		Roles  []uint `json:"roles"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == 0 || len(req.Roles) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required!")
	}

	ctx := c.Request().Context()
	var user models.User
	if err := h.DB.WithContext(ctx).
		Preload("Roles").Preload("Permissions").
		First(&user, req.UserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User does not exists!")
	}

	var roles []models.Role
	if err := h.DB.WithContext(ctx).Where("id IN ?", req.Roles).Find(&roles).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(roles) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Roles doesn't exists")
	}

	held := make(map[uint]struct{}, len(user.Roles))
	for _, role := range user.Roles {
		held[role.ID] = struct{}{}
	}
	var missing []models.Role
	for _, role := range roles {
		if _, ok := held[role.ID]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		if err := h.DB.WithContext(ctx).Model(&user).
			Association("Roles").Append(missing); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	reloaded, err := authmw.LoadUser(ctx, h.DB, user.Username)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reloaded)
}

func permissionsNotHeld(held, requested []models.Permission) []models.Permission {
	have := make(map[uint]struct{}, len(held))
	for _, perm := range held {
		have[perm.ID] = struct{}{}
	}
	var missing []models.Permission
	for _, perm := range requested {
		if _, ok := have[perm.ID]; !ok {
			missing = append(missing, perm)
		}
	}
	return missing
}
