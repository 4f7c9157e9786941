package authmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/tokens"
)

const userContextKey = "user"

// Middleware is the per-route authorization gate: it recovers the caller's
// identity from a bearer token and evaluates role/permission predicates
// before a handler runs.
type Middleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// ValidateAccessToken decodes the token, consults the revocation ledger and
// enforces the access type claim.
func ValidateAccessToken(ctx context.Context, db *gorm.DB, secret []byte, raw string) (*tokens.Claims, error) {
	claims, err := tokens.Parse(raw, secret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	revoked, err := IsRevoked(ctx, db, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Token already blocked")
	}
	if claims.Type != tokens.TypeAccess {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
	}
	return claims, nil
}

// ValidateRefreshToken checks the ledger before decoding, so a revoked
// string is rejected even when its signature and expiry are still good.
func ValidateRefreshToken(ctx context.Context, db *gorm.DB, secret []byte, raw string) (*tokens.Claims, error) {
	revoked, err := IsRevoked(ctx, db, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Token already blocked")
	}
	claims, err := tokens.Parse(raw, secret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if claims.Type != tokens.TypeRefresh {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid token")
	}
	return claims, nil
}

func IsRevoked(ctx context.Context, db *gorm.DB, raw string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("token = ?", raw).Count(&count).Error; err != nil {
		return false, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return count > 0, nil
}

// Revoke records the token string permanently. Re-revoking is a no-op.
func Revoke(ctx context.Context, db *gorm.DB, raw string) error {
	revoked := models.RevokedToken{Token: raw}
	return db.WithContext(ctx).Where("token = ?", raw).FirstOrCreate(&revoked).Error
}

// LoadUser re-fetches the full user row with roles and permissions eagerly
// loaded, so grant edits take effect on the next request.
func LoadUser(ctx context.Context, db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).
		Preload("Roles.Permissions").
		Preload("Permissions").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}
	// grantless users serialize with empty arrays, not null
	if user.Roles == nil {
		user.Roles = []models.Role{}
	}
	for i := range user.Roles {
		if user.Roles[i].Permissions == nil {
			user.Roles[i].Permissions = []models.Permission{}
		}
	}
	if user.Permissions == nil {
		user.Permissions = []models.Permission{}
	}
	return &user, nil
}

func bearerToken(c echo.Context) (string, error) {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
	}
	return strings.TrimSpace(header[7:]), nil
}

// RequireAuth authenticates the request and attaches the resolved user to
// the echo context. Missing credentials are a 401; a presented but invalid
// token surfaces the validator's 400.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		claims, err := ValidateAccessToken(ctx, m.DB, m.JWTSecret, raw)
		if err != nil {
			return err
		}
		user, err := LoadUser(ctx, m.DB, claims.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// RequireAdmin allows only users with is_staff or is_superuser set.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
		}
		if !user.IsStaff && !user.IsSuperuser {
			return echo.NewHTTPError(http.StatusForbidden, "Permission denied!")
		}
		return next(c)
	}
}

// RequireRoles allows the request iff the user's role-name set intersects
// the required names.
func (m *Middleware) RequireRoles(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
			}
			held := make(map[string]struct{}, len(user.Roles))
			for _, role := range user.Roles {
				held[role.Name] = struct{}{}
			}
			for _, name := range names {
				if _, ok := held[name]; ok {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Access denied!")
		}
	}
}

// RequirePermissions allows the request iff the effective permission set
// (direct grants plus every held role's grants) intersects the required
// names. The set is recomputed on every check, never cached.
func (m *Middleware) RequirePermissions(names ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized!")
			}
			effective := EffectivePermissions(user)
			for _, name := range names {
				if _, ok := effective[name]; ok {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Access denied!")
		}
	}
}

// EffectivePermissions is the union of direct permission names and all
// permission names reachable through the user's roles.
func EffectivePermissions(user *models.User) map[string]struct{} {
	effective := make(map[string]struct{}, len(user.Permissions))
	for _, perm := range user.Permissions {
		effective[perm.Name] = struct{}{}
	}
	for _, role := range user.Roles {
		for _, perm := range role.Permissions {
			effective[perm.Name] = struct{}{}
		}
	}
	return effective
}

func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
