package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/config"
	"github.com/smartedu/smartedu/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(config.AllModels()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newJSONContext(e *echo.Echo, method, path string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	var body *bytes.Reader
	if payload != nil {
		bodyBytes, _ := json.Marshal(payload)
		body = bytes.NewReader(bodyBytes)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser mimics what RequireAuth does after a successful token check.
func asUser(c echo.Context, user *models.User) echo.Context {
	c.Set("user", user)
	return c
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	return he
}
