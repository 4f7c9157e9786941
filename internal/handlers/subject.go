package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/models"
)

type SubjectHandler struct {
	DB *gorm.DB
}

func (h *SubjectHandler) Create(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Name) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "subject name too short")
	}

	subject := models.Subject{Name: req.Name}
	if err := h.DB.WithContext(c.Request().Context()).Create(&subject).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, subject)
}

func (h *SubjectHandler) List(c echo.Context) error {
	var subjects []models.Subject
	if err := h.DB.WithContext(c.Request().Context()).Find(&subjects).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, subjects)
}
