package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
)

type StudentHandler struct {
	DB *gorm.DB
}

func (h *StudentHandler) MyProfile(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var profile models.StudentProfile
	if err := h.DB.WithContext(c.Request().Context()).
		Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Student profile not found")
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile creates the profile on first write, matching the lazy
// profile lifecycle of the student side.
func (h *StudentHandler) UpdateMyProfile(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.FullName) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name too short")
	}

	ctx := c.Request().Context()
	var profile models.StudentProfile
	err := h.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		profile = models.StudentProfile{UserID: user.ID, FullName: req.FullName}
		if err := h.DB.WithContext(ctx).Create(&profile).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, profile)
	}

	profile.FullName = req.FullName
	if err := h.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}
