package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/models"
)

type ParentHandler struct {
	DB *gorm.DB
}

func (h *ParentHandler) ChildBookings(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var bookings []models.Booking
	if err := h.DB.WithContext(c.Request().Context()).
		Where("student_id = ?", id).Find(&bookings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *ParentHandler) ChildReviews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var student models.StudentProfile
	if err := h.DB.WithContext(ctx).First(&student, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Student not found")
	}

	var reviews []models.Review
	if err := h.DB.WithContext(ctx).
		Where("student_id = ?", id).Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reviews)
}
