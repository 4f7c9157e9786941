package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		BookingID uint   `json:"booking_id"`
		TeacherID uint   `json:"teacher_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review := models.Review{
		BookingID: req.BookingID,
		TeacherID: req.TeacherID,
		StudentID: user.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&review).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) TeacherReviews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("teacher_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var reviews []models.Review
	if err := h.DB.WithContext(c.Request().Context()).
		Where("teacher_id = ?", id).Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, reviews)
}
