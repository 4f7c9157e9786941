package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
)

type ScheduleHandler struct {
	DB *gorm.DB
}

func (h *ScheduleHandler) CreateSlot(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.StartTime == "" || req.EndTime == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	slot := models.ScheduleSlot{
		TeacherID: user.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    models.SlotAvailable,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&slot).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, slot)
}

func (h *ScheduleHandler) MySlots(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var slots []models.ScheduleSlot
	if err := h.DB.WithContext(c.Request().Context()).
		Where("teacher_id = ?", user.ID).Find(&slots).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *ScheduleHandler) DeleteSlot(c echo.Context) error {
	user := authmw.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("slot_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var slot models.ScheduleSlot
	if err := h.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, user.ID).First(&slot).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Slot not found")
	}
	if err := h.DB.WithContext(ctx).Delete(&slot).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "deleted"})
}
