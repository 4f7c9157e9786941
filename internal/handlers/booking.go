package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/logging"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/mykafka"
)

type BookingHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *BookingHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicBookingEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *BookingHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		SlotID uint `json:"slot_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SlotID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "slot_id must be positive")
	}

	ctx := c.Request().Context()
	var slot models.ScheduleSlot
	if err := h.DB.WithContext(ctx).First(&slot, req.SlotID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Slot not found")
	}

	booking := models.Booking{
		SlotID:    slot.ID,
		StudentID: user.ID,
		TeacherID: slot.TeacherID,
		Status:    models.BookingBooked,
	}
	if err := h.DB.WithContext(ctx).Create(&booking).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, strconv.Itoa(int(booking.ID)), map[string]any{
		"type":       "booking_created",
		"booking_id": booking.ID,
		"slot_id":    booking.SlotID,
		"student_id": booking.StudentID,
		"teacher_id": booking.TeacherID,
	})

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) MyBookings(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var bookings []models.Booking
	if err := h.DB.WithContext(c.Request().Context()).
		Where("student_id = ? OR teacher_id = ?", user.ID, user.ID).
		Find(&bookings).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var booking models.Booking
	if err := h.DB.WithContext(c.Request().Context()).First(&booking, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.setStatus(c, models.BookingCancelled, "booking_cancelled")
}

func (h *BookingHandler) Complete(c echo.Context) error {
	return h.setStatus(c, models.BookingCompleted, "booking_completed")
}

func (h *BookingHandler) setStatus(c echo.Context, status, eventType string) error {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var booking models.Booking
	if err := h.DB.WithContext(ctx).First(&booking, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Booking not found")
	}

	booking.Status = status
	if err := h.DB.WithContext(ctx).Save(&booking).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, strconv.Itoa(int(booking.ID)), map[string]any{
		"type":       eventType,
		"booking_id": booking.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"status": status})
}
