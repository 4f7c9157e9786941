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

type PaymentHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *PaymentHandler) publish(c echo.Context, payment *models.Payment, eventType string) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":       eventType,
		"payment_id": payment.ID,
		"booking_id": payment.BookingID,
		"amount":     payment.Amount,
		"status":     payment.Status,
	}
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicBookingEvents, strconv.Itoa(int(payment.BookingID)), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

func (h *PaymentHandler) Create(c echo.Context) error {
	var req struct {
		BookingID uint `json:"booking_id"`
		Amount    int  `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.BookingID == 0 || req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "booking_id and amount must be positive")
	}

	payment := models.Payment{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Status:    models.PaymentPending,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&payment).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, &payment, "payment_created")

	return c.JSON(http.StatusOK, payment)
}

// MyPayments lists payments for bookings where the caller is the student or
// the teacher.
func (h *PaymentHandler) MyPayments(c echo.Context) error {
	user := authmw.CurrentUser(c)

	db := h.DB.WithContext(c.Request().Context())
	bookingIDs := db.Model(&models.Booking{}).Select("id").
		Where("student_id = ? OR teacher_id = ?", user.ID, user.ID)

	var payments []models.Payment
	if err := db.Where("booking_id IN (?)", bookingIDs).Find(&payments).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("payment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var payment models.Payment
	if err := h.DB.WithContext(c.Request().Context()).First(&payment, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) Pay(c echo.Context) error {
	return h.setStatus(c, models.PaymentPaid, "payment_paid")
}

func (h *PaymentHandler) Release(c echo.Context) error {
	return h.setStatus(c, models.PaymentReleased, "payment_released")
}

func (h *PaymentHandler) setStatus(c echo.Context, status, eventType string) error {
	id, err := strconv.Atoi(c.Param("payment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var payment models.Payment
	if err := h.DB.WithContext(ctx).First(&payment, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	}

	payment.Status = status
	if err := h.DB.WithContext(ctx).Save(&payment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, &payment, eventType)

	return c.JSON(http.StatusOK, echo.Map{"status": status})
}
