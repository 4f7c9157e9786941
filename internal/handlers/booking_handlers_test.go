package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/mykafka"
)

func TestCreateBookingMissingSlot(t *testing.T) {
	h := &BookingHandler{DB: InitTestDB(t), Producer: &mykafka.Producer{}}
	e := echo.New()

	student := &models.User{Username: "student", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(student).Error)

	c, _ := newJSONContext(e, http.MethodPost, "/bookings", map[string]any{"slot_id": 42})
	he := httpError(t, h.Create(asUser(c, student)))
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestBookingLifecycle(t *testing.T) {
	h := &BookingHandler{DB: InitTestDB(t), Producer: &mykafka.Producer{}}
	e := echo.New()

	teacher := &models.User{Username: "teacher", PasswordHash: "x"}
	student := &models.User{Username: "student", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(teacher).Error)
	require.NoError(t, h.DB.Create(student).Error)

	slot := models.ScheduleSlot{
		TeacherID: teacher.ID,
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-01T11:00:00Z",
		Status:    models.SlotAvailable,
	}
	require.NoError(t, h.DB.Create(&slot).Error)

	c, rec := newJSONContext(e, http.MethodPost, "/bookings", map[string]any{"slot_id": slot.ID})
	require.NoError(t, h.Create(asUser(c, student)))
	require.Equal(t, http.StatusOK, rec.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	require.Equal(t, student.ID, booking.StudentID)
	require.Equal(t, teacher.ID, booking.TeacherID)
	require.Equal(t, models.BookingBooked, booking.Status)

	// both sides see it in their booking list
	for _, user := range []*models.User{student, teacher} {
		cList, recList := newJSONContext(e, http.MethodGet, "/bookings/me", nil)
		require.NoError(t, h.MyBookings(asUser(cList, user)))
		var bookings []models.Booking
		require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &bookings))
		require.Len(t, bookings, 1)
	}

	cCancel, recCancel := newJSONContext(e, http.MethodPatch, "/bookings/1/cancel", nil)
	cCancel.SetParamNames("booking_id")
	cCancel.SetParamValues("1")
	require.NoError(t, h.Cancel(asUser(cCancel, student)))
	require.Equal(t, http.StatusOK, recCancel.Code)

	var stored models.Booking
	require.NoError(t, h.DB.First(&stored, booking.ID).Error)
	require.Equal(t, models.BookingCancelled, stored.Status)
}

func TestBookingGetNotFound(t *testing.T) {
	h := &BookingHandler{DB: InitTestDB(t), Producer: &mykafka.Producer{}}
	e := echo.New()

	c, _ := newJSONContext(e, http.MethodGet, "/bookings/99", nil)
	c.SetParamNames("booking_id")
	c.SetParamValues("99")
	he := httpError(t, h.Get(c))
	require.Equal(t, http.StatusNotFound, he.Code)
}
