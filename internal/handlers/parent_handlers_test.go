package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/smartedu/smartedu/internal/models"
)

func TestChildBookings(t *testing.T) {
	h := &ParentHandler{DB: InitTestDB(t)}
	e := echo.New()

	require.NoError(t, h.DB.Create(&models.Booking{SlotID: 1, StudentID: 5, TeacherID: 2}).Error)
	require.NoError(t, h.DB.Create(&models.Booking{SlotID: 2, StudentID: 6, TeacherID: 2}).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/parents/children/5/bookings", nil)
	c.SetParamNames("student_id")
	c.SetParamValues("5")
	require.NoError(t, h.ChildBookings(c))

	var bookings []models.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	require.Equal(t, uint(5), bookings[0].StudentID)
}

func TestChildReviewsMissingStudent(t *testing.T) {
	h := &ParentHandler{DB: InitTestDB(t)}
	e := echo.New()

	c, _ := newJSONContext(e, http.MethodGet, "/parents/children/9/reviews", nil)
	c.SetParamNames("student_id")
	c.SetParamValues("9")
	he := httpError(t, h.ChildReviews(c))
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestChildReviews(t *testing.T) {
	h := &ParentHandler{DB: InitTestDB(t)}
	e := echo.New()

	student := models.StudentProfile{UserID: 5, FullName: "Child One"}
	require.NoError(t, h.DB.Create(&student).Error)
	require.NoError(t, h.DB.Create(&models.Review{BookingID: 1, TeacherID: 2, StudentID: student.ID, Rating: 5}).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/parents/children/1/reviews", nil)
	c.SetParamNames("student_id")
	c.SetParamValues("1")
	require.NoError(t, h.ChildReviews(c))

	var reviews []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)
}
