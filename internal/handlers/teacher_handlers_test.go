package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/smartedu/smartedu/internal/models"
)

func TestTeacherProfileLifecycle(t *testing.T) {
	h := &TeacherHandler{DB: InitTestDB(t)}
	e := echo.New()

	teacher := &models.User{Username: "teacher", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(teacher).Error)

	c, rec := newJSONContext(e, http.MethodPost, "/teachers/profile",
		map[string]any{"description": "math tutor", "price_per_lesson": 500})
	require.NoError(t, h.CreateProfile(asUser(c, teacher)))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile models.TeacherProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, teacher.ID, profile.UserID)
	require.Equal(t, 500, profile.PricePerLesson)
	require.False(t, profile.IsVerified)

	// partial update keeps the untouched field
	cUp, recUp := newJSONContext(e, http.MethodPut, "/teachers/profile/me",
		map[string]any{"price_per_lesson": 700})
	require.NoError(t, h.UpdateMyProfile(asUser(cUp, teacher)))

	var updated models.TeacherProfile
	require.NoError(t, json.Unmarshal(recUp.Body.Bytes(), &updated))
	require.Equal(t, 700, updated.PricePerLesson)
	require.Equal(t, "math tutor", updated.Description)

	cGet, recGet := newJSONContext(e, http.MethodGet, "/teachers/1", nil)
	cGet.SetParamNames("teacher_id")
	cGet.SetParamValues("1")
	require.NoError(t, h.GetProfile(cGet))
	require.Equal(t, http.StatusOK, recGet.Code)
}

func TestCreateProfileRejectsBadPrice(t *testing.T) {
	h := &TeacherHandler{DB: InitTestDB(t)}
	e := echo.New()

	teacher := &models.User{Username: "teacher", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(teacher).Error)

	c, _ := newJSONContext(e, http.MethodPost, "/teachers/profile",
		map[string]any{"description": "free lessons", "price_per_lesson": 0})
	he := httpError(t, h.CreateProfile(asUser(c, teacher)))
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestAssignSubjectDeduplicates(t *testing.T) {
	h := &TeacherHandler{DB: InitTestDB(t)}
	e := echo.New()

	teacher := &models.User{Username: "teacher", PasswordHash: "x"}
	require.NoError(t, h.DB.Create(teacher).Error)
	require.NoError(t, h.DB.Create(&models.TeacherProfile{UserID: teacher.ID, PricePerLesson: 500}).Error)
	subject := models.Subject{Name: "Math"}
	require.NoError(t, h.DB.Create(&subject).Error)

	for i := 0; i < 2; i++ {
		c, rec := newJSONContext(e, http.MethodPost, "/teachers/subjects",
			map[string]any{"subject_id": subject.ID})
		require.NoError(t, h.AssignSubject(asUser(c, teacher)))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	var count int64
	require.NoError(t, h.DB.Model(&models.TeacherSubject{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTeacherSearchFilters(t *testing.T) {
	h := &TeacherHandler{DB: InitTestDB(t)}
	e := echo.New()

	cheap := models.TeacherProfile{UserID: 1, PricePerLesson: 300, Rating: 5}
	pricey := models.TeacherProfile{UserID: 2, PricePerLesson: 900, Rating: 3}
	require.NoError(t, h.DB.Create(&cheap).Error)
	require.NoError(t, h.DB.Create(&pricey).Error)

	subject := models.Subject{Name: "Physics"}
	require.NoError(t, h.DB.Create(&subject).Error)
	require.NoError(t, h.DB.Create(&models.TeacherSubject{TeacherID: pricey.ID, SubjectID: subject.ID}).Error)

	search := func(query string) []models.TeacherProfile {
		c, rec := newJSONContext(e, http.MethodGet, "/teachers?"+query, nil)
		require.NoError(t, h.Search(c))
		var profiles []models.TeacherProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
		return profiles
	}

	require.Len(t, search(""), 2)
	require.Len(t, search("max_price=500"), 1)
	require.Len(t, search("min_price=500"), 1)
	require.Len(t, search("rating=4"), 1)
	require.Len(t, search("subject=1"), 1)
	require.Len(t, search("min_price=500&rating=4"), 0)
}
