package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/es"
	"github.com/smartedu/smartedu/internal/logging"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
)

type TeacherHandler struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

// index mirrors the profile into Elasticsearch for text search; DB filter
// search stays authoritative, so indexing failures are only logged.
func (h *TeacherHandler) index(c echo.Context, profile *models.TeacherProfile) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexTeacherProfile(ctx, h.ES, h.Index, profile); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "error", err, "teacher_id", profile.ID)
	}
}

func (h *TeacherHandler) CreateProfile(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Description    string `json:"description"`
		PricePerLesson int    `json:"price_per_lesson"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PricePerLesson <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price_per_lesson must be positive")
	}

	profile := models.TeacherProfile{
		UserID:         user.ID,
		Description:    req.Description,
		PricePerLesson: req.PricePerLesson,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.index(c, &profile)

	return c.JSON(http.StatusOK, profile)
}

func (h *TeacherHandler) MyProfile(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var profile models.TeacherProfile
	if err := h.DB.WithContext(c.Request().Context()).
		Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *TeacherHandler) UpdateMyProfile(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Description    *string `json:"description"`
		PricePerLesson *int    `json:"price_per_lesson"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var profile models.TeacherProfile
	if err := h.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
	}

	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.PricePerLesson != nil {
		if *req.PricePerLesson <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "price_per_lesson must be positive")
		}
		profile.PricePerLesson = *req.PricePerLesson
	}

	if err := h.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.index(c, &profile)

	return c.JSON(http.StatusOK, profile)
}

func (h *TeacherHandler) GetProfile(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("teacher_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var profile models.TeacherProfile
	if err := h.DB.WithContext(c.Request().Context()).First(&profile, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Teacher not found")
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *TeacherHandler) AssignSubject(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		SubjectID uint `json:"subject_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SubjectID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "subject_id must be positive")
	}

	ctx := c.Request().Context()
	var profile models.TeacherProfile
	if err := h.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Teacher profile not found")
	}

	assignment := models.TeacherSubject{TeacherID: profile.ID, SubjectID: req.SubjectID}
	if err := h.DB.WithContext(ctx).
		Where("teacher_id = ? AND subject_id = ?", profile.ID, req.SubjectID).
		FirstOrCreate(&assignment).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "subject assigned"})
}

// Search filters teachers in the database by subject, price range and
// minimum rating.
func (h *TeacherHandler) Search(c echo.Context) error {
	query := h.DB.WithContext(c.Request().Context()).Model(&models.TeacherProfile{})

	if v := c.QueryParam("min_price"); v != "" {
		if minPrice, err := strconv.Atoi(v); err == nil {
			query = query.Where("price_per_lesson >= ?", minPrice)
		}
	}
	if v := c.QueryParam("max_price"); v != "" {
		if maxPrice, err := strconv.Atoi(v); err == nil {
			query = query.Where("price_per_lesson <= ?", maxPrice)
		}
	}
	if v := c.QueryParam("rating"); v != "" {
		if rating, err := strconv.Atoi(v); err == nil {
			query = query.Where("rating >= ?", rating)
		}
	}
	if v := c.QueryParam("subject"); v != "" {
		if subject, err := strconv.Atoi(v); err == nil {
			query = query.
				Joins("JOIN teacher_subjects ON teacher_subjects.teacher_id = teacher_profiles.id").
				Where("teacher_subjects.subject_id = ?", subject)
		}
	}

	var profiles []models.TeacherProfile
	if err := query.Find(&profiles).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profiles)
}

func (h *TeacherHandler) TeacherSlots(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("teacher_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var slots []models.ScheduleSlot
	if err := h.DB.WithContext(c.Request().Context()).
		Where("teacher_id = ?", id).Find(&slots).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, slots)
}
