package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/models"
)

// LessonHandler serves the quiz content tree: lessons, their questions and
// the questions' answers.
type LessonHandler struct {
	DB *gorm.DB
}

func (h *LessonHandler) CreateLesson(c echo.Context) error {
	var req struct {
		SubjectID   uint   `json:"subject_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SubjectID == 0 || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	lesson := models.Lesson{
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&lesson).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) GetLesson(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("lesson_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var lesson models.Lesson
	if err := h.DB.WithContext(c.Request().Context()).First(&lesson, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Lesson not found")
	}
	return c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) SubjectLessons(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("subject_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var lessons []models.Lesson
	if err := h.DB.WithContext(c.Request().Context()).
		Where("subject_id = ?", id).Find(&lessons).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) CreateQuestion(c echo.Context) error {
	var req struct {
		LessonID uint   `json:"lesson_id"`
		Text     string `json:"text"`
		Type     string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.LessonID == 0 || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}
	if req.Type == "" {
		req.Type = "single"
	}

	question := models.Question{
		LessonID: req.LessonID,
		Text:     req.Text,
		Type:     req.Type,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&question).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, question)
}

func (h *LessonHandler) LessonQuestions(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("lesson_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var questions []models.Question
	if err := h.DB.WithContext(c.Request().Context()).
		Where("lesson_id = ?", id).Find(&questions).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, questions)
}

func (h *LessonHandler) CreateAnswer(c echo.Context) error {
	var req struct {
		QuestionID uint   `json:"question_id"`
		Text       string `json:"text"`
		IsCorrect  bool   `json:"is_correct"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.QuestionID == 0 || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Fields are required")
	}

	answer := models.Answer{
		QuestionID: req.QuestionID,
		Text:       req.Text,
		IsCorrect:  req.IsCorrect,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&answer).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, answer)
}

func (h *LessonHandler) QuestionAnswers(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("question_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var answers []models.Answer
	if err := h.DB.WithContext(c.Request().Context()).
		Where("question_id = ?", id).Find(&answers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, answers)
}
