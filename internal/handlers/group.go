package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
)

type GroupHandler struct {
	DB *gorm.DB
}

// Create makes a group and enrolls the owner as its first admin member.
func (h *GroupHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Name) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "group name too short")
	}

	ctx := c.Request().Context()
	group := models.Group{Name: req.Name, OwnerID: user.ID}
	if err := h.DB.WithContext(ctx).Create(&group).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member := models.GroupMember{GroupID: group.ID, UserID: user.ID, IsAdmin: true}
	if err := h.DB.WithContext(ctx).Create(&member).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) MyGroups(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var groups []models.Group
	if err := h.DB.WithContext(c.Request().Context()).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", user.ID).
		Find(&groups).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) AddMember(c echo.Context) error {
	user := authmw.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.UserID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id must be positive")
	}

	ctx := c.Request().Context()
	var admin models.GroupMember
	if err := h.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ? AND is_admin = ?", id, user.ID, true).
		First(&admin).Error; err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Only admin can add members")
	}

	member := models.GroupMember{GroupID: uint(id), UserID: req.UserID}
	if err := h.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", id, req.UserID).
		FirstOrCreate(&member).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, member)
}

func (h *GroupHandler) Messages(c echo.Context) error {
	user := authmw.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var member models.GroupMember
	if err := h.DB.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", id, user.ID).
		First(&member).Error; err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Not a group member")
	}

	var messages []models.GroupMessage
	if err := h.DB.WithContext(ctx).
		Where("group_id = ?", id).
		Order("created_at").
		Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}
