package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/smartedu/smartedu/internal/chatws"
	"github.com/smartedu/smartedu/internal/logging"
	authmw "github.com/smartedu/smartedu/internal/middleware/auth"
	"github.com/smartedu/smartedu/internal/models"
	"github.com/smartedu/smartedu/internal/mykafka"
)

type ChatHandler struct {
	DB       *gorm.DB
	Hub      *chatws.Hub
	Producer *mykafka.Producer
}

// The chat frontend is served from its own origin, so the handshake must
// not enforce same-origin.
var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func (h *ChatHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicChatEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish failed", "error", err)
	}
}

// Create opens a direct chat between the caller (student side) and a
// teacher. An existing chat for the same pair and booking is returned
// instead of duplicated.
func (h *ChatHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		TeacherID uint  `json:"teacher_id"`
		BookingID *uint `json:"booking_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.TeacherID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "teacher_id must be positive")
	}

	ctx := c.Request().Context()
	query := h.DB.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ?", user.ID, req.TeacherID)
	if req.BookingID != nil {
		query = query.Where("booking_id = ?", *req.BookingID)
	} else {
		query = query.Where("booking_id IS NULL")
	}

	var existing models.Chat
	err := query.First(&existing).Error
	if err == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	chat := models.Chat{
		StudentID: user.ID,
		TeacherID: req.TeacherID,
		BookingID: req.BookingID,
	}
	if err := h.DB.WithContext(ctx).Create(&chat).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) MyChats(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var chats []models.Chat
	if err := h.DB.WithContext(c.Request().Context()).
		Where("student_id = ? OR teacher_id = ?", user.ID, user.ID).
		Find(&chats).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chats)
}

func (h *ChatHandler) Messages(c echo.Context) error {
	user := authmw.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var chat models.Chat
	if err := h.DB.WithContext(ctx).First(&chat, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	}
	if user.ID != chat.StudentID && user.ID != chat.TeacherID {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	var messages []models.Message
	if err := h.DB.WithContext(ctx).
		Where("chat_id = ?", chat.ID).
		Order("created_at").
		Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

type wsInbound struct {
	SenderID uint   `json:"sender_id"`
	Text     string `json:"text"`
}

type wsOutbound struct {
	ID        uint   `json:"id"`
	ChatID    uint   `json:"chat_id"`
	SenderID  uint   `json:"sender_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// ServeWS upgrades the connection and joins the chat room, then loops:
// read a message, persist it, fan it out to every open socket in the room.
func (h *ChatHandler) ServeWS(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("chat_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	chatID := uint(id)

	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	h.Hub.Join(chatID, conn)
	defer func() {
		h.Hub.Leave(chatID, conn)
		conn.Close()
	}()

	l := logging.FromContext(c.Request().Context()).With("chat_id", chatID)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Warn("chat socket closed", "error", err)
			}
			return nil
		}
		if in.Text == "" {
			continue
		}

		message := models.Message{
			ChatID:   chatID,
			SenderID: in.SenderID,
			Text:     in.Text,
		}
		if err := h.DB.Create(&message).Error; err != nil {
			l.Error("message persist failed", "error", err)
			continue
		}

		h.Hub.Broadcast(chatID, wsOutbound{
			ID:        message.ID,
			ChatID:    chatID,
			SenderID:  message.SenderID,
			Text:      message.Text,
			CreatedAt: message.CreatedAt.Format(time.RFC3339),
		})

		h.publish(c, strconv.Itoa(int(chatID)), map[string]any{
			"type":       "chat_message",
			"message_id": message.ID,
			"chat_id":    chatID,
			"sender_id":  message.SenderID,
		})
	}
}
