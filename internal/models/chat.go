package models

import "time"

type Chat struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"not null;index"           json:"student_id"`
	TeacherID uint      `gorm:"not null;index"           json:"teacher_id"`
	BookingID *uint     `gorm:"index"                    json:"booking_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint      `gorm:"not null;index"           json:"chat_id"`
	SenderID  uint      `gorm:"not null"                 json:"sender_id"`
	Text      string    `gorm:"type:text;not null"       json:"text"`
	IsRead    bool      `gorm:"default:false"            json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type Group struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	OwnerID   uint      `gorm:"not null;index"           json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type GroupMember struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint `gorm:"not null;index"           json:"group_id"`
	UserID  uint `gorm:"not null;index"           json:"user_id"`
	IsAdmin bool `gorm:"default:false"            json:"is_admin"`
}

type GroupMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID   uint      `gorm:"not null;index"           json:"group_id"`
	SenderID  uint      `gorm:"not null"                 json:"sender_id"`
	Text      string    `gorm:"type:text;not null"       json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
