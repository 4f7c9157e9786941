package models

import "time"

type User struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string       `gorm:"unique;not null"          json:"username"`
	PasswordHash string       `gorm:"not null"                 json:"-"`
	IsStaff      bool         `gorm:"not null;default:false"   json:"is_staff"`
	IsSuperuser  bool         `gorm:"not null;default:false"   json:"is_superuser"`
	Roles        []Role       `gorm:"many2many:user_roles"       json:"roles"`
	Permissions  []Permission `gorm:"many2many:user_permissions" json:"permissions"`
}

type Role struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"unique;not null"          json:"name"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
}

type Permission struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"unique;not null"          json:"name"`
	Description string `gorm:"not null"                 json:"description"`
}

// RevokedToken rows are append-only: once a token string lands here it is
// never honored again, regardless of its embedded expiry.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"     json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
