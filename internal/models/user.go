package models

import "strings"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	Base
	Ad           string  `gorm:"not null" json:"ad"`
	Soyad        string  `json:"soyad"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	Rol          string  `gorm:"not null;default:user" json:"rol"`
	DiscordID    *string `gorm:"uniqueIndex" json:"discord_id,omitempty"`
	Avatar       string  `json:"avatar,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.Ad + " " + u.Soyad)
}

func (u User) IsAdmin() bool {
	return IsAdminRole(u.Rol)
}

func IsAdminRole(role string) bool {
	return strings.EqualFold(role, RoleAdmin)
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
