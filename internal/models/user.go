package models

import (
	"time"
)

// User is an account with free-form roles, linked Role memberships and an
// optional Preference it owns.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"uniqueIndex;size:180;not null"`
	Nom       string    `gorm:"size:50;not null"`
	Prenom    string    `gorm:"size:50;not null"`
	Roles     StringSet `gorm:"not null"`
	Password  string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"<-:create;not null"`

	UserRoles  []Role      `gorm:"many2many:user_roles;joinForeignKey:user_id;joinReferences:role_id"`
	Preference *Preference `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// PlainPassword holds a password received in a request until it is hashed.
	// Nil means no new password was supplied.
	PlainPassword *string `gorm:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// GetRoles returns the union of the free-form roles and the names of all linked roles.
func (u *User) GetRoles() []string {
	names := make([]string, 0, len(u.Roles)+len(u.UserRoles))
	names = append(names, u.Roles...)
	for _, role := range u.UserRoles {
		names = append(names, role.Nom)
	}
	return NewStringSet(names...)
}

// EraseCredentials drops the plaintext password once it has been hashed.
func (u *User) EraseCredentials() {
	u.PlainPassword = nil
}
