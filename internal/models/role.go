package models

// Role is a named permission set. Users is the inverse side of User.UserRoles.
type Role struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	Nom         string  `gorm:"uniqueIndex;size:50;not null"`
	Description *string `gorm:"size:255"`

	Users []User `gorm:"many2many:user_roles;joinForeignKey:role_id;joinReferences:user_id"`
}

// TableName overrides the table name for Role
func (Role) TableName() string {
	return "roles"
}
