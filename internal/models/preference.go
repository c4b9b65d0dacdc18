package models

const (
	DefaultLangue = "fr"
	ThemeLight    = "light"
	ThemeDark     = "dark"
	DefaultTheme  = ThemeLight
)

// Themes lists the accepted theme values.
var Themes = []string{ThemeLight, ThemeDark}

// Preference holds display settings owned by exactly one User.
type Preference struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Langue        string `gorm:"size:5;not null"`
	Theme         string `gorm:"size:10;not null"`
	Notifications bool   `gorm:"not null"`
	UserID        uint64 `gorm:"uniqueIndex;not null"`

	User *User `gorm:"foreignKey:UserID"`
}

// TableName overrides the table name for Preference
func (Preference) TableName() string {
	return "preferences"
}

// NewPreference returns a Preference with the declared defaults.
// No column defaults: GORM omits zero values on insert, so notifications=false would be lost.
func NewPreference() *Preference {
	return &Preference{
		Langue:        DefaultLangue,
		Theme:         DefaultTheme,
		Notifications: true,
	}
}
