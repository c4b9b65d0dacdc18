package validation

import (
	"regexp"

	"github.com/localnerve/usersdb/internal/models"
)

// RoleNamePattern is the required shape of Role.Nom.
var RoleNamePattern = regexp.MustCompile(`^ROLE_[A-Z_]+$`)

// UserSchema holds the User rules. The password rules apply to the plaintext,
// and only on create or when a new password is supplied.
var UserSchema = Schema[*models.User]{
	{
		Path:  "email",
		Value: func(u *models.User) any { return u.Email },
		Rules: []Rule{NotBlank(), Email(), MaxLength(180)},
	},
	{
		Path:  "nom",
		Value: func(u *models.User) any { return u.Nom },
		Rules: []Rule{NotBlank(), Length(2, 50)},
	},
	{
		Path:  "prenom",
		Value: func(u *models.User) any { return u.Prenom },
		Rules: []Rule{NotBlank(), Length(2, 50)},
	},
	{
		Path: "password",
		Value: func(u *models.User) any {
			if u.PlainPassword == nil {
				return ""
			}
			return *u.PlainPassword
		},
		Rules: []Rule{NotBlank(), Length(8, 4096)},
		When: func(u *models.User) bool {
			return u.ID == 0 || u.PlainPassword != nil
		},
	},
}

// RoleSchema holds the Role rules.
var RoleSchema = Schema[*models.Role]{
	{
		Path:  "nom",
		Value: func(r *models.Role) any { return r.Nom },
		Rules: []Rule{
			NotBlank(),
			Length(3, 50),
			Pattern(RoleNamePattern, "The role name must start with ROLE_ followed by uppercase letters or underscores."),
		},
	},
	{
		Path:  "description",
		Value: func(r *models.Role) any { return r.Description },
		Rules: []Rule{MaxLength(255)},
	},
}

// PreferenceSchema holds the Preference rules.
var PreferenceSchema = Schema[*models.Preference]{
	{
		Path:  "langue",
		Value: func(p *models.Preference) any { return p.Langue },
		Rules: []Rule{NotBlank(), Length(2, 5)},
	},
	{
		Path:  "theme",
		Value: func(p *models.Preference) any { return p.Theme },
		Rules: []Rule{NotBlank(), Choice(models.Themes...)},
	},
	{
		Path:  "user",
		Value: func(p *models.Preference) any { return p.UserID },
		Rules: []Rule{NotNull()},
	},
}
