// views.go
//
// A users, roles and preferences data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of usersdb.
// usersdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// usersdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with usersdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package views projects entities into the read shapes exposed by the API.
// Relations are expanded one level deep through summary views. No view carries
// a password.
package views

import (
	"fmt"
	"time"

	"github.com/localnerve/usersdb/internal/models"
)

// Group names a projection context.
type Group string

const (
	UserRead       Group = "user:read"
	RoleRead       Group = "role:read"
	PreferenceRead Group = "preference:read"
)

// User is the user:read projection of a User.
type User struct {
	ID         uint64             `json:"id"`
	Email      string             `json:"email"`
	Nom        string             `json:"nom"`
	Prenom     string             `json:"prenom"`
	Roles      []string           `json:"roles"`
	CreatedAt  time.Time          `json:"createdAt"`
	UserRoles  []RoleSummary      `json:"userRoles"`
	Preference *PreferenceSummary `json:"preference"`
}

// Role is the role:read projection of a Role.
type Role struct {
	ID          uint64        `json:"id"`
	Nom         string        `json:"nom"`
	Description *string       `json:"description"`
	Users       []UserSummary `json:"users"`
}

// Preference is the preference:read projection of a Preference.
type Preference struct {
	ID            uint64       `json:"id"`
	Langue        string       `json:"langue"`
	Theme         string       `json:"theme"`
	Notifications bool         `json:"notifications"`
	User          *UserSummary `json:"user"`
}

// UserSummary is a User embedded in another projection.
type UserSummary struct {
	ID     uint64 `json:"id"`
	Email  string `json:"email"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
}

// RoleSummary is a Role embedded in another projection.
type RoleSummary struct {
	ID          uint64  `json:"id"`
	Nom         string  `json:"nom"`
	Description *string `json:"description"`
}

// PreferenceSummary is a Preference embedded in another projection.
type PreferenceSummary struct {
	ID            uint64 `json:"id"`
	Langue        string `json:"langue"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// Project returns the view of v for group. v is an entity, a pointer to one,
// or a slice of either; slices project to slices.
func Project(v any, group Group) (any, error) {
	switch group {
	case UserRead:
		switch e := v.(type) {
		case *models.User:
			return NewUser(e), nil
		case models.User:
			return NewUser(&e), nil
		case []models.User:
			return Users(e), nil
		case []*models.User:
			return projectAll(e, NewUser), nil
		}
	case RoleRead:
		switch e := v.(type) {
		case *models.Role:
			return NewRole(e), nil
		case models.Role:
			return NewRole(&e), nil
		case []models.Role:
			return Roles(e), nil
		case []*models.Role:
			return projectAll(e, NewRole), nil
		}
	case PreferenceRead:
		switch e := v.(type) {
		case *models.Preference:
			return NewPreference(e), nil
		case models.Preference:
			return NewPreference(&e), nil
		case []models.Preference:
			return Preferences(e), nil
		case []*models.Preference:
			return projectAll(e, NewPreference), nil
		}
	default:
		return nil, fmt.Errorf("views: unknown group %q", group)
	}
	return nil, fmt.Errorf("views: cannot project %T as %s", v, group)
}

// NewUser builds the user:read view.
func NewUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	view := &User{
		ID:         u.ID,
		Email:      u.Email,
		Nom:        u.Nom,
		Prenom:     u.Prenom,
		Roles:      u.GetRoles(),
		CreatedAt:  u.CreatedAt,
		UserRoles:  make([]RoleSummary, 0, len(u.UserRoles)),
		Preference: newPreferenceSummary(u.Preference),
	}
	for i := range u.UserRoles {
		view.UserRoles = append(view.UserRoles, newRoleSummary(&u.UserRoles[i]))
	}
	return view
}

// NewRole builds the role:read view.
func NewRole(r *models.Role) *Role {
	if r == nil {
		return nil
	}
	view := &Role{
		ID:          r.ID,
		Nom:         r.Nom,
		Description: r.Description,
		Users:       make([]UserSummary, 0, len(r.Users)),
	}
	for i := range r.Users {
		view.Users = append(view.Users, *newUserSummary(&r.Users[i]))
	}
	return view
}

// NewPreference builds the preference:read view.
func NewPreference(p *models.Preference) *Preference {
	if p == nil {
		return nil
	}
	return &Preference{
		ID:            p.ID,
		Langue:        p.Langue,
		Theme:         p.Theme,
		Notifications: p.Notifications,
		User:          newUserSummary(p.User),
	}
}

func Users(users []models.User) []*User {
	out := make([]*User, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i]))
	}
	return out
}

func Roles(roles []models.Role) []*Role {
	out := make([]*Role, 0, len(roles))
	for i := range roles {
		out = append(out, NewRole(&roles[i]))
	}
	return out
}

func Preferences(prefs []models.Preference) []*Preference {
	out := make([]*Preference, 0, len(prefs))
	for i := range prefs {
		out = append(out, NewPreference(&prefs[i]))
	}
	return out
}

func projectAll[E any, V any](entities []*E, project func(*E) *V) []*V {
	out := make([]*V, 0, len(entities))
	for _, e := range entities {
		out = append(out, project(e))
	}
	return out
}

func newUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, Nom: u.Nom, Prenom: u.Prenom}
}

func newRoleSummary(r *models.Role) RoleSummary {
	return RoleSummary{ID: r.ID, Nom: r.Nom, Description: r.Description}
}

func newPreferenceSummary(p *models.Preference) *PreferenceSummary {
	if p == nil {
		return nil
	}
	return &PreferenceSummary{
		ID:            p.ID,
		Langue:        p.Langue,
		Theme:         p.Theme,
		Notifications: p.Notifications,
	}
}
