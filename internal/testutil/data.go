// data.go
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

package testutil

import (
	"fmt"
	"testing"

	"github.com/localnerve/usersdb/internal/config"
	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/security"
	"gorm.io/gorm"
)

// HashedPassword is the stored password of fixture users.
const HashedPassword = "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"

// CreateTestUser creates a user directly via GORM
func CreateTestUser(t *testing.T, db *gorm.DB, email, nom, prenom string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Nom:      nom,
		Prenom:   prenom,
		Roles:    models.StringSet{},
		Password: HashedPassword,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// CreateTestUsers creates n users named user01@example.com, user02@example.com, ...
func CreateTestUsers(t *testing.T, db *gorm.DB, n int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, CreateTestUser(t, db,
			fmt.Sprintf("user%02d@example.com", i),
			fmt.Sprintf("Nom%02d", i),
			fmt.Sprintf("Prenom%02d", i),
		))
	}
	return users
}

// CreateTestRole creates a role directly via GORM
func CreateTestRole(t *testing.T, db *gorm.DB, nom string) *models.Role {
	t.Helper()
	role := &models.Role{Nom: nom}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("Failed to create role %s: %v", nom, err)
	}
	return role
}

// AssignTestRole links role to user
func AssignTestRole(t *testing.T, db *gorm.DB, user *models.User, role *models.Role) {
	t.Helper()
	if err := db.Model(user).Association("UserRoles").Append(role); err != nil {
		t.Fatalf("Failed to associate role: %v", err)
	}
}

// CreateTestPreference creates a preference owned by user
func CreateTestPreference(t *testing.T, db *gorm.DB, user *models.User, langue, theme string, notifications bool) *models.Preference {
	t.Helper()
	pref := &models.Preference{
		Langue:        langue,
		Theme:         theme,
		Notifications: notifications,
		UserID:        user.ID,
	}
	if err := db.Create(pref).Error; err != nil {
		t.Fatalf("Failed to create preference: %v", err)
	}
	return pref
}

// FastHasher is an Argon2id hasher with the cheapest accepted parameters.
func FastHasher() *security.Argon2Hasher {
	return security.NewArgon2Hasher(config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
}
