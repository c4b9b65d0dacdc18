// users.go
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

package services

import (
	"context"
	"errors"

	"github.com/localnerve/usersdb/internal/metrics"
	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/security"
	"github.com/localnerve/usersdb/internal/store"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/localnerve/usersdb/internal/validation"
	"gorm.io/gorm"
)

// UserService runs the user lifecycle: patch, validate, hash, persist.
type UserService struct {
	DB      *gorm.DB
	Hasher  security.PasswordHasher
	Metrics *metrics.EntityMetrics
}

// UserPage is one window of the user listing.
type UserPage struct {
	Items []models.User
	Meta  PageMeta
}

// List returns the requested page of users.
func (s *UserService) List(ctx context.Context, params ListParams) (*UserPage, error) {
	params = params.Normalize()

	page, err := store.FindUsers(s.DB.WithContext(ctx), store.Filter{
		Sort:   params.Sort,
		Order:  params.Order,
		Limit:  params.Limit,
		Offset: params.Offset(),
	})
	if err != nil {
		return nil, storeError(resourceUser, "list", err)
	}

	return &UserPage{Items: page.Items, Meta: newPageMeta(params, page.Total)}, nil
}

// Get loads a user with its roles and preference.
func (s *UserService) Get(ctx context.Context, id uint64) (*models.User, error) {
	user, err := store.FindUser(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, storeError(resourceUser, "show", err)
	}
	return user, nil
}

// Create builds a user from fields. Absent fields keep their defaults.
func (s *UserService) Create(ctx context.Context, fields Fields) (*models.User, error) {
	user := &models.User{Roles: models.StringSet{}}
	p := newPatch(fields)
	applyUserFields(p, user)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := resolveUserRoles(tx, p, user); err != nil {
			return err
		}
		if err := s.validate(tx, p, user); err != nil {
			return err
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}
		if err := store.CreateUser(tx, user); err != nil {
			return uniqueError(resourceUser, "create", "email", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourceUser, "create")
	return s.Get(ctx, user.ID)
}

// Update applies the present fields to user id, then re-validates the whole user.
func (s *UserService) Update(ctx context.Context, id uint64, fields Fields) (*models.User, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := store.FindUser(tx, id)
		if err != nil {
			return storeError(resourceUser, "update", err)
		}

		p := newPatch(fields)
		applyUserFields(p, user)
		rolesChanged, err := resolveUserRoles(tx, p, user)
		if err != nil {
			return err
		}
		if err := s.validate(tx, p, user); err != nil {
			return err
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}

		if err := store.SaveUser(tx, user); err != nil {
			return uniqueError(resourceUser, "update", "email", err)
		}
		if rolesChanged {
			if err := store.ReplaceUserRoles(tx, user, user.UserRoles); err != nil {
				return uniqueError(resourceUser, "update", "userRoles", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourceUser, "update")
	return s.Get(ctx, id)
}

// Delete removes user id with its preference and role memberships.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := store.FindUser(tx, id)
		if err != nil {
			return err
		}
		return store.DeleteUser(tx, user)
	})
	if err != nil {
		return storeError(resourceUser, "delete", err)
	}

	s.Metrics.IncWrite(resourceUser, "delete")
	return nil
}

func applyUserFields(p *patch, user *models.User) {
	p.String("email", &user.Email)
	p.String("nom", &user.Nom)
	p.String("prenom", &user.Prenom)
	p.Secret("password", &user.PlainPassword)
	p.StringSet("roles", &user.Roles)
}

// resolveUserRoles loads the roles named by the userRoles field. Unknown ids
// become violations. It reports whether the field was present.
func resolveUserRoles(tx *gorm.DB, p *patch, user *models.User) (bool, error) {
	ids, ok := p.IDs("userRoles")
	if !ok {
		return false, nil
	}

	roles, missing, err := store.FindRolesByIDs(tx, ids)
	if err != nil {
		return false, storeError(resourceUser, "roles", err)
	}
	for _, id := range missing {
		p.violations.Add("userRoles", missingReference("Role", id))
	}
	user.UserRoles = roles
	return true, nil
}

// validate runs the user rules plus the email uniqueness check.
func (s *UserService) validate(tx *gorm.DB, p *patch, user *models.User) error {
	violations := p.report(validation.UserSchema.Validate(user))

	if user.Email != "" {
		taken, err := store.EmailTaken(tx, user.Email, user.ID)
		if err != nil {
			return storeError(resourceUser, "validate", err)
		}
		if taken {
			violations.Merge(validation.Violations{{Path: "email", Message: validation.MessageUnique}})
		}
	}

	if err := violations.Err(resourceUser + ".validation"); err != nil {
		s.Metrics.IncViolation(resourceUser)
		return err
	}
	return nil
}

// hashPassword replaces a validated plaintext password with its hash.
func (s *UserService) hashPassword(user *models.User) error {
	if user.PlainPassword == nil {
		return nil
	}
	if s.Hasher == nil {
		return types.Internal(resourceUser+".password", errors.New("no password hasher configured"))
	}

	hashed, err := s.Hasher.Hash(*user.PlainPassword, user)
	if err != nil {
		return types.Internal(resourceUser+".password", err)
	}
	user.Password = hashed
	user.EraseCredentials()
	return nil
}
