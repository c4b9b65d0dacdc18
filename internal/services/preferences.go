// preferences.go
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
	"github.com/localnerve/usersdb/internal/store"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/localnerve/usersdb/internal/validation"
	"gorm.io/gorm"
)

// PreferenceService runs the preference lifecycle, standalone and nested under a user.
type PreferenceService struct {
	DB      *gorm.DB
	Metrics *metrics.EntityMetrics
}

// List returns every preference with its owner.
func (s *PreferenceService) List(ctx context.Context) ([]models.Preference, error) {
	prefs, err := store.ListPreferences(s.DB.WithContext(ctx))
	if err != nil {
		return nil, storeError(resourcePreference, "list", err)
	}
	return prefs, nil
}

// Get loads a preference with its owner.
func (s *PreferenceService) Get(ctx context.Context, id uint64) (*models.Preference, error) {
	pref, err := store.FindPreference(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, storeError(resourcePreference, "show", err)
	}
	return pref, nil
}

// Create builds a preference for the user named by the user field. Absent
// fields take the preference defaults.
func (s *PreferenceService) Create(ctx context.Context, fields Fields) (*models.Preference, error) {
	pref := models.NewPreference()
	p := newPatch(fields)
	applyPreferenceFields(p, pref)
	userID, _ := p.ID("user")

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var extra validation.Violations
		if userID != 0 {
			pref.UserID = userID
			owner, err := store.FindUser(tx, userID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				extra.Add("user", missingReference("User", userID))
			case err != nil:
				return storeError(resourcePreference, "create", err)
			case owner.Preference != nil:
				extra.Add("user", validation.MessageUnique)
			}
		}
		if err := s.validate(p, pref, extra); err != nil {
			return err
		}
		if err := store.CreatePreference(tx, pref); err != nil {
			return uniqueError(resourcePreference, "create", "user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourcePreference, "create")
	return s.Get(ctx, pref.ID)
}

// Update applies the present fields to preference id. The owner cannot change.
func (s *PreferenceService) Update(ctx context.Context, id uint64, fields Fields) (*models.Preference, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pref, err := store.FindPreference(tx, id)
		if err != nil {
			return storeError(resourcePreference, "update", err)
		}

		p := newPatch(fields)
		applyPreferenceFields(p, pref)
		var extra validation.Violations
		var owner *models.User
		if userID, ok := p.ID("user"); ok && userID != pref.UserID {
			if userID == 0 {
				extra.Add("user", validation.MessageNotNull)
			} else if owner, err = store.FindUser(tx, userID); errors.Is(err, store.ErrNotFound) {
				extra.Add("user", missingReference("User", userID))
			} else if err != nil {
				return storeError(resourcePreference, "update", err)
			}
		}
		if err := s.validate(p, pref, extra); err != nil {
			return err
		}

		if owner != nil {
			return ownerError(store.LinkPreference(tx, owner, pref))
		}
		return storeError(resourcePreference, "update", store.SavePreference(tx, pref))
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourcePreference, "update")
	return s.Get(ctx, id)
}

// Delete removes preference id. Its owner is kept.
func (s *PreferenceService) Delete(ctx context.Context, id uint64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pref, err := store.FindPreference(tx, id)
		if err != nil {
			return err
		}
		return store.DeletePreference(tx, pref)
	})
	if err != nil {
		return storeError(resourcePreference, "delete", err)
	}

	s.Metrics.IncWrite(resourcePreference, "delete")
	return nil
}

// GetForUser returns the preference linked to user id.
func (s *PreferenceService) GetForUser(ctx context.Context, userID uint64) (*models.Preference, error) {
	user, err := store.FindUser(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, storeError(resourceUser, "preference", err)
	}
	if user.Preference == nil {
		return nil, notFound(resourcePreference)
	}
	user.Preference.User = user
	return user.Preference, nil
}

// UpsertForUser patches the preference of user id, creating and linking one
// with the defaults first when the user has none.
func (s *PreferenceService) UpsertForUser(ctx context.Context, userID uint64, fields Fields) (*models.Preference, error) {
	var prefID uint64
	op := "update"

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := store.FindUser(tx, userID)
		if err != nil {
			return storeError(resourceUser, "preference", err)
		}

		pref := user.Preference
		if pref == nil {
			op = "create"
			pref = models.NewPreference()
			pref.UserID = user.ID
		}

		p := newPatch(fields)
		applyPreferenceFields(p, pref)
		if err := s.validate(p, pref, nil); err != nil {
			return err
		}

		if pref.ID == 0 {
			err = ownerError(store.LinkPreference(tx, user, pref))
		} else {
			err = storeError(resourcePreference, "update", store.SavePreference(tx, pref))
		}
		prefID = pref.ID
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourcePreference, op)
	return s.Get(ctx, prefID)
}

func applyPreferenceFields(p *patch, pref *models.Preference) {
	p.String("langue", &pref.Langue)
	p.String("theme", &pref.Theme)
	p.Bool("notifications", &pref.Notifications)
}

func (s *PreferenceService) validate(p *patch, pref *models.Preference, extra validation.Violations) error {
	violations := p.report(validation.PreferenceSchema.Validate(pref))
	violations.Merge(extra)

	if err := violations.Err(resourcePreference + ".validation"); err != nil {
		s.Metrics.IncViolation(resourcePreference)
		return err
	}
	return nil
}

// ownerError maps a rejected link onto a violation of the user field.
func ownerError(err error) error {
	if errors.Is(err, store.ErrPreferenceOwned) {
		return types.Invalid(resourcePreference+".validation", []types.Violation{
			{Path: "user", Message: MessagePreferenceOwned},
		})
	}
	return uniqueError(resourcePreference, "link", "user", err)
}
