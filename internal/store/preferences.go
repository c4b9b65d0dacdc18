package store

import (
	"github.com/localnerve/usersdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// FindPreference loads a preference with its owner.
func FindPreference(db *gorm.DB, id uint64) (*models.Preference, error) {
	var pref models.Preference
	if err := db.Preload("User").First(&pref, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pref, nil
}

// ListPreferences returns every preference ordered by id.
func ListPreferences(db *gorm.DB) ([]models.Preference, error) {
	var prefs []models.Preference
	err := db.Preload("User").
		Clauses(hints.Comment("select", "usersdb:list_preferences")).
		Order("id ASC").
		Find(&prefs).Error
	return prefs, translate(err)
}

// CreatePreference inserts a standalone preference for pref.UserID. A user
// that already owns a preference surfaces as ErrConstraintViolation.
func CreatePreference(db *gorm.DB, pref *models.Preference) error {
	return translate(db.Omit(clause.Associations).Create(pref).Error)
}

// LinkPreference makes pref the preference of user, updating both sides.
// The user's previous preference is deleted since a preference cannot exist
// without an owner. A persisted preference owned by someone else is rejected.
func LinkPreference(db *gorm.DB, user *models.User, pref *models.Preference) error {
	if pref.ID != 0 && pref.UserID != 0 && pref.UserID != user.ID {
		return ErrPreferenceOwned
	}

	return db.Transaction(func(tx *gorm.DB) error {
		previous := tx.Where("user_id = ?", user.ID)
		if pref.ID != 0 {
			previous = previous.Where("id <> ?", pref.ID)
		}
		if err := previous.Delete(&models.Preference{}).Error; err != nil {
			return translate(err)
		}

		pref.UserID = user.ID
		var err error
		if pref.ID == 0 {
			err = tx.Omit(clause.Associations).Create(pref).Error
		} else {
			err = tx.Omit(clause.Associations).Save(pref).Error
		}
		if err != nil {
			return translate(err)
		}

		pref.User = user
		user.Preference = pref
		return nil
	})
}

// SavePreference persists scalar field changes. Ownership changes go through LinkPreference.
func SavePreference(db *gorm.DB, pref *models.Preference) error {
	return translate(db.Omit(clause.Associations).Save(pref).Error)
}

// DeletePreference removes the preference; its owner is kept.
func DeletePreference(db *gorm.DB, pref *models.Preference) error {
	result := db.Delete(&models.Preference{}, pref.ID)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	if pref.User != nil {
		pref.User.Preference = nil
	}
	return nil
}
