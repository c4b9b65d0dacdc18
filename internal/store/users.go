package store

import (
	"github.com/localnerve/usersdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadUser(db *gorm.DB) *gorm.DB {
	return db.
		Preload("UserRoles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		Preload("Preference")
}

// FindUser loads a user with its roles and preference.
func FindUser(db *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	if err := preloadUser(db).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUsers returns one window of users plus the total matching count.
func FindUsers(db *gorm.DB, filter Filter) (*Page[models.User], error) {
	return findPage[models.User](db, filter, "usersdb:find_users", preloadUser)
}

// CreateUser inserts the user, then its role memberships and preference.
func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if user.Roles == nil {
			user.Roles = models.StringSet{}
		}
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return translate(err)
		}
		if len(user.UserRoles) > 0 {
			if err := ReplaceUserRoles(tx, user, user.UserRoles); err != nil {
				return err
			}
		}
		if user.Preference != nil {
			return LinkPreference(tx, user, user.Preference)
		}
		return nil
	})
}

// SaveUser persists scalar field changes. Relations are written by
// ReplaceUserRoles and LinkPreference.
func SaveUser(db *gorm.DB, user *models.User) error {
	if user.Roles == nil {
		user.Roles = models.StringSet{}
	}
	return translate(db.Omit(clause.Associations).Save(user).Error)
}

// ReplaceUserRoles rewrites the user's role memberships to exactly roles.
func ReplaceUserRoles(db *gorm.DB, user *models.User, roles []models.Role) error {
	association := db.Model(user).Association("UserRoles")
	var err error
	if len(roles) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(roles)
	}
	if err != nil {
		return translate(err)
	}
	user.UserRoles = roles
	return nil
}

// DeleteUser removes the user, its preference and its role memberships.
// Roles are kept.
func DeleteUser(db *gorm.DB, user *models.User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Preference{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(user).Association("UserRoles").Clear(); err != nil {
			return translate(err)
		}
		result := tx.Delete(&models.User{}, user.ID)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		user.Preference = nil
		user.UserRoles = nil
		return nil
	})
}

// EmailTaken reports whether another user than exceptID uses email.
func EmailTaken(db *gorm.DB, email string, exceptID uint64) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, translate(err)
}
