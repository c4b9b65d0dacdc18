package store

import (
	"github.com/localnerve/usersdb/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

func preloadRole(db *gorm.DB) *gorm.DB {
	return db.Preload("Users", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}

// FindRole loads a role with its members.
func FindRole(db *gorm.DB, id uint64) (*models.Role, error) {
	var role models.Role
	if err := preloadRole(db).First(&role, id).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

// ListRoles returns every role ordered by id.
func ListRoles(db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	err := preloadRole(db).
		Clauses(hints.Comment("select", "usersdb:list_roles")).
		Order("id ASC").
		Find(&roles).Error
	return roles, translate(err)
}

// FindRolesByIDs loads the roles for ids in the given order and reports the ids
// that do not exist.
func FindRolesByIDs(db *gorm.DB, ids []uint64) ([]models.Role, []uint64, error) {
	if len(ids) == 0 {
		return []models.Role{}, nil, nil
	}

	var found []models.Role
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, nil, translate(err)
	}

	byID := make(map[uint64]models.Role, len(found))
	for _, role := range found {
		byID[role.ID] = role
	}

	roles := make([]models.Role, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	var missing []uint64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if role, ok := byID[id]; ok {
			roles = append(roles, role)
		} else {
			missing = append(missing, id)
		}
	}
	return roles, missing, nil
}

// CreateRole inserts a role. Members are managed from the user side.
func CreateRole(db *gorm.DB, role *models.Role) error {
	return translate(db.Omit(clause.Associations).Create(role).Error)
}

// SaveRole persists scalar field changes.
func SaveRole(db *gorm.DB, role *models.Role) error {
	return translate(db.Omit(clause.Associations).Save(role).Error)
}

// DeleteRole removes the role from every user that has it, then deletes it.
func DeleteRole(db *gorm.DB, role *models.Role) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(role).Association("Users").Clear(); err != nil {
			return translate(err)
		}
		result := tx.Delete(&models.Role{}, role.ID)
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		role.Users = nil
		return nil
	})
}

// RoleNameTaken reports whether another role than exceptID is named nom.
func RoleNameTaken(db *gorm.DB, nom string, exceptID uint64) (bool, error) {
	var count int64
	err := db.Model(&models.Role{}).
		Where("nom = ? AND id <> ?", nom, exceptID).
		Count(&count).Error
	return count > 0, translate(err)
}
