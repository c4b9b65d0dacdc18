package services

import (
	"context"

	"github.com/localnerve/usersdb/internal/metrics"
	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/store"
	"github.com/localnerve/usersdb/internal/validation"
	"gorm.io/gorm"
)

// RoleService runs the role lifecycle.
type RoleService struct {
	DB      *gorm.DB
	Metrics *metrics.EntityMetrics
}

// List returns every role with its members.
func (s *RoleService) List(ctx context.Context) ([]models.Role, error) {
	roles, err := store.ListRoles(s.DB.WithContext(ctx))
	if err != nil {
		return nil, storeError(resourceRole, "list", err)
	}
	return roles, nil
}

// Get loads a role with its members.
func (s *RoleService) Get(ctx context.Context, id uint64) (*models.Role, error) {
	role, err := store.FindRole(s.DB.WithContext(ctx), id)
	if err != nil {
		return nil, storeError(resourceRole, "show", err)
	}
	return role, nil
}

// Create builds a role from fields.
func (s *RoleService) Create(ctx context.Context, fields Fields) (*models.Role, error) {
	role := &models.Role{}
	p := newPatch(fields)
	applyRoleFields(p, role)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validate(tx, p, role); err != nil {
			return err
		}
		if err := store.CreateRole(tx, role); err != nil {
			return uniqueError(resourceRole, "create", "nom", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourceRole, "create")
	return s.Get(ctx, role.ID)
}

// Update applies the present fields to role id. A null description clears it.
func (s *RoleService) Update(ctx context.Context, id uint64, fields Fields) (*models.Role, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := store.FindRole(tx, id)
		if err != nil {
			return storeError(resourceRole, "update", err)
		}

		p := newPatch(fields)
		applyRoleFields(p, role)
		if err := s.validate(tx, p, role); err != nil {
			return err
		}
		if err := store.SaveRole(tx, role); err != nil {
			return uniqueError(resourceRole, "update", "nom", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.IncWrite(resourceRole, "update")
	return s.Get(ctx, id)
}

// Delete removes role id from every user, then deletes it.
func (s *RoleService) Delete(ctx context.Context, id uint64) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := store.FindRole(tx, id)
		if err != nil {
			return err
		}
		return store.DeleteRole(tx, role)
	})
	if err != nil {
		return storeError(resourceRole, "delete", err)
	}

	s.Metrics.IncWrite(resourceRole, "delete")
	return nil
}

func applyRoleFields(p *patch, role *models.Role) {
	p.String("nom", &role.Nom)
	p.NullableString("description", &role.Description)
}

func (s *RoleService) validate(tx *gorm.DB, p *patch, role *models.Role) error {
	violations := p.report(validation.RoleSchema.Validate(role))

	if role.Nom != "" {
		taken, err := store.RoleNameTaken(tx, role.Nom, role.ID)
		if err != nil {
			return storeError(resourceRole, "validate", err)
		}
		if taken {
			violations.Merge(validation.Violations{{Path: "nom", Message: validation.MessageUnique}})
		}
	}

	if err := violations.Err(resourceRole + ".validation"); err != nil {
		s.Metrics.IncViolation(resourceRole)
		return err
	}
	return nil
}
