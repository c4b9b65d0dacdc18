package services

import (
	"errors"
	"fmt"

	"github.com/localnerve/usersdb/internal/store"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/localnerve/usersdb/internal/validation"
)

const (
	resourceUser       = "user"
	resourceRole       = "role"
	resourcePreference = "preference"
)

var titles = map[string]string{
	resourceUser:       "User",
	resourceRole:       "Role",
	resourcePreference: "Preference",
}

// MessagePreferenceOwned is the violation reported when a preference would change owner.
const MessagePreferenceOwned = "This preference already belongs to another user."

func notFound(resource string) error {
	return types.NotFound(fmt.Sprintf("%s not found", titles[resource]), resource+".notFound")
}

// storeError maps a store failure for resource onto the API taxonomy. Errors
// that are already APIErrors pass through.
func storeError(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := types.AsAPIError(err); ok {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return notFound(resource)
	}
	return types.Internal(resource+"."+op, err)
}

// uniqueError turns a constraint violation into a field violation on path.
func uniqueError(resource, op, path string, err error) error {
	if errors.Is(err, store.ErrConstraintViolation) {
		return types.Invalid(resource+".validation", []types.Violation{
			{Path: path, Message: validation.MessageUnique},
		})
	}
	return storeError(resource, op, err)
}

func missingReference(kind string, id uint64) string {
	return fmt.Sprintf("%s %d does not exist.", kind, id)
}
