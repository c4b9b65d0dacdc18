// engine.go
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

package validation

import (
	"sort"

	"github.com/localnerve/usersdb/internal/types"
)

// Violation is a failed rule on a property path.
type Violation = types.Violation

// Violations is an ordered list of failures.
type Violations []Violation

// Add appends a violation.
func (v *Violations) Add(path, message string) {
	*v = append(*v, Violation{Path: path, Message: message})
}

// Merge appends others and restores path order.
func (v *Violations) Merge(others Violations) {
	*v = append(*v, others...)
	v.sort()
}

// sort orders by path, keeping rule order within a path.
func (v Violations) sort() {
	sort.SliceStable(v, func(i, j int) bool {
		return v[i].Path < v[j].Path
	})
}

// Err returns nil for an empty list, otherwise a BadRequest APIError with every violation.
func (v Violations) Err(errorType string) error {
	if len(v) == 0 {
		return nil
	}
	return types.Invalid(errorType, []types.Violation(v))
}

// Field attaches rules to one property of T.
type Field[T any] struct {
	Path  string
	Value func(T) any
	Rules []Rule
	// When, if set, must report true for the field to be checked.
	When func(T) bool
}

// Schema is the full rule set for an entity type.
type Schema[T any] []Field[T]

// Validate runs every rule of every field and returns all failures ordered by path.
func (s Schema[T]) Validate(entity T) Violations {
	var out Violations
	for _, field := range s {
		if field.When != nil && !field.When(entity) {
			continue
		}
		value := field.Value(entity)
		for _, rule := range field.Rules {
			if msg, ok := rule.Check(value); !ok {
				out.Add(field.Path, msg)
			}
		}
	}
	out.sort()
	return out
}
