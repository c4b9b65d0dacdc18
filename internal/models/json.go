package models

import (
	"database/sql/driver"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringSet is a deduplicated set of strings persisted as a JSON array.
type StringSet []string

// NewStringSet builds a set from values, dropping duplicates while keeping first-seen order.
func NewStringSet(values ...string) StringSet {
	set := make(StringSet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	return set
}

// Contains reports whether v is a member of the set.
func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// Sorted returns a sorted copy of the set.
func (s StringSet) Sorted() []string {
	out := append([]string{}, s...)
	sort.Strings(out)
	return out
}

// Value stores the set through datatypes.JSONSlice so every dialect gets a JSON encoding.
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		s = StringSet{}
	}
	return datatypes.JSONSlice[string](s).Value()
}

// Scan reads the JSON array back into the set.
func (s *StringSet) Scan(value interface{}) error {
	var slice datatypes.JSONSlice[string]
	if err := slice.Scan(value); err != nil {
		return err
	}
	*s = NewStringSet(slice...)
	return nil
}

// GormDBDataType ensures the correct column type is used for each database driver.
// MSSQL has no json type.
func (StringSet) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
