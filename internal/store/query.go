package store

import (
	"fmt"
	"strings"
	"unicode"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Filter selects, orders and windows a listing.
type Filter struct {
	// Where narrows the rows; nil keeps all of them.
	Where func(*gorm.DB) *gorm.DB
	// Sort is a field name, either the JSON name (createdAt) or the column (created_at).
	Sort  string
	Order string
	// Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// Page is one window of a listing. Total counts every row matching the filter.
type Page[T any] struct {
	Items []T
	Total int64
}

// findPage counts the filtered rows, then loads the requested window.
func findPage[T any](db *gorm.DB, filter Filter, comment string, preload func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	var model T

	column, err := SortColumn(db, &model, filter.Sort)
	if err != nil {
		return nil, err
	}
	desc, err := parseOrder(filter.Order)
	if err != nil {
		return nil, err
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&model)
		if filter.Where != nil {
			tx = filter.Where(tx)
		}
		return tx
	}

	var total int64
	if err := db.Scopes(scope).Count(&total).Error; err != nil {
		return nil, translate(err)
	}

	query := db.Scopes(scope).
		Clauses(hints.Comment("select", comment)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	if filter.Sort != "" && column != "id" {
		// Stable windows when the sort column has duplicates
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if preload != nil {
		query = preload(query)
	}

	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		return nil, translate(err)
	}

	return &Page[T]{Items: items, Total: total}, nil
}

// unsortable are credential columns that never order a listing.
var unsortable = map[string]struct{}{
	"password": {},
}

// SortColumn resolves a field name against the model schema and returns its column.
// An empty name sorts by id.
func SortColumn(db *gorm.DB, model any, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "id", nil
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("parse schema: %w", err)
	}

	field := stmt.Schema.LookUpField(name)
	if field == nil {
		field = stmt.Schema.LookUpField(exported(name))
	}
	if field == nil || field.DBName == "" {
		return "", fmt.Errorf("%w: unknown field %q for %s", ErrInvalidSort, name, stmt.Schema.Name)
	}
	if _, ok := unsortable[field.DBName]; ok {
		return "", fmt.Errorf("%w: field %q of %s is not sortable", ErrInvalidSort, name, stmt.Schema.Name)
	}
	return field.DBName, nil
}

func parseOrder(order string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(order)) {
	case "", OrderDesc:
		return true, nil
	case OrderAsc:
		return false, nil
	}
	return false, fmt.Errorf("%w: unknown order %q", ErrInvalidSort, order)
}

// exported turns a JSON name such as createdAt into the Go field name CreatedAt.
func exported(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
