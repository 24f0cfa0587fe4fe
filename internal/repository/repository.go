// Package repository is the catalog data provider. Every method takes a context
// and records its duration under the db operation metric.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a record would duplicate an existing one
	ErrConflict = errors.New("record already exists")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page selects a window of a list result
type Page struct {
	Limit  int
	Offset int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return q.Limit(limit).Offset(offset)
}

// translate maps gorm errors onto the package sentinels
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// mustExist returns ErrNotFound unless a live row of the model's table has the given primary key
func mustExist(tx *gorm.DB, value interface{}, id uint) error {
	var count int64
	if err := tx.Model(value).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// likePattern builds a case-insensitive substring pattern for LOWER(column) LIKE ?
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
