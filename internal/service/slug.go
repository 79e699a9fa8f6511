package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueSlug derives a URL slug from title and resolves collisions with a
// numeric suffix: title, title-1, title-2, ... excludeID removes the row
// being updated from the collision check; pass uuid.Nil on create.
//
// The loop is racy between concurrent creations with the same title; the
// unique index on slug is the authoritative backstop and callers retry via
// isDuplicateErr.
func uniqueSlug(tx *gorm.DB, table, title string, excludeID uuid.UUID) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for i := 1; ; i++ {
		query := tx.Table(table).Where("slug = ?", candidate)
		if excludeID != uuid.Nil {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// isDuplicateErr reports whether err is a unique-constraint violation, across
// the drivers we run against (postgres and sqlite).
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
