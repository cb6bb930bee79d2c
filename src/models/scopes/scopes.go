package scopes

import (
	"strings"

	"uservice/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func WithID(id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.BOOKING_PENDING)
}

// Search matches term against the given columns, case-insensitively.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, c := range columns {
			clauses = append(clauses, "LOWER("+c+") LIKE ?")
			args = append(args, like)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Normalize fills in default paging values.
func Normalize(q types.PageQuery) types.PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}

func Paginate(q types.PageQuery) func(db *gorm.DB) *gorm.DB {
	q = Normalize(q)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
	}
}

func PaginationOf(q types.PageQuery, total int64) *types.Pagination {
	q = Normalize(q)
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return &types.Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}
}
