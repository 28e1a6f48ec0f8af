package data

import (
	"database/sql"
	"html/template"
	"time"
)

// Category is a named grouping for scripts, addressable by its unique slug.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// Script is a stored code snippet. CategoryID may reference a category that
// no longer exists; the join columns below are then NULL and readers treat
// the category as absent.
type Script struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Code        string    `db:"code"`
	CategoryID  *int64    `db:"category_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Populated by the LEFT JOIN on read paths.
	CategoryName sql.NullString `db:"category_name"`
	CategorySlug sql.NullString `db:"category_slug"`

	// DescriptionHTML is the rendered, sanitized description. Never persisted.
	DescriptionHTML template.HTML `db:"-"`
}
