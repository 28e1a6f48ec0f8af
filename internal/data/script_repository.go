package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// selectScripts joins each script with its category. The LEFT JOIN keeps
// scripts whose category has been deleted; their category columns scan as
// NULL.
const selectScripts = `
SELECT s.id, s.title, s.slug, s.description, s.code, s.category_id,
       s.created_at, s.updated_at,
       c.name AS category_name, c.slug AS category_slug
FROM scripts s
LEFT JOIN categories c ON c.id = s.category_id`

// ScriptRepository handles database operations for scripts.
type ScriptRepository struct {
	db *sqlx.DB
}

// NewScriptRepository creates a new ScriptRepository.
func NewScriptRepository(db *sqlx.DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

// GetAll retrieves all scripts, newest first.
func (r *ScriptRepository) GetAll(ctx context.Context) ([]*Script, error) {
	var scripts []*Script
	query := selectScripts + ` ORDER BY s.created_at DESC, s.id DESC`
	if err := r.db.SelectContext(ctx, &scripts, query); err != nil {
		return nil, fmt.Errorf("failed to get all scripts: %w", err)
	}
	return scripts, nil
}

// GetByCategoryID retrieves the scripts in one category, newest first.
func (r *ScriptRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*Script, error) {
	var scripts []*Script
	query := selectScripts + ` WHERE s.category_id = ? ORDER BY s.created_at DESC, s.id DESC`
	if err := r.db.SelectContext(ctx, &scripts, query, categoryID); err != nil {
		return nil, fmt.Errorf("failed to get scripts by category: %w", err)
	}
	return scripts, nil
}

// GetBySlug finds a script by its slug. Not found is not an error; the
// caller receives nil.
func (r *ScriptRepository) GetBySlug(ctx context.Context, slug string) (*Script, error) {
	var script Script
	query := selectScripts + ` WHERE s.slug = ?`
	if err := r.db.GetContext(ctx, &script, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get script by slug: %w", err)
	}
	return &script, nil
}

// GetByID finds a script by its ID. Not found is not an error; the caller
// receives nil.
func (r *ScriptRepository) GetByID(ctx context.Context, id int64) (*Script, error) {
	var script Script
	query := selectScripts + ` WHERE s.id = ?`
	if err := r.db.GetContext(ctx, &script, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get script by id: %w", err)
	}
	return &script, nil
}

// Create inserts a new script and returns its ID. A duplicate slug surfaces
// as the store's UNIQUE violation; see IsUniqueViolation.
func (r *ScriptRepository) Create(ctx context.Context, script *Script) (int64, error) {
	query := `INSERT INTO scripts (title, slug, description, code, category_id, created_at, updated_at)
	          VALUES (:title, :slug, :description, :code, :category_id, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, script)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites all mutable fields of an existing script.
func (r *ScriptRepository) Update(ctx context.Context, script *Script) error {
	query := `UPDATE scripts
	          SET title = :title, slug = :slug, description = :description,
	              code = :code, category_id = :category_id, updated_at = :updated_at
	          WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, script)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no script found to update with id %d", script.ID)
	}
	return nil
}

// Delete removes a script by ID. Deleting a missing ID is a no-op.
func (r *ScriptRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM scripts WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	return nil
}
