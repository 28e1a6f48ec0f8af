package service

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"go-scripts-app/internal/data"
)

// Sentinel errors returned by the service. Handlers branch on these instead
// of inspecting store errors.
var (
	// ErrValidation means a required field was empty after trimming.
	ErrValidation = errors.New("missing required field")
	// ErrDuplicate means the derived slug (or category name) already exists.
	ErrDuplicate = errors.New("duplicate name or slug")
	// ErrNotFound means no entity matches the given slug or ID.
	ErrNotFound = errors.New("not found")
)

// defaultCategoryNames seed the catalog on first boot with an empty
// categories table.
var defaultCategoryNames = []string{"Combat", "Movement", "Teleport", "Utility", "Visuals"}

// CategoryRepository defines the store operations the service needs for
// categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*data.Category, error)
	GetBySlug(ctx context.Context, slug string) (*data.Category, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// ScriptRepository defines the store operations the service needs for
// scripts.
type ScriptRepository interface {
	GetAll(ctx context.Context) ([]*data.Script, error)
	GetByCategoryID(ctx context.Context, categoryID int64) ([]*data.Script, error)
	GetBySlug(ctx context.Context, slug string) (*data.Script, error)
	GetByID(ctx context.Context, id int64) (*data.Script, error)
	Create(ctx context.Context, script *data.Script) (int64, error)
	Update(ctx context.Context, script *data.Script) error
	Delete(ctx context.Context, id int64) error
}

// ScriptInput is the validated boundary type for script create and update
// submissions. CategoryID is nil when the form sent no usable category.
type ScriptInput struct {
	Title       string
	Description string
	Code        string
	CategoryID  *int64
}

// ScriptServicer defines the interface for interacting with the catalog.
type ScriptServicer interface {
	Categories(ctx context.Context) ([]*data.Category, error)
	SeedDefaultCategories(ctx context.Context) error
	CreateCategory(ctx context.Context, name string) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListScripts(ctx context.Context) ([]*data.Script, error)
	ListScriptsByCategory(ctx context.Context, categorySlug string) (*data.Category, []*data.Script, error)
	GetScript(ctx context.Context, slug string) (*data.Script, error)
	GetScriptByID(ctx context.Context, id int64) (*data.Script, error)
	CreateScript(ctx context.Context, in ScriptInput) (int64, error)
	UpdateScript(ctx context.Context, id int64, in ScriptInput) error
	DeleteScript(ctx context.Context, id int64) error
}

// ScriptService provides the business logic for the script catalog.
type ScriptService struct {
	scripts    ScriptRepository
	categories CategoryRepository
	markdown   goldmark.Markdown
	sanitizer  *bluemonday.Policy
}

// NewScriptService creates a new ScriptService with the given repositories.
func NewScriptService(scripts ScriptRepository, categories CategoryRepository) *ScriptService {
	return &ScriptService{
		scripts:    scripts,
		categories: categories,
		markdown:   goldmark.New(),
		// UGCPolicy allows basic formatting in rendered descriptions while
		// stripping anything executable.
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Categories returns all categories ordered by name.
func (s *ScriptService) Categories(ctx context.Context) ([]*data.Category, error) {
	return s.categories.GetAll(ctx)
}

// SeedDefaultCategories inserts the fixed default categories when the table
// is empty. Safe to run on every start.
func (s *ScriptService) SeedDefaultCategories(ctx context.Context) error {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range defaultCategoryNames {
		category := &data.Category{Name: name, Slug: slug.Make(name)}
		if _, err := s.categories.Save(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

// CreateCategory trims and validates the name, derives the slug, and inserts.
func (s *ScriptService) CreateCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrValidation
	}
	category := &data.Category{Name: name, Slug: slug.Make(name)}
	id, err := s.categories.Save(ctx, category)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// DeleteCategory deletes by ID without an existence check. Scripts keep
// their now-dangling reference.
func (s *ScriptService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categories.Delete(ctx, id)
}

// ListScripts returns all scripts newest first, each annotated with its
// category where one still exists.
func (s *ScriptService) ListScripts(ctx context.Context) ([]*data.Script, error) {
	return s.scripts.GetAll(ctx)
}

// ListScriptsByCategory resolves the category by slug and returns its
// scripts newest first.
func (s *ScriptService) ListScriptsByCategory(ctx context.Context, categorySlug string) (*data.Category, []*data.Script, error) {
	category, err := s.categories.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, nil, err
	}
	if category == nil {
		return nil, nil, ErrNotFound
	}
	scripts, err := s.scripts.GetByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	return category, scripts, nil
}

// GetScript resolves a script by slug, with its rendered description.
func (s *ScriptService) GetScript(ctx context.Context, scriptSlug string) (*data.Script, error) {
	script, err := s.scripts.GetBySlug(ctx, scriptSlug)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, ErrNotFound
	}
	script.DescriptionHTML = s.renderDescription(script.Description)
	return script, nil
}

// GetScriptByID resolves a script by ID, as used by the edit form.
func (s *ScriptService) GetScriptByID(ctx context.Context, id int64) (*data.Script, error) {
	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, ErrNotFound
	}
	return script, nil
}

// CreateScript validates the input, derives the slug from the title, and
// inserts with both timestamps set to now.
func (s *ScriptService) CreateScript(ctx context.Context, in ScriptInput) (int64, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Code) == "" {
		return 0, ErrValidation
	}
	now := time.Now()
	script := &data.Script{
		Title:       title,
		Slug:        slug.Make(title),
		Description: in.Description,
		Code:        in.Code,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.scripts.Create(ctx, script)
	if err != nil {
		if data.IsUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

// UpdateScript rewrites all fields of an existing script, recomputing the
// slug from the possibly changed title and refreshing updated_at only.
func (s *ScriptService) UpdateScript(ctx context.Context, id int64, in ScriptInput) error {
	script, err := s.scripts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if script == nil {
		return ErrNotFound
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Code) == "" {
		return ErrValidation
	}
	script.Title = title
	script.Slug = slug.Make(title)
	script.Description = in.Description
	script.Code = in.Code
	script.CategoryID = in.CategoryID
	script.UpdatedAt = time.Now()
	if err := s.scripts.Update(ctx, script); err != nil {
		if data.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteScript deletes by ID without an existence check.
func (s *ScriptService) DeleteScript(ctx context.Context, id int64) error {
	return s.scripts.Delete(ctx, id)
}

// renderDescription converts a markdown description to sanitized HTML. The
// code body never goes through here; templates escape it verbatim.
func (s *ScriptService) renderDescription(description string) template.HTML {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(description), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(description))
	}
	return template.HTML(s.sanitizer.SanitizeBytes(buf.Bytes()))
}
