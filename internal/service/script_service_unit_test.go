//go:build unit

package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"go-scripts-app/internal/data"
)

// mockScriptRepository is a mock implementation of the ScriptRepository interface.
type mockScriptRepository struct {
	errToReturn     error
	scriptToReturn  *data.Script
	scriptsToReturn []*data.Script

	createCalled bool
	updateCalled bool
	deleteCalled bool
	lastSaved    *data.Script
}

var _ ScriptRepository = (*mockScriptRepository)(nil)

func (m *mockScriptRepository) GetAll(ctx context.Context) ([]*data.Script, error) {
	return m.scriptsToReturn, m.errToReturn
}

func (m *mockScriptRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*data.Script, error) {
	return m.scriptsToReturn, m.errToReturn
}

func (m *mockScriptRepository) GetBySlug(ctx context.Context, slug string) (*data.Script, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.scriptToReturn != nil && m.scriptToReturn.Slug == slug {
		return m.scriptToReturn, nil
	}
	return nil, nil
}

func (m *mockScriptRepository) GetByID(ctx context.Context, id int64) (*data.Script, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.scriptToReturn != nil && m.scriptToReturn.ID == id {
		return m.scriptToReturn, nil
	}
	return nil, nil
}

func (m *mockScriptRepository) Create(ctx context.Context, script *data.Script) (int64, error) {
	m.createCalled = true
	m.lastSaved = script
	if m.errToReturn != nil {
		return 0, m.errToReturn
	}
	script.ID = 1
	return 1, nil
}

func (m *mockScriptRepository) Update(ctx context.Context, script *data.Script) error {
	m.updateCalled = true
	m.lastSaved = script
	return m.errToReturn
}

func (m *mockScriptRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalled = true
	return m.errToReturn
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	errToReturn        error
	countToReturn      int64
	categoryToReturn   *data.Category
	categoriesToReturn []*data.Category

	saveCalled      int
	savedCategories []*data.Category
	deleteCalled    bool
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	return m.categoriesToReturn, m.errToReturn
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.categoryToReturn != nil && m.categoryToReturn.Slug == slug {
		return m.categoryToReturn, nil
	}
	return nil, nil
}

func (m *mockCategoryRepository) Save(ctx context.Context, category *data.Category) (int64, error) {
	m.saveCalled++
	m.savedCategories = append(m.savedCategories, category)
	if m.errToReturn != nil {
		return 0, m.errToReturn
	}
	category.ID = int64(m.saveCalled)
	return category.ID, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalled = true
	return m.errToReturn
}

func (m *mockCategoryRepository) Count(ctx context.Context) (int64, error) {
	return m.countToReturn, m.errToReturn
}

func newTestService() (*ScriptService, *mockScriptRepository, *mockCategoryRepository) {
	scripts := &mockScriptRepository{}
	categories := &mockCategoryRepository{}
	return NewScriptService(scripts, categories), scripts, categories
}

func TestCreateScript_DerivesSlug(t *testing.T) {
	slugPattern := regexp.MustCompile(`^[a-z0-9-]+$`)

	cases := []struct {
		title string
		want  string
	}{
		{"Teleport Hack!", "teleport-hack"},
		{"  PvP Combo  ", "pvp-combo"},
		{"Überspeed 2000", "uberspeed-2000"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			svc, scripts, _ := newTestService()
			_, err := svc.CreateScript(context.Background(), ScriptInput{Title: tc.title, Code: "print(1)"})
			if err != nil {
				t.Fatalf("CreateScript failed: %v", err)
			}
			got := scripts.lastSaved.Slug
			if got != tc.want {
				t.Errorf("expected slug '%s', got '%s'", tc.want, got)
			}
			if !slugPattern.MatchString(got) {
				t.Errorf("slug '%s' contains characters outside [a-z0-9-]", got)
			}

			// Slugifying an already-slugified title returns it unchanged.
			svc2, scripts2, _ := newTestService()
			if _, err := svc2.CreateScript(context.Background(), ScriptInput{Title: got, Code: "print(1)"}); err != nil {
				t.Fatalf("CreateScript failed: %v", err)
			}
			if scripts2.lastSaved.Slug != got {
				t.Errorf("slug derivation not idempotent: '%s' became '%s'", got, scripts2.lastSaved.Slug)
			}
		})
	}
}

func TestCreateScript_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input ScriptInput
	}{
		{"empty title", ScriptInput{Title: "", Code: "print(1)"}},
		{"whitespace title", ScriptInput{Title: "   ", Code: "print(1)"}},
		{"empty code", ScriptInput{Title: "Test", Code: ""}},
		{"whitespace code", ScriptInput{Title: "Test", Code: "  \n "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, scripts, _ := newTestService()
			_, err := svc.CreateScript(context.Background(), tc.input)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if scripts.createCalled {
				t.Error("expected no insert for invalid input")
			}
		})
	}
}

func TestCreateScript_SetsTimestamps(t *testing.T) {
	svc, scripts, _ := newTestService()

	before := time.Now()
	if _, err := svc.CreateScript(context.Background(), ScriptInput{Title: "Test", Code: "print(1)"}); err != nil {
		t.Fatalf("CreateScript failed: %v", err)
	}
	saved := scripts.lastSaved
	if saved.CreatedAt.Before(before) || saved.UpdatedAt.Before(before) {
		t.Error("expected both timestamps to be set to now")
	}
	if !saved.CreatedAt.Equal(saved.UpdatedAt) {
		t.Error("expected created and updated timestamps to match on create")
	}
}

func TestCreateScript_DuplicateSlug(t *testing.T) {
	svc, scripts, _ := newTestService()
	scripts.errToReturn = errors.New("constraint failed: UNIQUE constraint failed: scripts.slug")

	_, err := svc.CreateScript(context.Background(), ScriptInput{Title: "Test", Code: "print(1)"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpdateScript(t *testing.T) {
	created := time.Now().Add(-time.Hour)
	catID := int64(3)
	svc, scripts, _ := newTestService()
	scripts.scriptToReturn = &data.Script{
		ID:        7,
		Title:     "Test",
		Slug:      "test",
		Code:      "print(1)",
		CreatedAt: created,
		UpdatedAt: created,
	}

	err := svc.UpdateScript(context.Background(), 7, ScriptInput{Title: "Test2", Code: "print(2)", CategoryID: &catID})
	if err != nil {
		t.Fatalf("UpdateScript failed: %v", err)
	}
	if !scripts.updateCalled {
		t.Fatal("expected the repository update to be called")
	}
	saved := scripts.lastSaved
	if saved.Slug != "test2" {
		t.Errorf("expected slug recomputed to 'test2', got '%s'", saved.Slug)
	}
	if saved.CategoryID == nil || *saved.CategoryID != catID {
		t.Errorf("expected category reference %d, got %v", catID, saved.CategoryID)
	}
	if !saved.CreatedAt.Equal(created) {
		t.Error("expected the created timestamp to be preserved")
	}
	if !saved.UpdatedAt.After(created) {
		t.Error("expected the updated timestamp to be refreshed")
	}
}

func TestUpdateScript_NotFound(t *testing.T) {
	svc, scripts, _ := newTestService()

	err := svc.UpdateScript(context.Background(), 42, ScriptInput{Title: "Test", Code: "print(1)"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if scripts.updateCalled {
		t.Error("expected no update for a missing script")
	}
}

func TestCreateCategory(t *testing.T) {
	t.Run("trims and derives slug", func(t *testing.T) {
		svc, _, categories := newTestService()
		if _, err := svc.CreateCategory(context.Background(), "  Combat  "); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		saved := categories.savedCategories[0]
		if saved.Name != "Combat" {
			t.Errorf("expected trimmed name 'Combat', got '%s'", saved.Name)
		}
		if saved.Slug != "combat" {
			t.Errorf("expected slug 'combat', got '%s'", saved.Slug)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		svc, _, categories := newTestService()
		_, err := svc.CreateCategory(context.Background(), "   ")
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if categories.saveCalled != 0 {
			t.Error("expected no insert for empty name")
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc, _, categories := newTestService()
		categories.errToReturn = errors.New("constraint failed: UNIQUE constraint failed: categories.slug")
		_, err := svc.CreateCategory(context.Background(), "PvP!")
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestSeedDefaultCategories(t *testing.T) {
	t.Run("seeds an empty table", func(t *testing.T) {
		svc, _, categories := newTestService()
		if err := svc.SeedDefaultCategories(context.Background()); err != nil {
			t.Fatalf("SeedDefaultCategories failed: %v", err)
		}
		if categories.saveCalled != 5 {
			t.Errorf("expected 5 seeded categories, got %d", categories.saveCalled)
		}
		for _, c := range categories.savedCategories {
			if c.Slug == "" {
				t.Errorf("seeded category %q has no slug", c.Name)
			}
		}
	})

	t.Run("leaves a populated table alone", func(t *testing.T) {
		svc, _, categories := newTestService()
		categories.countToReturn = 2
		if err := svc.SeedDefaultCategories(context.Background()); err != nil {
			t.Fatalf("SeedDefaultCategories failed: %v", err)
		}
		if categories.saveCalled != 0 {
			t.Errorf("expected no seeding, got %d saves", categories.saveCalled)
		}
	})
}

func TestListScriptsByCategory_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.ListScriptsByCategory(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetScript_RendersSanitizedDescription(t *testing.T) {
	svc, scripts, _ := newTestService()
	scripts.scriptToReturn = &data.Script{
		ID:          1,
		Title:       "Test",
		Slug:        "test",
		Code:        "print(1)",
		Description: "Uses **bold** moves.\n\n<script>alert(1)</script>",
	}

	script, err := svc.GetScript(context.Background(), "test")
	if err != nil {
		t.Fatalf("GetScript failed: %v", err)
	}
	html := string(script.DescriptionHTML)
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("expected markdown to render, got: %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("expected script tags to be stripped, got: %s", html)
	}
}

func TestGetScript_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.GetScript(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
