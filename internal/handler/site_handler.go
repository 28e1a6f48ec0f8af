package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-scripts-app/internal/logger"
	"go-scripts-app/internal/middleware"
	"go-scripts-app/internal/service"
	"go-scripts-app/internal/view"
)

// SiteHandler holds the dependencies for the public catalog handlers.
type SiteHandler struct {
	scripts service.ScriptServicer
	view    *view.View
	log     logger.Logger
}

// NewSiteHandler creates a new SiteHandler with the given dependencies.
func NewSiteHandler(s service.ScriptServicer, v *view.View, log logger.Logger) *SiteHandler {
	return &SiteHandler{
		scripts: s,
		view:    v,
		log:     log,
	}
}

// homeHandler lists every script, newest first.
func (h *SiteHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	scripts, err := h.scripts.ListScripts(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve scripts", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Scripts": scripts,
	}
	if err := h.view.Render(w, r, "home.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render home page", Code: http.StatusInternalServerError}
	}
	return nil
}

// categoryHandler lists the scripts in the category resolved by slug.
func (h *SiteHandler) categoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categorySlug := chi.URLParam(r, "slug")

	category, scripts, err := h.scripts.ListScriptsByCategory(r.Context(), categorySlug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Category not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve category", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Category": category,
		"Scripts":  scripts,
	}
	if err := h.view.Render(w, r, "category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category page", Code: http.StatusInternalServerError}
	}
	return nil
}

// scriptHandler shows one script resolved by slug.
func (h *SiteHandler) scriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	scriptSlug := chi.URLParam(r, "slug")

	script, err := h.scripts.GetScript(r.Context(), scriptSlug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Script not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve script", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Script": script,
	}
	if err := h.view.Render(w, r, "script.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render script page", Code: http.StatusInternalServerError}
	}
	return nil
}
