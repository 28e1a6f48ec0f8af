package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-scripts-app/internal/config"
	"go-scripts-app/internal/logger"
	"go-scripts-app/internal/middleware"
	"go-scripts-app/internal/service"
	"go-scripts-app/internal/session"
	"go-scripts-app/internal/view"
)

// AdminHandler holds the dependencies for the admin handlers.
type AdminHandler struct {
	scripts  service.ScriptServicer
	view     *view.View
	sessions session.Manager
	creds    config.AdminConfig
	log      logger.Logger
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(s service.ScriptServicer, v *view.View, sm session.Manager, creds config.AdminConfig, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		scripts:  s,
		view:     v,
		sessions: sm,
		creds:    creds,
		log:      log,
	}
}

// loginFormHandler renders the login form, or skips it for a session that is
// already authenticated.
func (h *AdminHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sessions.GetBool(r.Context(), middleware.SessionKeyAuthenticated) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	}
	if err := h.view.Render(w, r, "login.html", nil); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler validates the submitted credentials against the configured
// pair. There is no lockout or hashing; the credential is a single shared
// static pair.
func (h *AdminHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := r.FormValue("username")
	password := r.FormValue("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.creds.Password)) == 1
	if !userOK || !passOK {
		h.log.Warn(fmt.Sprintf("Rejected admin login for username %q", username))
		data := map[string]interface{}{
			"Error": "Invalid username or password.",
		}
		if err := h.view.Render(w, r, "login.html", data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
		}
		return nil
	}

	// Renew the token on privilege change so the authenticated session does
	// not reuse a pre-login token.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to renew session", Code: http.StatusInternalServerError}
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyAuthenticated, true)
	h.sessions.Put(r.Context(), middleware.SessionKeyAdminUser, username)

	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// logoutHandler clears all session state and redirects home.
func (h *AdminHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to destroy session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// dashboardHandler shows the full script list plus the category manager.
func (h *AdminHandler) dashboardHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	scripts, err := h.scripts.ListScripts(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve scripts", Code: http.StatusInternalServerError}
	}
	categories, err := h.scripts.Categories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve categories", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Scripts":    scripts,
		"Categories": categories,
		"IsAdmin":    true,
		"AdminUser":  h.sessions.GetString(r.Context(), middleware.SessionKeyAdminUser),
	}
	if err := h.view.Render(w, r, "admin_dashboard.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render dashboard", Code: http.StatusInternalServerError}
	}
	return nil
}

// createCategoryHandler inserts a category from the dashboard form. A
// duplicate or empty name redirects back without a user-visible message;
// both are logged so the silence is at least observable.
func (h *AdminHandler) createCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := r.FormValue("name")

	_, err := h.scripts.CreateCategory(r.Context(), name)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Warn("Ignored category create with empty name")
	case errors.Is(err, service.ErrDuplicate):
		h.log.Warn(fmt.Sprintf("Ignored duplicate category %q", name))
	case err != nil:
		return &middleware.AppError{Error: err, Message: "Failed to create category", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// deleteCategoryHandler deletes by ID unconditionally. Scripts referencing
// the category keep a dangling reference the read paths tolerate.
func (h *AdminHandler) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	}
	if err := h.scripts.DeleteCategory(r.Context(), id); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to delete category", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// newScriptHandler renders the empty script form.
func (h *AdminHandler) newScriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.scripts.Categories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve categories", Code: http.StatusInternalServerError}
	}

	data := map[string]interface{}{
		"Categories":         categories,
		"IsAdmin":            true,
		"SelectedCategoryID": int64(0),
	}
	if err := h.view.Render(w, r, "script_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render script form", Code: http.StatusInternalServerError}
	}
	return nil
}

// createScriptHandler inserts a script from the form. Validation and
// duplicate failures redirect back to the form without persisting.
func (h *AdminHandler) createScriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	in := scriptInputFromForm(r)

	_, err := h.scripts.CreateScript(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Warn("Ignored script create with empty title or code")
		http.Redirect(w, r, "/admin/scripts/new", http.StatusFound)
		return nil
	case errors.Is(err, service.ErrDuplicate):
		h.log.Warn(fmt.Sprintf("Ignored script create with duplicate title %q", in.Title))
		http.Redirect(w, r, "/admin/scripts/new", http.StatusFound)
		return nil
	case err != nil:
		return &middleware.AppError{Error: err, Message: "Failed to create script", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// editScriptHandler renders the form prefilled with an existing script. A
// missing ID redirects to the dashboard without an error page.
func (h *AdminHandler) editScriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	}

	script, err := h.scripts.GetScriptByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve script", Code: http.StatusInternalServerError}
	}

	categories, err := h.scripts.Categories(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve categories", Code: http.StatusInternalServerError}
	}

	var selected int64
	if script.CategoryID != nil {
		selected = *script.CategoryID
	}
	data := map[string]interface{}{
		"Script":             script,
		"Categories":         categories,
		"IsAdmin":            true,
		"SelectedCategoryID": selected,
	}
	if err := h.view.Render(w, r, "script_form.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render script form", Code: http.StatusInternalServerError}
	}
	return nil
}

// updateScriptHandler rewrites an existing script from the form submission.
func (h *AdminHandler) updateScriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	}
	in := scriptInputFromForm(r)

	err = h.scripts.UpdateScript(r.Context(), id, in)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	case errors.Is(err, service.ErrValidation):
		h.log.Warn(fmt.Sprintf("Ignored script update %d with empty title or code", id))
		http.Redirect(w, r, fmt.Sprintf("/admin/scripts/%d/edit", id), http.StatusFound)
		return nil
	case errors.Is(err, service.ErrDuplicate):
		h.log.Warn(fmt.Sprintf("Ignored script update %d with duplicate title %q", id, in.Title))
		http.Redirect(w, r, fmt.Sprintf("/admin/scripts/%d/edit", id), http.StatusFound)
		return nil
	case err != nil:
		return &middleware.AppError{Error: err, Message: "Failed to update script", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// deleteScriptHandler deletes by ID unconditionally.
func (h *AdminHandler) deleteScriptHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return nil
	}
	if err := h.scripts.DeleteScript(r.Context(), id); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to delete script", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
	return nil
}

// scriptInputFromForm builds the validated boundary type from the raw form.
// An absent or non-positive category select becomes a nil reference.
func scriptInputFromForm(r *http.Request) service.ScriptInput {
	in := service.ScriptInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Code:        r.FormValue("code"),
	}
	if raw := r.FormValue("category_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
			in.CategoryID = &id
		}
	}
	return in
}
