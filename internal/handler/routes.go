package handler

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-scripts-app/internal/middleware"
	"go-scripts-app/internal/session"
	"go-scripts-app/web"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	site *SiteHandler,
	admin *AdminHandler,
	seo *SeoHandler,
	requireAdmin func(http.Handler) http.Handler,
	locals func(http.Handler) http.Handler,
	errorMiddleware func(middleware.AppHandler) http.Handler,
	sm session.Manager,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Sessions before locals: the category navigation renders on every page,
	// including the login form.
	r.Use(sm.LoadAndSave)
	r.Use(locals)

	// Embedded static assets.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Public routes
	r.Method(http.MethodGet, "/", errorMiddleware(site.homeHandler))
	r.Method(http.MethodGet, "/categoria/{slug}", errorMiddleware(site.categoryHandler))
	r.Method(http.MethodGet, "/script/{slug}", errorMiddleware(site.scriptHandler))
	r.Get("/robots.txt", seo.robotsHandler)
	r.Get("/sitemap.xml", seo.sitemapHandler)

	// Login routes stay outside the gate.
	r.Method(http.MethodGet, "/admin/login", errorMiddleware(admin.loginFormHandler))
	r.Method(http.MethodPost, "/admin/login", errorMiddleware(admin.loginHandler))
	r.Method(http.MethodPost, "/admin/logout", errorMiddleware(admin.logoutHandler))

	// Gated admin routes
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)

		r.Method(http.MethodGet, "/admin", errorMiddleware(admin.dashboardHandler))
		r.Method(http.MethodPost, "/admin/categories", errorMiddleware(admin.createCategoryHandler))
		r.Method(http.MethodPost, "/admin/categories/{id}/delete", errorMiddleware(admin.deleteCategoryHandler))
		r.Method(http.MethodGet, "/admin/scripts/new", errorMiddleware(admin.newScriptHandler))
		r.Method(http.MethodPost, "/admin/scripts", errorMiddleware(admin.createScriptHandler))
		r.Method(http.MethodGet, "/admin/scripts/{id}/edit", errorMiddleware(admin.editScriptHandler))
		r.Method(http.MethodPost, "/admin/scripts/{id}", errorMiddleware(admin.updateScriptHandler))
		r.Method(http.MethodPost, "/admin/scripts/{id}/delete", errorMiddleware(admin.deleteScriptHandler))
	})

	// Unmatched routes render the not-found page with a not-found status.
	r.NotFound(errorMiddleware(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		return &middleware.AppError{Error: errors.New("no such route"), Message: "Page not found", Code: http.StatusNotFound}
	}).ServeHTTP)

	return r
}
