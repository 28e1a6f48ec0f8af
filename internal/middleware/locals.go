package middleware

import (
	"context"
	"net/http"

	"go-scripts-app/internal/data"
	"go-scripts-app/internal/logger"
	"go-scripts-app/internal/view"
)

// CategoryLister is the slice of the service the locals middleware needs.
type CategoryLister interface {
	Categories(ctx context.Context) ([]*data.Category, error)
}

// Locals loads the category list once per request and attaches it to the
// context for every template's navigation. A store failure degrades to an
// empty list; navigation is decoration, not worth failing the page for.
func Locals(categories CategoryLister, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			list, err := categories.Categories(r.Context())
			if err != nil {
				log.Error(err, "Failed to load categories for navigation, continuing with none")
				list = nil
			}
			ctx := view.WithNavCategories(r.Context(), list)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
