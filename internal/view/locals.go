package view

import (
	"context"

	"go-scripts-app/internal/data"
)

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const navCategoriesKey = contextKey("navCategories")

// WithNavCategories attaches the navigation category list to the context.
func WithNavCategories(ctx context.Context, categories []*data.Category) context.Context {
	return context.WithValue(ctx, navCategoriesKey, categories)
}

// NavCategoriesFrom retrieves the navigation category list from the context.
// Requests that never passed the locals middleware get an empty list.
func NavCategoriesFrom(ctx context.Context) []*data.Category {
	if categories, ok := ctx.Value(navCategoriesKey).([]*data.Category); ok {
		return categories
	}
	return nil
}
