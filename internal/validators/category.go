package validators

import "github.com/sashika20643/Soundpath-sub001/internal/models"

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2"`
	Type string `json:"type" binding:"required,oneof=genre setting eventType"`
}

// UpdateCategoryRequest allows renaming only; a category cannot change kind
// after creation, which the handler enforces when Type is present.
type UpdateCategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2"`
	Type *string `json:"type" binding:"omitempty,oneof=genre setting eventType"`
}

type CategoryListQuery struct {
	Pager
	Type   string `form:"type" binding:"omitempty,oneof=genre setting eventType"`
	Search string `form:"search"`
}

func (q CategoryListQuery) Filter() models.CategoryFilter {
	return models.CategoryFilter{Type: q.Type, Search: q.Search}
}
