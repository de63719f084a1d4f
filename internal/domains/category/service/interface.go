package service

import (
	"context"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/shared/utils"
)

// CategoryService owns every category invariant: sibling-unique names,
// an acyclic parent graph and deletion only of unreferenced leaves.
type CategoryService interface {
	Create(ctx context.Context, req model.CreateCategoryRequest) (int64, error)
	// GetByID returns (nil, nil) when the category does not exist.
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategories(ctx context.Context, p utils.Pagination) ([]model.Category, int, error)
	GetSubcategories(ctx context.Context, parentID int64) ([]model.Category, error)
	// GetAllDescendants walks down level by level; maxDepth <= 0 uses the configured default.
	GetAllDescendants(ctx context.Context, id int64, maxDepth int) ([]model.Category, error)
	// GetCategoryPath returns ancestors root-first, ending with id itself.
	GetCategoryPath(ctx context.Context, id int64) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error
	MoveCategory(ctx context.Context, id int64, req model.MoveCategoryRequest) error
	WouldCreateCircle(ctx context.Context, categoryID, candidateParentID int64) (bool, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetTree(ctx context.Context) ([]*model.TreeNode, error)
	AuditHierarchy(ctx context.Context, maxDepth int) (*model.AuditReport, error)
}

// MediaService stores category images and icons.
type MediaService interface {
	Upload(ctx context.Context, id int64, kind MediaKind, data []byte) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
