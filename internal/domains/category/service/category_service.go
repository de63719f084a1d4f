package service

import (
	"context"
	"time"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/shared/utils"
	"marketplace-backend/pkg/cache"

	"github.com/rs/zerolog/log"
)

// Config tunes traversal bounds and caching.
type Config struct {
	MaxDepth int
	CacheTTL time.Duration
}

type categoryService struct {
	repo     repository.Repository
	tx       repository.TxRunner
	cache    readCache
	maxDepth int
}

// NewCategoryService wires the service. cache may be nil.
func NewCategoryService(
	repo repository.Repository,
	tx repository.TxRunner,
	c cache.Cache,
	cfg Config,
) CategoryService {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = model.DefaultMaxDepth
	}
	return &categoryService{
		repo:     repo,
		tx:       tx,
		cache:    readCache{cache: c, ttl: cfg.CacheTTL},
		maxDepth: cfg.MaxDepth,
	}
}

func (s *categoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (int64, error) {
	// ========== STEP 1: Validate input ==========
	if err := req.Validate(); err != nil {
		return 0, err
	}
	row := req.ToNewCategory()

	var id int64
	err := s.tx.WithinTx(ctx, func(repo repository.Repository) error {
		// ========== STEP 2: Parent must exist ==========
		if row.ParentID != nil {
			exists, err := repo.Exists(ctx, *row.ParentID)
			if err != nil {
				return err
			}
			if !exists {
				return model.ErrParentNotFound.WithMessage("Parent category %d not found", *row.ParentID)
			}

			// ========== STEP 3: Parent chain must be sound ==========
			// A new node has no descendants, so this only trips on a corrupt
			// or over-deep ancestor chain.
			if err := requireSoundParent(ctx, repo, 0, *row.ParentID, s.maxDepth); err != nil {
				return err
			}
		}

		// ========== STEP 4: Sibling name must be free ==========
		taken, err := repo.ExistsSibling(ctx, row.Name, row.ParentID, row.Status, 0)
		if err != nil {
			return err
		}
		if taken {
			return model.ErrDuplicateName
		}

		id, err = repo.Create(ctx, row)
		return err
	})
	if err != nil {
		return 0, model.NewStorageError("create category", err)
	}

	s.cache.invalidate(ctx)

	log.Info().
		Int64("category_id", id).
		Interface("parent_id", row.ParentID).
		Str("name", row.Name).
		Msg("Category created")

	return id, nil
}

func (s *categoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	view := s.cache.view(ctx)
	key := view.key("id", id)

	var cached model.Category
	if view.get(ctx, key, &cached) {
		return &cached, nil
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, model.NewStorageError("get category", err)
	}
	if c != nil {
		view.set(ctx, key, c)
	}
	return c, nil
}

type listPage struct {
	Items []model.Category `json:"items"`
	Total int              `json:"total"`
}

func (s *categoryService) GetCategories(ctx context.Context, p utils.Pagination) ([]model.Category, int, error) {
	view := s.cache.view(ctx)
	key := view.key("list", p.Page, p.Limit, p.Search)

	var cached listPage
	if view.get(ctx, key, &cached) {
		return cached.Items, cached.Total, nil
	}

	items, total, err := s.repo.ListTopLevel(ctx, model.ListFilter{
		Limit:   p.Limit,
		Offset:  p.Offset(),
		Pattern: p.Pattern,
	})
	if err != nil {
		return nil, 0, model.NewStorageError("list categories", err)
	}

	view.set(ctx, key, listPage{Items: items, Total: total})
	return items, total, nil
}

func (s *categoryService) GetSubcategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	view := s.cache.view(ctx)
	key := view.key("children", parentID)

	var cached []model.Category
	if view.get(ctx, key, &cached) {
		return cached, nil
	}

	children, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, model.NewStorageError("list subcategories", err)
	}

	view.set(ctx, key, children)
	return children, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error {
	update := req.ToUpdate()
	if update.IsEmpty() {
		return model.ErrNoFieldsProvided
	}
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(repo repository.Repository) error {
		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.ErrNotFound
		}

		// Name and status together with the parent form the sibling key.
		if update.Name != nil || update.Status != nil {
			name, status := current.Name, current.Status
			if update.Name != nil {
				name = *update.Name
			}
			if update.Status != nil {
				status = *update.Status
			}
			taken, err := repo.ExistsSibling(ctx, name, current.ParentID, status, id)
			if err != nil {
				return err
			}
			if taken {
				return model.ErrDuplicateName
			}
		}

		affected, err := repo.Update(ctx, id, update)
		if err != nil {
			return err
		}
		if affected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return model.NewStorageError("update category", err)
	}

	s.cache.invalidate(ctx)
	log.Info().Int64("category_id", id).Msg("Category updated")
	return nil
}

// MoveCategory re-parents id. A nil parent moves it to the top level.
func (s *categoryService) MoveCategory(ctx context.Context, id int64, req model.MoveCategoryRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	newParent := req.NewParentID()

	err := s.tx.WithinTx(ctx, func(repo repository.Repository) error {
		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return model.ErrNotFound
		}

		if newParent != nil {
			exists, err := repo.Exists(ctx, *newParent)
			if err != nil {
				return err
			}
			if !exists {
				return model.ErrParentNotFound.WithMessage("Parent category %d not found", *newParent)
			}

			if err := requireSoundParent(ctx, repo, id, *newParent, s.maxDepth); err != nil {
				return err
			}
		}

		taken, err := repo.ExistsSibling(ctx, current.Name, newParent, current.Status, id)
		if err != nil {
			return err
		}
		if taken {
			return model.ErrDuplicateName
		}

		affected, err := repo.UpdateParent(ctx, id, newParent)
		if err != nil {
			return err
		}
		if affected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return model.NewStorageError("move category", err)
	}

	s.cache.invalidate(ctx)
	log.Info().Int64("category_id", id).Interface("parent_id", newParent).Msg("Category moved")
	return nil
}

// DeleteCategory checks children, then products, then deletes.
// The first blocking reason wins.
func (s *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(repo repository.Repository) error {
		// ========== STEP 1: No children ==========
		hasChildren, err := repo.HasChildren(ctx, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return model.ErrHasSubcategories
		}

		// ========== STEP 2: No product references ==========
		hasProducts, err := repo.HasProducts(ctx, id)
		if err != nil {
			return err
		}
		if hasProducts {
			return model.ErrHasProducts
		}

		// ========== STEP 3: Delete ==========
		affected, err := repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return model.NewStorageError("delete category", err)
	}

	s.cache.invalidate(ctx)
	log.Info().Int64("category_id", id).Msg("Category deleted")
	return nil
}
