package service

import (
	"context"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/repository"
)

// chainCheck is the outcome of walking a candidate parent's ancestors.
type chainCheck int

const (
	chainOK chainCheck = iota
	chainCircular
	chainTooDeep
)

// checkParentChain walks up from candidateParentID looking for categoryID.
// The walk visits at most maxDepth nodes. Reaching categoryID or revisiting a
// node is circular; running out of steps before a root is too deep.
func checkParentChain(
	ctx context.Context,
	repo repository.Repository,
	categoryID, candidateParentID int64,
	maxDepth int,
) (chainCheck, error) {
	if categoryID == candidateParentID {
		return chainCircular, nil
	}

	visited := make(map[int64]struct{}, maxDepth)
	current := candidateParentID
	for step := 0; step < maxDepth; step++ {
		if current == categoryID {
			return chainCircular, nil
		}
		if _, seen := visited[current]; seen {
			return chainCircular, nil
		}
		visited[current] = struct{}{}

		parentID, found, err := repo.GetParentID(ctx, current)
		if err != nil {
			return chainOK, err
		}
		if !found || parentID == nil {
			return chainOK, nil
		}
		current = *parentID
	}
	return chainTooDeep, nil
}

// requireSoundParent maps a failed chain check to its domain error.
func requireSoundParent(ctx context.Context, repo repository.Repository, categoryID, parentID int64, maxDepth int) error {
	verdict, err := checkParentChain(ctx, repo, categoryID, parentID, maxDepth)
	if err != nil {
		return err
	}
	switch verdict {
	case chainCircular:
		return model.ErrCircularParent
	case chainTooDeep:
		return model.ErrDepthExceeded.WithMessage("Category hierarchy cannot be deeper than %d levels", maxDepth)
	}
	return nil
}

// WouldCreateCircle reports whether parenting categoryID under
// candidateParentID is unsafe. A chain that does not reach a root within
// maxDepth steps counts as unsafe.
func (s *categoryService) WouldCreateCircle(ctx context.Context, categoryID, candidateParentID int64) (bool, error) {
	verdict, err := checkParentChain(ctx, s.repo, categoryID, candidateParentID, s.maxDepth)
	if err != nil {
		return false, model.NewStorageError("check parent chain", err)
	}
	return verdict != chainOK, nil
}

// GetAllDescendants returns descendants level by level: children first,
// then grandchildren, each level ordered by name. Levels past maxDepth are
// not fetched and nodes already seen are skipped.
func (s *categoryService) GetAllDescendants(ctx context.Context, id int64, maxDepth int) ([]model.Category, error) {
	if maxDepth <= 0 {
		maxDepth = s.maxDepth
	}

	view := s.cache.view(ctx)
	key := view.key("descendants", id, maxDepth)
	var cached []model.Category
	if view.get(ctx, key, &cached) {
		return cached, nil
	}

	out := []model.Category{}
	visited := map[int64]struct{}{id: {}}
	frontier := []int64{id}

	for level := 1; level <= maxDepth && len(frontier) > 0; level++ {
		children, err := s.repo.ListChildrenOf(ctx, frontier)
		if err != nil {
			return nil, model.NewStorageError("list descendants", err)
		}

		next := make([]int64, 0, len(children))
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			out = append(out, child)
			next = append(next, child.ID)
		}
		frontier = next
	}

	view.set(ctx, key, out)
	return out, nil
}

// GetCategoryPath walks parent links up from id and returns the chain root-first.
// A missing parent or a revisited node ends the walk with the partial path.
// An unknown id yields an empty path.
func (s *categoryService) GetCategoryPath(ctx context.Context, id int64) ([]model.Category, error) {
	view := s.cache.view(ctx)
	key := view.key("path", id)
	var cached []model.Category
	if view.get(ctx, key, &cached) {
		return cached, nil
	}

	var upward []model.Category
	visited := make(map[int64]struct{})
	current := id

	// maxDepth ancestors plus the category itself
	for i := 0; i <= s.maxDepth; i++ {
		c, err := s.repo.GetByID(ctx, current)
		if err != nil {
			return nil, model.NewStorageError("get category path", err)
		}
		if c == nil {
			break
		}
		if _, seen := visited[c.ID]; seen {
			break
		}
		visited[c.ID] = struct{}{}
		upward = append(upward, *c)

		if c.ParentID == nil {
			break
		}
		current = *c.ParentID
	}

	path := make([]model.Category, 0, len(upward))
	for i := len(upward) - 1; i >= 0; i-- {
		path = append(path, upward[i])
	}

	view.set(ctx, key, path)
	return path, nil
}
