package service

import (
	"context"
	"slices"
	"time"

	"marketplace-backend/internal/domains/category/model"

	"github.com/rs/zerolog/log"
)

// GetTree loads every category once and links children by parent id.
// Categories whose parent is missing are returned as roots; categories on a
// parent cycle are unreachable from any root and left out.
func (s *categoryService) GetTree(ctx context.Context) ([]*model.TreeNode, error) {
	view := s.cache.view(ctx)
	key := view.key("tree")
	var cached []*model.TreeNode
	if view.get(ctx, key, &cached) {
		return cached, nil
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, model.NewStorageError("load category tree", err)
	}

	nodes := make(map[int64]*model.TreeNode, len(all))
	for i := range all {
		nodes[all[i].ID] = &model.TreeNode{Category: all[i], Children: []*model.TreeNode{}}
	}

	// all is ordered by name, so children keep that order
	roots := []*model.TreeNode{}
	childrenOf := make(map[int64][]*model.TreeNode)
	for _, c := range all {
		node := nodes[c.ID]
		if c.IsRoot() {
			roots = append(roots, node)
			continue
		}
		if _, ok := nodes[*c.ParentID]; !ok {
			roots = append(roots, node)
			continue
		}
		childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], node)
	}

	queue := slices.Clone(roots)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node.Depth >= s.maxDepth {
			continue
		}
		for _, child := range childrenOf[node.ID] {
			child.Depth = node.Depth + 1
			node.Children = append(node.Children, child)
			queue = append(queue, child)
		}
	}

	view.set(ctx, key, roots)
	return roots, nil
}

// AuditHierarchy checks the stored parent graph without changing it.
// Depth counts ancestors; a chain that ends in a cycle has unbounded depth.
func (s *categoryService) AuditHierarchy(ctx context.Context, maxDepth int) (*model.AuditReport, error) {
	if maxDepth <= 0 {
		maxDepth = s.maxDepth
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, model.NewStorageError("audit hierarchy", err)
	}

	parentOf := make(map[int64]*int64, len(all))
	for _, c := range all {
		parentOf[c.ID] = c.ParentID
	}

	report := &model.AuditReport{
		CheckedAt:       time.Now().UTC(),
		MaxDepth:        maxDepth,
		Total:           len(all),
		DanglingParents: []int64{},
		CycleMembers:    []int64{},
		TooDeep:         []int64{},
	}

	const unbounded = -1
	depth := make(map[int64]int, len(all))
	inCycle := make(map[int64]bool)

	for _, c := range all {
		if c.ParentID != nil {
			if _, ok := parentOf[*c.ParentID]; !ok {
				report.DanglingParents = append(report.DanglingParents, c.ID)
			}
		}
		if _, done := depth[c.ID]; done {
			continue
		}

		var chain []int64
		position := make(map[int64]int)
		current := c.ID
		for {
			if d, ok := depth[current]; ok {
				for i, id := range chain {
					if d == unbounded {
						depth[id] = unbounded
					} else {
						depth[id] = d + len(chain) - i
					}
				}
				break
			}
			if p, ok := position[current]; ok {
				for i, id := range chain {
					depth[id] = unbounded
					if i >= p {
						inCycle[id] = true
					}
				}
				break
			}

			position[current] = len(chain)
			chain = append(chain, current)

			parentID := parentOf[current]
			if parentID == nil {
				for i, id := range chain {
					depth[id] = len(chain) - 1 - i
				}
				break
			}
			if _, ok := parentOf[*parentID]; !ok {
				// dangling parent, treated as a root
				for i, id := range chain {
					depth[id] = len(chain) - 1 - i
				}
				break
			}
			current = *parentID
		}
	}

	for id, d := range depth {
		switch {
		case inCycle[id]:
			report.CycleMembers = append(report.CycleMembers, id)
		case d == unbounded || d > maxDepth:
			report.TooDeep = append(report.TooDeep, id)
		}
	}
	slices.Sort(report.DanglingParents)
	slices.Sort(report.CycleMembers)
	slices.Sort(report.TooDeep)

	event := log.Info()
	if !report.Healthy() {
		event = log.Warn()
	}
	event.
		Int("total", report.Total).
		Int("max_depth", maxDepth).
		Ints64("dangling_parents", report.DanglingParents).
		Ints64("cycle_members", report.CycleMembers).
		Ints64("too_deep", report.TooDeep).
		Msg("Category hierarchy audit finished")

	return report, nil
}
