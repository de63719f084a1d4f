package model

import "time"

// TreeNode is a category with its children attached, used by GET /categories/tree.
type TreeNode struct {
	Category
	Depth    int         `json:"depth"`
	Children []*TreeNode `json:"children"`
}

// AuditReport lists hierarchy problems found by the integrity audit.
// All slices hold category ids in ascending order.
type AuditReport struct {
	CheckedAt       time.Time `json:"checked_at"`
	MaxDepth        int       `json:"max_depth"`
	Total           int       `json:"total"`
	DanglingParents []int64   `json:"dangling_parents"`
	CycleMembers    []int64   `json:"cycle_members"`
	TooDeep         []int64   `json:"too_deep"`
}

func (r *AuditReport) Healthy() bool {
	return len(r.DanglingParents) == 0 && len(r.CycleMembers) == 0 && len(r.TooDeep) == 0
}
