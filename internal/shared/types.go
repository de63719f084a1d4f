package shared

// Task types handled by the worker.
const (
	TypeDeleteCategoryMedia    = "category:delete_media"
	TypeCategoryIntegrityAudit = "category:integrity_audit"
)

// Queue names and their weights in the worker.
const (
	QueueCategory    = "category"
	QueueMaintenance = "maintenance"
)

var QueuePriorities = map[string]int{
	QueueCategory:    6,
	QueueMaintenance: 2,
}

// DeleteCategoryMediaPayload names an object that is no longer referenced by any category.
type DeleteCategoryMediaPayload struct {
	CategoryID int64  `json:"categoryId"`
	ObjectKey  string `json:"objectKey"`
}

// IntegrityAuditPayload is the payload of the scheduled hierarchy audit.
type IntegrityAuditPayload struct {
	MaxDepth int `json:"maxDepth"`
}
