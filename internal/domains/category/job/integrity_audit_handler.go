package job

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// IntegrityAuditHandler runs the scheduled hierarchy audit. It only reports.
type IntegrityAuditHandler struct {
	categoryService service.CategoryService
}

func NewIntegrityAuditHandler(categoryService service.CategoryService) *IntegrityAuditHandler {
	return &IntegrityAuditHandler{
		categoryService: categoryService,
	}
}

func (h *IntegrityAuditHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.IntegrityAuditPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal IntegrityAudit payload")
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	report, err := h.categoryService.AuditHierarchy(ctx, payload.MaxDepth)
	if err != nil {
		log.Error().Err(err).Msg("Category hierarchy audit failed")
		return fmt.Errorf("audit hierarchy: %w", err)
	}

	if !report.Healthy() {
		log.Warn().
			Int("dangling", len(report.DanglingParents)).
			Int("cyclic", len(report.CycleMembers)).
			Int("too_deep", len(report.TooDeep)).
			Msg("Category hierarchy needs attention")
	}
	return nil
}
