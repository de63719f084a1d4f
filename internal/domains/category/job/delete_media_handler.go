package job

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// DeleteMediaHandler removes an image or icon object that a category no longer uses.
type DeleteMediaHandler struct {
	mediaService service.MediaService
}

func NewDeleteMediaHandler(mediaService service.MediaService) *DeleteMediaHandler {
	return &DeleteMediaHandler{
		mediaService: mediaService,
	}
}

func (h *DeleteMediaHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteCategoryMediaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteCategoryMedia payload")
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	// only objects under the category prefix may be removed
	prefix := fmt.Sprintf("categories/%d/", payload.CategoryID)
	if !strings.HasPrefix(payload.ObjectKey, prefix) {
		log.Warn().
			Int64("category_id", payload.CategoryID).
			Str("key", payload.ObjectKey).
			Msg("Refusing to delete object outside category prefix")
		return fmt.Errorf("object %q outside %q: %w", payload.ObjectKey, prefix, asynq.SkipRetry)
	}

	if err := h.mediaService.DeleteObject(ctx, payload.ObjectKey); err != nil {
		log.Error().
			Err(err).
			Int64("category_id", payload.CategoryID).
			Str("key", payload.ObjectKey).
			Msg("Failed to delete category media")
		return fmt.Errorf("delete media: %w", err)
	}

	log.Info().
		Int64("category_id", payload.CategoryID).
		Str("key", payload.ObjectKey).
		Msg("Category media deleted")
	return nil
}
