package main

import (
	"github.com/hibiken/asynq"

	categoryJob "marketplace-backend/internal/domains/category/job"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteCategoryMedia *categoryJob.DeleteMediaHandler
	integrityAudit      *categoryJob.IntegrityAuditHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteCategoryMedia: categoryJob.NewDeleteMediaHandler(c.MediaService),
		integrityAudit:      categoryJob.NewIntegrityAuditHandler(c.CategoryService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteCategoryMedia, h.deleteCategoryMedia.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeCategoryIntegrityAudit, h.integrityAudit.ProcessTask)
}
