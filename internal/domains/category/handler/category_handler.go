package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/infrastructure/storage"
	"marketplace-backend/internal/shared/middleware"
	"marketplace-backend/internal/shared/response"
	"marketplace-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type CategoryHandler struct {
	service service.CategoryService
	media   service.MediaService
}

func NewCategoryHandler(svc service.CategoryService, media service.MediaService) *CategoryHandler {
	return &CategoryHandler{
		service: svc,
		media:   media,
	}
}

// fail writes the error envelope for err. Internal details stay in the log.
func (h *CategoryHandler) fail(c *gin.Context, err error) {
	status := model.GetHTTPStatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("Category request failed")
	}
	response.ErrorResponse(c, status, model.GetErrorCode(err), model.GetErrorMessage(err))
}

// parseID reads a positive integer path param. Writes 400 INVALID_ID otherwise.
func (h *CategoryHandler) parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.ErrorResponse(c, http.StatusBadRequest, model.CodeInvalidID, model.ErrInvalidID.Message)
		return 0, false
	}
	return id, true
}

func (h *CategoryHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, model.CodeValidation, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// ========== LIST: GET /v1/categories?page=&limit=&q= ==========
// Top-level categories only. Bad paging input falls back to defaults.
func (h *CategoryHandler) List(c *gin.Context) {
	p := utils.ParsePagination(c.Query("page"), c.Query("limit"), c.Query("q"))

	items, total, err := h.service.GetCategories(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.SuccessWithPagination(c, items, response.NewPagination(p.Page, p.Limit, total))
}

// ========== CREATE: POST /v1/categories ==========
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Category created successfully."
	if req.IsSubcategory() {
		message = "Subcategory created successfully."
	}
	c.JSON(http.StatusCreated, model.CreateCategoryResponse{
		Success:    true,
		Message:    message,
		CategoryID: id,
	})
}

// ========== GET: /v1/categories/:id ==========
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if category == nil {
		h.fail(c, model.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// GetSubcategories - GET /v1/categories/:id/subcategories
func (h *CategoryHandler) GetSubcategories(c *gin.Context) {
	parentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	children, err := h.service.GetSubcategories(c.Request.Context(), parentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, children)
}

// GetPath - GET /v1/categories/:id/path (root first, [] for unknown ids)
func (h *CategoryHandler) GetPath(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	path, err := h.service.GetCategoryPath(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, path)
}

// GetDescendants - GET /v1/categories/:id/descendants?depth=
func (h *CategoryHandler) GetDescendants(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	// invalid depth means the configured default
	depth, err := strconv.Atoi(c.Query("depth"))
	if err != nil || depth < 1 {
		depth = 0
	}

	descendants, err := h.service.GetAllDescendants(c.Request.Context(), id, depth)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, descendants)
}

// GetTree - GET /v1/categories/tree
func (h *CategoryHandler) GetTree(c *gin.Context) {
	tree, err := h.service.GetTree(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessList(c, tree)
}

// ========== UPDATE: PUT /v1/categories/:id ==========
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.UpdateCategory(c.Request.Context(), id, req); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Category updated successfully.")
}

// ========== MOVE: PATCH /v1/categories/:id/parent ==========
// Body {"parentId": 7} or {"parentId": null} for the top level.
func (h *CategoryHandler) Move(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req model.MoveCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.MoveCategory(c.Request.Context(), id, req); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Category moved successfully.")
}

// ========== DELETE: /v1/categories/:id ==========
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Category deleted successfully.")
}

// ========== MEDIA: POST /v1/categories/:id/media/:kind ==========
// multipart/form-data, field "file"
func (h *CategoryHandler) UploadMedia(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	kind, err := service.ParseMediaKind(c.Param("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.fail(c, model.ErrInvalidMedia.WithMessage("Multipart field 'file' is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, model.ErrInvalidMedia.Wrap(err))
		return
	}
	defer file.Close()

	// one byte over the limit is enough for the size check to reject it
	data, err := io.ReadAll(io.LimitReader(file, storage.DefaultMaxImageSize+1))
	if err != nil {
		h.fail(c, model.ErrInvalidMedia.Wrap(fmt.Errorf("read upload: %w", err)))
		return
	}

	url, err := h.media.Upload(c.Request.Context(), id, kind, data)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, model.MediaUploadResponse{Kind: string(kind), URL: url})
}
