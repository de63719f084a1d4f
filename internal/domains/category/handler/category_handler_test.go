package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/service"
	"marketplace-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCategoryService struct {
	mock.Mock
}

func (m *mockCategoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryService) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *mockCategoryService) GetCategories(ctx context.Context, p utils.Pagination) ([]model.Category, int, error) {
	args := m.Called(ctx, p)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Int(1), args.Error(2)
}

func (m *mockCategoryService) GetSubcategories(ctx context.Context, parentID int64) ([]model.Category, error) {
	args := m.Called(ctx, parentID)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) GetAllDescendants(ctx context.Context, id int64, maxDepth int) ([]model.Category, error) {
	args := m.Called(ctx, id, maxDepth)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) GetCategoryPath(ctx context.Context, id int64) ([]model.Category, error) {
	args := m.Called(ctx, id)
	list, _ := args.Get(0).([]model.Category)
	return list, args.Error(1)
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockCategoryService) MoveCategory(ctx context.Context, id int64, req model.MoveCategoryRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockCategoryService) WouldCreateCircle(ctx context.Context, categoryID, candidateParentID int64) (bool, error) {
	args := m.Called(ctx, categoryID, candidateParentID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCategoryService) GetTree(ctx context.Context) ([]*model.TreeNode, error) {
	args := m.Called(ctx)
	nodes, _ := args.Get(0).([]*model.TreeNode)
	return nodes, args.Error(1)
}

func (m *mockCategoryService) AuditHierarchy(ctx context.Context, maxDepth int) (*model.AuditReport, error) {
	args := m.Called(ctx, maxDepth)
	r, _ := args.Get(0).(*model.AuditReport)
	return r, args.Error(1)
}

type mockMediaService struct {
	mock.Mock
}

func (m *mockMediaService) Upload(ctx context.Context, id int64, kind service.MediaKind, data []byte) (string, error) {
	args := m.Called(ctx, id, kind, data)
	return args.String(0), args.Error(1)
}

func (m *mockMediaService) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func setupRouter(svc *mockCategoryService, media *mockMediaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(svc, media)

	r := gin.New()
	g := r.Group("/api/v1/categories")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/tree", h.GetTree)
	g.GET("/:id", h.GetByID)
	g.GET("/:id/subcategories", h.GetSubcategories)
	g.GET("/:id/path", h.GetPath)
	g.GET("/:id/descendants", h.GetDescendants)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/parent", h.Move)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/media/:kind", h.UploadMedia)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestList_ClampsPaging(t *testing.T) {
	svc := new(mockCategoryService)
	want := utils.ParsePagination("1", "200", "")
	svc.On("GetCategories", mock.Anything, want).
		Return([]model.Category{{ID: 1, Name: "Men", Status: model.StatusActive}}, 1, nil)

	w := do(setupRouter(svc, nil), http.MethodGet, "/api/v1/categories?page=1&limit=200", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 100, pagination["limit"])
	assert.EqualValues(t, 1, pagination["page"])
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["totalPages"])
	assert.Len(t, body["data"], 1)
	svc.AssertExpectations(t)
}

func TestCreate(t *testing.T) {
	t.Run("root", func(t *testing.T) {
		svc := new(mockCategoryService)
		svc.On("Create", mock.Anything, model.CreateCategoryRequest{Name: "Men"}).Return(int64(1), nil)

		w := do(setupRouter(svc, nil), http.MethodPost, "/api/v1/categories", `{"name":"Men"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Category created successfully.", body["message"])
		assert.EqualValues(t, 1, body["categoryId"])
	})

	t.Run("subcategory", func(t *testing.T) {
		svc := new(mockCategoryService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(r model.CreateCategoryRequest) bool {
			return r.ParentID != nil && *r.ParentID == 1
		})).Return(int64(2), nil)

		w := do(setupRouter(svc, nil), http.MethodPost, "/api/v1/categories", `{"name":"Shirts","parentId":1}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Subcategory created successfully.", decode(t, w)["message"])
	})

	t.Run("zero parent is top level", func(t *testing.T) {
		svc := new(mockCategoryService)
		svc.On("Create", mock.Anything, mock.Anything).Return(int64(3), nil)

		w := do(setupRouter(svc, nil), http.MethodPost, "/api/v1/categories", `{"name":"Kids","parentId":0}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Category created successfully.", decode(t, w)["message"])
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(mockCategoryService)
		svc.On("Create", mock.Anything, mock.Anything).Return(int64(0), model.ErrDuplicateName)

		w := do(setupRouter(svc, nil), http.MethodPost, "/api/v1/categories", `{"name":"Men"}`)

		require.Equal(t, http.StatusConflict, w.Code)
		errBody := decode(t, w)["error"].(map[string]interface{})
		assert.Equal(t, model.CodeDuplicateName, errBody["code"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(setupRouter(new(mockCategoryService), nil), http.MethodPost, "/api/v1/categories", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetByID(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("GetByID", mock.Anything, int64(1)).Return(&model.Category{ID: 1, Name: "Men"}, nil)
	svc.On("GetByID", mock.Anything, int64(2)).Return(nil, nil)
	svc.On("GetByID", mock.Anything, int64(3)).Return(nil, model.NewStorageError("get", errors.New("pg: password authentication failed")))
	r := setupRouter(svc, nil)

	w := do(r, http.MethodGet, "/api/v1/categories/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Men", decode(t, w)["data"].(map[string]interface{})["name"])

	w = do(r, http.MethodGet, "/api/v1/categories/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/categories/3", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	for _, bad := range []string{"abc", "0", "-4"} {
		w = do(r, http.MethodGet, "/api/v1/categories/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Contains(t, w.Body.String(), model.CodeInvalidID)
	}
}

func TestTraversalEndpoints(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("GetSubcategories", mock.Anything, int64(1)).Return([]model.Category{{ID: 2, Name: "Shirts"}}, nil)
	svc.On("GetCategoryPath", mock.Anything, int64(404)).Return([]model.Category{}, nil)
	svc.On("GetAllDescendants", mock.Anything, int64(1), 0).Return(nil, nil)
	svc.On("GetAllDescendants", mock.Anything, int64(1), 2).Return([]model.Category{{ID: 2}}, nil)
	svc.On("GetTree", mock.Anything).Return([]*model.TreeNode{{Category: model.Category{ID: 1}}}, nil)
	r := setupRouter(svc, nil)

	w := do(r, http.MethodGet, "/api/v1/categories/1/subcategories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = do(r, http.MethodGet, "/api/v1/categories/404/path", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	// a nil list still renders as []
	w = do(r, http.MethodGet, "/api/v1/categories/1/descendants?depth=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/categories/1/descendants?depth=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/categories/tree", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	svc.AssertExpectations(t)
}

func TestUpdateMoveDelete(t *testing.T) {
	svc := new(mockCategoryService)
	svc.On("UpdateCategory", mock.Anything, int64(1), mock.Anything).Return(nil).Once()
	svc.On("UpdateCategory", mock.Anything, int64(2), mock.Anything).Return(model.ErrNoFieldsProvided).Once()
	svc.On("MoveCategory", mock.Anything, int64(1), mock.MatchedBy(func(r model.MoveCategoryRequest) bool {
		return r.ParentID.Set && r.ParentID.Value == nil
	})).Return(nil).Once()
	svc.On("MoveCategory", mock.Anything, int64(1), mock.Anything).Return(model.ErrCircularParent).Once()
	svc.On("DeleteCategory", mock.Anything, int64(1)).Return(model.ErrHasSubcategories).Once()
	svc.On("DeleteCategory", mock.Anything, int64(2)).Return(nil).Once()
	svc.On("DeleteCategory", mock.Anything, int64(3)).Return(model.ErrNotFound).Once()
	r := setupRouter(svc, nil)

	w := do(r, http.MethodPut, "/api/v1/categories/1", `{"name":"Gents","image":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Category updated successfully."}`, w.Body.String())

	w = do(r, http.MethodPut, "/api/v1/categories/2", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeNoFieldsProvided)

	w = do(r, http.MethodPatch, "/api/v1/categories/1/parent", `{"parentId":null}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/v1/categories/1/parent", `{"parentId":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeCircularParent)

	w = do(r, http.MethodDelete, "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeHasSubcategories)

	w = do(r, http.MethodDelete, "/api/v1/categories/2", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/categories/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	media := new(mockMediaService)
	media.On("Upload", mock.Anything, int64(1), service.MediaIcon, []byte("png-bytes")).
		Return("http://minio:9000/categories/categories/1/icon-x.jpg", nil)
	r := setupRouter(new(mockCategoryService), media)

	body, contentType := multipartBody(t, "file", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories/1/media/icon", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "icon", data["kind"])
	assert.Contains(t, data["url"], "icon-x.jpg")
	media.AssertExpectations(t)

	t.Run("unknown kind", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories/1/media/banner", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), model.CodeInvalidMedia)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartBody(t, "other", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories/1/media/image", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
