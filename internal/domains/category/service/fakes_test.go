package service

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"marketplace-backend/internal/domains/category/model"
	"marketplace-backend/internal/domains/category/repository"
	"marketplace-backend/internal/shared"
)

// memRepo is an in-memory Repository keyed by id. Its WithinTx snapshots
// the rows and restores them when fn fails.
type memRepo struct {
	mu       sync.Mutex
	nextID   int64
	rows     map[int64]model.Category
	products map[int64]bool // category ids referenced by a product
	calls    map[string]int
}

var (
	_ repository.Repository = (*memRepo)(nil)
	_ repository.TxRunner   = (*memRepo)(nil)
)

func newMemRepo() *memRepo {
	return &memRepo{
		rows:     make(map[int64]model.Category),
		products: make(map[int64]bool),
		calls:    make(map[string]int),
	}
}

// put inserts a row as-is, bypassing every check. Used to build corrupt data.
func (r *memRepo) put(id int64, name string, parentID *int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.rows[id] = model.Category{
		ID: id, Name: name, ParentID: parentID, Status: model.StatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
	if id > r.nextID {
		r.nextID = id
	}
}

func (r *memRepo) count(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func (r *memRepo) WithinTx(ctx context.Context, fn func(repo repository.Repository) error) error {
	r.mu.Lock()
	snapshot := maps.Clone(r.rows)
	nextID := r.nextID
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.rows = snapshot
		r.nextID = nextID
		r.mu.Unlock()
		return err
	}
	return nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortByName(list []model.Category) {
	slices.SortFunc(list, func(a, b model.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
}

func (r *memRepo) Create(ctx context.Context, c model.NewCategory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	r.nextID++
	now := time.Now()
	r.rows[r.nextID] = model.Category{
		ID: r.nextID, Name: c.Name, Image: c.Image, Icon: c.Icon,
		ParentID: c.ParentID, Status: c.Status, CreatedAt: now, UpdatedAt: now,
	}
	return r.nextID, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetByID"]++
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.Category, error) {
	return r.GetByID(ctx, id)
}

func (r *memRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memRepo) GetParentID(ctx context.Context, id int64) (*int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["GetParentID"]++
	c, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	return c.ParentID, true, nil
}

func (r *memRepo) ExistsSibling(ctx context.Context, name string, parentID *int64, status model.Status, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := strings.ToLower(strings.TrimSpace(name))
	for id, c := range r.rows {
		if id == excludeID || c.Status != status || !sameParent(c.ParentID, parentID) {
			continue
		}
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ListTopLevel(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListTopLevel"]++

	needle := strings.ToLower(strings.Trim(filter.Pattern, "%"))
	var matched []model.Category
	for _, c := range r.rows {
		if c.ParentID != nil {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		matched = append(matched, c)
	}
	sortByName(matched)

	total := len(matched)
	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	return append([]model.Category{}, matched[start:end]...), total, nil
}

func (r *memRepo) ListChildren(ctx context.Context, parentID int64) ([]model.Category, error) {
	return r.ListChildrenOf(ctx, []int64{parentID})
}

func (r *memRepo) ListChildrenOf(ctx context.Context, parentIDs []int64) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListChildrenOf"]++
	out := []model.Category{}
	for _, c := range r.rows {
		if c.ParentID != nil && slices.Contains(parentIDs, *c.ParentID) {
			out = append(out, c)
		}
	}
	sortByName(out)
	return out, nil
}

func (r *memRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListAll"]++
	out := slices.Collect(maps.Values(r.rows))
	sortByName(out)
	return out, nil
}

func (r *memRepo) Update(ctx context.Context, id int64, u model.CategoryUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Image.Set {
		c.Image = u.Image.Value
	}
	if u.Icon.Set {
		c.Icon = u.Icon.Value
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	c.UpdatedAt = time.Now()
	r.rows[id] = c
	return 1, nil
}

func (r *memRepo) UpdateParent(ctx context.Context, id int64, parentID *int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	r.rows[id] = c
	return 1, nil
}

func (r *memRepo) HasChildren(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) HasProducts(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *memRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

// memCache is a JSON round-tripping cache.Cache.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

// DeletePattern supports trailing-* patterns only.
func (c *memCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if raw, ok := c.items[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, _ := json.Marshal(n)
	c.items[key] = raw
	return n, nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

var errForeignURL = errors.New("foreign url")

// fakeStore records uploads and deletes.
type fakeStore struct {
	base      string
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (s *fakeStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, key)
	return s.base + "/" + key, nil
}

func (s *fakeStore) KeyFromURL(rawURL string) (string, error) {
	prefix := s.base + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", errForeignURL
	}
	return strings.TrimPrefix(rawURL, prefix), nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeImages struct {
	invalid error
	sizes   []int
}

func (f *fakeImages) ValidateImage(data []byte) error { return f.invalid }

func (f *fakeImages) Fit(data []byte, size int) ([]byte, error) {
	f.sizes = append(f.sizes, size)
	return data, nil
}

type fakeEnqueuer struct {
	payloads []shared.DeleteCategoryMediaPayload
}

func (f *fakeEnqueuer) EnqueueDeleteCategoryMedia(ctx context.Context, p shared.DeleteCategoryMediaPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}
