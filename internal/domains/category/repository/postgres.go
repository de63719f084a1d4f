package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-backend/internal/domains/category/model"

	"github.com/jackc/pgx/v5"
)

const (
	opCreate     = "create category"
	opGet        = "get category"
	opList       = "list categories"
	opCheck      = "check category"
	opUpdate     = "update category"
	opMove       = "move category"
	opDelete     = "delete category"
	categoryCols = `id, name, image, icon, parent_id, status, created_at, updated_at`
)

type postgresRepository struct {
	db Querier
}

// NewPostgresRepository binds the repository to a pool or a transaction.
func NewPostgresRepository(db Querier) Repository {
	return &postgresRepository{db: db}
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var (
		c      model.Category
		status string
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Image,
		&c.Icon,
		&c.ParentID,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = model.Status(status)
	return &c, nil
}

func collectCategories(rows pgx.Rows) ([]model.Category, error) {
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *postgresRepository) Create(ctx context.Context, c model.NewCategory) (int64, error) {
	const query = `
		INSERT INTO categories (name, image, icon, parent_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, c.Name, c.Image, c.Icon, c.ParentID, string(c.Status)).Scan(&id)
	if err != nil {
		return 0, classify(opCreate, err)
	}
	return id, nil
}

func (r *postgresRepository) getByID(ctx context.Context, id int64, forUpdate bool) (*model.Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	c, err := scanCategory(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(opGet, err)
	}
	return c, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.getByID(ctx, id, false)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Category, error) {
	return r.getByID(ctx, id, true)
}

func (r *postgresRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, classify(opCheck, err)
	}
	return exists, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id)
}

func (r *postgresRepository) GetParentID(ctx context.Context, id int64) (*int64, bool, error) {
	var parentID *int64
	err := r.db.QueryRow(ctx, `SELECT parent_id FROM categories WHERE id = $1`, id).Scan(&parentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(opGet, err)
	}
	return parentID, true, nil
}

func (r *postgresRepository) ExistsSibling(
	ctx context.Context,
	name string,
	parentID *int64,
	status model.Status,
	excludeID int64,
) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE LOWER(BTRIM(name)) = LOWER(BTRIM($1))
			  AND parent_id IS NOT DISTINCT FROM $2
			  AND status = $3
			  AND id <> $4
		)
	`
	return r.exists(ctx, query, name, parentID, string(status), excludeID)
}

func (r *postgresRepository) ListTopLevel(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error) {
	where := `parent_id IS NULL`
	args := []any{}
	if filter.Pattern != "" {
		args = append(args, filter.Pattern)
		where += ` AND name ILIKE $1`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, classify(opList, err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM categories WHERE %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`,
		categoryCols, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(opList, err)
	}
	categories, err := collectCategories(rows)
	if err != nil {
		return nil, 0, classify(opList, err)
	}
	return categories, total, nil
}

func (r *postgresRepository) ListChildren(ctx context.Context, parentID int64) ([]model.Category, error) {
	return r.ListChildrenOf(ctx, []int64{parentID})
}

func (r *postgresRepository) ListChildrenOf(ctx context.Context, parentIDs []int64) ([]model.Category, error) {
	if len(parentIDs) == 0 {
		return []model.Category{}, nil
	}

	query := `SELECT ` + categoryCols + ` FROM categories WHERE parent_id = ANY($1) ORDER BY name ASC, id ASC`
	rows, err := r.db.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, classify(opList, err)
	}
	categories, err := collectCategories(rows)
	if err != nil {
		return nil, classify(opList, err)
	}
	return categories, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryCols+` FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, classify(opList, err)
	}
	categories, err := collectCategories(rows)
	if err != nil {
		return nil, classify(opList, err)
	}
	return categories, nil
}

// Update always refreshes updated_at, plus whichever fields are set.
func (r *postgresRepository) Update(ctx context.Context, id int64, u model.CategoryUpdate) (int64, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Image.Set {
		set("image", u.Image.Value)
	}
	if u.Icon.Set {
		set("icon", u.Icon.Value)
	}
	if u.Status != nil {
		set("status", string(*u.Status))
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, classify(opUpdate, err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) UpdateParent(ctx context.Context, id int64, parentID *int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET parent_id = $1, updated_at = NOW() WHERE id = $2`,
		parentID, id,
	)
	if err != nil {
		return 0, classify(opMove, err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) HasChildren(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id)
}

// HasProducts checks both the primary and the secondary classification.
func (r *postgresRepository) HasProducts(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1 OR subcategory_id = $1)`, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, classify(opDelete, err)
	}
	return tag.RowsAffected(), nil
}
