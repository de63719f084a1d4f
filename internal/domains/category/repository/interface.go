package repository

import (
	"context"

	"marketplace-backend/internal/domains/category/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the data access contract for categories.
// It applies no business rules. Errors are *model.CategoryError:
// constraint violations map to their domain code, anything else to STORAGE_FAILURE.
type Repository interface {
	Create(ctx context.Context, c model.NewCategory) (int64, error)
	// GetByID returns (nil, nil) when the row does not exist.
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// GetParentID reports the parent link of id. found is false when id does not exist.
	GetParentID(ctx context.Context, id int64) (parentID *int64, found bool, err error)
	// ExistsSibling reports whether another category (id != excludeID) shares
	// the trimmed, case-folded name, parent and status.
	ExistsSibling(ctx context.Context, name string, parentID *int64, status model.Status, excludeID int64) (bool, error)

	ListTopLevel(ctx context.Context, filter model.ListFilter) ([]model.Category, int, error)
	ListChildren(ctx context.Context, parentID int64) ([]model.Category, error)
	// ListChildrenOf returns the direct children of every id in parentIDs, ordered by name.
	ListChildrenOf(ctx context.Context, parentIDs []int64) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)

	// Update and UpdateParent return the number of affected rows.
	Update(ctx context.Context, id int64, u model.CategoryUpdate) (int64, error)
	UpdateParent(ctx context.Context, id int64, parentID *int64) (int64, error)

	HasChildren(ctx context.Context, id int64) (bool, error)
	HasProducts(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// TxRunner runs fn with a Repository bound to a single transaction.
// fn returning an error rolls the transaction back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
