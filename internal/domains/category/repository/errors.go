package repository

import (
	"errors"

	"marketplace-backend/internal/domains/category/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Constraint names from migrations/.
const (
	constraintSiblingName      = "uq_categories_sibling_name"
	constraintParentFK         = "fk_categories_parent"
	constraintProductCategory  = "fk_products_category"
	constraintProductSubcat    = "fk_products_subcategory"
	constraintNameNotBlank     = "chk_categories_name_not_blank"
	constraintStatusEnumerated = "chk_categories_status"
)

// classify turns a driver error into a category error.
// Constraint violations keep their domain meaning; the rest become STORAGE_FAILURE.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if pgErr.ConstraintName == constraintSiblingName {
				return model.ErrDuplicateName.Wrap(err)
			}
		case pgForeignKeyViolation:
			return classifyForeignKey(op, pgErr)
		case pgCheckViolation:
			switch pgErr.ConstraintName {
			case constraintNameNotBlank:
				return model.ErrInvalidName.Wrap(err)
			case constraintStatusEnumerated:
				return model.ErrInvalidStatus.Wrap(err)
			}
		}
	}

	return model.NewStorageError(op, err)
}

// classifyForeignKey distinguishes a missing parent (insert/move) from
// a delete blocked by children or products.
func classifyForeignKey(op string, pgErr *pgconn.PgError) error {
	switch pgErr.ConstraintName {
	case constraintProductCategory, constraintProductSubcat:
		return model.ErrHasProducts.Wrap(pgErr)
	case constraintParentFK:
		if op == opDelete {
			return model.ErrHasSubcategories.Wrap(pgErr)
		}
		return model.ErrParentNotFound.Wrap(pgErr)
	}
	return model.NewStorageError(op, pgErr)
}
