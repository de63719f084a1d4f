package repository

import (
	"errors"
	"fmt"
	"testing"

	"marketplace-backend/internal/domains/category/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	pgErr := func(code, constraint string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
	}

	tests := []struct {
		name string
		op   string
		err  error
		want error
	}{
		{"sibling unique", opCreate, pgErr(pgUniqueViolation, constraintSiblingName), model.ErrDuplicateName},
		{"other unique", opCreate, pgErr(pgUniqueViolation, "categories_pkey"), model.ErrStorageFailure},
		{"missing parent on insert", opCreate, pgErr(pgForeignKeyViolation, constraintParentFK), model.ErrParentNotFound},
		{"missing parent on move", opMove, pgErr(pgForeignKeyViolation, constraintParentFK), model.ErrParentNotFound},
		{"children block delete", opDelete, pgErr(pgForeignKeyViolation, constraintParentFK), model.ErrHasSubcategories},
		{"product blocks delete", opDelete, pgErr(pgForeignKeyViolation, constraintProductCategory), model.ErrHasProducts},
		{"subcategory product blocks delete", opDelete, pgErr(pgForeignKeyViolation, constraintProductSubcat), model.ErrHasProducts},
		{"blank name check", opUpdate, pgErr(pgCheckViolation, constraintNameNotBlank), model.ErrInvalidName},
		{"status check", opUpdate, pgErr(pgCheckViolation, constraintStatusEnumerated), model.ErrInvalidStatus},
		{"plain error", opGet, errors.New("conn refused"), model.ErrStorageFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.op, tt.err), tt.want)
		})
	}

	assert.NoError(t, classify(opGet, nil))
}
