package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"catalog-service/internal/catalog"
)

func TestTranslateError(t *testing.T) {
	passthrough := errors.New("connection refused")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, catalog.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, catalog.ErrConflict},
		{"foreign key violated", gorm.ErrForeignKeyViolated, catalog.ErrNotFound},
		{"unrelated error", passthrough, passthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateError(tt.in))
		})
	}
}

func TestTranslateErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := gorm.ErrForeignKeyViolated
	assert.Equal(t, catalog.ErrNotFound, translateError(errors.Join(errors.New("insert failed"), wrapped)))
}

func TestListOrder(t *testing.T) {
	assert.Equal(t, "products.created_at DESC", listOrder(""))
	assert.Equal(t, "products.name ASC", listOrder("name"))
	assert.Equal(t, "products.sku ASC", listOrder("sku"))
}
