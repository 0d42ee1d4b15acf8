package products

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"grampos/internal/domain/catalog"
)

type listerStub struct {
	products []catalog.Product
	err      error
}

func (l *listerStub) Products(context.Context) ([]catalog.Product, error) {
	return l.products, l.err
}

func TestHandler_list(t *testing.T) {
	tests := []struct {
		name    string
		storage *listerStub
		wantLen int
		wantErr bool
	}{
		{
			name: "catalog rows returned in envelope",
			storage: &listerStub{products: []catalog.Product{
				{ID: 1, Name: "Rice 5kg", Price: 400, Status: catalog.StatusActive},
				{ID: 2, Name: "Oil 1l", Price: 200, Status: catalog.StatusActive},
			}},
			wantLen: 2,
		},
		{
			name:    "empty catalog answers an empty list, not null",
			storage: &listerStub{},
			wantLen: 0,
		},
		{
			name:    "storage error propagates",
			storage: &listerStub{err: errors.New("connection refused")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			handler := NewHandler(tt.storage, slog.Default(), huma.Middlewares{})

			// Act
			output, err := handler.list(context.Background(), &listInput{})

			// Assert
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, output.Body.Success)
			assert.NotNil(t, output.Body.Products)
			assert.Len(t, output.Body.Products, tt.wantLen)
		})
	}
}
