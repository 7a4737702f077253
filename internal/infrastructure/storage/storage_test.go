package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/storage"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := storage.Open(ctx, config.DBConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, config.DriverSQLite, st.Driver)
	require.NoError(t, st.Ping(ctx))

	p, err := usecase.NewProductUseCase(st.Products, 12).Create(ctx, dto.CreateProductRequest{Name: "Vainilla"})
	require.NoError(t, err)
	got, err := st.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Vainilla", got.Name)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DBConfig{Driver: "mysql"})
	assert.Error(t, err)
}
