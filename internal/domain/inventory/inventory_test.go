package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
)

func mov(dir string, qty int64) *entity.InventoryMovement {
	return &entity.InventoryMovement{Direction: dir, Quantity: qty}
}

func purchase(volume, price string) *entity.VendorPurchase {
	return &entity.VendorPurchase{
		VolumeLiter:   decimal.RequireFromString(volume),
		PricePerLiter: decimal.RequireFromString(price),
	}
}

func costOf(purchases []*entity.VendorPurchase) *decimal.Decimal {
	var acc inventory.CostAccumulator
	acc.AddPage(purchases)
	return acc.CostPerML()
}

// Escenario A: [in 50, out 12, in 8] ⇒ 46.
func TestFoldStock_EntradasMenosSalidas(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov(entity.DirectionIn, 50),
		mov(entity.DirectionOut, 12),
		mov(entity.DirectionIn, 8),
	}
	assert.Equal(t, int64(46), inventory.FoldStock(movs))
}

func TestFoldStock_SinMovimientosEsCero(t *testing.T) {
	assert.Equal(t, int64(0), inventory.FoldStock(nil))
}

func TestFoldStock_IndependienteDelOrden(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var movs []*entity.InventoryMovement
		var in, out int64
		for i := 0; i < 1+r.Intn(40); i++ {
			q := int64(1 + r.Intn(100))
			if r.Intn(2) == 0 {
				movs = append(movs, mov(entity.DirectionIn, q))
				in += q
			} else {
				movs = append(movs, mov(entity.DirectionOut, q))
				out += q
			}
		}
		want := in - out
		assert.Equal(t, want, inventory.FoldStock(movs))
		r.Shuffle(len(movs), func(i, j int) { movs[i], movs[j] = movs[j], movs[i] })
		assert.Equal(t, want, inventory.FoldStock(movs), "el orden del fold no debe importar")
	}
}

// Escenario B: [(1.0 L, 2.400.000/L), (0.5 L, 2.320.000/L)] ⇒ ≈ 2.373,33 por ml.
func TestCostAccumulator_PromedioPonderadoPorML(t *testing.T) {
	purchases := []*entity.VendorPurchase{
		purchase("1.0", "2400000"),
		purchase("0.5", "2320000"),
	}

	var acc inventory.CostAccumulator
	for _, p := range purchases {
		acc.Add(p)
	}
	assert.True(t, acc.TotalCost.Equal(decimal.NewFromInt(3560000)), "costo total: %s", acc.TotalCost)
	assert.True(t, acc.TotalVolume.Equal(decimal.RequireFromString("1.5")), "volumen total: %s", acc.TotalVolume)

	cost := costOf(purchases)
	require.NotNil(t, cost)
	assert.Equal(t, "2373.33", cost.Round(2).StringFixed(2))
}

func TestCostAccumulator_PorPaginasIgualQueDeUnaVez(t *testing.T) {
	purchases := []*entity.VendorPurchase{
		purchase("1.0", "2400000"),
		purchase("0.5", "2320000"),
		purchase("2", "2100000"),
	}
	var paged inventory.CostAccumulator
	paged.AddPage(purchases[:2])
	paged.AddPage(purchases[2:])
	paged.AddPage(nil)

	whole := costOf(purchases)
	require.NotNil(t, whole)
	require.NotNil(t, paged.CostPerML())
	assert.True(t, whole.Equal(*paged.CostPerML()))
}

func TestCostAccumulator_SinComprasEsIndefinido(t *testing.T) {
	assert.Nil(t, costOf(nil))
}

func TestCostAccumulator_VolumenCeroEsIndefinido(t *testing.T) {
	cost := costOf([]*entity.VendorPurchase{purchase("0", "1000")})
	assert.Nil(t, cost, "volumen cero no debe dividir")
}

func TestCostAccumulator_IndependienteDelOrden(t *testing.T) {
	purchases := []*entity.VendorPurchase{
		purchase("0.25", "1999999.99"),
		purchase("3", "2100000"),
		purchase("1.75", "2450000.50"),
		purchase("0.1", "3000000"),
	}
	first := costOf(purchases)
	require.NotNil(t, first)

	reversed := []*entity.VendorPurchase{purchases[3], purchases[2], purchases[1], purchases[0]}
	second := costOf(reversed)
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second), "%s != %s", first, second)
}

func TestCostAccumulator_RecalculoIdempotente(t *testing.T) {
	purchases := []*entity.VendorPurchase{purchase("2", "1500000"), purchase("1", "1800000")}
	a := costOf(purchases)
	b := costOf(purchases)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.True(t, a.Equal(*b))
	assert.Equal(t, "1600", a.Round(2).String())
}

func TestVariant_BottleCost(t *testing.T) {
	cost := decimal.RequireFromString("2373.33")
	v := &entity.Variant{BottleSizeML: decimal.NewFromInt(10), CostPerML: &cost}
	require.NotNil(t, v.BottleCost())
	assert.Equal(t, "23733.3", v.BottleCost().String())

	v.CostPerML = nil
	assert.Nil(t, v.BottleCost())
}
