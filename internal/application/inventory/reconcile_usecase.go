package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// ReconcileUseCase compara la proyección materializada contra el libro y la corrige.
// El libro siempre gana. Cada variante se concilia en su propia transacción con la fila
// bloqueada, así ninguna salida concurrente se cuela entre la lectura y la corrección.
type ReconcileUseCase struct {
	txRunner    TxRunner
	variantRepo repository.VariantRepository
	pageSize    int
	log         *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, variantRepo repository.VariantRepository, pageSize int, log *logger.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{
		txRunner:    txRunner,
		variantRepo: variantRepo,
		pageSize:    pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: pagination.DefaultPageSize}),
		log:         log.Component("stock_reconcile"),
	}
}

// Reconcile concilia las variantes indicadas, o todas si variantIDs está vacío.
// Devuelve solo las variantes con diferencia.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, variantIDs ...string) ([]dto.StockDriftDTO, error) {
	var ids []string
	var err error
	if len(variantIDs) > 0 {
		ids, err = domain.ValidateIDs("variant_id", variantIDs)
	} else {
		ids, err = uc.allVariantIDs(ctx)
	}
	if err != nil {
		return nil, err
	}

	drifts := make([]dto.StockDriftDTO, 0)
	for _, id := range ids {
		drift, err := uc.reconcileOne(ctx, id)
		if err != nil {
			return nil, err
		}
		if drift != nil {
			drifts = append(drifts, *drift)
		}
	}
	uc.log.Info().Int("variants", len(ids)).Int("drifts", len(drifts)).Msg("conciliación de stock terminada")
	return drifts, nil
}

func (uc *ReconcileUseCase) reconcileOne(ctx context.Context, variantID string) (*dto.StockDriftDTO, error) {
	var drift *dto.StockDriftDTO
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		levelRepo repository.StockLevelRepository,
		variantRepo repository.VariantRepository,
	) error {
		v, err := variantRepo.GetForUpdate(ctx, variantID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
		}
		truth, err := ledgerStock(ctx, movRepo, variantID, uc.pageSize)
		if err != nil {
			return domain.FetchFailed("libro de la variante "+variantID, err)
		}
		levels, err := levelRepo.GetMany(ctx, []string{variantID})
		if err != nil {
			return domain.FetchFailed("nivel de la variante "+variantID, err)
		}
		var materialized int64
		if lvl, ok := levels[variantID]; ok {
			materialized = lvl.Quantity
		}
		if materialized == truth {
			return nil
		}
		if err := levelRepo.Set(ctx, variantID, truth); err != nil {
			return err
		}
		drift = &dto.StockDriftDTO{
			VariantID:         variantID,
			LedgerStock:       truth,
			MaterializedStock: materialized,
			Corrected:         true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if drift != nil {
		uc.log.Warn().
			Str("variant_id", variantID).
			Int64("ledger", drift.LedgerStock).
			Int64("materialized", drift.MaterializedStock).
			Msg("nivel materializado corregido")
	}
	return drift, nil
}

func (uc *ReconcileUseCase) allVariantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := pagination.New(uc.pageSize, variantKey, uc.variantRepo.List).Walk(ctx, func(items []*entity.Variant) error {
		for _, v := range items {
			ids = append(ids, v.ID)
		}
		return nil
	})
	if err != nil {
		return nil, domain.FetchFailed("variantes", err)
	}
	return ids, nil
}
