package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

const maxReasonLength = 500

// RegisterMovementUseCase agrega movimientos al libro de forma transaccional.
// Las salidas que dejarían el stock en negativo se rechazan: dentro de la transacción se
// bloquea la fila de la variante (SELECT FOR UPDATE), se pliega el libro completo y se
// verifica el saldo antes de insertar.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	pageSize int
	now      func() time.Time
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, pageSize int, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		pageSize: pagination.ClampPageSize(pageSize, pagination.PageSizeConfig{Default: pagination.DefaultPageSize}),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.Component("register_movement"),
	}
}

// RecordMovement registra una entrada o salida. Quantity debe ser positiva; el sentido lo da Direction.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	variantID, err := domain.ValidateID("variant_id", in.VariantID)
	if err != nil {
		return nil, err
	}
	direction := strings.ToLower(strings.TrimSpace(in.Direction))
	if !entity.ValidDirection(direction) {
		return nil, fmt.Errorf("%w: direction debe ser in u out", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	reason := strings.TrimSpace(in.Reason)
	if len(reason) > maxReasonLength {
		return nil, fmt.Errorf("%w: reason demasiado largo", domain.ErrInvalidInput)
	}

	mov := &entity.InventoryMovement{
		ID:        uuid.New().String(),
		VariantID: variantID,
		Direction: direction,
		Quantity:  in.Quantity,
		Reason:    reason,
		CreatedAt: uc.now(),
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		levelRepo repository.StockLevelRepository,
		variantRepo repository.VariantRepository,
	) error {
		variant, err := variantRepo.GetForUpdate(ctx, variantID)
		if err != nil {
			return err
		}
		if variant == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
		}
		return uc.appendMovement(ctx, movRepo, levelRepo, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("variant_id", mov.VariantID).
		Str("direction", mov.Direction).
		Int64("quantity", mov.Quantity).
		Msg("movimiento registrado")
	out := toMovementResponse(mov)
	return &out, nil
}

// ReverseMovement corrige un movimiento registrando otro en sentido contrario por la misma
// cantidad. El original no se modifica. Un movimiento solo puede revertirse una vez y un
// reverso no puede revertirse.
func (uc *RegisterMovementUseCase) ReverseMovement(ctx context.Context, movementID string, in dto.ReverseMovementRequest) (*dto.MovementResponse, error) {
	id, err := domain.ValidateID("movement_id", movementID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if len(reason) > maxReasonLength {
		return nil, fmt.Errorf("%w: reason demasiado largo", domain.ErrInvalidInput)
	}

	var reversal *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		levelRepo repository.StockLevelRepository,
		variantRepo repository.VariantRepository,
	) error {
		original, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if original == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}
		if original.ReversesID != "" {
			return fmt.Errorf("%w: el movimiento %s ya es un reverso", domain.ErrConflict, id)
		}
		prior, err := movRepo.GetReversalOf(ctx, id)
		if err != nil {
			return err
		}
		if prior != nil {
			return fmt.Errorf("%w: el movimiento %s ya fue revertido por %s", domain.ErrConflict, id, prior.ID)
		}
		if _, err := variantRepo.GetForUpdate(ctx, original.VariantID); err != nil {
			return err
		}
		if reason == "" {
			reason = "reverso de " + original.ID
		}
		reversal = &entity.InventoryMovement{
			ID:         uuid.New().String(),
			VariantID:  original.VariantID,
			Direction:  entity.Opposite(original.Direction),
			Quantity:   original.Quantity,
			Reason:     reason,
			ReversesID: original.ID,
			CreatedAt:  uc.now(),
		}
		return uc.appendMovement(ctx, movRepo, levelRepo, reversal)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", reversal.ID).
		Str("reverses_id", reversal.ReversesID).
		Msg("movimiento revertido")
	out := toMovementResponse(reversal)
	return &out, nil
}

// appendMovement verifica el saldo (solo salidas), inserta el movimiento y actualiza el
// nivel materializado. Debe llamarse con la fila de la variante bloqueada.
func (uc *RegisterMovementUseCase) appendMovement(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	levelRepo repository.StockLevelRepository,
	mov *entity.InventoryMovement,
) error {
	if mov.Direction == entity.DirectionOut {
		current, err := ledgerStock(ctx, movRepo, mov.VariantID, uc.pageSize)
		if err != nil {
			return domain.FetchFailed("saldo de la variante "+mov.VariantID, err)
		}
		if current-mov.Quantity < 0 {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, mov.Quantity)
		}
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}
	return levelRepo.Apply(ctx, mov.VariantID, mov.Delta())
}
