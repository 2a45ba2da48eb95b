package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type OrderStatusUsecase struct {
	Deps
}

func NewOrderStatusUsecase(d Deps) *OrderStatusUsecase {
	return &OrderStatusUsecase{Deps: d.withDefaults()}
}

type TransitionOutput struct {
	ID   string            `json:"id"`
	From model.OrderStatus `json:"from"`
	To   model.OrderStatus `json:"to"`
}

// Transition は許可された遷移だけを適用する。
// 読んだ時点のstatusを条件に更新するので、間に別の更新が入ればConflict。
func (u *OrderStatusUsecase) Transition(ctx context.Context, actorID, orderID string, target model.OrderStatus) (TransitionOutput, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return TransitionOutput{}, NewValidationError("invalid id")
	}
	if !target.Valid() {
		return TransitionOutput{}, NewValidationError("invalid status")
	}

	o, err := u.Ledger.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return TransitionOutput{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return TransitionOutput{}, NewPersistenceError(err)
	}

	from := o.Status
	if !from.CanTransitionTo(target) {
		return TransitionOutput{}, NewInvalidTransitionError(fmt.Sprintf("cannot change order status from %s to %s", from, target))
	}

	now := u.Clock.Now()
	err = u.Ledger.Orders().Update(ctx, orderID, repo.OrderPatch{
		Status:         &target,
		UpdatedAt:      &now,
		ExpectedStatus: &from,
	})
	switch {
	case errors.Is(err, repo.ErrConflict):
		return TransitionOutput{}, NewConflictError("order status was changed by another request")
	case errors.Is(err, repo.ErrNotFound):
		return TransitionOutput{}, NewNotFoundError("order not found")
	case err != nil:
		return TransitionOutput{}, NewPersistenceError(err)
	}

	u.Metrics.StatusTransition(string(from), string(target))
	u.audit(ctx, actorID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		map[string]string{"status": string(from)},
		map[string]string{"status": string(target)},
	)
	return TransitionOutput{ID: orderID, From: from, To: target}, nil
}

// 取消。注文は残る（削除とは別）
func (u *OrderStatusUsecase) Cancel(ctx context.Context, actorID, orderID string) (TransitionOutput, error) {
	return u.Transition(ctx, actorID, orderID, model.OrderStatusCancelled)
}
