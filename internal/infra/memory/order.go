package memory

import (
	"context"
	"sort"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type orderRepository struct {
	s *Store
}

func cloneOrder(o model.Order) model.Order {
	o.Notes = cloneString(o.Notes)
	o.CreatedBy = cloneString(o.CreatedBy)
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		o.DeliveryDate = &d
	}
	return o
}

func containsStatus(list []model.OrderStatus, v model.OrderStatus) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (r *orderRepository) Find(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Order{}
	for _, o := range r.s.orders {
		if f.AccountID != nil && o.AccountID != *f.AccountID {
			continue
		}
		if len(f.AccountIDs) > 0 && !containsString(f.AccountIDs, o.AccountID) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
			continue
		}
		if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		out = append(out, cloneOrder(o))
	}

	// 新しい順、同時刻はID降順
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return limitSlice(out, f.Limit), nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *orderRepository) Create(ctx context.Context, o model.Order) (model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[o.ID]; ok {
		return model.Order{}, repo.ErrDuplicate
	}
	o = cloneOrder(o)
	r.s.orders[o.ID] = o
	return cloneOrder(o), nil
}

// ExpectedStatusの比較と書き込みは同じロックの中で行う
func (r *orderRepository) Update(ctx context.Context, id string, p repo.OrderPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.ExpectedStatus != nil && o.Status != *p.ExpectedStatus {
		return repo.ErrConflict
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.UpdatedAt != nil {
		o.UpdatedAt = *p.UpdatedAt
	}
	r.s.orders[id] = o
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}
