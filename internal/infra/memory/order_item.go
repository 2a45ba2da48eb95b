package memory

import (
	"context"
	"sort"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type orderItemRepository struct {
	s *Store
}

func (r *orderItemRepository) Find(ctx context.Context, f repo.OrderItemFilter) ([]model.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.OrderItem{}
	for _, it := range r.s.orderItems {
		if f.OrderID != nil && it.OrderID != *f.OrderID {
			continue
		}
		if f.ProductID != nil && it.ProductID != *f.ProductID {
			continue
		}
		out = append(out, it)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderID != out[j].OrderID {
			return out[i].OrderID < out[j].OrderID
		}
		return out[i].LineNo < out[j].LineNo
	})
	return limitSlice(out, f.Limit), nil
}

func (r *orderItemRepository) FindByID(ctx context.Context, id string) (model.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.orderItems[id]
	if !ok {
		return model.OrderItem{}, repo.ErrNotFound
	}
	return it, nil
}

// 先に全件の重複を見てから書くので、途中までの書き込みは残らない
func (r *orderItemRepository) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := r.s.orderItems[it.ID]; ok {
			return repo.ErrDuplicate
		}
		if _, ok := seen[it.ID]; ok {
			return repo.ErrDuplicate
		}
		seen[it.ID] = struct{}{}
	}
	for _, it := range items {
		it.OrderID = orderID
		r.s.orderItems[it.ID] = it
	}
	return nil
}

func (r *orderItemRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, it := range r.s.orderItems {
		if it.OrderID == orderID {
			delete(r.s.orderItems, id)
		}
	}
	return nil
}
