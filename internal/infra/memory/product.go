package memory

import (
	"context"
	"sort"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type productRepository struct {
	s *Store
}

func cloneProduct(p model.Product) model.Product {
	p.ImageURL = cloneString(p.ImageURL)
	return p
}

func (r *productRepository) Find(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Product{}
	for _, p := range r.s.products {
		if len(f.IDs) > 0 && !containsString(f.IDs, p.ID) {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if f.SKU != nil && p.SKU != *f.SKU {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return limitSlice(out, f.Limit), nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return cloneProduct(p), nil
}

// SKUの一意制約もここで見る
func (r *productRepository) skuTaken(sku, exceptID string) bool {
	for _, p := range r.s.products {
		if p.SKU == sku && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *productRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[p.ID]; ok {
		return model.Product{}, repo.ErrDuplicate
	}
	if r.skuTaken(p.SKU, "") {
		return model.Product{}, repo.ErrDuplicate
	}
	p = cloneProduct(p)
	r.s.products[p.ID] = p
	return cloneProduct(p), nil
}

func (r *productRepository) Update(ctx context.Context, id string, p repo.ProductPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.products[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.SKU != nil && r.skuTaken(*p.SKU, id) {
		return repo.ErrDuplicate
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.SKU != nil {
		cur.SKU = *p.SKU
	}
	if p.Category != nil {
		cur.Category = *p.Category
	}
	if p.UnitPrice != nil {
		cur.UnitPrice = *p.UnitPrice
	}
	if p.UnitSize != nil {
		cur.UnitSize = *p.UnitSize
	}
	if p.MinOrderQty != nil {
		cur.MinOrderQty = *p.MinOrderQty
	}
	if p.IsActive != nil {
		cur.IsActive = *p.IsActive
	}
	if p.ImageURL != nil {
		cur.ImageURL = cloneString(p.ImageURL)
	}
	if p.UpdatedAt != nil {
		cur.UpdatedAt = *p.UpdatedAt
	}
	r.s.products[id] = cur
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}
