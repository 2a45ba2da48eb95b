package memory

import (
	"context"
	"sort"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type salesRepRepository struct {
	s *Store
}

func (r *salesRepRepository) Find(ctx context.Context, f repo.SalesRepFilter) ([]model.SalesRep, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.SalesRep{}
	for _, rep := range r.s.salesReps {
		if f.IsActive != nil && rep.IsActive != *f.IsActive {
			continue
		}
		if f.Region != nil && rep.Region != *f.Region {
			continue
		}
		out = append(out, rep)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return limitSlice(out, f.Limit), nil
}

func (r *salesRepRepository) FindByID(ctx context.Context, id string) (model.SalesRep, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rep, ok := r.s.salesReps[id]
	if !ok {
		return model.SalesRep{}, repo.ErrNotFound
	}
	return rep, nil
}

func (r *salesRepRepository) Create(ctx context.Context, rep model.SalesRep) (model.SalesRep, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.salesReps[rep.ID]; ok {
		return model.SalesRep{}, repo.ErrDuplicate
	}
	r.s.salesReps[rep.ID] = rep
	return rep, nil
}

func (r *salesRepRepository) Update(ctx context.Context, id string, p repo.SalesRepPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rep, ok := r.s.salesReps[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Name != nil {
		rep.Name = *p.Name
	}
	if p.Email != nil {
		rep.Email = *p.Email
	}
	if p.Phone != nil {
		rep.Phone = *p.Phone
	}
	if p.Region != nil {
		rep.Region = *p.Region
	}
	if p.IsActive != nil {
		rep.IsActive = *p.IsActive
	}
	if p.UpdatedAt != nil {
		rep.UpdatedAt = *p.UpdatedAt
	}
	r.s.salesReps[id] = rep
	return nil
}

func (r *salesRepRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.salesReps[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.salesReps, id)
	return nil
}

// 行ロックはないので存在確認だけ
func (r *salesRepRepository) LockByID(ctx context.Context, id string) error {
	_, err := r.FindByID(ctx, id)
	return err
}
