package memory

import (
	"context"
	"sort"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type accountRepository struct {
	s *Store
}

func cloneAccount(a model.Account) model.Account {
	a.AssignedSalesRepID = cloneString(a.AssignedSalesRepID)
	return a
}

func (r *accountRepository) Find(ctx context.Context, f repo.AccountFilter) ([]model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Account{}
	for _, a := range r.s.accounts {
		if len(f.IDs) > 0 && !containsString(f.IDs, a.ID) {
			continue
		}
		if f.AssignedSalesRepID != nil && (a.AssignedSalesRepID == nil || *a.AssignedSalesRepID != *f.AssignedSalesRepID) {
			continue
		}
		if f.Type != nil && a.Type != *f.Type {
			continue
		}
		if f.Tier != nil && a.Tier != *f.Tier {
			continue
		}
		out = append(out, cloneAccount(a))
	}

	// 新しい順、同時刻はID順
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return limitSlice(out, f.Limit), nil
}

func (r *accountRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return model.Account{}, repo.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *accountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[a.ID]; ok {
		return model.Account{}, repo.ErrDuplicate
	}
	a = cloneAccount(a)
	r.s.accounts[a.ID] = a
	return cloneAccount(a), nil
}

func (r *accountRepository) Update(ctx context.Context, id string, p repo.AccountPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Tier != nil {
		a.Tier = *p.Tier
	}
	if p.CreditLimit != nil {
		a.CreditLimit = *p.CreditLimit
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.ContactPerson != nil {
		a.ContactPerson = *p.ContactPerson
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.ClearSalesRep {
		a.AssignedSalesRepID = nil
	} else if p.AssignedSalesRepID != nil {
		a.AssignedSalesRepID = cloneString(p.AssignedSalesRepID)
	}
	if p.UpdatedAt != nil {
		a.UpdatedAt = *p.UpdatedAt
	}
	r.s.accounts[id] = a
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.accounts, id)
	return nil
}
