package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"
)

type SalesRepUsecase struct {
	Deps
}

func NewSalesRepUsecase(d Deps) *SalesRepUsecase {
	return &SalesRepUsecase{Deps: d.withDefaults()}
}

type SalesRepInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Region   *string `json:"region"`
	IsActive *bool   `json:"is_active"`
}

type SalesRepListInput struct {
	ActiveOnly bool
	Region     string
	Limit      int
}

// 名前順
func (u *SalesRepUsecase) List(ctx context.Context, in SalesRepListInput) ([]model.SalesRep, error) {
	if in.Limit < 0 {
		return []model.SalesRep{}, NewValidationError("invalid limit")
	}
	f := repo.SalesRepFilter{Limit: in.Limit}
	if in.ActiveOnly {
		active := true
		f.IsActive = &active
	}
	if s := strings.TrimSpace(in.Region); s != "" {
		f.Region = &s
	}

	reps, err := u.Ledger.SalesReps().Find(ctx, f)
	if err != nil {
		return []model.SalesRep{}, NewPersistenceError(err)
	}
	return reps, nil
}

func (u *SalesRepUsecase) Get(ctx context.Context, id string) (model.SalesRep, error) {
	r, err := u.Ledger.SalesReps().FindByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, repo.ErrNotFound) {
		return model.SalesRep{}, NewNotFoundError("sales rep not found")
	}
	if err != nil {
		return model.SalesRep{}, NewPersistenceError(err)
	}
	return r, nil
}

func (u *SalesRepUsecase) Create(ctx context.Context, in SalesRepInput) (model.SalesRep, error) {
	now := u.Clock.Now()
	rep := model.SalesRep{
		ID:        u.IDs.NewID(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Name != nil {
		rep.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		rep.Email = *in.Email
	}
	if in.Phone != nil {
		rep.Phone = *in.Phone
	}
	if in.Region != nil {
		rep.Region = strings.TrimSpace(*in.Region)
	}
	if in.IsActive != nil {
		rep.IsActive = *in.IsActive
	}
	if err := rep.Validate(); err != nil {
		return model.SalesRep{}, NewValidationError(err.Error())
	}

	created, err := u.Ledger.SalesReps().Create(ctx, rep)
	if err != nil {
		return model.SalesRep{}, NewPersistenceError(err)
	}
	return created, nil
}

func (u *SalesRepUsecase) Update(ctx context.Context, id string, in SalesRepInput) (model.SalesRep, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.SalesRep{}, NewValidationError("invalid id")
	}

	now := u.Clock.Now()
	p := repo.SalesRepPatch{
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  in.IsActive,
		UpdatedAt: &now,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.SalesRep{}, NewValidationError(model.ErrSalesRepNameRequired.Error())
		}
		p.Name = &name
	}
	if in.Region != nil {
		region := strings.TrimSpace(*in.Region)
		p.Region = &region
	}

	err := u.Ledger.SalesReps().Update(ctx, id, p)
	if errors.Is(err, repo.ErrNotFound) {
		return model.SalesRep{}, NewNotFoundError("sales rep not found")
	}
	if err != nil {
		return model.SalesRep{}, NewPersistenceError(err)
	}
	return u.Get(ctx, id)
}

// Delete は担当取引先が1件でもあれば断る。
// Txがあるときは担当者の行をロックしたまま確認と削除を行う。
func (u *SalesRepUsecase) Delete(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewValidationError("invalid id")
	}

	var before model.SalesRep
	err := u.within(ctx, func(r repo.Ledger) error {
		err := r.SalesReps().LockByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("sales rep not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		rep, err := r.SalesReps().FindByID(ctx, id)
		if err != nil {
			return NewPersistenceError(err)
		}
		before = rep

		assigned, err := r.Accounts().Find(ctx, repo.AccountFilter{AssignedSalesRepID: &id, Limit: 1})
		if err != nil {
			return NewPersistenceError(err)
		}
		if len(assigned) > 0 {
			u.Metrics.GuardRejected(string(model.AuditResourceSalesRep))
			return NewConflictError("sales rep has assigned accounts; reassign them first")
		}

		if err := r.SalesReps().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("sales rep not found")
			}
			return NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, actorID, model.AuditActionDeleteSalesRep, model.AuditResourceSalesRep, id, before, nil)
	return nil
}
