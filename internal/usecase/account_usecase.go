package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"github.com/shopspring/decimal"
)

type AccountUsecase struct {
	Deps
}

func NewAccountUsecase(d Deps) *AccountUsecase {
	return &AccountUsecase{Deps: d.withDefaults()}
}

// 作成・更新の入力。更新ではnilの項目は変えない
type AccountInput struct {
	Name               *string          `json:"name"`
	Type               *string          `json:"type"`
	Tier               *string          `json:"tier"`
	CreditLimit        *decimal.Decimal `json:"credit_limit"`
	Address            *string          `json:"address"`
	ContactPerson      *string          `json:"contact_person"`
	Phone              *string          `json:"phone"`
	Email              *string          `json:"email"`
	AssignedSalesRepID *string          `json:"assigned_sales_rep_id"`
}

type AccountListInput struct {
	SalesRepID string
	Type       string
	Tier       string
	Limit      int
}

func (u *AccountUsecase) List(ctx context.Context, in AccountListInput) ([]model.Account, error) {
	if in.Limit < 0 {
		return []model.Account{}, NewValidationError("invalid limit")
	}
	f := repo.AccountFilter{Limit: in.Limit}
	if s := strings.TrimSpace(in.SalesRepID); s != "" {
		f.AssignedSalesRepID = &s
	}
	if s := strings.TrimSpace(in.Type); s != "" {
		t := model.AccountType(s)
		if !t.Valid() {
			return []model.Account{}, NewValidationError(model.ErrInvalidAccountType.Error())
		}
		f.Type = &t
	}
	if s := strings.TrimSpace(in.Tier); s != "" {
		t := model.AccountTier(s)
		if !t.Valid() {
			return []model.Account{}, NewValidationError(model.ErrInvalidAccountTier.Error())
		}
		f.Tier = &t
	}

	items, err := u.Ledger.Accounts().Find(ctx, f)
	if err != nil {
		return []model.Account{}, NewPersistenceError(err)
	}
	return items, nil
}

func (u *AccountUsecase) Get(ctx context.Context, id string) (model.Account, error) {
	a, err := u.Ledger.Accounts().FindByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, repo.ErrNotFound) {
		return model.Account{}, NewNotFoundError("account not found")
	}
	if err != nil {
		return model.Account{}, NewPersistenceError(err)
	}
	return a, nil
}

// 担当者を付けるときは、その担当者の行をロックしてから書く（削除と競合させない）
func lockSalesRep(ctx context.Context, r repo.Ledger, repID string) error {
	err := r.SalesReps().LockByID(ctx, repID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewValidationError("sales rep not found")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

func (u *AccountUsecase) Create(ctx context.Context, in AccountInput) (model.Account, error) {
	now := u.Clock.Now()
	a := model.Account{
		ID:          u.IDs.NewID(),
		CreditLimit: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		a.Type = model.AccountType(strings.TrimSpace(*in.Type))
	}
	if in.Tier != nil {
		a.Tier = model.AccountTier(strings.TrimSpace(*in.Tier))
	} else {
		a.Tier = model.AccountTierBronze
	}
	if in.CreditLimit != nil {
		a.CreditLimit = *in.CreditLimit
	}
	if in.Address != nil {
		a.Address = *in.Address
	}
	if in.ContactPerson != nil {
		a.ContactPerson = *in.ContactPerson
	}
	if in.Phone != nil {
		a.Phone = *in.Phone
	}
	if in.Email != nil {
		a.Email = *in.Email
	}
	if in.AssignedSalesRepID != nil {
		if s := strings.TrimSpace(*in.AssignedSalesRepID); s != "" {
			a.AssignedSalesRepID = &s
		}
	}
	if err := a.Validate(); err != nil {
		return model.Account{}, NewValidationError(err.Error())
	}

	var created model.Account
	err := u.within(ctx, func(r repo.Ledger) error {
		if a.AssignedSalesRepID != nil {
			if err := lockSalesRep(ctx, r, *a.AssignedSalesRepID); err != nil {
				return err
			}
		}
		c, err := r.Accounts().Create(ctx, a)
		if err != nil {
			return NewPersistenceError(err)
		}
		created = c
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return created, nil
}

func (u *AccountUsecase) Update(ctx context.Context, id string, in AccountInput) (model.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Account{}, NewValidationError("invalid id")
	}

	now := u.Clock.Now()
	p := repo.AccountPatch{UpdatedAt: &now}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Account{}, NewValidationError(model.ErrAccountNameRequired.Error())
		}
		p.Name = &name
	}
	if in.Type != nil {
		t := model.AccountType(strings.TrimSpace(*in.Type))
		if !t.Valid() {
			return model.Account{}, NewValidationError(model.ErrInvalidAccountType.Error())
		}
		p.Type = &t
	}
	if in.Tier != nil {
		t := model.AccountTier(strings.TrimSpace(*in.Tier))
		if !t.Valid() {
			return model.Account{}, NewValidationError(model.ErrInvalidAccountTier.Error())
		}
		p.Tier = &t
	}
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return model.Account{}, NewValidationError(model.ErrInvalidCreditLimit.Error())
		}
		p.CreditLimit = in.CreditLimit
	}
	p.Address = in.Address
	p.ContactPerson = in.ContactPerson
	p.Phone = in.Phone
	p.Email = in.Email

	// 空文字は担当を外す
	var assign string
	if in.AssignedSalesRepID != nil {
		assign = strings.TrimSpace(*in.AssignedSalesRepID)
		if assign == "" {
			p.ClearSalesRep = true
		} else {
			p.AssignedSalesRepID = &assign
		}
	}

	var updated model.Account
	err := u.within(ctx, func(r repo.Ledger) error {
		if assign != "" {
			if err := lockSalesRep(ctx, r, assign); err != nil {
				return err
			}
		}
		err := r.Accounts().Update(ctx, id, p)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("account not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		a, err := r.Accounts().FindByID(ctx, id)
		if err != nil {
			return NewPersistenceError(err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return updated, nil
}

// 注文が残っている取引先は消さない
func (u *AccountUsecase) Delete(ctx context.Context, actorID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewValidationError("invalid id")
	}

	var before model.Account
	err := u.within(ctx, func(r repo.Ledger) error {
		a, err := r.Accounts().FindByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("account not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}
		before = a

		orders, err := r.Orders().Find(ctx, repo.OrderFilter{AccountID: &id, Limit: 1})
		if err != nil {
			return NewPersistenceError(err)
		}
		if len(orders) > 0 {
			u.Metrics.GuardRejected(string(model.AuditResourceAccount))
			return NewConflictError("account has orders; delete or reassign them first")
		}

		if err := r.Accounts().Delete(ctx, id); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("account not found")
			}
			return NewPersistenceError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.audit(ctx, actorID, model.AuditActionDeleteAccount, model.AuditResourceAccount, id, before, nil)
	return nil
}
