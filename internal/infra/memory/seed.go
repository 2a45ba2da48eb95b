package memory

import (
	"context"
	"time"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seed はデモ用の営業担当・取引先・商品を入れる。注文は入れない。
func Seed(ctx context.Context, s *Store, now time.Time) error {
	reps := []model.SalesRep{
		{Name: "김민수", Email: "minsu.kim@example.com", Region: "서울", IsActive: true},
		{Name: "이서연", Email: "seoyeon.lee@example.com", Region: "부산", IsActive: true},
		{Name: "박지훈", Email: "jihoon.park@example.com", Region: "대구", IsActive: false},
	}
	for i := range reps {
		reps[i].ID = uuid.NewString()
		reps[i].CreatedAt = now
		reps[i].UpdatedAt = now
		if _, err := s.SalesReps().Create(ctx, reps[i]); err != nil {
			return err
		}
	}

	accounts := []model.Account{
		{Name: "한빛마트", Type: model.AccountTypeRetailer, Tier: model.AccountTierGold, CreditLimit: decimal.NewFromInt(5000000), AssignedSalesRepID: &reps[0].ID},
		{Name: "동해유통", Type: model.AccountTypeWholesaler, Tier: model.AccountTierPlatinum, CreditLimit: decimal.NewFromInt(20000000), AssignedSalesRepID: &reps[1].ID},
		{Name: "새봄식품", Type: model.AccountTypeEnterprise, Tier: model.AccountTierSilver, CreditLimit: decimal.NewFromInt(10000000)},
	}
	for i := range accounts {
		accounts[i].ID = uuid.NewString()
		accounts[i].CreatedAt = now
		accounts[i].UpdatedAt = now
		if _, err := s.Accounts().Create(ctx, accounts[i]); err != nil {
			return err
		}
	}

	products := []model.Product{
		{Name: "칠성사이다 500ml", SKU: "CS-500", Category: model.ProductCategoryCarbonated, UnitPrice: decimal.NewFromInt(1200), UnitSize: "500ml", MinOrderQty: 24},
		{Name: "델몬트 오렌지 1L", SKU: "DM-OJ-1L", Category: model.ProductCategoryJuice, UnitPrice: decimal.NewFromInt(2800), UnitSize: "1L", MinOrderQty: 12},
		{Name: "레쓰비 175ml", SKU: "LB-175", Category: model.ProductCategoryCoffee, UnitPrice: decimal.NewFromInt(700), UnitSize: "175ml", MinOrderQty: 30},
		{Name: "아이시스 2L", SKU: "IS-2L", Category: model.ProductCategoryWater, UnitPrice: decimal.NewFromInt(1100), UnitSize: "2L", MinOrderQty: 6},
	}
	for i := range products {
		products[i].ID = uuid.NewString()
		products[i].IsActive = true
		products[i].CreatedAt = now
		products[i].UpdatedAt = now
		if _, err := s.Products().Create(ctx, products[i]); err != nil {
			return err
		}
	}
	return nil
}
