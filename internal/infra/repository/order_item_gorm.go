package repository

import (
	"context"

	"github.com/ModawnAI/lotte-crm/internal/domain/model"
	repo "github.com/ModawnAI/lotte-crm/internal/repository"

	"gorm.io/gorm"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 1回のINSERTでまとめて入れる
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.OrderItem, len(items))
	copy(rows, items)
	for i := range rows {
		rows[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *OrderItemGormRepository) Find(ctx context.Context, f repo.OrderItemFilter) ([]model.OrderItem, error) {
	q := r.db.WithContext(ctx).Model(&model.OrderItem{})
	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}

	var items []model.OrderItem
	if err := applyLimit(q.Order("order_id asc").Order("line_no asc"), f.Limit).Find(&items).Error; err != nil {
		return []model.OrderItem{}, err
	}
	return items, nil
}

func (r *OrderItemGormRepository) FindByID(ctx context.Context, id string) (model.OrderItem, error) {
	var it model.OrderItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&it).Error; err != nil {
		return model.OrderItem{}, translate(err)
	}
	return it, nil
}

func (r *OrderItemGormRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error
}

var _ repo.OrderItemRepository = (*OrderItemGormRepository)(nil)
