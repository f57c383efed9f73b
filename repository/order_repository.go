package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/models"
)

// OrderRepository defines the order ledger's data access. Orders are append
// plus status mutation; they are never deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	FindByNumberAndUserID(ctx context.Context, number, userID string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	// Transition loads the order, applies mutate, and saves, all in one
	// transaction. If mutate returns an error nothing is written.
	Transition(ctx context.Context, number string, mutate func(*models.Order) error) (*models.Order, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create persists the order and its line snapshots in one transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", number).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByNumberAndUserID(ctx context.Context, number, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ? AND user_id = ?", number, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUserID retrieves orders for a shopper, most recent first.
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) Transition(ctx context.Context, number string, mutate func(*models.Order) error) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("order_number = ?", number).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrOrderNotFound
			}
			return err
		}
		if err := mutate(&order); err != nil {
			return err
		}
		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
