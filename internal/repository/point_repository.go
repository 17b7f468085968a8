package repository

import (
	"context"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

type PointRepository interface {
	Create(ctx context.Context, p *model.PointTransaction) error
	ListByUser(ctx context.Context, userUID string, limit int) ([]model.PointTransaction, error)
	SetDB(db *gorm.DB)
}

type pointRepository struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepository{db: db}
}

func (r *pointRepository) Create(ctx context.Context, p *model.PointTransaction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pointRepository) ListByUser(ctx context.Context, userUID string, limit int) ([]model.PointTransaction, error) {
	var list []model.PointTransaction
	q := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pointRepository) SetDB(db *gorm.DB) {
	r.db = db
}
