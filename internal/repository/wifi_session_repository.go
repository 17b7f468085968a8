package repository

import (
	"context"
	"time"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

type WifiSessionRepository interface {
	Create(ctx context.Context, s *model.WifiSession) error
	FindActive(ctx context.Context, userUID string) (*model.WifiSession, error)
	CloseIfOpen(ctx context.Context, id uint64, endTime time.Time) (int64, error)
	SetPointsAwarded(ctx context.Context, id uint64, points int64) error
	ListClosed(ctx context.Context, userUID string, limit int) ([]model.WifiSession, error)
	SetDB(db *gorm.DB)
}

type wifiSessionRepository struct {
	db *gorm.DB
}

func NewWifiSessionRepository(db *gorm.DB) WifiSessionRepository {
	return &wifiSessionRepository{db: db}
}

func (r *wifiSessionRepository) Create(ctx context.Context, s *model.WifiSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *wifiSessionRepository) FindActive(ctx context.Context, userUID string) (*model.WifiSession, error) {
	var s model.WifiSession
	if err := r.db.WithContext(ctx).
		Where("user_uid = ? AND end_time IS NULL", userUID).
		Order("start_time DESC").
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CloseIfOpen stamps the end time only while the session is still open.
// Zero rows affected means another request already closed it, which makes
// ending a session idempotent under retries.
func (r *wifiSessionRepository) CloseIfOpen(ctx context.Context, id uint64, endTime time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.WifiSession{}).
		Where("id = ? AND end_time IS NULL", id).
		Updates(map[string]interface{}{
			"end_time": endTime,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *wifiSessionRepository) SetPointsAwarded(ctx context.Context, id uint64, points int64) error {
	return r.db.WithContext(ctx).
		Model(&model.WifiSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"points_awarded": points,
		}).Error
}

func (r *wifiSessionRepository) ListClosed(ctx context.Context, userUID string, limit int) ([]model.WifiSession, error) {
	var list []model.WifiSession
	q := r.db.WithContext(ctx).
		Where("user_uid = ? AND end_time IS NOT NULL", userUID).
		Order("start_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *wifiSessionRepository) SetDB(db *gorm.DB) {
	r.db = db
}
