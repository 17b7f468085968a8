package repository

import (
	"context"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Get(ctx context.Context, uid string) (*model.User, error)
	SaveTimeTracking(ctx context.Context, u *model.User) error
	AddPoints(ctx context.Context, uid string, amount int64) error
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		FirstOrCreate(&u, &model.User{UID: uid}).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveTimeTracking persists the four counters and the three reset stamps in
// one update. Callers reconcile windows before mutating the counters.
func (r *userRepository) SaveTimeTracking(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", u.UID).
		Updates(map[string]interface{}{
			"day_time_connected":   u.DayTimeConnected,
			"week_time_connected":  u.WeekTimeConnected,
			"month_time_connected": u.MonthTimeConnected,
			"total_time_connected": u.TotalTimeConnected,
			"last_day_reset":       u.LastDayReset,
			"last_week_reset":      u.LastWeekReset,
			"last_month_reset":     u.LastMonthReset,
		}).Error
}

func (r *userRepository) AddPoints(ctx context.Context, uid string, amount int64) error {
	if amount == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"points": gorm.Expr("points + ?", amount),
		}).Error
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}
