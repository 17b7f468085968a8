package repository

import (
	"context"
	"time"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

type TreeRepository interface {
	ListByUser(ctx context.Context, userUID string) ([]model.Tree, error)
	ListPlantedBefore(ctx context.Context, userUID string, cutoff time.Time) ([]model.Tree, error)
	FindByID(ctx context.Context, userUID string, id uint64) (*model.Tree, error)
	Save(ctx context.Context, t *model.Tree, milestones []model.TreeMilestone) error
	Redeem(ctx context.Context, t *model.Tree, txn *model.PointTransaction, cost int64) error
	Delete(ctx context.Context, userUID string, id uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type treeRepository struct {
	db *gorm.DB
}

func NewTreeRepository(db *gorm.DB) TreeRepository {
	return &treeRepository{db: db}
}

func (r *treeRepository) ListByUser(ctx context.Context, userUID string) ([]model.Tree, error) {
	var trees []model.Tree
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("planted_date ASC").
		Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

func (r *treeRepository) ListPlantedBefore(ctx context.Context, userUID string, cutoff time.Time) ([]model.Tree, error) {
	var trees []model.Tree
	if err := r.db.WithContext(ctx).
		Where("user_uid = ? AND planted_date <= ?", userUID, cutoff).
		Order("planted_date ASC").
		Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

func (r *treeRepository) FindByID(ctx context.Context, userUID string, id uint64) (*model.Tree, error) {
	var t model.Tree
	if err := r.db.WithContext(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("tree_milestones.created_at ASC")
		}).
		Where("id = ? AND user_uid = ?", id, userUID).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Save persists the tree's mutable fields and appends any new milestones
// in one transaction.
func (r *treeRepository) Save(ctx context.Context, t *model.Tree, milestones []model.TreeMilestone) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Tree{}).
			Where("id = ?", t.ID).
			Updates(map[string]interface{}{
				"current_stage":          t.CurrentStage,
				"wifi_hours_accumulated": t.WifiHoursAccumulated,
				"health_score":           t.HealthScore,
				"last_watered":           t.LastWatered,
			}).Error; err != nil {
			return err
		}
		for i := range milestones {
			milestones[i].TreeID = t.ID
		}
		if len(milestones) > 0 {
			if err := tx.Create(&milestones).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Redeem atomically deducts the cost from the user's balance, creates the
// tree (with its PLANTED milestone) and writes the ledger row. The deduct
// is guarded by points >= cost; zero rows affected aborts the transaction
// with gorm.ErrRecordNotFound, which the service maps to an
// insufficient-points error.
func (r *treeRepository) Redeem(ctx context.Context, t *model.Tree, txn *model.PointTransaction, cost int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("uid = ? AND points >= ?", t.UserUID, cost).
			Updates(map[string]interface{}{
				"points":        gorm.Expr("points - ?", cost),
				"trees_planted": gorm.Expr("trees_planted + ?", 1),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		txn.TreeID = &t.ID
		return tx.Create(txn).Error
	})
}

func (r *treeRepository) Delete(ctx context.Context, userUID string, id uint64) (int64, error) {
	return r.deleteWithMilestones(ctx, userUID, id)
}

func (r *treeRepository) deleteWithMilestones(ctx context.Context, userUID string, id uint64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_uid = ?", id, userUID).Delete(&model.Tree{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Where("tree_id = ?", id).Delete(&model.TreeMilestone{}).Error
	})
	return affected, err
}

func (r *treeRepository) SetDB(db *gorm.DB) {
	r.db = db
}
