package repository

import (
	"context"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

type TreeTypeRepository interface {
	ListActive(ctx context.Context) ([]model.TreeType, error)
	FindActiveByID(ctx context.Context, id string) (*model.TreeType, error)
	Upsert(ctx context.Context, t *model.TreeType) error
	SetDB(db *gorm.DB)
}

type treeTypeRepository struct {
	db *gorm.DB
}

func NewTreeTypeRepository(db *gorm.DB) TreeTypeRepository {
	return &treeTypeRepository{db: db}
}

func (r *treeTypeRepository) ListActive(ctx context.Context) ([]model.TreeType, error) {
	var types []model.TreeType
	if err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("tree_type_stages.position ASC")
		}).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *treeTypeRepository) FindActiveByID(ctx context.Context, id string) (*model.TreeType, error) {
	var t model.TreeType
	if err := r.db.WithContext(ctx).
		Preload("Stages", func(db *gorm.DB) *gorm.DB {
			return db.Order("tree_type_stages.position ASC")
		}).
		Where("id = ? AND is_active = ?", id, true).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert replaces a catalog entry and its stages. Used by cmd/seed.
func (r *treeTypeRepository) Upsert(ctx context.Context, t *model.TreeType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tree_type_id = ?", t.ID).Delete(&model.TreeTypeStage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", t.ID).Delete(&model.TreeType{}).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (r *treeTypeRepository) SetDB(db *gorm.DB) {
	r.db = db
}
