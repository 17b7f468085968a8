// Seeds the tree-type catalog from the TOML catalog file into the database.
// Existing entries are replaced; set FORCE_SEED=true to reseed a non-empty
// catalog table.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/unitree-app/unitree-server/internal/catalog"
	"github.com/unitree-app/unitree-server/internal/config"
	"github.com/unitree-app/unitree-server/internal/db"
	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/repository"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := catalog.LoadFile(cfg.TreeCatalogPath)
	if err != nil {
		return err
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("tree types already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	repo := repository.NewTreeTypeRepository(gdb)
	for _, sp := range cat.Species {
		if err := repo.Upsert(ctx, toModel(sp)); err != nil {
			return fmt.Errorf("upsert species %s: %w", sp.ID, err)
		}
		log.Printf("seeded species %s (%d stages, cost %d)", sp.ID, len(sp.Stages), sp.Cost)
	}
	return nil
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	if strings.EqualFold(os.Getenv("FORCE_SEED"), "true") {
		return true, nil
	}
	var count int64
	if err := gdb.Model(&model.TreeType{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count tree types: %w", err)
	}
	return count == 0, nil
}

func toModel(sp catalog.Species) *model.TreeType {
	t := &model.TreeType{
		ID:             sp.ID,
		Name:           sp.Name,
		ScientificName: sp.ScientificName,
		Description:    sp.Description,
		CareLevel:      sp.CareLevel,
		MaxHeight:      sp.MaxHeight,
		Lifespan:       sp.Lifespan,
		NativeTo:       sp.NativeTo,
		Cost:           sp.Cost,
		IsActive:       true,
	}
	for i, st := range sp.Stages {
		t.Stages = append(t.Stages, model.TreeTypeStage{
			TreeTypeID:    sp.ID,
			Position:      i,
			Name:          st.Name,
			HoursRequired: st.HoursRequired,
			ImageURL:      st.ImageURL,
			Description:   st.Description,
		})
	}
	return t
}
