package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unitree-app/unitree-server/internal/growth"
	"github.com/unitree-app/unitree-server/internal/metrics"
	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/repository"
	"gorm.io/gorm"
)

type TreeGrowthResult struct {
	TreeID        uint64
	Name          string
	Species       string
	HoursAdded    float64
	TotalHours    float64
	CurrentStage  int
	StageChanged  bool
	PreviousStage int
}

type RedeemResult struct {
	Tree            *model.Tree
	Transaction     *model.PointTransaction
	RemainingPoints int64
}

type TreeService interface {
	List(ctx context.Context, userUID string) ([]model.Tree, error)
	Get(ctx context.Context, userUID string, id uint64) (*model.Tree, error)
	Grow(ctx context.Context, userUID string, hours float64, plantedBefore time.Time) (int, error)
	AddWifiHours(ctx context.Context, userUID string, hours float64) ([]TreeGrowthResult, error)
	Redeem(ctx context.Context, userUID, speciesID string) (*RedeemResult, error)
	Water(ctx context.Context, userUID string, id uint64) (*model.Tree, error)
	Delete(ctx context.Context, userUID string, id uint64) error
	Types(ctx context.Context) ([]model.TreeType, error)
}

type treeService struct {
	trees repository.TreeRepository
	types repository.TreeTypeRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewTreeService(trees repository.TreeRepository, types repository.TreeTypeRepository, users repository.UserRepository) TreeService {
	return &treeService{trees: trees, types: types, users: users, now: time.Now}
}

// maxStageFor bounds growth for one tree. The redeem flow snapshots
// total_hours_required from the catalog; stages run 0..required-1.
func maxStageFor(t *model.Tree) int {
	if t.TotalHoursRequired >= 1 {
		return int(t.TotalHoursRequired) - 1
	}
	return growth.DefaultMaxStage
}

// applyHours credits WiFi hours to one tree and recomputes its stage.
// Stage is a pure function of accumulated hours; it is never set directly.
func applyHours(t *model.Tree, hours float64) (milestones []model.TreeMilestone, stageChanged bool) {
	prevStage := t.CurrentStage
	t.WifiHoursAccumulated += hours
	t.CurrentStage = growth.StageFromHours(t.WifiHoursAccumulated, maxStageFor(t))

	if t.CurrentStage > prevStage {
		stage := t.CurrentStage
		snapshot := t.WifiHoursAccumulated
		milestones = append(milestones, model.TreeMilestone{
			Kind:        model.MilestoneStageChange,
			Description: fmt.Sprintf("Grew to stage %d", t.CurrentStage),
			Stage:       &stage,
			Hours:       &snapshot,
		})
		stageChanged = true
	}
	total := t.WifiHoursAccumulated
	milestones = append(milestones, model.TreeMilestone{
		Kind:        model.MilestoneWifiGrowth,
		Description: fmt.Sprintf("Gained %.1f WiFi hour(s), %.1f total", hours, total),
		Hours:       &total,
	})
	return milestones, stageChanged
}

// refresh recomputes the lazily-derived fields (health from watering age,
// stage from hours) and reports whether the stored row is stale.
func (s *treeService) refresh(t *model.Tree, now time.Time) bool {
	changed := false
	if h := growth.HealthScore(t.LastWatered, now); h != t.HealthScore {
		t.HealthScore = h
		changed = true
	}
	if st := growth.StageFromHours(t.WifiHoursAccumulated, maxStageFor(t)); st != t.CurrentStage {
		t.CurrentStage = st
		changed = true
	}
	return changed
}

func (s *treeService) List(ctx context.Context, userUID string) ([]model.Tree, error) {
	trees, err := s.trees.ListByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range trees {
		if s.refresh(&trees[i], now) {
			if err := s.trees.Save(ctx, &trees[i], nil); err != nil {
				return nil, err
			}
		}
	}
	return trees, nil
}

func (s *treeService) Get(ctx context.Context, userUID string, id uint64) (*model.Tree, error) {
	t, err := s.trees.FindByID(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.refresh(t, s.now()) {
		if err := s.trees.Save(ctx, t, nil); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Grow fans newly-earned WiFi hours out to every tree planted before the
// session started. Growth is not divided: each eligible tree receives the
// full credit. Returns how many trees were updated.
func (s *treeService) Grow(ctx context.Context, userUID string, hours float64, plantedBefore time.Time) (int, error) {
	if hours <= 0 {
		return 0, nil
	}
	trees, err := s.trees.ListPlantedBefore(ctx, userUID, plantedBefore)
	if err != nil {
		return 0, err
	}
	grown := 0
	for i := range trees {
		milestones, _ := applyHours(&trees[i], hours)
		if err := s.trees.Save(ctx, &trees[i], milestones); err != nil {
			return grown, err
		}
		grown++
		metrics.TreesGrown.Inc()
	}
	return grown, nil
}

// AddWifiHours is the manual entry point into the growth engine; it skips
// eligibility filtering and the points pipeline entirely.
func (s *treeService) AddWifiHours(ctx context.Context, userUID string, hours float64) ([]TreeGrowthResult, error) {
	trees, err := s.trees.ListByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, ErrNoTrees
	}
	results := make([]TreeGrowthResult, 0, len(trees))
	for i := range trees {
		prev := trees[i].CurrentStage
		milestones, stageChanged := applyHours(&trees[i], hours)
		if err := s.trees.Save(ctx, &trees[i], milestones); err != nil {
			return results, err
		}
		metrics.TreesGrown.Inc()
		results = append(results, TreeGrowthResult{
			TreeID:        trees[i].ID,
			Name:          trees[i].Name,
			Species:       trees[i].Species,
			HoursAdded:    hours,
			TotalHours:    trees[i].WifiHoursAccumulated,
			CurrentStage:  trees[i].CurrentStage,
			StageChanged:  stageChanged,
			PreviousStage: prev,
		})
	}
	return results, nil
}

// Redeem exchanges points for a new tree. Balance deduct, tree creation,
// PLANTED milestone and ledger row commit or roll back together.
func (s *treeService) Redeem(ctx context.Context, userUID, speciesID string) (*RedeemResult, error) {
	tt, err := s.types.FindActiveByID(ctx, speciesID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := s.now()
	totalRequired := float64(tt.MaxStage() + 1)
	if len(tt.Stages) == 0 {
		totalRequired = float64(growth.DefaultMaxStage + 1)
	}
	tree := &model.Tree{
		UserUID:              userUID,
		TreeTypeID:           tt.ID,
		Species:              tt.Name,
		Name:                 tt.Name,
		PlantedDate:          now,
		LastWatered:          now,
		CurrentStage:         0,
		WifiHoursAccumulated: 0,
		TotalHoursRequired:   totalRequired,
		HealthScore:          100,
		Milestones: []model.TreeMilestone{
			{Kind: model.MilestonePlanted, Description: "Tree was planted"},
		},
	}
	txn := &model.PointTransaction{
		TxnUID:      uuid.NewString(),
		UserUID:     userUID,
		Amount:      -tt.Cost,
		Type:        model.PointTypeRedemption,
		Description: fmt.Sprintf("Redeemed a %s", tt.Name),
	}
	if err := s.trees.Redeem(ctx, tree, txn, tt.Cost); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientPoints
		}
		return nil, err
	}
	metrics.TreesRedeemed.Inc()

	u, err := s.users.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &RedeemResult{Tree: tree, Transaction: txn, RemainingPoints: u.Points}, nil
}

func (s *treeService) Water(ctx context.Context, userUID string, id uint64) (*model.Tree, error) {
	t, err := s.trees.FindByID(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.LastWatered = s.now()
	t.HealthScore = 100
	milestones := []model.TreeMilestone{
		{Kind: model.MilestonePerfectHealth, Description: "Watered back to perfect health"},
	}
	if err := s.trees.Save(ctx, t, milestones); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *treeService) Delete(ctx context.Context, userUID string, id uint64) error {
	affected, err := s.trees.Delete(ctx, userUID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *treeService) Types(ctx context.Context) ([]model.TreeType, error) {
	return s.types.ListActive(ctx)
}
