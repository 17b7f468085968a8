package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unitree-app/unitree-server/internal/model"
)

func oakType() *model.TreeType {
	return &model.TreeType{
		ID:       "oak",
		Name:     "Oak Tree",
		Cost:     100,
		IsActive: true,
		Stages: []model.TreeTypeStage{
			{Position: 0, Name: "Seed", HoursRequired: 0},
			{Position: 1, Name: "Sprout", HoursRequired: 1},
			{Position: 2, Name: "Seedling", HoursRequired: 2},
			{Position: 3, Name: "Sapling", HoursRequired: 3},
			{Position: 4, Name: "Young Tree", HoursRequired: 4},
			{Position: 5, Name: "Mature Tree", HoursRequired: 5},
		},
	}
}

type treeFixture struct {
	users *fakeUserRepo
	trees *fakeTreeRepo
	types *fakeTypeRepo
	svc   *treeService
	clock time.Time
}

func newTreeFixture(t *testing.T, types ...*model.TreeType) *treeFixture {
	t.Helper()
	users := newFakeUserRepo()
	trees := newFakeTreeRepo(users)
	typeRepo := newFakeTypeRepo(types...)

	f := &treeFixture{
		users: users,
		trees: trees,
		types: typeRepo,
		svc:   NewTreeService(trees, typeRepo, users).(*treeService),
		clock: time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC),
	}
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *treeFixture) plant(stage int, hours float64) *model.Tree {
	return f.trees.add(&model.Tree{
		UserUID:              testUID,
		TreeTypeID:           "oak",
		Species:              "Oak Tree",
		Name:                 "Oak Tree",
		PlantedDate:          f.clock,
		LastWatered:          f.clock,
		CurrentStage:         stage,
		WifiHoursAccumulated: hours,
		TotalHoursRequired:   6,
		HealthScore:          100,
	})
}

func TestRedeemInsufficientPoints(t *testing.T) {
	f := newTreeFixture(t, oakType())
	f.users.put(&model.User{UID: testUID, Points: 80})

	_, err := f.svc.Redeem(context.Background(), testUID, "oak")
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err = %v, want ErrInsufficientPoints", err)
	}

	u, _ := f.users.Get(context.Background(), testUID)
	if u.Points != 80 || u.TreesPlanted != 0 {
		t.Fatalf("failed redeem must not touch the user: %+v", u)
	}
	if len(f.trees.trees) != 0 {
		t.Fatalf("failed redeem must not create a tree, got %d", len(f.trees.trees))
	}
}

func TestRedeemUnknownSpecies(t *testing.T) {
	f := newTreeFixture(t, oakType())
	f.users.put(&model.User{UID: testUID, Points: 500})

	_, err := f.svc.Redeem(context.Background(), testUID, "baobab")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRedeemSuccess(t *testing.T) {
	f := newTreeFixture(t, oakType())
	f.users.put(&model.User{UID: testUID, Points: 250})

	res, err := f.svc.Redeem(context.Background(), testUID, "oak")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	if res.RemainingPoints != 150 {
		t.Fatalf("remaining = %d, want 150", res.RemainingPoints)
	}
	if res.Transaction.Amount != -100 || res.Transaction.Type != model.PointTypeRedemption {
		t.Fatalf("unexpected transaction: %+v", res.Transaction)
	}
	if res.Transaction.TxnUID == "" {
		t.Fatal("transaction must carry a txn uid")
	}

	tree := res.Tree
	if tree.Species != "Oak Tree" || tree.CurrentStage != 0 || tree.HealthScore != 100 {
		t.Fatalf("unexpected tree: %+v", tree)
	}
	if tree.TotalHoursRequired != 6 {
		t.Fatalf("totalHoursRequired = %v, want 6 (one per catalog stage)", tree.TotalHoursRequired)
	}
	if !tree.PlantedDate.Equal(f.clock) || !tree.LastWatered.Equal(f.clock) {
		t.Fatalf("planted/watered not stamped: %+v", tree)
	}

	u, _ := f.users.Get(context.Background(), testUID)
	if u.TreesPlanted != 1 {
		t.Fatalf("treesPlanted = %d, want 1", u.TreesPlanted)
	}

	ms := f.trees.milestones[tree.ID]
	if len(ms) != 1 || ms[0].Kind != model.MilestonePlanted {
		t.Fatalf("expected a single PLANTED milestone, got %+v", ms)
	}
}

func TestAddWifiHoursAdvancesStage(t *testing.T) {
	f := newTreeFixture(t)
	tree := f.plant(0, 0.5)

	results, err := f.svc.AddWifiHours(context.Background(), testUID, 1.5)
	if err != nil {
		t.Fatalf("AddWifiHours: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.TotalHours != 2 || r.CurrentStage != 2 || !r.StageChanged || r.PreviousStage != 0 {
		t.Fatalf("unexpected growth result: %+v", r)
	}

	stored := f.trees.trees[tree.ID]
	if stored.WifiHoursAccumulated != 2 || stored.CurrentStage != 2 {
		t.Fatalf("growth not persisted: %+v", stored)
	}

	var sawStageChange, sawWifiGrowth bool
	for _, m := range f.trees.milestones[tree.ID] {
		switch m.Kind {
		case model.MilestoneStageChange:
			sawStageChange = true
		case model.MilestoneWifiGrowth:
			sawWifiGrowth = true
		}
	}
	if !sawStageChange || !sawWifiGrowth {
		t.Fatalf("missing milestones: %+v", f.trees.milestones[tree.ID])
	}
}

func TestAddWifiHoursCapsAtMaxStage(t *testing.T) {
	f := newTreeFixture(t)
	tree := f.plant(5, 5)

	results, err := f.svc.AddWifiHours(context.Background(), testUID, 40)
	if err != nil {
		t.Fatalf("AddWifiHours: %v", err)
	}
	r := results[0]
	if r.CurrentStage != 5 || r.StageChanged {
		t.Fatalf("stage must cap at 5: %+v", r)
	}
	if got := f.trees.trees[tree.ID].WifiHoursAccumulated; got != 45 {
		t.Fatalf("hours keep accumulating past the cap, got %v", got)
	}
}

func TestAddWifiHoursWithoutTrees(t *testing.T) {
	f := newTreeFixture(t)
	_, err := f.svc.AddWifiHours(context.Background(), testUID, 1)
	if !errors.Is(err, ErrNoTrees) {
		t.Fatalf("err = %v, want ErrNoTrees", err)
	}
}

func TestGrowSkipsLatePlantings(t *testing.T) {
	f := newTreeFixture(t)
	eligible := f.plant(0, 0)
	f.clock = f.clock.Add(time.Hour)
	late := f.plant(0, 0)

	cutoff := f.clock.Add(-30 * time.Minute)
	grown, err := f.svc.Grow(context.Background(), testUID, 2, cutoff)
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if grown != 1 {
		t.Fatalf("grown = %d, want 1", grown)
	}
	if got := f.trees.trees[eligible.ID].WifiHoursAccumulated; got != 2 {
		t.Fatalf("eligible tree hours = %v, want 2", got)
	}
	if got := f.trees.trees[late.ID].WifiHoursAccumulated; got != 0 {
		t.Fatalf("late tree hours = %v, want 0", got)
	}
}

func TestGrowWithZeroHours(t *testing.T) {
	f := newTreeFixture(t)
	f.plant(0, 0)

	grown, err := f.svc.Grow(context.Background(), testUID, 0, f.clock)
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if grown != 0 {
		t.Fatalf("grown = %d, want 0", grown)
	}
}

func TestListRefreshesDecayedHealth(t *testing.T) {
	f := newTreeFixture(t)
	tree := f.plant(0, 0)
	f.clock = f.clock.Add(3*24*time.Hour + 6*time.Hour)

	trees, err := f.svc.List(context.Background(), testUID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if trees[0].HealthScore != 70 {
		t.Fatalf("health = %d, want 70 after 3 full days", trees[0].HealthScore)
	}
	if f.trees.trees[tree.ID].HealthScore != 70 {
		t.Fatal("refreshed health must be persisted")
	}
}

func TestWaterRestoresHealth(t *testing.T) {
	f := newTreeFixture(t)
	tree := f.plant(0, 0)
	f.clock = f.clock.Add(5 * 24 * time.Hour)

	watered, err := f.svc.Water(context.Background(), testUID, tree.ID)
	if err != nil {
		t.Fatalf("Water: %v", err)
	}
	if watered.HealthScore != 100 || !watered.LastWatered.Equal(f.clock) {
		t.Fatalf("watering must restore full health now: %+v", watered)
	}

	var sawPerfect bool
	for _, m := range f.trees.milestones[tree.ID] {
		if m.Kind == model.MilestonePerfectHealth {
			sawPerfect = true
		}
	}
	if !sawPerfect {
		t.Fatal("expected a PERFECT_HEALTH milestone")
	}
}

func TestGetUnknownTree(t *testing.T) {
	f := newTreeFixture(t)
	_, err := f.svc.Get(context.Background(), testUID, 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTree(t *testing.T) {
	f := newTreeFixture(t)
	tree := f.plant(0, 0)

	if err := f.svc.Delete(context.Background(), testUID, tree.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.trees.trees) != 0 {
		t.Fatal("tree not removed")
	}
	if err := f.svc.Delete(context.Background(), testUID, tree.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}
