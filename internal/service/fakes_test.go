package service

import (
	"context"
	"sort"
	"time"

	"github.com/unitree-app/unitree-server/internal/model"
	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. They mirror the SQL
// guards the real implementations rely on (conditional close, conditional
// deduct) so the race-sensitive paths are exercised the same way.

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) put(u *model.User) {
	cp := *u
	r.users[u.UID] = &cp
}

func (r *fakeUserRepo) Get(_ context.Context, uid string) (*model.User, error) {
	if u, ok := r.users[uid]; ok {
		cp := *u
		return &cp, nil
	}
	u := &model.User{UID: uid}
	r.users[uid] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SaveTimeTracking(_ context.Context, u *model.User) error {
	stored, ok := r.users[u.UID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.DayTimeConnected = u.DayTimeConnected
	stored.WeekTimeConnected = u.WeekTimeConnected
	stored.MonthTimeConnected = u.MonthTimeConnected
	stored.TotalTimeConnected = u.TotalTimeConnected
	stored.LastDayReset = u.LastDayReset
	stored.LastWeekReset = u.LastWeekReset
	stored.LastMonthReset = u.LastMonthReset
	return nil
}

func (r *fakeUserRepo) AddPoints(_ context.Context, uid string, amount int64) error {
	stored, ok := r.users[uid]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Points += amount
	return nil
}

func (r *fakeUserRepo) SetDB(*gorm.DB) {}

type fakeSessionRepo struct {
	sessions []*model.WifiSession
	nextID   uint64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.WifiSession) error {
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *fakeSessionRepo) FindActive(_ context.Context, userUID string) (*model.WifiSession, error) {
	for i := len(r.sessions) - 1; i >= 0; i-- {
		s := r.sessions[i]
		if s.UserUID == userUID && s.EndTime == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) CloseIfOpen(_ context.Context, id uint64, endTime time.Time) (int64, error) {
	for _, s := range r.sessions {
		if s.ID == id && s.EndTime == nil {
			t := endTime
			s.EndTime = &t
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeSessionRepo) SetPointsAwarded(_ context.Context, id uint64, points int64) error {
	for _, s := range r.sessions {
		if s.ID == id {
			s.PointsAwarded = points
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) ListClosed(_ context.Context, userUID string, limit int) ([]model.WifiSession, error) {
	var out []model.WifiSession
	for _, s := range r.sessions {
		if s.UserUID == userUID && s.EndTime != nil {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) SetDB(*gorm.DB) {}

type fakeTreeRepo struct {
	trees      map[uint64]*model.Tree
	milestones map[uint64][]model.TreeMilestone
	users      *fakeUserRepo
	nextID     uint64
}

func newFakeTreeRepo(users *fakeUserRepo) *fakeTreeRepo {
	return &fakeTreeRepo{
		trees:      make(map[uint64]*model.Tree),
		milestones: make(map[uint64][]model.TreeMilestone),
		users:      users,
		nextID:     1,
	}
}

func (r *fakeTreeRepo) add(t *model.Tree) *model.Tree {
	t.ID = r.nextID
	r.nextID++
	cp := *t
	r.trees[t.ID] = &cp
	return t
}

func (r *fakeTreeRepo) sorted(userUID string) []model.Tree {
	var out []model.Tree
	for _, t := range r.trees {
		if t.UserUID == userUID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlantedDate.Before(out[j].PlantedDate) })
	return out
}

func (r *fakeTreeRepo) ListByUser(_ context.Context, userUID string) ([]model.Tree, error) {
	return r.sorted(userUID), nil
}

func (r *fakeTreeRepo) ListPlantedBefore(_ context.Context, userUID string, cutoff time.Time) ([]model.Tree, error) {
	var out []model.Tree
	for _, t := range r.sorted(userUID) {
		if !t.PlantedDate.After(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTreeRepo) FindByID(_ context.Context, userUID string, id uint64) (*model.Tree, error) {
	t, ok := r.trees[id]
	if !ok || t.UserUID != userUID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Milestones = append([]model.TreeMilestone(nil), r.milestones[id]...)
	return &cp, nil
}

func (r *fakeTreeRepo) Save(_ context.Context, t *model.Tree, milestones []model.TreeMilestone) error {
	stored, ok := r.trees[t.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.CurrentStage = t.CurrentStage
	stored.WifiHoursAccumulated = t.WifiHoursAccumulated
	stored.HealthScore = t.HealthScore
	stored.LastWatered = t.LastWatered
	for _, m := range milestones {
		m.TreeID = t.ID
		r.milestones[t.ID] = append(r.milestones[t.ID], m)
	}
	return nil
}

func (r *fakeTreeRepo) Redeem(_ context.Context, t *model.Tree, txn *model.PointTransaction, cost int64) error {
	u, ok := r.users.users[t.UserUID]
	if !ok || u.Points < cost {
		return gorm.ErrRecordNotFound
	}
	u.Points -= cost
	u.TreesPlanted++
	planted := t.Milestones
	t.Milestones = nil
	r.add(t)
	for _, m := range planted {
		m.TreeID = t.ID
		r.milestones[t.ID] = append(r.milestones[t.ID], m)
	}
	txn.TreeID = &t.ID
	return nil
}

func (r *fakeTreeRepo) Delete(_ context.Context, userUID string, id uint64) (int64, error) {
	t, ok := r.trees[id]
	if !ok || t.UserUID != userUID {
		return 0, nil
	}
	delete(r.trees, id)
	delete(r.milestones, id)
	return 1, nil
}

func (r *fakeTreeRepo) SetDB(*gorm.DB) {}

type fakePointRepo struct {
	txns []*model.PointTransaction
}

func (r *fakePointRepo) Create(_ context.Context, p *model.PointTransaction) error {
	cp := *p
	r.txns = append(r.txns, &cp)
	return nil
}

func (r *fakePointRepo) ListByUser(_ context.Context, userUID string, limit int) ([]model.PointTransaction, error) {
	var out []model.PointTransaction
	for _, t := range r.txns {
		if t.UserUID == userUID {
			out = append(out, *t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePointRepo) SetDB(*gorm.DB) {}

type fakeTypeRepo struct {
	types map[string]*model.TreeType
}

func newFakeTypeRepo(types ...*model.TreeType) *fakeTypeRepo {
	r := &fakeTypeRepo{types: make(map[string]*model.TreeType)}
	for _, t := range types {
		r.types[t.ID] = t
	}
	return r
}

func (r *fakeTypeRepo) ListActive(_ context.Context) ([]model.TreeType, error) {
	var out []model.TreeType
	for _, t := range r.types {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTypeRepo) FindActiveByID(_ context.Context, id string) (*model.TreeType, error) {
	t, ok := r.types[id]
	if !ok || !t.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTypeRepo) Upsert(_ context.Context, t *model.TreeType) error {
	cp := *t
	r.types[t.ID] = &cp
	return nil
}

func (r *fakeTypeRepo) SetDB(*gorm.DB) {}
