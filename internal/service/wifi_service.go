package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/unitree-app/unitree-server/internal/metrics"
	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/repository"
	"github.com/unitree-app/unitree-server/internal/wifinet"
	"gorm.io/gorm"
)

// TreeGrower is the slice of TreeService the award pipeline needs.
type TreeGrower interface {
	Grow(ctx context.Context, userUID string, hours float64, plantedBefore time.Time) (int, error)
}

// TimeTracking is the per-window connected minutes snapshot returned by
// most wifi endpoints.
type TimeTracking struct {
	Day   float64
	Week  float64
	Month float64
	Total float64
}

type EndSessionResult struct {
	Session                *model.WifiSession
	PointsAwarded          int64
	NewHoursAwarded        int
	SessionDurationMinutes int
	TotalTimeConnected     float64
	TotalHoursCompleted    int
	TimeTracking           TimeTracking
}

type ActiveSessionInfo struct {
	Session                   *model.WifiSession
	CurrentDurationMinutes    int
	CurrentTotalTimeMinutes   int
	CurrentTotalHours         int
	PotentialTotalTimeMinutes int
	PotentialTotalHours       int
	PotentialNewHours         int
	PotentialPoints           int64
	MinutesToNextReward       int
	ProgressToNextReward      int
	TimeTracking              TimeTracking
}

type WindowStat struct {
	Duration float64 // hours, one decimal
	Points   int64
}

type WifiStats struct {
	Today WindowStat
	Week  WindowStat
	Month WindowStat
	Total WindowStat
}

type TrackedWindow struct {
	Minutes  int
	Hours    int
	Progress float64 // percent toward the next whole hour
}

type TimeTrackingStats struct {
	Day                 TrackedWindow
	Week                TrackedWindow
	Month               TrackedWindow
	Total               TrackedWindow
	PointsFromTotalTime int64
	NextHourReward      int64
	MinutesToNextReward float64
}

type WifiService interface {
	Start(ctx context.Context, userUID, ssid, bssid string) (*model.WifiSession, error)
	End(ctx context.Context, userUID string) (*EndSessionResult, error)
	Active(ctx context.Context, userUID string) (*ActiveSessionInfo, error)
	Stats(ctx context.Context, userUID string) (*WifiStats, error)
	TimeTracking(ctx context.Context, userUID string) (*TimeTrackingStats, error)
	History(ctx context.Context, userUID string) ([]model.WifiSession, error)
}

type wifiService struct {
	sessions      repository.WifiSessionRepository
	users         repository.UserRepository
	points        repository.PointRepository
	grower        TreeGrower
	pointsPerHour int64
	campusBSSID   string
	now           func() time.Time
}

func NewWifiService(sessions repository.WifiSessionRepository, users repository.UserRepository, points repository.PointRepository, grower TreeGrower, pointsPerHour int64, campusBSSID string) WifiService {
	return &wifiService{
		sessions:      sessions,
		users:         users,
		points:        points,
		grower:        grower,
		pointsPerHour: pointsPerHour,
		campusBSSID:   campusBSSID,
		now:           time.Now,
	}
}

func (s *wifiService) Start(ctx context.Context, userUID, ssid, bssid string) (*model.WifiSession, error) {
	if !wifinet.SameCampus(s.campusBSSID, bssid) {
		return nil, ErrInvalidNetwork
	}
	if _, err := s.sessions.FindActive(ctx, userUID); err == nil {
		return nil, ErrActiveSessionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &model.WifiSession{
		UserUID:   userUID,
		SSID:      ssid,
		BSSID:     bssid,
		StartTime: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	metrics.SessionsStarted.Inc()
	return session, nil
}

// End closes the open session and runs the award pipeline: elapsed minutes
// go into the rolling counters, then points are minted for each whole
// lifetime hour newly crossed and fanned out to the user's trees. Awards
// key off lifetime total time, not this session's duration, so many short
// sessions still reach hour boundaries eventually.
func (s *wifiService) End(ctx context.Context, userUID string) (*EndSessionResult, error) {
	session, err := s.sessions.FindActive(ctx, userUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	endTime := s.now()
	affected, err := s.sessions.CloseIfOpen(ctx, session.ID, endTime)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// A concurrent request closed it first; that request owns the award.
		return nil, ErrNoActiveSession
	}
	session.EndTime = &endTime
	metrics.SessionsEnded.Inc()

	elapsedMinutes := endTime.Sub(session.StartTime).Minutes()

	user, err := s.users.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}
	reconcileWindows(user, endTime)
	totalBefore := user.TotalTimeConnected
	addConnectedMinutes(user, elapsedMinutes, endTime)
	if err := s.users.SaveTimeTracking(ctx, user); err != nil {
		return nil, err
	}

	newHours := wholeHours(user.TotalTimeConnected) - wholeHours(totalBefore)
	var pointsAwarded int64
	if newHours > 0 {
		pointsAwarded = int64(newHours) * s.pointsPerHour
		if err := s.users.AddPoints(ctx, userUID, pointsAwarded); err != nil {
			return nil, err
		}
		metrics.HoursAwarded.Add(float64(newHours))
		metrics.PointsAwarded.Add(float64(pointsAwarded))

		// Ledger and growth are derived from the committed time counters;
		// failures here are logged and left for reconciliation rather than
		// undoing the time accounting.
		hours := newHours
		txn := &model.PointTransaction{
			TxnUID:       uuid.NewString(),
			UserUID:      userUID,
			Amount:       pointsAwarded,
			Type:         model.PointTypeAttendance,
			Description:  fmt.Sprintf("%d hour(s) of total WiFi attendance milestone reached", newHours),
			SessionID:    &session.ID,
			HoursAwarded: &hours,
			SessionStart: &session.StartTime,
			SessionEnd:   &endTime,
		}
		if err := s.points.Create(ctx, txn); err != nil {
			log.Printf("attendance ledger write failed for user %s session %d: %v", userUID, session.ID, err)
		}

		if _, err := s.grower.Grow(ctx, userUID, float64(newHours), session.StartTime); err != nil {
			log.Printf("tree growth failed for user %s session %d: %v", userUID, session.ID, err)
		}

		if err := s.sessions.SetPointsAwarded(ctx, session.ID, pointsAwarded); err != nil {
			log.Printf("session points update failed for session %d: %v", session.ID, err)
		}
		session.PointsAwarded = pointsAwarded
	}

	return &EndSessionResult{
		Session:                session,
		PointsAwarded:          pointsAwarded,
		NewHoursAwarded:        newHours,
		SessionDurationMinutes: int(elapsedMinutes),
		TotalTimeConnected:     user.TotalTimeConnected,
		TotalHoursCompleted:    wholeHours(user.TotalTimeConnected),
		TimeTracking:           snapshot(user),
	}, nil
}

// Active returns the open session with its progress toward the next whole
// lifetime hour, or nil when no session is open.
func (s *wifiService) Active(ctx context.Context, userUID string) (*ActiveSessionInfo, error) {
	session, err := s.sessions.FindActive(ctx, userUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.reconciledUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	duration := now.Sub(session.StartTime).Minutes()
	potentialTotal := user.TotalTimeConnected + duration
	currentHours := wholeHours(user.TotalTimeConnected)
	potentialHours := wholeHours(potentialTotal)
	potentialNew := potentialHours - currentHours

	remainder := math.Mod(potentialTotal, 60)
	return &ActiveSessionInfo{
		Session:                   session,
		CurrentDurationMinutes:    int(duration),
		CurrentTotalTimeMinutes:   int(user.TotalTimeConnected),
		CurrentTotalHours:         currentHours,
		PotentialTotalTimeMinutes: int(potentialTotal),
		PotentialTotalHours:       potentialHours,
		PotentialNewHours:         potentialNew,
		PotentialPoints:           int64(potentialNew) * s.pointsPerHour,
		MinutesToNextReward:       int(math.Ceil(60 - remainder)),
		ProgressToNextReward:      int(remainder / 60 * 100),
		TimeTracking:              snapshot(user),
	}, nil
}

func (s *wifiService) Stats(ctx context.Context, userUID string) (*WifiStats, error) {
	user, err := s.reconciledUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &WifiStats{
		Today: s.windowStat(user.DayTimeConnected),
		Week:  s.windowStat(user.WeekTimeConnected),
		Month: s.windowStat(user.MonthTimeConnected),
		Total: s.windowStat(user.TotalTimeConnected),
	}, nil
}

func (s *wifiService) TimeTracking(ctx context.Context, userUID string) (*TimeTrackingStats, error) {
	user, err := s.reconciledUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	totalHours := wholeHours(user.TotalTimeConnected)
	return &TimeTrackingStats{
		Day:                 trackedWindow(user.DayTimeConnected),
		Week:                trackedWindow(user.WeekTimeConnected),
		Month:               trackedWindow(user.MonthTimeConnected),
		Total:               trackedWindow(user.TotalTimeConnected),
		PointsFromTotalTime: int64(totalHours) * s.pointsPerHour,
		NextHourReward:      s.pointsPerHour,
		MinutesToNextReward: 60 - math.Mod(user.TotalTimeConnected, 60),
	}, nil
}

func (s *wifiService) History(ctx context.Context, userUID string) ([]model.WifiSession, error) {
	return s.sessions.ListClosed(ctx, userUID, 0)
}

// reconciledUser loads the user with fresh windows, persisting any reset
// so the stored counters never go backwards mid-window.
func (s *wifiService) reconciledUser(ctx context.Context, userUID string) (*model.User, error) {
	user, err := s.users.Get(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if reconcileWindows(user, s.now()) {
		if err := s.users.SaveTimeTracking(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *wifiService) windowStat(minutes float64) WindowStat {
	return WindowStat{
		Duration: math.Round(minutes/60*10) / 10,
		Points:   int64(wholeHours(minutes)) * s.pointsPerHour,
	}
}

func trackedWindow(minutes float64) TrackedWindow {
	return TrackedWindow{
		Minutes:  int(minutes),
		Hours:    wholeHours(minutes),
		Progress: math.Mod(minutes, 60) / 60 * 100,
	}
}

func snapshot(u *model.User) TimeTracking {
	return TimeTracking{
		Day:   math.Floor(u.DayTimeConnected),
		Week:  math.Floor(u.WeekTimeConnected),
		Month: math.Floor(u.MonthTimeConnected),
		Total: math.Floor(u.TotalTimeConnected),
	}
}
