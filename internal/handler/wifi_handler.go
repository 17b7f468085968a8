package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/service"
)

type WifiHandler struct {
	svc service.WifiService
}

func NewWifiHandler(svc service.WifiService) *WifiHandler {
	return &WifiHandler{svc: svc}
}

type SessionResponse struct {
	ID            uint64  `json:"id"`
	SSID          string  `json:"ssid"`
	BSSID         string  `json:"bssid"`
	StartTime     string  `json:"startTime"`
	EndTime       *string `json:"endTime"`
	PointsAwarded int64   `json:"pointsAwarded"`
}

func toSessionResponse(s *model.WifiSession) SessionResponse {
	var endTime *string
	if s.EndTime != nil {
		val := s.EndTime.Format(time.RFC3339)
		endTime = &val
	}
	return SessionResponse{
		ID:            s.ID,
		SSID:          s.SSID,
		BSSID:         s.BSSID,
		StartTime:     s.StartTime.Format(time.RFC3339),
		EndTime:       endTime,
		PointsAwarded: s.PointsAwarded,
	}
}

type timeTrackingResponse struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Total float64 `json:"total"`
}

func toTimeTrackingResponse(t service.TimeTracking) timeTrackingResponse {
	return timeTrackingResponse{Day: t.Day, Week: t.Week, Month: t.Month, Total: t.Total}
}

type startSessionRequest struct {
	SSID  string `json:"ssid"`
	BSSID string `json:"bssid"`
}

func (h *WifiHandler) Start(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req startSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	session, err := h.svc.Start(c.Request().Context(), uid, req.SSID, req.BSSID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNetwork):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_network", "invalid university WiFi network (BSSID prefix mismatch)"))
		case errors.Is(err, service.ErrActiveSessionExists):
			return c.JSON(http.StatusConflict, NewErrorResponse("session_active", "active session already exists"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *WifiHandler) End(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	res, err := h.svc.End(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("no_active_session", "no active session found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":                toSessionResponse(res.Session),
		"pointsAwarded":          res.PointsAwarded,
		"newHoursAwarded":        res.NewHoursAwarded,
		"sessionDurationMinutes": res.SessionDurationMinutes,
		"totalTimeConnected":     int(res.TotalTimeConnected),
		"totalHoursCompleted":    res.TotalHoursCompleted,
		"timeTracking":           toTimeTrackingResponse(res.TimeTracking),
	})
}

func (h *WifiHandler) Active(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	info, err := h.svc.Active(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	if info == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":                   toSessionResponse(info.Session),
		"currentDurationMinutes":    info.CurrentDurationMinutes,
		"currentTotalTimeMinutes":   info.CurrentTotalTimeMinutes,
		"currentTotalHours":         info.CurrentTotalHours,
		"potentialTotalTimeMinutes": info.PotentialTotalTimeMinutes,
		"potentialTotalHours":       info.PotentialTotalHours,
		"potentialNewHours":         info.PotentialNewHours,
		"potentialPoints":           info.PotentialPoints,
		"minutesToNextReward":       info.MinutesToNextReward,
		"progressToNextReward":      info.ProgressToNextReward,
		"timeTracking":              toTimeTrackingResponse(info.TimeTracking),
	})
}

func (h *WifiHandler) Stats(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	stats, err := h.svc.Stats(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	toJSON := func(w service.WindowStat) map[string]interface{} {
		return map[string]interface{}{"duration": w.Duration, "points": w.Points}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"today": toJSON(stats.Today),
		"week":  toJSON(stats.Week),
		"month": toJSON(stats.Month),
		"total": toJSON(stats.Total),
	})
}

func (h *WifiHandler) TimeTracking(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	stats, err := h.svc.TimeTracking(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	toJSON := func(w service.TrackedWindow) map[string]interface{} {
		return map[string]interface{}{"minutes": w.Minutes, "hours": w.Hours, "progress": w.Progress}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"timeTracking": map[string]interface{}{
			"day":   toJSON(stats.Day),
			"week":  toJSON(stats.Week),
			"month": toJSON(stats.Month),
			"total": toJSON(stats.Total),
		},
		"pointsFromTotalTime": stats.PointsFromTotalTime,
		"nextHourReward":      stats.NextHourReward,
		"minutesToNextReward": stats.MinutesToNextReward,
	})
}

func (h *WifiHandler) History(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	sessions, err := h.svc.History(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	resp := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, toSessionResponse(&sessions[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
