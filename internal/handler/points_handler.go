package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unitree-app/unitree-server/internal/service"
)

type PointsHandler struct {
	svc service.PointsService
}

func NewPointsHandler(svc service.PointsService) *PointsHandler {
	return &PointsHandler{svc: svc}
}

func (h *PointsHandler) Balance(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	points, treesPlanted, err := h.svc.Balance(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"points":       points,
		"treesPlanted": treesPlanted,
	})
}

func (h *PointsHandler) History(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	txns, err := h.svc.History(c.Request().Context(), uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	resp := make([]map[string]interface{}, 0, len(txns))
	for _, t := range txns {
		entry := map[string]interface{}{
			"txnUid":      t.TxnUID,
			"amount":      t.Amount,
			"type":        string(t.Type),
			"description": t.Description,
			"createdAt":   t.CreatedAt.Format(time.RFC3339),
		}
		if t.SessionID != nil {
			entry["sessionId"] = *t.SessionID
		}
		if t.TreeID != nil {
			entry["treeId"] = *t.TreeID
		}
		if t.HoursAwarded != nil {
			entry["hoursAwarded"] = *t.HoursAwarded
		}
		resp = append(resp, entry)
	}
	return c.JSON(http.StatusOK, resp)
}
