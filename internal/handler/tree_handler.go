package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/unitree-app/unitree-server/internal/model"
	"github.com/unitree-app/unitree-server/internal/service"
)

type TreeHandler struct {
	svc service.TreeService
}

func NewTreeHandler(svc service.TreeService) *TreeHandler {
	return &TreeHandler{svc: svc}
}

type MilestoneResponse struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	Stage       *int     `json:"stage,omitempty"`
	Hours       *float64 `json:"hours,omitempty"`
	Date        string   `json:"date"`
}

type TreeResponse struct {
	ID                   uint64              `json:"id"`
	TreeTypeID           string              `json:"treeTypeId"`
	Species              string              `json:"species"`
	Name                 string              `json:"name"`
	PlantedDate          string              `json:"plantedDate"`
	LastWatered          string              `json:"lastWatered"`
	CurrentStage         int                 `json:"currentStage"`
	WifiHoursAccumulated float64             `json:"wifiHoursAccumulated"`
	TotalHoursRequired   float64             `json:"totalHoursRequired"`
	HealthScore          int                 `json:"healthScore"`
	Milestones           []MilestoneResponse `json:"milestones,omitempty"`
}

func toTreeResponse(t *model.Tree) TreeResponse {
	resp := TreeResponse{
		ID:                   t.ID,
		TreeTypeID:           t.TreeTypeID,
		Species:              t.Species,
		Name:                 t.Name,
		PlantedDate:          t.PlantedDate.Format(time.RFC3339),
		LastWatered:          t.LastWatered.Format(time.RFC3339),
		CurrentStage:         t.CurrentStage,
		WifiHoursAccumulated: t.WifiHoursAccumulated,
		TotalHoursRequired:   t.TotalHoursRequired,
		HealthScore:          t.HealthScore,
	}
	for _, m := range t.Milestones {
		resp.Milestones = append(resp.Milestones, MilestoneResponse{
			Kind:        string(m.Kind),
			Description: m.Description,
			Stage:       m.Stage,
			Hours:       m.Hours,
			Date:        m.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func (h *TreeHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	trees, err := h.svc.List(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	resp := make([]TreeResponse, 0, len(trees))
	for i := range trees {
		resp = append(resp, toTreeResponse(&trees[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *TreeHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid tree id"))
	}
	tree, err := h.svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tree not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, toTreeResponse(tree))
}

type redeemRequest struct {
	SpeciesID string `json:"speciesId"`
}

func (h *TreeHandler) Redeem(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.SpeciesID == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "species ID is required"))
	}
	res, err := h.svc.Redeem(c.Request().Context(), uid, req.SpeciesID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_species", "invalid tree species"))
		case errors.Is(err, service.ErrInsufficientPoints):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("insufficient_points", "insufficient points"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Tree redeemed successfully",
		"tree":    toTreeResponse(res.Tree),
		"transaction": map[string]interface{}{
			"txnUid": res.Transaction.TxnUID,
			"amount": res.Transaction.Amount,
			"type":   string(res.Transaction.Type),
		},
		"remainingPoints": res.RemainingPoints,
	})
}

type addWifiHoursRequest struct {
	Hours float64 `json:"hours"`
}

func (h *TreeHandler) AddWifiHours(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req addWifiHoursRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Hours <= 0 {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "valid hours amount is required"))
	}
	results, err := h.svc.AddWifiHours(c.Request().Context(), uid, req.Hours)
	if err != nil {
		if errors.Is(err, service.ErrNoTrees) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no trees found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	trees := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		trees = append(trees, map[string]interface{}{
			"treeId":       r.TreeID,
			"name":         r.Name,
			"species":      r.Species,
			"hoursAdded":   r.HoursAdded,
			"totalHours":   r.TotalHours,
			"currentStage": r.CurrentStage,
			"stageChanged": r.StageChanged,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Added %g WiFi hours to %d tree(s)", req.Hours, len(trees)),
		"trees":   trees,
	})
}

func (h *TreeHandler) Water(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid tree id"))
	}
	tree, err := h.svc.Water(c.Request().Context(), uid, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tree not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, toTreeResponse(tree))
}

func (h *TreeHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid tree id"))
	}
	if err := h.svc.Delete(c.Request().Context(), uid, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "tree not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Tree deleted successfully"})
}

func (h *TreeHandler) Types(c echo.Context) error {
	types, err := h.svc.Types(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}
	resp := make([]map[string]interface{}, 0, len(types))
	for _, tt := range types {
		stages := make([]map[string]interface{}, 0, len(tt.Stages))
		for _, st := range tt.Stages {
			stages = append(stages, map[string]interface{}{
				"name":          st.Name,
				"hoursRequired": st.HoursRequired,
				"imageUrl":      st.ImageURL,
				"description":   st.Description,
			})
		}
		resp = append(resp, map[string]interface{}{
			"id":             tt.ID,
			"name":           tt.Name,
			"scientificName": tt.ScientificName,
			"description":    tt.Description,
			"careLevel":      tt.CareLevel,
			"maxHeight":      tt.MaxHeight,
			"lifespan":       tt.Lifespan,
			"nativeTo":       tt.NativeTo,
			"cost":           tt.Cost,
			"stages":         stages,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
