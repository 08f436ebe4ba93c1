package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

type purchaseCarRequest struct {
	TeamID    string `json:"team_id"`
	VariantID string `json:"variant_id"`
	Nickname  string `json:"nickname"`
}

func (h *Handler) PurchaseCarHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseCarRequest
	if !h.decode(w, r, &req) {
		return
	}
	car, err := h.services.Garage.PurchaseCar(r.Context(), req.TeamID, req.VariantID, req.Nickname)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "car purchased", Code: http.StatusCreated, Data: car})
}

type purchasePartRequest struct {
	TeamID    string `json:"team_id"`
	CatalogID string `json:"catalog_id"`
}

func (h *Handler) PurchasePartHandler(w http.ResponseWriter, r *http.Request) {
	var req purchasePartRequest
	if !h.decode(w, r, &req) {
		return
	}
	part, err := h.services.Garage.PurchasePart(r.Context(), req.TeamID, req.CatalogID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "part purchased", Code: http.StatusCreated, Data: part})
}

type purchaseUpgradeRequest struct {
	TeamID    string `json:"team_id"`
	UpgradeID string `json:"upgrade_id"`
}

func (h *Handler) PurchaseUpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseUpgradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	part, err := h.services.Garage.PurchaseUpgrade(r.Context(), req.TeamID, req.UpgradeID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "upgrade purchased", Code: http.StatusCreated, Data: part})
}

type installPartRequest struct {
	TeamID string `json:"team_id"`
	CarID  string `json:"car_id"`
	PartID string `json:"part_id"`
}

func (h *Handler) InstallPartHandler(w http.ResponseWriter, r *http.Request) {
	var req installPartRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.services.Garage.InstallPart(r.Context(), req.TeamID, req.CarID, req.PartID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "part installed", Code: http.StatusOK})
}

type installUpgradeRequest struct {
	TeamID        string `json:"team_id"`
	UpgradePartID string `json:"upgrade_part_id"`
	BasePartID    string `json:"base_part_id"`
}

func (h *Handler) InstallUpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var req installUpgradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.services.Garage.InstallUpgrade(r.Context(), req.TeamID, req.UpgradePartID, req.BasePartID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "upgrade installed", Code: http.StatusOK})
}

type removePartRequest struct {
	TeamID string `json:"team_id"`
	PartID string `json:"part_id"`
}

func (h *Handler) RemovePartHandler(w http.ResponseWriter, r *http.Request) {
	var req removePartRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.services.Garage.RemovePart(r.Context(), req.TeamID, req.PartID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "part removed", Code: http.StatusOK})
}

func (h *Handler) RefitPartHandler(w http.ResponseWriter, r *http.Request) {
	var req removePartRequest
	if !h.decode(w, r, &req) {
		return
	}
	cost, err := h.services.Garage.RefitPart(r.Context(), req.TeamID, req.PartID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{
		Message: "part refitted",
		Code:    http.StatusOK,
		Data:    map[string]string{"cost": cost.StringFixed(2)},
	})
}

func (h *Handler) CarReadyHandler(w http.ResponseWriter, r *http.Request) {
	carID := chi.URLParam(r, "carID")
	ready, err := h.services.Garage.MandatorySlotsFilled(r.Context(), carID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: map[string]bool{"ready": ready}})
}
