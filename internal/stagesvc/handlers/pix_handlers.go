package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type pixPartRequest struct {
	TeamID    string `json:"team_id"`
	CatalogID string `json:"catalog_id"`
}

func (h *Handler) PixPartHandler(w http.ResponseWriter, r *http.Request) {
	var req pixPartRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.services.Pix.CreatePartIntent(r.Context(), req.TeamID, req.CatalogID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "pix charge created", Code: http.StatusCreated, Data: tx})
}

type pixUpgradeRequest struct {
	TeamID    string `json:"team_id"`
	UpgradeID string `json:"upgrade_id"`
}

func (h *Handler) PixUpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var req pixUpgradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.services.Pix.CreateUpgradeIntent(r.Context(), req.TeamID, req.UpgradeID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "pix charge created", Code: http.StatusCreated, Data: tx})
}

type pixActivationRequest struct {
	TeamID string `json:"team_id"`
	CarID  string `json:"car_id"`
}

func (h *Handler) PixActivationHandler(w http.ResponseWriter, r *http.Request) {
	var req pixActivationRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := h.services.Pix.CreateActivationIntent(r.Context(), req.TeamID, req.CarID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "activation charge created", Code: http.StatusCreated, Data: tx})
}

type pixTopupRequest struct {
	TeamID string `json:"team_id"`
	Amount string `json:"amount"`
}

func (h *Handler) PixTopupHandler(w http.ResponseWriter, r *http.Request) {
	var req pixTopupRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid amount"})
		return
	}
	tx, err := h.services.Pix.CreateTopupIntent(r.Context(), req.TeamID, amount)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "topup charge created", Code: http.StatusCreated, Data: tx})
}

func (h *Handler) GetPixHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "ref")
	tx, err := h.services.Pix.Transaction(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: tx})
}

func (h *Handler) ListActivationsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.Pix.PendingActivations(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: list})
}

// ConfirmPixHandler is the operator's manual confirmation fallback for when
// the provider webhook never lands.
func (h *Handler) ConfirmPixHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if err := h.services.Pix.Confirm(r.Context(), ref); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "transaction confirmed", Code: http.StatusOK})
}

func (h *Handler) CancelPixHandler(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if err := h.services.Pix.Cancel(r.Context(), ref); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "transaction cancelled", Code: http.StatusOK})
}

func (h *Handler) ApproveActivationHandler(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if err := h.services.Pix.ApproveActivation(r.Context(), requestID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "activation approved", Code: http.StatusOK})
}

func (h *Handler) RejectActivationHandler(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if err := h.services.Pix.RejectActivation(r.Context(), requestID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "activation rejected", Code: http.StatusOK})
}

type inviteRequest struct {
	TeamID   string `json:"team_id"`
	PilotoID string `json:"piloto_id"`
	Code     string `json:"code"`
}

func (h *Handler) GenerateInviteHandler(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !h.decode(w, r, &req) {
		return
	}
	code, err := h.services.Inscription.GenerateInviteCode(r.Context(), req.TeamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "invite code generated", Code: http.StatusCreated, Data: map[string]string{"code": code}})
}

func (h *Handler) RedeemInviteHandler(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if !h.decode(w, r, &req) {
		return
	}
	team, err := h.services.Inscription.RedeemInvite(r.Context(), req.PilotoID, req.Code)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "invite redeemed", Code: http.StatusOK, Data: team})
}
