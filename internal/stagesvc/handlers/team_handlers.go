package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type createTeamRequest struct {
	Name  string `json:"name"`
	Serie string `json:"serie"`
}

func (h *Handler) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Serie != "A" && req.Serie != "B" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "serie must be A or B"})
		return
	}
	team, err := h.services.Teams.Create(r.Context(), req.Name, req.Serie)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "team created", Code: http.StatusCreated, Data: team})
}

func (h *Handler) GetTeamHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	team, err := h.services.Teams.Get(r.Context(), teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: team})
}

func (h *Handler) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	serie := r.URL.Query().Get("serie")
	if serie != "A" && serie != "B" {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "serie must be A or B"})
		return
	}
	teams, err := h.services.Teams.ListBySerie(r.Context(), serie)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: teams})
}

func (h *Handler) ListTeamCarsHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	cars, err := h.services.Garage.ListCars(r.Context(), teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: cars})
}

func (h *Handler) ListWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	parts, err := h.services.Garage.ListWarehouse(r.Context(), teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: parts})
}

type adjustBalanceRequest struct {
	Currency string `json:"currency"` // "doricoins" or "saldo_pix"
	Amount   string `json:"amount"`   // signed; negative debits
	Reason   string `json:"reason"`
}

// AdjustBalanceHandler is the operator's refund and balance-correction tool.
func (h *Handler) AdjustBalanceHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	var req adjustBalanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsZero() {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid amount"})
		return
	}
	switch req.Currency {
	case "doricoins":
		if amount.IsNegative() {
			err = h.services.Wallet.DebitDoricoins(r.Context(), teamID, amount.Neg())
		} else {
			err = h.services.Wallet.CreditDoricoins(r.Context(), teamID, amount)
		}
	case "saldo_pix":
		err = h.services.Wallet.AdjustSaldoPix(r.Context(), teamID, amount)
	default:
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "currency must be doricoins or saldo_pix"})
		return
	}
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "balance adjusted", Code: http.StatusOK})
}

type registerPilotoRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) RegisterPilotoHandler(w http.ResponseWriter, r *http.Request) {
	var req registerPilotoRequest
	if !h.decode(w, r, &req) {
		return
	}
	piloto, err := h.services.Inscription.RegisterPiloto(r.Context(), req.Name, req.Password)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "piloto registered", Code: http.StatusCreated, Data: piloto})
}

func (h *Handler) ListTeamPilotosHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	pilotos, err := h.services.Inscription.LinkedPilotos(r.Context(), teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: pilotos})
}

func (h *Handler) RevokePilotoLinkHandler(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	pilotoID := chi.URLParam(r, "pilotoID")
	if err := h.services.Inscription.RevokeLink(r.Context(), pilotoID, teamID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "link revoked", Code: http.StatusOK})
}

func (h *Handler) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	teamID := r.URL.Query().Get("team_id")
	cands, err := h.services.Inscription.Candidates(r.Context(), stageID, teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: cands})
}

func (h *Handler) DesignatedCandidateHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	teamID := r.URL.Query().Get("team_id")
	cand, err := h.services.Inscription.DesignatedFor(r.Context(), stageID, teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: cand})
}
