package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

type createChampionshipRequest struct {
	Name          string `json:"name"`
	Serie         string `json:"serie"`
	PlannedStages int    `json:"planned_stages"`
}

func (h *Handler) CreateChampionshipHandler(w http.ResponseWriter, r *http.Request) {
	var req createChampionshipRequest
	if !h.decode(w, r, &req) {
		return
	}
	champ, err := h.services.Championship.Create(r.Context(), req.Name, req.Serie, req.PlannedStages)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "championship created", Code: http.StatusCreated, Data: champ})
}

func (h *Handler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	championshipID := chi.URLParam(r, "championshipID")
	rows, err := h.services.Championship.Standings(r.Context(), championshipID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: rows})
}

func (h *Handler) TeamPointsHandler(w http.ResponseWriter, r *http.Request) {
	championshipID := chi.URLParam(r, "championshipID")
	teamID := chi.URLParam(r, "teamID")
	points, err := h.services.Championship.TeamPoints(r.Context(), championshipID, teamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: map[string]int{"points": points}})
}

func (h *Handler) ListStagesHandler(w http.ResponseWriter, r *http.Request) {
	championshipID := chi.URLParam(r, "championshipID")
	stages, err := h.services.Stage.ListByChampionship(r.Context(), championshipID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: stages})
}

func (h *Handler) GetStageHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	stage, err := h.services.Stage.Get(r.Context(), stageID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: stage})
}

func (h *Handler) BracketHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	matches, err := h.services.Stage.Bracket(r.Context(), stageID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: matches})
}

type createStageRequest struct {
	ChampionshipID string    `json:"championship_id"`
	Ordinal        int       `json:"ordinal"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
}

func (h *Handler) CreateStageHandler(w http.ResponseWriter, r *http.Request) {
	var req createStageRequest
	if !h.decode(w, r, &req) {
		return
	}
	stage, err := h.services.Stage.Create(r.Context(), req.ChampionshipID, req.Ordinal, req.Name, req.Date)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "stage created", Code: http.StatusCreated, Data: stage})
}

func (h *Handler) StartStageHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	if err := h.services.Stage.Start(r.Context(), stageID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "stage started", Code: http.StatusOK})
}

type inscribeRequest struct {
	TeamID string `json:"team_id"`
	Type   string `json:"type"`
}

func (h *Handler) InscribeHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	var req inscribeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = models.ParticipationOwnerDrives
	}
	res, err := h.services.Inscription.InscribeTeam(r.Context(), stageID, req.TeamID, req.Type)
	if err != nil {
		if _, ok := apperr.RequiresRegularisation(err); ok && res != nil {
			h.CreateResponse(w, Response{
				Message: "balance regularisation required",
				Code:    http.StatusPaymentRequired,
				Data:    res,
			})
			return
		}
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "team inscribed", Code: http.StatusCreated, Data: res})
}

type candidateRequest struct {
	TeamID   string `json:"team_id"`
	PilotoID string `json:"piloto_id"`
}

func (h *Handler) CandidateHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	var req candidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	cand, err := h.services.Inscription.Candidate(r.Context(), stageID, req.TeamID, req.PilotoID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "candidature filed", Code: http.StatusCreated, Data: cand})
}

func (h *Handler) AllocateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	var req candidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	cand, err := h.services.Inscription.AllocateNextCandidate(r.Context(), stageID, req.TeamID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "candidate designated", Code: http.StatusOK, Data: cand})
}

func (h *Handler) ConfirmDesignationHandler(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")
	if err := h.services.Inscription.ConfirmDesignation(r.Context(), candidateID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "designation confirmed", Code: http.StatusOK})
}

func (h *Handler) WithdrawCandidateHandler(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "candidateID")
	if err := h.services.Inscription.Withdraw(r.Context(), candidateID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "candidature withdrawn", Code: http.StatusOK})
}

type qualificationNoteRequest struct {
	TeamID string `json:"team_id"`
	Line   int    `json:"line"`
	Angle  int    `json:"angle"`
	Style  int    `json:"style"`
}

func (h *Handler) RecordNoteHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	var req qualificationNoteRequest
	if !h.decode(w, r, &req) {
		return
	}
	note := &models.QualificationNote{
		StageID: stageID,
		TeamID:  req.TeamID,
		Line:    req.Line,
		Angle:   req.Angle,
		Style:   req.Style,
	}
	if err := h.services.Stage.RecordQualificationNote(r.Context(), note); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "note recorded", Code: http.StatusOK, Data: note})
}

func (h *Handler) FinaliseQualificationHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	ordered, err := h.services.Stage.FinaliseQualification(r.Context(), stageID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "qualification finalised", Code: http.StatusOK, Data: ordered})
}

func (h *Handler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	round, err := h.services.Stage.GenerateBracket(r.Context(), stageID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "bracket generated", Code: http.StatusCreated, Data: round})
}

type reportMatchRequest struct {
	WinnerID string `json:"winner_id"`
}

func (h *Handler) ReportMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	var req reportMatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.services.Stage.ReportMatch(r.Context(), matchID, req.WinnerID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "match reported", Code: http.StatusOK})
}

func (h *Handler) MatchDamageHandler(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	result, err := h.services.Stage.ApplyMatchDamage(r.Context(), matchID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "damage applied", Code: http.StatusOK, Data: result})
}

func (h *Handler) FinaliseStageHandler(w http.ResponseWriter, r *http.Request) {
	stageID := chi.URLParam(r, "stageID")
	if err := h.services.Stage.Finalise(r.Context(), stageID); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "stage finalised", Code: http.StatusOK})
}
