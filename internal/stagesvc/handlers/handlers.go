package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/service"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

type Handler struct {
	services  *service.Services
	tokenAuth *jwtauth.JWTAuth
}

func NewHandler(services *service.Services) *Handler {
	return &Handler{services: services}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

// respondErr maps service errors onto HTTP status codes. A settlement
// demand is not a failure: it returns 402 with the amount to pay.
func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	if reg, ok := apperr.RequiresRegularisation(err); ok {
		h.CreateResponse(w, Response{
			Message: "balance regularisation required",
			Code:    http.StatusPaymentRequired,
			Data:    map[string]string{"settlement": reg.Settlement.StringFixed(2)},
		})
		return
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, apperr.ErrInsufficientFunds),
		errors.Is(err, apperr.ErrFloorBreached):
		code = http.StatusPaymentRequired
	case errors.Is(err, apperr.ErrIncompatiblePart),
		errors.Is(err, apperr.ErrSlotLimitReached),
		errors.Is(err, apperr.ErrNotInWarehouse),
		errors.Is(err, apperr.ErrNotRefittable),
		errors.Is(err, apperr.ErrStageNotInPhase),
		errors.Is(err, apperr.ErrNoCandidates):
		code = http.StatusConflict
	case errors.Is(err, apperr.ErrAlreadyCandidated),
		errors.Is(err, store.ErrDuplicateParticipation):
		code = http.StatusConflict
	case errors.Is(err, apperr.ErrExternalFailure):
		code = http.StatusBadGateway
	}
	if code == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
	}
	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "stage service is running at port " + os.Getenv("SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	json.NewEncoder(w).Encode(rsp)
}
