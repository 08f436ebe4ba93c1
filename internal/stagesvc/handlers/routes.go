package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		r.Get("/health", h.HealthHandler)
		r.Get("/championships/{championshipID}/standings", h.StandingsHandler)
		r.Get("/championships/{championshipID}/stages", h.ListStagesHandler)
		r.Get("/championships/{championshipID}/teams/{teamID}/points", h.TeamPointsHandler)
		r.Get("/stages/{stageID}", h.GetStageHandler)
		r.Get("/stages/{stageID}/bracket", h.BracketHandler)
		r.Get("/stages/{stageID}/candidates", h.ListCandidatesHandler)
		r.Get("/stages/{stageID}/designated", h.DesignatedCandidateHandler)
		r.Get("/teams", h.ListTeamsHandler)
		r.Get("/teams/{teamID}", h.GetTeamHandler)
		r.Get("/teams/{teamID}/cars", h.ListTeamCarsHandler)
		r.Get("/teams/{teamID}/warehouse", h.ListWarehouseHandler)
		r.Get("/teams/{teamID}/pilotos", h.ListTeamPilotosHandler)
		r.Get("/cars/{carID}/ready", h.CarReadyHandler)
		r.Get("/catalog/models", h.ListModelsHandler)
		r.Get("/catalog/parts", h.ListPartBlueprintsHandler)

		r.Post("/pilotos", h.RegisterPilotoHandler)

		// team routes
		r.Post("/garage/cars", h.PurchaseCarHandler)
		r.Post("/garage/parts", h.PurchasePartHandler)
		r.Post("/garage/upgrades", h.PurchaseUpgradeHandler)
		r.Post("/garage/install", h.InstallPartHandler)
		r.Post("/garage/install-upgrade", h.InstallUpgradeHandler)
		r.Post("/garage/remove", h.RemovePartHandler)
		r.Post("/garage/refit", h.RefitPartHandler)

		r.Post("/stages/{stageID}/inscriptions", h.InscribeHandler)
		r.Post("/stages/{stageID}/candidates", h.CandidateHandler)
		r.Post("/candidates/{candidateID}/withdraw", h.WithdrawCandidateHandler)

		r.Post("/pix/parts", h.PixPartHandler)
		r.Post("/pix/upgrades", h.PixUpgradeHandler)
		r.Post("/pix/activations", h.PixActivationHandler)
		r.Post("/pix/topups", h.PixTopupHandler)

		r.Post("/invites/redeem", h.RedeemInviteHandler)

		// operator routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Post("/teams", h.CreateTeamHandler)
			r.Post("/teams/{teamID}/wallet/adjust", h.AdjustBalanceHandler)
			r.Post("/teams/{teamID}/pilotos/{pilotoID}/revoke", h.RevokePilotoLinkHandler)

			r.Post("/catalog/models", h.CreateModelHandler)
			r.Post("/catalog/variants", h.CreateVariantHandler)
			r.Post("/catalog/parts", h.CreatePartBlueprintHandler)
			r.Post("/catalog/upgrades", h.CreateUpgradeBlueprintHandler)

			r.Post("/championships", h.CreateChampionshipHandler)
			r.Post("/stages", h.CreateStageHandler)
			r.Post("/stages/{stageID}/start", h.StartStageHandler)
			r.Post("/stages/{stageID}/allocate", h.AllocateCandidateHandler)
			r.Post("/candidates/{candidateID}/confirm", h.ConfirmDesignationHandler)
			r.Post("/stages/{stageID}/notes", h.RecordNoteHandler)
			r.Post("/stages/{stageID}/qualification/finalise", h.FinaliseQualificationHandler)
			r.Post("/stages/{stageID}/bracket", h.GenerateBracketHandler)
			r.Post("/matches/{matchID}/report", h.ReportMatchHandler)
			r.Post("/matches/{matchID}/damage", h.MatchDamageHandler)
			r.Post("/stages/{stageID}/finalise", h.FinaliseStageHandler)

			r.Get("/pix/{ref}", h.GetPixHandler)
			r.Post("/pix/{ref}/confirm", h.ConfirmPixHandler)
			r.Post("/pix/{ref}/cancel", h.CancelPixHandler)
			r.Get("/activations", h.ListActivationsHandler)
			r.Post("/activations/{requestID}/approve", h.ApproveActivationHandler)
			r.Post("/activations/{requestID}/reject", h.RejectActivationHandler)
			r.Post("/invites", h.GenerateInviteHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": 8003022,
		"exp":        expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}
