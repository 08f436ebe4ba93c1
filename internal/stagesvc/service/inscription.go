package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/granpix/granpix-services/internal/pix"
	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// InscriptionService registers teams on stages and runs the piloto
// candidature queue.
type InscriptionService struct {
	pool     *pgxpool.Pool
	provider pix.Provider
}

func NewInscriptionService(pool *pgxpool.Pool, provider pix.Provider) *InscriptionService {
	return &InscriptionService{pool: pool, provider: provider}
}

// InscriptionResult reports how the inscription landed. Settlement is set
// when the fee would push the balance under the floor: the inscription is
// refused, a pix charge is posted, and the participation is only written
// once that charge confirms.
type InscriptionResult struct {
	Participation *models.Participation
	Settlement    *models.PixTransaction
}

// InscribeTeam registers the team's active car on a scheduled stage and
// charges the serie's fee against the pix balance. A team too deep in debt
// is turned away with a settlement charge to pay externally; the returned
// error carries the amount owed.
func (s *InscriptionService) InscribeTeam(ctx context.Context, stageID, teamID, participationType string) (*InscriptionResult, error) {
	var res *InscriptionResult
	var regErr error
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		res, err = inscribeTeamTx(ctx, newStores(tx), stageID, teamID, participationType)
		if _, ok := apperr.RequiresRegularisation(err); ok {
			// the settlement row must survive the rollback-on-error rule
			regErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.Settlement != nil {
		s.attachCharge(ctx, res.Settlement, "inscricao etapa")
	}
	if regErr != nil {
		logrus.WithFields(logrus.Fields{
			"stage_id": stageID,
			"team_id":  teamID,
		}).Warn("inscription blocked pending regularisation")
		return res, regErr
	}
	logrus.WithFields(logrus.Fields{
		"stage_id": stageID,
		"team_id":  teamID,
	}).Info("team inscribed")
	return res, nil
}

func inscribeTeamTx(ctx context.Context, st *stores, stageID, teamID, participationType string) (*InscriptionResult, error) {
	switch participationType {
	case models.ParticipationOwnerDrives, models.ParticipationHasPiloto, models.ParticipationNeedsPiloto:
	default:
		return nil, fmt.Errorf("unsupported participation type %q", participationType)
	}
	stage, err := st.stages.GetForUpdate(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if stage.Status != models.StageScheduled {
		return nil, apperr.ErrStageNotInPhase
	}
	team, err := st.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.Serie != stage.Serie {
		return nil, apperr.ErrForbidden
	}
	car, err := st.cars.GetActiveByTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("no active car: %w", apperr.ErrForbidden)
		}
		return nil, err
	}
	ready, err := mandatorySlotsFilled(ctx, st, car.ID)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, fmt.Errorf("car %s missing mandatory parts: %w", car.ID, apperr.ErrForbidden)
	}

	fee, err := chargeStageFeeTx(ctx, st, teamID, stage.Serie)
	if reg, ok := apperr.RequiresRegularisation(err); ok {
		payload, merr := json.Marshal(map[string]string{"tipo": participationType})
		if merr != nil {
			return nil, merr
		}
		settlement := &models.PixTransaction{
			TeamID:     teamID,
			Kind:       models.PixKindInscription,
			ItemID:     stageID,
			ItemAmount: reg.Settlement,
			FeeAmount:  fee,
			Payload:    payload,
		}
		settlement.CarID.String, settlement.CarID.Valid = car.ID, true
		if err := st.pixTx.Create(ctx, settlement); err != nil {
			return nil, err
		}
		return &InscriptionResult{Settlement: settlement}, reg
	}
	if err != nil {
		return nil, err
	}

	participation := &models.Participation{
		StageID: stageID,
		TeamID:  teamID,
		CarID:   car.ID,
		Type:    participationType,
	}
	if err := st.participations.Create(ctx, participation); err != nil {
		return nil, err
	}
	return &InscriptionResult{Participation: participation}, nil
}

// attachCharge creates the provider charge for a stored transaction. The
// transaction survives a provider outage; the poller retries status checks
// but creation failures leave it payable via manual confirmation.
func (s *InscriptionService) attachCharge(ctx context.Context, tx *models.PixTransaction, description string) {
	if s.provider == nil {
		return
	}
	charge, err := s.provider.CreateCharge(ctx, tx.ID, tx.ItemAmount, description)
	if err != nil {
		logrus.WithError(err).WithField("pix_id", tx.ID).Error("provider charge creation failed")
		return
	}
	pixStore := store.NewPixStore(s.pool)
	if err := pixStore.AttachProvider(ctx, tx.ID, charge.ProviderID, charge.QRCode, charge.QRCodeURL); err != nil {
		logrus.WithError(err).WithField("pix_id", tx.ID).Error("attach provider id failed")
	}
}

// Candidate files a piloto's application to drive for a team. Owner-driven
// inscriptions take no candidatures; a team with a contracted seat only
// accepts its linked pilotos; an open seat takes anyone.
func (s *InscriptionService) Candidate(ctx context.Context, stageID, teamID, pilotoID string) (*models.PilotoCandidate, error) {
	var cand *models.PilotoCandidate
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		cand, err = candidateTx(ctx, newStores(tx), stageID, teamID, pilotoID)
		return err
	})
	return cand, err
}

func candidateTx(ctx context.Context, st *stores, stageID, teamID, pilotoID string) (*models.PilotoCandidate, error) {
	part, err := st.participations.GetByStageAndTeam(ctx, stageID, teamID)
	if err != nil {
		return nil, err
	}
	switch part.Type {
	case models.ParticipationOwnerDrives:
		return nil, apperr.ErrForbidden
	case models.ParticipationHasPiloto:
		linked, err := st.pilotos.HasActiveLink(ctx, pilotoID, teamID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, apperr.ErrForbidden
		}
	}
	return st.pilotos.CreateCandidate(ctx, stageID, teamID, pilotoID)
}

// AllocateNextCandidate designates the oldest pending candidature and puts
// the piloto on the participation.
func (s *InscriptionService) AllocateNextCandidate(ctx context.Context, stageID, teamID string) (*models.PilotoCandidate, error) {
	var cand *models.PilotoCandidate
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		cand, err = allocateNextTx(ctx, newStores(tx), stageID, teamID)
		return err
	})
	return cand, err
}

func allocateNextTx(ctx context.Context, st *stores, stageID, teamID string) (*models.PilotoCandidate, error) {
	part, err := st.participations.GetByStageAndTeam(ctx, stageID, teamID)
	if err != nil {
		return nil, err
	}
	cand, err := st.pilotos.OldestPending(ctx, stageID, teamID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrNoCandidates
	}
	if err != nil {
		return nil, err
	}
	if err := st.pilotos.SetCandidateStatus(ctx, cand.ID, models.CandidateStatusDesignated); err != nil {
		return nil, err
	}
	if err := st.participations.SetPiloto(ctx, part.ID, &cand.PilotoID); err != nil {
		return nil, err
	}
	cand.Status = models.CandidateStatusDesignated
	return cand, nil
}

// ConfirmDesignation locks the designated piloto in.
func (s *InscriptionService) ConfirmDesignation(ctx context.Context, candidateID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		cand, err := st.pilotos.GetCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if cand.Status != models.CandidateStatusDesignated {
			return apperr.ErrStageNotInPhase
		}
		return st.pilotos.SetCandidateStatus(ctx, candidateID, models.CandidateStatusConfirmed)
	})
}

// Withdraw cancels a candidature. A designated or confirmed piloto leaving
// frees the seat and the next pending candidate is promoted automatically.
func (s *InscriptionService) Withdraw(ctx context.Context, candidateID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		cand, err := st.pilotos.GetCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if cand.Status == models.CandidateStatusCancelled {
			return nil
		}
		wasSeated := cand.Status == models.CandidateStatusDesignated ||
			cand.Status == models.CandidateStatusConfirmed
		if err := st.pilotos.SetCandidateStatus(ctx, candidateID, models.CandidateStatusCancelled); err != nil {
			return err
		}
		if !wasSeated {
			return nil
		}
		part, err := st.participations.GetByStageAndTeam(ctx, cand.StageID, cand.TeamID)
		if err != nil {
			return err
		}
		if err := st.participations.SetPiloto(ctx, part.ID, nil); err != nil {
			return err
		}
		_, err = allocateNextTx(ctx, st, cand.StageID, cand.TeamID)
		if errors.Is(err, apperr.ErrNoCandidates) {
			logrus.WithFields(logrus.Fields{
				"stage_id": cand.StageID,
				"team_id":  cand.TeamID,
			}).Info("piloto withdrew, no replacement available")
			return nil
		}
		return err
	})
}

// RegisterPiloto creates a piloto account with a bcrypt password hash.
func (s *InscriptionService) RegisterPiloto(ctx context.Context, name, password string) (*models.Piloto, error) {
	if name == "" || password == "" {
		return nil, fmt.Errorf("name and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return store.NewPilotoStore(s.pool).Create(ctx, name, string(hash))
}

// LinkedPilotos lists the pilotos holding an active link to the team.
func (s *InscriptionService) LinkedPilotos(ctx context.Context, teamID string) ([]models.Piloto, error) {
	return store.NewPilotoStore(s.pool).ListLinkedPilotos(ctx, teamID)
}

// RevokeLink cuts a piloto loose from the team.
func (s *InscriptionService) RevokeLink(ctx context.Context, pilotoID, teamID string) error {
	return store.NewPilotoStore(s.pool).RevokeLink(ctx, pilotoID, teamID)
}

// Candidates lists a team's candidatures on a stage, oldest first.
func (s *InscriptionService) Candidates(ctx context.Context, stageID, teamID string) ([]models.PilotoCandidate, error) {
	return store.NewPilotoStore(s.pool).ListCandidates(ctx, stageID, teamID)
}

// DesignatedFor returns the candidature currently seated on the team's
// participation, designated or confirmed.
func (s *InscriptionService) DesignatedFor(ctx context.Context, stageID, teamID string) (*models.PilotoCandidate, error) {
	return store.NewPilotoStore(s.pool).DesignatedCandidate(ctx, stageID, teamID)
}

// GenerateInviteCode mints a fresh invite code for the team.
func (s *InscriptionService) GenerateInviteCode(ctx context.Context, teamID string) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	code := hex.EncodeToString(buf)
	teams := store.NewTeamStore(s.pool)
	if err := teams.SetInviteCode(ctx, teamID, code); err != nil {
		return "", err
	}
	return code, nil
}

// RedeemInvite links a piloto to the team owning the code.
func (s *InscriptionService) RedeemInvite(ctx context.Context, pilotoID, code string) (*models.Team, error) {
	var team *models.Team
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		var err error
		team, err = st.teams.GetByInviteCode(ctx, code)
		if err != nil {
			return err
		}
		return st.pilotos.CreateLink(ctx, pilotoID, team.ID, code)
	})
	return team, err
}
