// Package service implements the stage engine's use cases on top of the
// store layer. Multi-step operations run in a single transaction with the
// team or stage row locked up front.
package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/granpix/granpix-services/internal/comm"
	"github.com/granpix/granpix-services/internal/mirror"
	"github.com/granpix/granpix-services/internal/pix"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// Publisher fans events out to the socket service. The NATS broker
// implements it; tests pass a no-op.
type Publisher interface {
	PublishBracket(ctx context.Context, update *comm.BracketUpdate)
	PublishStandings(ctx context.Context, update *comm.StandingsUpdate)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishBracket(context.Context, *comm.BracketUpdate)     {}
func (NopPublisher) PublishStandings(context.Context, *comm.StandingsUpdate) {}

// Services bundles every use-case service over one pool.
type Services struct {
	Teams        *TeamService
	Wallet       *WalletService
	Garage       *GarageService
	Inscription  *InscriptionService
	Stage        *StageService
	Championship *ChampionshipService
	Pix          *PixService
}

func New(pool *pgxpool.Pool, provider pix.Provider, pub Publisher, mir *mirror.Client) *Services {
	if pub == nil {
		pub = NopPublisher{}
	}
	wallet := NewWalletService(pool)
	champ := NewChampionshipService(pool)
	return &Services{
		Teams:        NewTeamService(pool),
		Wallet:       wallet,
		Garage:       NewGarageService(pool),
		Inscription:  NewInscriptionService(pool, provider),
		Stage:        NewStageService(pool, champ, pub, mir),
		Championship: champ,
		Pix:          NewPixService(pool, provider),
	}
}

// The per-aggregate store interfaces below carry exactly the methods the
// transaction bodies call. The pgx-backed stores satisfy them; tests swap
// in-memory fakes.

type teamStore interface {
	GetByID(ctx context.Context, id string) (*models.Team, error)
	GetForUpdate(ctx context.Context, id string) (*models.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Team, error)
	UpdateDoricoins(ctx context.Context, id string, balance decimal.Decimal) error
	UpdateSaldoPix(ctx context.Context, id string, balance decimal.Decimal) error
}

type carStore interface {
	Create(ctx context.Context, teamID, modelID, variantID, nickname string) (*models.Car, error)
	GetByID(ctx context.Context, id string) (*models.Car, error)
	GetForUpdate(ctx context.Context, id string) (*models.Car, error)
	GetActiveByTeam(ctx context.Context, teamID string) (*models.Car, error)
	Activate(ctx context.Context, id string) error
	Rest(ctx context.Context, id string) error
	RecordBattle(ctx context.Context, id string, won, drew bool) error
}

type catalogStore interface {
	GetModel(ctx context.Context, id string) (*models.CarModel, error)
	GetVariant(ctx context.Context, id string) (*models.CarVariant, error)
	GetPart(ctx context.Context, id string) (*models.PartCatalog, error)
	GetUpgrade(ctx context.Context, id string) (*models.UpgradeCatalog, error)
	CreateVariant(ctx context.Context, v *models.CarVariant) error
	CreateUpgrade(ctx context.Context, u *models.UpgradeCatalog) error
}

type partStore interface {
	CreateFromCatalog(ctx context.Context, teamID string, cat *models.PartCatalog, pendingRef string) (*models.Part, error)
	CreateFromUpgrade(ctx context.Context, teamID string, upg *models.UpgradeCatalog, pendingRef string) (*models.Part, error)
	GetForUpdate(ctx context.Context, id string) (*models.Part, error)
	GetInstalledByType(ctx context.Context, carID, partType string) (*models.Part, error)
	ListInstalledByCar(ctx context.Context, carID string) ([]models.Part, error)
	ListUpgradesOn(ctx context.Context, basePartID string) ([]models.Part, error)
	ListByPendingRef(ctx context.Context, pendingRef string) ([]models.Part, error)
	Install(ctx context.Context, id, carID string, basePartID *string) error
	AttachToBase(ctx context.Context, id, basePartID string) error
	Uninstall(ctx context.Context, id string) error
	Detach(ctx context.Context, id string) error
	UpdateDurability(ctx context.Context, id string, durability decimal.Decimal) error
	RestoreDurability(ctx context.Context, id string) error
	ClearPendingRef(ctx context.Context, id string) error
	ClearPendingRefsOnCar(ctx context.Context, carID string) error
	UnpaidInstalledValue(ctx context.Context, carID string) (decimal.Decimal, error)
}

type pilotoStore interface {
	HasActiveLink(ctx context.Context, pilotoID, teamID string) (bool, error)
	CreateLink(ctx context.Context, pilotoID, teamID, inviteCode string) error
	CreateCandidate(ctx context.Context, stageID, teamID, pilotoID string) (*models.PilotoCandidate, error)
	GetCandidate(ctx context.Context, id string) (*models.PilotoCandidate, error)
	OldestPending(ctx context.Context, stageID, teamID string) (*models.PilotoCandidate, error)
	SetCandidateStatus(ctx context.Context, id, status string) error
	RecordResult(ctx context.Context, id string, won, drew bool) error
}

type stageStore interface {
	Create(ctx context.Context, championshipID string, ordinal int, name string, date time.Time, serie string) (*models.Stage, error)
	GetForUpdate(ctx context.Context, id string) (*models.Stage, error)
	ListByChampionship(ctx context.Context, championshipID string) ([]models.Stage, error)
	SetStatus(ctx context.Context, id, status string) error
	MarkQualificationDone(ctx context.Context, id string) error
	UpsertNote(ctx context.Context, n *models.QualificationNote) error
	ListNotes(ctx context.Context, stageID string) ([]models.QualificationNote, error)
}

type participationStore interface {
	Create(ctx context.Context, p *models.Participation) error
	GetByStageAndTeam(ctx context.Context, stageID, teamID string) (*models.Participation, error)
	ListByStage(ctx context.Context, stageID string) ([]models.Participation, error)
	SetPiloto(ctx context.Context, id string, pilotoID *string) error
	SetQualOrder(ctx context.Context, id string, order int) error
}

type matchStore interface {
	CreateRound(ctx context.Context, matches []models.Match) error
	GetForUpdate(ctx context.Context, id string) (*models.Match, error)
	ListByStage(ctx context.Context, stageID string) ([]models.Match, error)
	ListLatestRound(ctx context.Context, stageID string) ([]models.Match, error)
	SetWinner(ctx context.Context, id, winnerID string) error
}

type championshipStore interface {
	GetByID(ctx context.Context, id string) (*models.Championship, error)
	PreviousFinished(ctx context.Context, serie, excludeID string) (*models.Championship, error)
	Scores(ctx context.Context, championshipID string) ([]store.ScoreRow, error)
	AddPoints(ctx context.Context, championshipID, teamID string, points int) error
	SetPlacement(ctx context.Context, championshipID, teamID string, placement int) error
	SetStatus(ctx context.Context, id, status string) error
}

type pixTxStore interface {
	Create(ctx context.Context, t *models.PixTransaction) error
	GetForUpdateByRef(ctx context.Context, ref string) (*models.PixTransaction, error)
	MarkApproved(ctx context.Context, id string) error
	MarkCancelled(ctx context.Context, id string) error
	CreateActivationRequest(ctx context.Context, r *models.ActivationRequest) error
	GetActivationRequest(ctx context.Context, id string) (*models.ActivationRequest, error)
	SetActivationRequestStatus(ctx context.Context, id, status string) error
}

type configStore interface {
	StageFee(ctx context.Context, serie string) (decimal.Decimal, error)
	MatchWinReward(ctx context.Context, serie string) (decimal.Decimal, error)
	DamageDieFaces(ctx context.Context) (int, error)
	PixFloor(ctx context.Context) (decimal.Decimal, error)
	ChampionshipPrize(ctx context.Context, placement int) (decimal.Decimal, error)
}

// stores groups per-transaction store handles so call sites stay short.
type stores struct {
	teams          teamStore
	cars           carStore
	catalog        catalogStore
	parts          partStore
	pilotos        pilotoStore
	stages         stageStore
	participations participationStore
	matches        matchStore
	championships  championshipStore
	pixTx          pixTxStore
	configs        configStore
}

func newStores(db store.DBTX) *stores {
	return &stores{
		teams:          store.NewTeamStore(db),
		cars:           store.NewCarStore(db),
		catalog:        store.NewCatalogStore(db),
		parts:          store.NewPartStore(db),
		pilotos:        store.NewPilotoStore(db),
		stages:         store.NewStageStore(db),
		participations: store.NewParticipationStore(db),
		matches:        store.NewMatchStore(db),
		championships:  store.NewChampionshipStore(db),
		pixTx:          store.NewPixStore(db),
		configs:        store.NewConfigStore(db),
	}
}
