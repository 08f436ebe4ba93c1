package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
	"github.com/granpix/granpix-services/internal/mirror"
	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/domain/bracket"
	"github.com/granpix/granpix-services/internal/stagesvc/domain/dice"
	"github.com/granpix/granpix-services/internal/stagesvc/domain/seeding"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// StageService drives a stage through its lifecycle: scheduled, in
// progress (qualification then bracket), finished.
type StageService struct {
	pool  *pgxpool.Pool
	champ *ChampionshipService
	pub   Publisher
	mir   *mirror.Client
}

func NewStageService(pool *pgxpool.Pool, champ *ChampionshipService, pub Publisher, mir *mirror.Client) *StageService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &StageService{pool: pool, champ: champ, pub: pub, mir: mir}
}

func (s *StageService) Create(ctx context.Context, championshipID string, ordinal int, name string, date time.Time) (*models.Stage, error) {
	var stage *models.Stage
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		champ, err := st.championships.GetByID(ctx, championshipID)
		if err != nil {
			return err
		}
		if champ.Status != models.ChampionshipOngoing {
			return apperr.ErrStageNotInPhase
		}
		stage, err = st.stages.Create(ctx, championshipID, ordinal, name, date, champ.Serie)
		return err
	})
	return stage, err
}

func (s *StageService) Get(ctx context.Context, stageID string) (*models.Stage, error) {
	return store.NewStageStore(s.pool).GetByID(ctx, stageID)
}

func (s *StageService) ListByChampionship(ctx context.Context, championshipID string) ([]models.Stage, error) {
	return store.NewStageStore(s.pool).ListByChampionship(ctx, championshipID)
}

// Bracket returns every persisted match of the stage in round order.
func (s *StageService) Bracket(ctx context.Context, stageID string) ([]models.Match, error) {
	return store.NewMatchStore(s.pool).ListByStage(ctx, stageID)
}

// Start moves a scheduled stage into progress. Starting an already running
// stage is a no-op.
func (s *StageService) Start(ctx context.Context, stageID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		stage, err := st.stages.GetForUpdate(ctx, stageID)
		if err != nil {
			return err
		}
		switch stage.Status {
		case models.StageInProgress:
			return nil
		case models.StageScheduled:
			return st.stages.SetStatus(ctx, stageID, models.StageInProgress)
		default:
			return apperr.ErrStageNotInPhase
		}
	})
}

// RecordQualificationNote stores the operator's scores for one inscribed
// team. Re-recording overwrites until qualification is closed.
func (s *StageService) RecordQualificationNote(ctx context.Context, note *models.QualificationNote) error {
	if note.Line < 0 || note.Line > 40 || note.Angle < 0 || note.Angle > 30 || note.Style < 0 || note.Style > 30 {
		return fmt.Errorf("qualification note out of range")
	}
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		stage, err := st.stages.GetForUpdate(ctx, note.StageID)
		if err != nil {
			return err
		}
		if stage.Status != models.StageInProgress || stage.QualificationDone {
			return apperr.ErrStageNotInPhase
		}
		if _, err := st.participations.GetByStageAndTeam(ctx, note.StageID, note.TeamID); err != nil {
			return err
		}
		return st.stages.UpsertNote(ctx, note)
	})
}

// FinaliseQualification freezes the qualifying order. Teams with notes rank
// by total score (line breaking ties); unnoted teams fall back to previous
// championship points, then name.
func (s *StageService) FinaliseQualification(ctx context.Context, stageID string) ([]string, error) {
	var ordered []string
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		stage, err := st.stages.GetForUpdate(ctx, stageID)
		if err != nil {
			return err
		}
		if stage.Status != models.StageInProgress {
			return apperr.ErrStageNotInPhase
		}
		if stage.QualificationDone {
			return apperr.ErrStageNotInPhase
		}
		parts, err := st.participations.ListByStage(ctx, stageID)
		if err != nil {
			return err
		}
		if len(parts) < 2 {
			return fmt.Errorf("stage %s has %d participations: %w", stageID, len(parts), apperr.ErrStageNotInPhase)
		}
		notes, err := st.stages.ListNotes(ctx, stageID)
		if err != nil {
			return err
		}
		noteByTeam := make(map[string]models.QualificationNote, len(notes))
		for _, n := range notes {
			noteByTeam[n.TeamID] = n
		}

		var prevScores map[string]int
		prev, err := st.championships.PreviousFinished(ctx, stage.Serie, stage.ChampionshipID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if prev != nil {
			rows, err := st.championships.Scores(ctx, prev.ID)
			if err != nil {
				return err
			}
			prevScores = make(map[string]int, len(rows))
			for _, r := range rows {
				prevScores[r.TeamID] = r.Points
			}
		}

		entries := make([]seeding.Entry, 0, len(parts))
		for _, p := range parts {
			team, err := st.teams.GetByID(ctx, p.TeamID)
			if err != nil {
				return err
			}
			e := seeding.Entry{TeamID: p.TeamID, TeamName: team.Name}
			if n, ok := noteByTeam[p.TeamID]; ok {
				e.HasNote = true
				e.Total = n.Line + n.Angle + n.Style
				e.Line = n.Line
			}
			if pts, ok := prevScores[p.TeamID]; ok {
				e.HasPrev = true
				e.PrevPoints = pts
			}
			entries = append(entries, e)
		}
		ordered = seeding.Order(entries)

		partByTeam := make(map[string]models.Participation, len(parts))
		for _, p := range parts {
			partByTeam[p.TeamID] = p
		}
		for i, teamID := range ordered {
			if err := st.participations.SetQualOrder(ctx, partByTeam[teamID].ID, i+1); err != nil {
				return err
			}
		}
		return st.stages.MarkQualificationDone(ctx, stageID)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"stage_id": stageID, "teams": len(ordered)}).Info("qualification finalised")
	return ordered, nil
}

// GenerateBracket builds and persists the first round from the frozen
// qualifying order, then fans the pairing out.
func (s *StageService) GenerateBracket(ctx context.Context, stageID string) (*bracket.Round, error) {
	var round bracket.Round
	var serie string
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		stage, err := st.stages.GetForUpdate(ctx, stageID)
		if err != nil {
			return err
		}
		serie = stage.Serie
		if stage.Status != models.StageInProgress || !stage.QualificationDone {
			return apperr.ErrStageNotInPhase
		}
		existing, err := st.matches.ListByStage(ctx, stageID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("bracket already generated: %w", apperr.ErrStageNotInPhase)
		}
		seeds, err := seedsInOrder(ctx, st, stageID)
		if err != nil {
			return err
		}
		plan := bracket.Plan(len(seeds))
		if plan == nil {
			return fmt.Errorf("stage %s has %d qualified teams: %w", stageID, len(seeds), apperr.ErrStageNotInPhase)
		}
		round = bracket.Build(plan[0], seeds)
		return persistRound(ctx, st, stageID, round, 1)
	})
	if err != nil {
		return nil, err
	}

	s.fanOutBracket(ctx, stageID, serie)
	logrus.WithFields(logrus.Fields{
		"stage_id": stageID,
		"round":    round.Name,
		"pairs":    len(round.Pairs),
		"byes":     len(round.Byes),
	}).Info("bracket generated")
	return &round, nil
}

// seedsInOrder returns the stage's team ids by qualifying order.
func seedsInOrder(ctx context.Context, st *stores, stageID string) ([]string, error) {
	parts, err := st.participations.ListByStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	seeded := make([]models.Participation, 0, len(parts))
	for _, p := range parts {
		if p.QualOrder.Valid {
			seeded = append(seeded, p)
		}
	}
	sort.Slice(seeded, func(i, j int) bool {
		return seeded[i].QualOrder.Int32 < seeded[j].QualOrder.Int32
	})
	seeds := make([]string, len(seeded))
	for i, p := range seeded {
		seeds[i] = p.TeamID
	}
	return seeds, nil
}

func persistRound(ctx context.Context, st *stores, stageID string, round bracket.Round, ordinal int) error {
	matches := make([]models.Match, len(round.Pairs))
	for i, pair := range round.Pairs {
		matches[i] = models.Match{
			StageID:      stageID,
			Round:        round.Name,
			RoundOrdinal: ordinal,
			Slot:         i + 1,
			TeamAID:      pair.A,
			TeamBID:      pair.B,
		}
	}
	return st.matches.CreateRound(ctx, matches)
}

// ReportMatch records a winner. When the round completes, the next round is
// generated from the winners plus the byes; winners past the first round
// earn the serie's battle reward.
func (s *StageService) ReportMatch(ctx context.Context, matchID, winnerID string) error {
	var stageID, serie string
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		stageID, serie, err = reportMatchTx(ctx, newStores(tx), matchID, winnerID)
		return err
	})
	if err != nil {
		return err
	}
	s.fanOutBracket(ctx, stageID, serie)
	return nil
}

func reportMatchTx(ctx context.Context, st *stores, matchID, winnerID string) (string, string, error) {
	match, err := st.matches.GetForUpdate(ctx, matchID)
	if err != nil {
		return "", "", err
	}
	if match.Resolved() {
		return "", "", apperr.ErrStageNotInPhase
	}
	if winnerID != match.TeamAID && winnerID != match.TeamBID {
		return "", "", fmt.Errorf("team %s not in match %s: %w", winnerID, matchID, apperr.ErrForbidden)
	}
	stage, err := st.stages.GetForUpdate(ctx, match.StageID)
	if err != nil {
		return "", "", err
	}
	if stage.Status != models.StageInProgress {
		return "", "", apperr.ErrStageNotInPhase
	}
	if err := st.matches.SetWinner(ctx, matchID, winnerID); err != nil {
		return "", "", err
	}
	if err := recordBattleCounters(ctx, st, stage.ID, match, winnerID); err != nil {
		return "", "", err
	}
	if match.RoundOrdinal > 1 {
		reward, err := st.configs.MatchWinReward(ctx, stage.Serie)
		if err != nil {
			return "", "", err
		}
		// battle rewards land on the pix balance, same as prizes
		if reward.IsPositive() {
			if err := creditSaldoPixTx(ctx, st, winnerID, reward); err != nil {
				return "", "", err
			}
		}
	}
	return stage.ID, stage.Serie, advanceRoundIfComplete(ctx, st, stage, match.RoundOrdinal)
}

// recordBattleCounters bumps the per-car and per-piloto battle tallies.
func recordBattleCounters(ctx context.Context, st *stores, stageID string, match *models.Match, winnerID string) error {
	for _, teamID := range []string{match.TeamAID, match.TeamBID} {
		part, err := st.participations.GetByStageAndTeam(ctx, stageID, teamID)
		if err != nil {
			return err
		}
		won := teamID == winnerID
		if err := st.cars.RecordBattle(ctx, part.CarID, won, false); err != nil {
			return err
		}
		if part.PilotoID.Valid {
			if err := st.pilotos.RecordResult(ctx, part.PilotoID.String, won, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// advanceRoundIfComplete generates the next round once every match of the
// current round is resolved. The final completing leaves the stage ready to
// finalise.
func advanceRoundIfComplete(ctx context.Context, st *stores, stage *models.Stage, ordinal int) error {
	matches, err := st.matches.ListLatestRound(ctx, stage.ID)
	if err != nil {
		return err
	}
	var winners []string
	for _, m := range matches {
		if !m.Resolved() {
			return nil
		}
		winners = append(winners, m.WinnerID.String)
	}
	if len(matches) > 0 && matches[0].Round == bracket.Final {
		return nil
	}

	seeds, err := seedsInOrder(ctx, st, stage.ID)
	if err != nil {
		return err
	}
	seedIndex := make(map[string]int, len(seeds))
	for i, id := range seeds {
		seedIndex[id] = i
	}
	// byes of the finished round: every seed still alive that did not race
	raced := make(map[string]bool, len(matches)*2)
	for _, m := range matches {
		raced[m.TeamAID] = true
		raced[m.TeamBID] = true
	}
	eliminated, err := eliminatedTeams(ctx, st, stage.ID)
	if err != nil {
		return err
	}
	var byes []string
	for _, id := range seeds {
		if !raced[id] && !eliminated[id] {
			byes = append(byes, id)
		}
	}

	next := bracket.NextSeeds(winners, byes, seedIndex)
	plan := bracket.Plan(len(seeds))
	pos := ordinal // plan is 0-indexed; next round name sits at [ordinal]
	if pos >= len(plan) {
		return nil
	}
	round := bracket.Build(plan[pos], next)
	return persistRound(ctx, st, stage.ID, round, ordinal+1)
}

// eliminatedTeams collects every team that already lost a match on the stage.
func eliminatedTeams(ctx context.Context, st *stores, stageID string) (map[string]bool, error) {
	matches, err := st.matches.ListByStage(ctx, stageID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, m := range matches {
		if !m.Resolved() {
			continue
		}
		if m.WinnerID.String == m.TeamAID {
			out[m.TeamBID] = true
		} else {
			out[m.TeamAID] = true
		}
	}
	return out, nil
}

// ApplyMatchDamage runs one damage pass over both cars of a match: each
// filled mandatory slot rolls the die, the differential slot rolls once per
// car and splits the damage across mounted differentials.
func (s *StageService) ApplyMatchDamage(ctx context.Context, matchID string) (*dice.PassResult, error) {
	var result dice.PassResult
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		match, err := st.matches.GetForUpdate(ctx, matchID)
		if err != nil {
			return err
		}
		faces, err := st.configs.DamageDieFaces(ctx)
		if err != nil {
			return err
		}
		var loadouts []*dice.Loadout
		for _, teamID := range []string{match.TeamAID, match.TeamBID} {
			part, err := st.participations.GetByStageAndTeam(ctx, match.StageID, teamID)
			if err != nil {
				return err
			}
			lo, err := buildLoadout(ctx, st, part.CarID)
			if err != nil {
				return err
			}
			loadouts = append(loadouts, lo)
		}

		roller := dice.NewRoller(rand.New(rand.NewSource(time.Now().UnixNano())), faces)
		result = roller.ApplyPass(loadouts)

		for _, roll := range result.Rolls {
			if err := st.parts.UpdateDurability(ctx, roll.PartID, roll.NewDurability); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(result.Broken) > 0 {
		logrus.WithFields(logrus.Fields{
			"match_id": matchID,
			"broken":   result.Broken,
		}).Info("parts broke during pass")
	}
	return &result, nil
}

// buildLoadout snapshots a car's installed base parts for the dice pass.
func buildLoadout(ctx context.Context, st *stores, carID string) (*dice.Loadout, error) {
	parts, err := st.parts.ListInstalledByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	lo := &dice.Loadout{CarID: carID}
	for i := range parts {
		p := &parts[i]
		if p.IsUpgrade() || !p.CatalogID.Valid {
			continue
		}
		cat, err := st.catalog.GetPart(ctx, p.CatalogID.String)
		if err != nil {
			return nil, err
		}
		state := &dice.PartState{
			ID:               p.ID,
			Name:             cat.Name,
			Slot:             cat.Type,
			Durability:       p.Durability,
			BreakCoefficient: cat.BreakCoefficient,
		}
		switch cat.Type {
		case models.PartTypeMotor:
			lo.Motor = state
		case models.PartTypeGearbox:
			lo.Gearbox = state
		case models.PartTypeSuspension:
			lo.Suspension = state
		case models.PartTypeAngleKit:
			lo.AngleKit = state
		case models.PartTypeDifferential:
			lo.Differentials = append(lo.Differentials, state)
		}
	}
	return lo, nil
}

// Finalise closes a stage whose final is resolved: placements are computed,
// championship points accrued, and the standings fanned out. Closing the
// championship's last stage also settles prizes.
func (s *StageService) Finalise(ctx context.Context, stageID string) error {
	var championshipID, serie string
	var lastStage bool
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		championshipID, serie, lastStage, err = finaliseStageTx(ctx, newStores(tx), stageID)
		return err
	})
	if err != nil {
		return err
	}

	// Replaying a finalise on an already-finished last stage still reaches the
	// championship settlement, which is itself a no-op once the championship
	// is closed. A crash between the two transactions therefore cannot strand
	// the prizes.
	if lastStage {
		if err := s.champ.Finalise(ctx, championshipID); err != nil {
			return err
		}
	}
	s.fanOutStandings(ctx, championshipID, serie)
	logrus.WithFields(logrus.Fields{"stage_id": stageID, "last_stage": lastStage}).Info("stage finalised")
	return nil
}

func finaliseStageTx(ctx context.Context, st *stores, stageID string) (championshipID, serie string, lastStage bool, err error) {
	stage, err := st.stages.GetForUpdate(ctx, stageID)
	if err != nil {
		return "", "", false, err
	}
	championshipID, serie = stage.ChampionshipID, stage.Serie
	replay := stage.Status == models.StageFinished
	if !replay && stage.Status != models.StageInProgress {
		return "", "", false, apperr.ErrStageNotInPhase
	}

	if !replay {
		matches, err := st.matches.ListByStage(ctx, stageID)
		if err != nil {
			return "", "", false, err
		}
		resolved := make([]bracket.ResolvedMatch, 0, len(matches))
		for _, m := range matches {
			if !m.Resolved() {
				return "", "", false, fmt.Errorf("match %s unresolved: %w", m.ID, apperr.ErrStageNotInPhase)
			}
			resolved = append(resolved, bracket.ResolvedMatch{
				Round:  m.Round,
				TeamA:  m.TeamAID,
				TeamB:  m.TeamBID,
				Winner: m.WinnerID.String,
			})
		}

		seeds, err := seedsInOrder(ctx, st, stageID)
		if err != nil {
			return "", "", false, err
		}
		qualOrder := make(map[string]int, len(seeds))
		for i, id := range seeds {
			qualOrder[id] = i + 1
		}
		placements := bracket.Placements(resolved, qualOrder)
		if placements == nil {
			return "", "", false, fmt.Errorf("stage %s bracket incomplete: %w", stageID, apperr.ErrStageNotInPhase)
		}
		for _, p := range placements {
			pts := bracket.PointsForPlacement(p.Placement)
			if pts > 0 {
				if err := st.championships.AddPoints(ctx, championshipID, p.TeamID, pts); err != nil {
					return "", "", false, err
				}
			}
		}
		if err := st.stages.SetStatus(ctx, stageID, models.StageFinished); err != nil {
			return "", "", false, err
		}
	}

	champ, err := st.championships.GetByID(ctx, championshipID)
	if err != nil {
		return "", "", false, err
	}
	stages, err := st.stages.ListByChampionship(ctx, championshipID)
	if err != nil {
		return "", "", false, err
	}
	finished := 0
	for _, other := range stages {
		if other.Status == models.StageFinished || other.ID == stageID {
			finished++
		}
	}
	return championshipID, serie, finished >= champ.PlannedStages, nil
}

// fanOutBracket publishes the stage's latest round to the socket service
// and the public mirror. Failures never block the caller.
func (s *StageService) fanOutBracket(ctx context.Context, stageID, serie string) {
	st := newStores(s.pool)
	matches, err := st.matches.ListLatestRound(ctx, stageID)
	if err != nil {
		logrus.WithError(err).WithField("stage_id", stageID).Warn("bracket fan-out load failed")
		return
	}
	if len(matches) == 0 {
		return
	}
	update := &comm.BracketUpdate{StageID: stageID, Serie: serie, Round: matches[0].Round}
	for _, m := range matches {
		view := comm.MatchView{
			MatchID: m.ID,
			Round:   m.Round,
			Slot:    m.Slot,
			TeamA:   m.TeamAID,
			TeamB:   m.TeamBID,
		}
		if m.Resolved() {
			view.Winner = m.WinnerID.String
		}
		update.Matches = append(update.Matches, view)
	}
	s.pub.PublishBracket(ctx, update)
	s.mir.PushBracket(ctx, update)
}

func (s *StageService) fanOutStandings(ctx context.Context, championshipID, serie string) {
	rows, err := s.champ.Standings(ctx, championshipID)
	if err != nil {
		logrus.WithError(err).WithField("championship_id", championshipID).Warn("standings fan-out load failed")
		return
	}
	update := &comm.StandingsUpdate{ChampionshipID: championshipID, Serie: serie, Rows: rows}
	s.pub.PublishStandings(ctx, update)
	s.mir.PushStandings(ctx, update)
}
