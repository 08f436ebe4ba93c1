package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// fakeState backs the in-memory store fakes the transaction-body tests run
// against. Everything lives in maps; ids are sequential.
type fakeState struct {
	seq int

	teams          map[string]*models.Team
	cars           map[string]*models.Car
	carModels      map[string]*models.CarModel
	variants       map[string]*models.CarVariant
	partCatalog    map[string]*models.PartCatalog
	upgradeCatalog map[string]*models.UpgradeCatalog
	parts          map[string]*models.Part
	links          map[string]bool // pilotoID|teamID with an active link
	candidates     map[string]*models.PilotoCandidate
	stages         map[string]*models.Stage
	participations map[string]*models.Participation
	matches        map[string]*models.Match
	championships  map[string]*models.Championship
	points         map[string]map[string]int // championshipID -> teamID -> points
	placements     map[string]map[string]int
	pixTxs         map[string]*models.PixTransaction
	activations    map[string]*models.ActivationRequest

	stageFee decimal.Decimal
	reward   decimal.Decimal
	floor    decimal.Decimal
	dieFaces int
	prizes   map[int]decimal.Decimal
}

func (f *fakeState) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// newFakeStores returns a stores bundle wired to one shared fakeState.
func newFakeStores() (*stores, *fakeState) {
	f := &fakeState{
		teams:          map[string]*models.Team{},
		cars:           map[string]*models.Car{},
		carModels:      map[string]*models.CarModel{},
		variants:       map[string]*models.CarVariant{},
		partCatalog:    map[string]*models.PartCatalog{},
		upgradeCatalog: map[string]*models.UpgradeCatalog{},
		parts:          map[string]*models.Part{},
		links:          map[string]bool{},
		candidates:     map[string]*models.PilotoCandidate{},
		stages:         map[string]*models.Stage{},
		participations: map[string]*models.Participation{},
		matches:        map[string]*models.Match{},
		championships:  map[string]*models.Championship{},
		points:         map[string]map[string]int{},
		placements:     map[string]map[string]int{},
		pixTxs:         map[string]*models.PixTransaction{},
		activations:    map[string]*models.ActivationRequest{},
		stageFee:       decimal.NewFromInt(1000),
		reward:         decimal.NewFromInt(200),
		floor:          decimal.NewFromInt(-20),
		dieFaces:       10,
		prizes:         map[int]decimal.Decimal{},
	}
	st := &stores{
		teams:          &fakeTeams{f},
		cars:           &fakeCars{f},
		catalog:        &fakeCatalog{f},
		parts:          &fakeParts{f},
		pilotos:        &fakePilotos{f},
		stages:         &fakeStages{f},
		participations: &fakeParticipations{f},
		matches:        &fakeMatches{f},
		championships:  &fakeChampionships{f},
		pixTx:          &fakePixTxs{f},
		configs:        &fakeConfigs{f},
	}
	return st, f
}

type fakeTeams struct{ f *fakeState }

func (s *fakeTeams) get(id string) (*models.Team, error) {
	if t, ok := s.f.teams[id]; ok {
		return t, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeTeams) GetByID(_ context.Context, id string) (*models.Team, error) {
	return s.get(id)
}

func (s *fakeTeams) GetForUpdate(_ context.Context, id string) (*models.Team, error) {
	return s.get(id)
}

func (s *fakeTeams) GetByInviteCode(_ context.Context, code string) (*models.Team, error) {
	for _, t := range s.f.teams {
		if t.InviteCode.Valid && t.InviteCode.String == code {
			return t, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeTeams) UpdateDoricoins(_ context.Context, id string, balance decimal.Decimal) error {
	t, err := s.get(id)
	if err != nil {
		return err
	}
	t.Doricoins = balance
	return nil
}

func (s *fakeTeams) UpdateSaldoPix(_ context.Context, id string, balance decimal.Decimal) error {
	t, err := s.get(id)
	if err != nil {
		return err
	}
	t.SaldoPix = balance
	return nil
}

type fakeCars struct{ f *fakeState }

func (s *fakeCars) get(id string) (*models.Car, error) {
	if c, ok := s.f.cars[id]; ok {
		return c, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCars) Create(_ context.Context, teamID, modelID, variantID, nickname string) (*models.Car, error) {
	car := &models.Car{
		ID:        s.f.nextID("car"),
		TeamID:    teamID,
		ModelID:   modelID,
		VariantID: variantID,
		Nickname:  nickname,
		Status:    models.CarStatusResting,
	}
	s.f.cars[car.ID] = car
	return car, nil
}

func (s *fakeCars) GetByID(_ context.Context, id string) (*models.Car, error) {
	return s.get(id)
}

func (s *fakeCars) GetForUpdate(_ context.Context, id string) (*models.Car, error) {
	return s.get(id)
}

func (s *fakeCars) GetActiveByTeam(_ context.Context, teamID string) (*models.Car, error) {
	for _, c := range s.f.cars {
		if c.TeamID == teamID && c.Status == models.CarStatusActive {
			return c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCars) Activate(_ context.Context, id string) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	c.Status = models.CarStatusActive
	return nil
}

func (s *fakeCars) Rest(_ context.Context, id string) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	c.Status = models.CarStatusResting
	return nil
}

func (s *fakeCars) RecordBattle(_ context.Context, id string, won, drew bool) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	c.Battles++
	switch {
	case drew:
		c.Draws++
	case won:
		c.Wins++
	default:
		c.Losses++
	}
	return nil
}

type fakeCatalog struct{ f *fakeState }

func (s *fakeCatalog) GetModel(_ context.Context, id string) (*models.CarModel, error) {
	if m, ok := s.f.carModels[id]; ok {
		return m, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCatalog) GetVariant(_ context.Context, id string) (*models.CarVariant, error) {
	if v, ok := s.f.variants[id]; ok {
		return v, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCatalog) GetPart(_ context.Context, id string) (*models.PartCatalog, error) {
	if p, ok := s.f.partCatalog[id]; ok {
		return p, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCatalog) GetUpgrade(_ context.Context, id string) (*models.UpgradeCatalog, error) {
	if u, ok := s.f.upgradeCatalog[id]; ok {
		return u, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCatalog) CreateVariant(_ context.Context, v *models.CarVariant) error {
	if v.ID == "" {
		v.ID = s.f.nextID("variant")
	}
	s.f.variants[v.ID] = v
	return nil
}

func (s *fakeCatalog) CreateUpgrade(_ context.Context, u *models.UpgradeCatalog) error {
	if u.ID == "" {
		u.ID = s.f.nextID("upgcat")
	}
	s.f.upgradeCatalog[u.ID] = u
	return nil
}

type fakeParts struct{ f *fakeState }

func (s *fakeParts) get(id string) (*models.Part, error) {
	if p, ok := s.f.parts[id]; ok {
		return p, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeParts) CreateFromCatalog(_ context.Context, teamID string, cat *models.PartCatalog, pendingRef string) (*models.Part, error) {
	p := &models.Part{
		ID:            s.f.nextID("part"),
		TeamID:        teamID,
		Durability:    cat.MaxDurability,
		MaxDurability: cat.MaxDurability,
	}
	p.CatalogID.String, p.CatalogID.Valid = cat.ID, true
	if pendingRef != "" {
		p.PendingPaymentRef.String, p.PendingPaymentRef.Valid = pendingRef, true
	}
	s.f.parts[p.ID] = p
	return p, nil
}

func (s *fakeParts) CreateFromUpgrade(_ context.Context, teamID string, upg *models.UpgradeCatalog, pendingRef string) (*models.Part, error) {
	p := &models.Part{
		ID:     s.f.nextID("part"),
		TeamID: teamID,
	}
	p.UpgradeCatalogID.String, p.UpgradeCatalogID.Valid = upg.ID, true
	if pendingRef != "" {
		p.PendingPaymentRef.String, p.PendingPaymentRef.Valid = pendingRef, true
	}
	s.f.parts[p.ID] = p
	return p, nil
}

func (s *fakeParts) GetForUpdate(_ context.Context, id string) (*models.Part, error) {
	return s.get(id)
}

func (s *fakeParts) GetInstalledByType(ctx context.Context, carID, partType string) (*models.Part, error) {
	for _, p := range s.f.parts {
		if !p.Installed || !p.CarID.Valid || p.CarID.String != carID || !p.CatalogID.Valid {
			continue
		}
		cat, ok := s.f.partCatalog[p.CatalogID.String]
		if ok && cat.Type == partType {
			return p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeParts) ListInstalledByCar(_ context.Context, carID string) ([]models.Part, error) {
	var out []models.Part
	for _, p := range s.f.parts {
		if p.Installed && p.CarID.Valid && p.CarID.String == carID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeParts) ListUpgradesOn(_ context.Context, basePartID string) ([]models.Part, error) {
	var out []models.Part
	for _, p := range s.f.parts {
		if p.InstalledInPartID.Valid && p.InstalledInPartID.String == basePartID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeParts) ListByPendingRef(_ context.Context, pendingRef string) ([]models.Part, error) {
	var out []models.Part
	for _, p := range s.f.parts {
		if p.PendingPaymentRef.Valid && p.PendingPaymentRef.String == pendingRef {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeParts) Install(_ context.Context, id, carID string, basePartID *string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Installed = true
	p.CarID.String, p.CarID.Valid = carID, true
	p.InstalledInPartID.Valid = false
	if basePartID != nil {
		p.InstalledInPartID.String, p.InstalledInPartID.Valid = *basePartID, true
	}
	return nil
}

func (s *fakeParts) AttachToBase(_ context.Context, id, basePartID string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Installed = false
	p.CarID.Valid = false
	p.InstalledInPartID.String, p.InstalledInPartID.Valid = basePartID, true
	return nil
}

func (s *fakeParts) Uninstall(_ context.Context, id string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Installed = false
	p.CarID.Valid = false
	return nil
}

func (s *fakeParts) Detach(_ context.Context, id string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Installed = false
	p.CarID.Valid = false
	p.InstalledInPartID.Valid = false
	return nil
}

func (s *fakeParts) UpdateDurability(_ context.Context, id string, durability decimal.Decimal) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Durability = durability
	return nil
}

func (s *fakeParts) RestoreDurability(_ context.Context, id string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.Durability = p.MaxDurability
	return nil
}

func (s *fakeParts) ClearPendingRef(_ context.Context, id string) error {
	p, err := s.get(id)
	if err != nil {
		return err
	}
	p.PendingPaymentRef.Valid = false
	p.PendingPaymentRef.String = ""
	return nil
}

func (s *fakeParts) ClearPendingRefsOnCar(_ context.Context, carID string) error {
	for _, p := range s.f.parts {
		if p.CarID.Valid && p.CarID.String == carID {
			p.PendingPaymentRef.Valid = false
			p.PendingPaymentRef.String = ""
		}
	}
	return nil
}

func (s *fakeParts) UnpaidInstalledValue(_ context.Context, carID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range s.f.parts {
		if !p.Installed || !p.CarID.Valid || p.CarID.String != carID || !p.PendingPaymentRef.Valid {
			continue
		}
		if p.CatalogID.Valid {
			if cat, ok := s.f.partCatalog[p.CatalogID.String]; ok {
				total = total.Add(cat.Price)
			}
		}
		if p.UpgradeCatalogID.Valid {
			if upg, ok := s.f.upgradeCatalog[p.UpgradeCatalogID.String]; ok {
				total = total.Add(upg.Price)
			}
		}
	}
	return total, nil
}

type fakePilotos struct{ f *fakeState }

func (s *fakePilotos) HasActiveLink(_ context.Context, pilotoID, teamID string) (bool, error) {
	return s.f.links[pilotoID+"|"+teamID], nil
}

func (s *fakePilotos) CreateLink(_ context.Context, pilotoID, teamID, inviteCode string) error {
	s.f.links[pilotoID+"|"+teamID] = true
	return nil
}

func (s *fakePilotos) CreateCandidate(_ context.Context, stageID, teamID, pilotoID string) (*models.PilotoCandidate, error) {
	c := &models.PilotoCandidate{
		ID:       s.f.nextID("cand"),
		StageID:  stageID,
		TeamID:   teamID,
		PilotoID: pilotoID,
		Status:   models.CandidateStatusPending,
	}
	s.f.candidates[c.ID] = c
	return c, nil
}

func (s *fakePilotos) GetCandidate(_ context.Context, id string) (*models.PilotoCandidate, error) {
	if c, ok := s.f.candidates[id]; ok {
		return c, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakePilotos) OldestPending(_ context.Context, stageID, teamID string) (*models.PilotoCandidate, error) {
	var ids []string
	for id, c := range s.f.candidates {
		if c.StageID == stageID && c.TeamID == teamID && c.Status == models.CandidateStatusPending {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperr.ErrNotFound
	}
	sort.Strings(ids)
	return s.f.candidates[ids[0]], nil
}

func (s *fakePilotos) SetCandidateStatus(_ context.Context, id, status string) error {
	c, ok := s.f.candidates[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Status = status
	return nil
}

func (s *fakePilotos) RecordResult(_ context.Context, id string, won, drew bool) error {
	return nil
}

type fakeStages struct{ f *fakeState }

func (s *fakeStages) Create(_ context.Context, championshipID string, ordinal int, name string, date time.Time, serie string) (*models.Stage, error) {
	st := &models.Stage{
		ID:             s.f.nextID("stage"),
		ChampionshipID: championshipID,
		Ordinal:        ordinal,
		Name:           name,
		Date:           date,
		Serie:          serie,
		Status:         models.StageScheduled,
	}
	s.f.stages[st.ID] = st
	return st, nil
}

func (s *fakeStages) GetForUpdate(_ context.Context, id string) (*models.Stage, error) {
	if st, ok := s.f.stages[id]; ok {
		return st, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeStages) ListByChampionship(_ context.Context, championshipID string) ([]models.Stage, error) {
	var out []models.Stage
	for _, st := range s.f.stages {
		if st.ChampionshipID == championshipID {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out, nil
}

func (s *fakeStages) SetStatus(_ context.Context, id, status string) error {
	st, ok := s.f.stages[id]
	if !ok {
		return apperr.ErrNotFound
	}
	st.Status = status
	return nil
}

func (s *fakeStages) MarkQualificationDone(_ context.Context, id string) error {
	st, ok := s.f.stages[id]
	if !ok {
		return apperr.ErrNotFound
	}
	st.QualificationDone = true
	return nil
}

func (s *fakeStages) UpsertNote(_ context.Context, n *models.QualificationNote) error {
	return nil
}

func (s *fakeStages) ListNotes(_ context.Context, stageID string) ([]models.QualificationNote, error) {
	return nil, nil
}

type fakeParticipations struct{ f *fakeState }

func (s *fakeParticipations) Create(_ context.Context, p *models.Participation) error {
	for _, other := range s.f.participations {
		if other.StageID == p.StageID && other.TeamID == p.TeamID {
			return store.ErrDuplicateParticipation
		}
	}
	if p.ID == "" {
		p.ID = s.f.nextID("participation")
	}
	p.Status = models.ParticipationInscribed
	s.f.participations[p.ID] = p
	return nil
}

func (s *fakeParticipations) GetByStageAndTeam(_ context.Context, stageID, teamID string) (*models.Participation, error) {
	for _, p := range s.f.participations {
		if p.StageID == stageID && p.TeamID == teamID {
			return p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeParticipations) ListByStage(_ context.Context, stageID string) ([]models.Participation, error) {
	var out []models.Participation
	for _, p := range s.f.participations {
		if p.StageID == stageID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeParticipations) SetPiloto(_ context.Context, id string, pilotoID *string) error {
	p, ok := s.f.participations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.PilotoID.Valid = false
	p.PilotoID.String = ""
	if pilotoID != nil {
		p.PilotoID.String, p.PilotoID.Valid = *pilotoID, true
	}
	return nil
}

func (s *fakeParticipations) SetQualOrder(_ context.Context, id string, order int) error {
	p, ok := s.f.participations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.QualOrder.Int32, p.QualOrder.Valid = int32(order), true
	return nil
}

type fakeMatches struct{ f *fakeState }

func (s *fakeMatches) CreateRound(_ context.Context, matches []models.Match) error {
	for i := range matches {
		m := matches[i]
		if m.ID == "" {
			m.ID = s.f.nextID("match")
		}
		s.f.matches[m.ID] = &m
	}
	return nil
}

func (s *fakeMatches) GetForUpdate(_ context.Context, id string) (*models.Match, error) {
	if m, ok := s.f.matches[id]; ok {
		return m, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeMatches) ListByStage(_ context.Context, stageID string) ([]models.Match, error) {
	var out []models.Match
	for _, m := range s.f.matches {
		if m.StageID == stageID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundOrdinal != out[j].RoundOrdinal {
			return out[i].RoundOrdinal < out[j].RoundOrdinal
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (s *fakeMatches) ListLatestRound(_ context.Context, stageID string) ([]models.Match, error) {
	all, _ := s.ListByStage(nil, stageID)
	if len(all) == 0 {
		return nil, nil
	}
	last := all[len(all)-1].RoundOrdinal
	var out []models.Match
	for _, m := range all {
		if m.RoundOrdinal == last {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMatches) SetWinner(_ context.Context, id, winnerID string) error {
	m, ok := s.f.matches[id]
	if !ok {
		return apperr.ErrNotFound
	}
	m.WinnerID.String, m.WinnerID.Valid = winnerID, true
	return nil
}

type fakeChampionships struct{ f *fakeState }

func (s *fakeChampionships) GetByID(_ context.Context, id string) (*models.Championship, error) {
	if c, ok := s.f.championships[id]; ok {
		return c, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeChampionships) PreviousFinished(_ context.Context, serie, excludeID string) (*models.Championship, error) {
	return nil, apperr.ErrNotFound
}

func (s *fakeChampionships) Scores(_ context.Context, championshipID string) ([]store.ScoreRow, error) {
	var out []store.ScoreRow
	for teamID, pts := range s.f.points[championshipID] {
		name := teamID
		if t, ok := s.f.teams[teamID]; ok {
			name = t.Name
		}
		out = append(out, store.ScoreRow{TeamID: teamID, TeamName: name, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out, nil
}

func (s *fakeChampionships) AddPoints(_ context.Context, championshipID, teamID string, points int) error {
	if s.f.points[championshipID] == nil {
		s.f.points[championshipID] = map[string]int{}
	}
	s.f.points[championshipID][teamID] += points
	return nil
}

func (s *fakeChampionships) SetPlacement(_ context.Context, championshipID, teamID string, placement int) error {
	if s.f.placements[championshipID] == nil {
		s.f.placements[championshipID] = map[string]int{}
	}
	s.f.placements[championshipID][teamID] = placement
	return nil
}

func (s *fakeChampionships) SetStatus(_ context.Context, id, status string) error {
	c, ok := s.f.championships[id]
	if !ok {
		return apperr.ErrNotFound
	}
	c.Status = status
	return nil
}

type fakePixTxs struct{ f *fakeState }

func (s *fakePixTxs) Create(_ context.Context, t *models.PixTransaction) error {
	if t.ID == "" {
		t.ID = s.f.nextID("pix")
	}
	if t.Status == "" {
		t.Status = models.PixStatusPending
	}
	s.f.pixTxs[t.ID] = t
	return nil
}

func (s *fakePixTxs) GetForUpdateByRef(_ context.Context, ref string) (*models.PixTransaction, error) {
	if t, ok := s.f.pixTxs[ref]; ok {
		return t, nil
	}
	for _, t := range s.f.pixTxs {
		if t.ProviderID.Valid && t.ProviderID.String == ref {
			return t, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakePixTxs) MarkApproved(_ context.Context, id string) error {
	t, ok := s.f.pixTxs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	t.Status = models.PixStatusApproved
	return nil
}

func (s *fakePixTxs) MarkCancelled(_ context.Context, id string) error {
	t, ok := s.f.pixTxs[id]
	if !ok {
		return apperr.ErrNotFound
	}
	t.Status = models.PixStatusCancelled
	return nil
}

func (s *fakePixTxs) CreateActivationRequest(_ context.Context, r *models.ActivationRequest) error {
	if r.ID == "" {
		r.ID = s.f.nextID("activation")
	}
	r.Status = "pendente"
	s.f.activations[r.ID] = r
	return nil
}

func (s *fakePixTxs) GetActivationRequest(_ context.Context, id string) (*models.ActivationRequest, error) {
	if r, ok := s.f.activations[id]; ok {
		return r, nil
	}
	return nil, apperr.ErrNotFound
}

func (s *fakePixTxs) SetActivationRequestStatus(_ context.Context, id, status string) error {
	r, ok := s.f.activations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	r.Status = status
	return nil
}

type fakeConfigs struct{ f *fakeState }

func (s *fakeConfigs) StageFee(_ context.Context, serie string) (decimal.Decimal, error) {
	return s.f.stageFee, nil
}

func (s *fakeConfigs) MatchWinReward(_ context.Context, serie string) (decimal.Decimal, error) {
	return s.f.reward, nil
}

func (s *fakeConfigs) DamageDieFaces(_ context.Context) (int, error) {
	return s.f.dieFaces, nil
}

func (s *fakeConfigs) PixFloor(_ context.Context) (decimal.Decimal, error) {
	return s.f.floor, nil
}

func (s *fakeConfigs) ChampionshipPrize(_ context.Context, placement int) (decimal.Decimal, error) {
	if p, ok := s.f.prizes[placement]; ok {
		return p, nil
	}
	return decimal.Zero, nil
}
