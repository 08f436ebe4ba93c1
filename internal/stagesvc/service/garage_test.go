package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

// seedBaseWithUpgrade plants a warehouse base part, its catalogue entry,
// and one compatible upgrade instance waiting to be mounted.
func seedBaseWithUpgrade(f *fakeState, teamID string) (base, upgrade *models.Part) {
	cat := &models.PartCatalog{
		ID:            "cat-motor",
		Name:          "motor v8",
		Type:          models.PartTypeMotor,
		Price:         dec(800),
		MaxDurability: dec(100),
	}
	f.partCatalog[cat.ID] = cat
	blueprint := &models.UpgradeCatalog{
		ID:         "upg-turbo",
		BasePartID: cat.ID,
		Name:       "turbo",
		Price:      dec(500),
	}
	f.upgradeCatalog[blueprint.ID] = blueprint

	base = &models.Part{
		ID:            f.nextID("part"),
		TeamID:        teamID,
		Durability:    dec(100),
		MaxDurability: dec(100),
		CatalogID:     sql.NullString{String: cat.ID, Valid: true},
	}
	f.parts[base.ID] = base

	upgrade = &models.Part{
		ID:               f.nextID("part"),
		TeamID:           teamID,
		UpgradeCatalogID: sql.NullString{String: blueprint.ID, Valid: true},
	}
	f.parts[upgrade.ID] = upgrade
	return base, upgrade
}

func TestInstallUpgradeOnWarehouseBase(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, upgrade := seedBaseWithUpgrade(f, "team-1")

	require.NoError(t, installUpgradeTx(ctx, st, "team-1", upgrade.ID, base.ID))

	// linked to the base but still off-car and uninstalled
	assert.Equal(t, base.ID, upgrade.InstalledInPartID.String)
	assert.False(t, upgrade.Installed)
	assert.False(t, upgrade.CarID.Valid)
}

func TestInstallUpgradeOnInstalledBase(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, upgrade := seedBaseWithUpgrade(f, "team-1")
	car := &models.Car{ID: "car-1", TeamID: "team-1", ModelID: "model-1", Status: models.CarStatusResting}
	f.cars[car.ID] = car
	base.Installed = true
	base.CarID = sql.NullString{String: car.ID, Valid: true}

	require.NoError(t, installUpgradeTx(ctx, st, "team-1", upgrade.ID, base.ID))

	assert.True(t, upgrade.Installed)
	assert.Equal(t, car.ID, upgrade.CarID.String)
	assert.Equal(t, base.ID, upgrade.InstalledInPartID.String)
}

func TestInstallUpgradeDuplicateBlueprintRejected(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, upgrade := seedBaseWithUpgrade(f, "team-1")
	require.NoError(t, installUpgradeTx(ctx, st, "team-1", upgrade.ID, base.ID))

	second := &models.Part{
		ID:               f.nextID("part"),
		TeamID:           "team-1",
		UpgradeCatalogID: upgrade.UpgradeCatalogID,
	}
	f.parts[second.ID] = second

	err := installUpgradeTx(ctx, st, "team-1", second.ID, base.ID)
	assert.ErrorIs(t, err, apperr.ErrSlotLimitReached)
}

func TestInstallUpgradeWrongBlueprintRejected(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, upgrade := seedBaseWithUpgrade(f, "team-1")
	// retarget the blueprint at a different base part
	f.upgradeCatalog["upg-turbo"].BasePartID = "cat-other"

	err := installUpgradeTx(ctx, st, "team-1", upgrade.ID, base.ID)
	assert.ErrorIs(t, err, apperr.ErrIncompatiblePart)
}

func TestRefitPartHalvesBundleValue(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, upgrade := seedBaseWithUpgrade(f, "team-1")
	require.NoError(t, installUpgradeTx(ctx, st, "team-1", upgrade.ID, base.ID))
	base.Durability = dec(30)

	cost, err := refitPartTx(ctx, st, "team-1", base.ID)
	require.NoError(t, err)

	// (800 part + 500 upgrade) / 2
	assert.True(t, cost.Equal(dec(650)))
	assert.True(t, f.teams["team-1"].Doricoins.Equal(dec(350)))
	assert.True(t, base.Durability.Equal(dec(100)))
}

func TestRefitPartAtFullDurabilityStillCharges(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	base, _ := seedBaseWithUpgrade(f, "team-1")

	cost, err := refitPartTx(ctx, st, "team-1", base.ID)
	require.NoError(t, err)
	assert.True(t, cost.Equal(dec(400)))
	assert.True(t, f.teams["team-1"].Doricoins.Equal(dec(600)))
}

func TestRefitPartRejectsUpgradeInstance(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 1000, 0)
	_, upgrade := seedBaseWithUpgrade(f, "team-1")

	_, err := refitPartTx(ctx, st, "team-1", upgrade.ID)
	assert.ErrorIs(t, err, apperr.ErrNotRefittable)
}

func TestRefitPartInsufficientCoins(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 100, 0)
	base, _ := seedBaseWithUpgrade(f, "team-1")
	base.Durability = dec(10)

	_, err := refitPartTx(ctx, st, "team-1", base.ID)
	assert.ErrorIs(t, err, apperr.ErrInsufficientFunds)
	assert.True(t, base.Durability.Equal(dec(10)))
}
