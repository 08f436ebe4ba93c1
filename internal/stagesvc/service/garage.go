package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/domain/compat"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// GarageService covers car and part ownership: purchases paid in doricoins,
// installs, removals and refits.
type GarageService struct {
	pool *pgxpool.Pool
}

func NewGarageService(pool *pgxpool.Pool) *GarageService {
	return &GarageService{pool: pool}
}

// PurchaseCar buys a variant with doricoins and parks the new car resting.
func (s *GarageService) PurchaseCar(ctx context.Context, teamID, variantID, nickname string) (*models.Car, error) {
	var car *models.Car
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		variant, err := st.catalog.GetVariant(ctx, variantID)
		if err != nil {
			return err
		}
		if err := debitDoricoinsTx(ctx, st, teamID, variant.Price); err != nil {
			return err
		}
		car, err = st.cars.Create(ctx, teamID, variant.ModelID, variantID, nickname)
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"team_id": teamID, "car_id": car.ID}).Info("car purchased")
	return car, nil
}

// PurchasePart buys a catalogue part with doricoins into the warehouse.
func (s *GarageService) PurchasePart(ctx context.Context, teamID, catalogID string) (*models.Part, error) {
	var part *models.Part
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		cat, err := st.catalog.GetPart(ctx, catalogID)
		if err != nil {
			return err
		}
		if err := debitDoricoinsTx(ctx, st, teamID, cat.Price); err != nil {
			return err
		}
		part, err = st.parts.CreateFromCatalog(ctx, teamID, cat, "")
		return err
	})
	return part, err
}

// PurchaseUpgrade buys an upgrade blueprint with doricoins into the warehouse.
func (s *GarageService) PurchaseUpgrade(ctx context.Context, teamID, upgradeID string) (*models.Part, error) {
	var part *models.Part
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		upg, err := st.catalog.GetUpgrade(ctx, upgradeID)
		if err != nil {
			return err
		}
		if err := debitDoricoinsTx(ctx, st, teamID, upg.Price); err != nil {
			return err
		}
		part, err = st.parts.CreateFromUpgrade(ctx, teamID, upg, "")
		return err
	})
	return part, err
}

// InstallPart mounts a warehouse base part on the car. A part already
// occupying the same slot moves to the warehouse first, taking its upgrades
// with it.
func (s *GarageService) InstallPart(ctx context.Context, teamID, carID, partID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		car, err := st.cars.GetForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if car.TeamID != teamID {
			return apperr.ErrForbidden
		}
		part, err := st.parts.GetForUpdate(ctx, partID)
		if err != nil {
			return err
		}
		if part.TeamID != teamID {
			return apperr.ErrForbidden
		}
		if part.IsUpgrade() || !part.CatalogID.Valid {
			return fmt.Errorf("part %s: %w", partID, apperr.ErrNotInWarehouse)
		}
		if part.Installed {
			return apperr.ErrNotInWarehouse
		}
		cat, err := st.catalog.GetPart(ctx, part.CatalogID.String)
		if err != nil {
			return err
		}
		if !compat.IsCompatible(cat.Compatibility, car.ModelID) {
			return apperr.ErrIncompatiblePart
		}

		if cat.Type != models.PartTypeDifferential {
			occupied, err := st.parts.GetInstalledByType(ctx, carID, cat.Type)
			if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return err
			}
			if occupied != nil {
				if err := uninstallWithUpgrades(ctx, st, occupied.ID); err != nil {
					return err
				}
			}
		}

		if err := st.parts.Install(ctx, partID, carID, nil); err != nil {
			return err
		}
		// upgrades bundled with the part ride along
		upgrades, err := st.parts.ListUpgradesOn(ctx, partID)
		if err != nil {
			return err
		}
		for _, u := range upgrades {
			if err := st.parts.Install(ctx, u.ID, carID, &partID); err != nil {
				return err
			}
		}
		return nil
	})
}

// uninstallWithUpgrades moves a base part and everything mounted on it back
// to the warehouse. The upgrade linkage stays so the bundle reinstalls
// together.
func uninstallWithUpgrades(ctx context.Context, st *stores, basePartID string) error {
	upgrades, err := st.parts.ListUpgradesOn(ctx, basePartID)
	if err != nil {
		return err
	}
	for _, u := range upgrades {
		if err := st.parts.Uninstall(ctx, u.ID); err != nil {
			return err
		}
	}
	return st.parts.Uninstall(ctx, basePartID)
}

// InstallUpgrade mounts an upgrade on a base part. The upgrade blueprint
// must target the base part's blueprint, and each blueprint goes on a base
// part at most once. An installed base takes the upgrade onto its car; a
// warehouse base just records the linkage and the bundle installs together
// later.
func (s *GarageService) InstallUpgrade(ctx context.Context, teamID, upgradePartID, basePartID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return installUpgradeTx(ctx, newStores(tx), teamID, upgradePartID, basePartID)
	})
}

func installUpgradeTx(ctx context.Context, st *stores, teamID, upgradePartID, basePartID string) error {
	base, err := st.parts.GetForUpdate(ctx, basePartID)
	if err != nil {
		return err
	}
	if base.TeamID != teamID {
		return apperr.ErrForbidden
	}
	if base.IsUpgrade() || !base.CatalogID.Valid {
		return fmt.Errorf("part %s is not a base part: %w", basePartID, apperr.ErrIncompatiblePart)
	}
	upgPart, err := st.parts.GetForUpdate(ctx, upgradePartID)
	if err != nil {
		return err
	}
	if upgPart.TeamID != teamID {
		return apperr.ErrForbidden
	}
	if !upgPart.IsUpgrade() {
		return fmt.Errorf("part %s is not an upgrade: %w", upgradePartID, apperr.ErrNotInWarehouse)
	}
	if upgPart.Installed {
		return apperr.ErrNotInWarehouse
	}
	blueprint, err := st.catalog.GetUpgrade(ctx, upgPart.UpgradeCatalogID.String)
	if err != nil {
		return err
	}
	if blueprint.BasePartID != base.CatalogID.String {
		return apperr.ErrIncompatiblePart
	}

	mounted, err := st.parts.ListUpgradesOn(ctx, basePartID)
	if err != nil {
		return err
	}
	for _, m := range mounted {
		if m.UpgradeCatalogID.Valid && m.UpgradeCatalogID.String == blueprint.ID {
			return apperr.ErrSlotLimitReached
		}
	}
	if base.Installed && base.CarID.Valid {
		return st.parts.Install(ctx, upgradePartID, base.CarID.String, &basePartID)
	}
	return st.parts.AttachToBase(ctx, upgradePartID, basePartID)
}

// RemovePart moves an installed base part (with its upgrades) back to the
// warehouse.
func (s *GarageService) RemovePart(ctx context.Context, teamID, partID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		part, err := st.parts.GetForUpdate(ctx, partID)
		if err != nil {
			return err
		}
		if part.TeamID != teamID {
			return apperr.ErrForbidden
		}
		if !part.Installed {
			return apperr.ErrNotInWarehouse
		}
		if part.IsUpgrade() {
			return st.parts.Detach(ctx, partID)
		}
		return uninstallWithUpgrades(ctx, st, partID)
	})
}

// RefitPart restores a part to full durability for half the value of the
// part and its upgrades. The price does not depend on how worn the part is;
// refitting a pristine part costs the same and succeeds.
func (s *GarageService) RefitPart(ctx context.Context, teamID, partID string) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		cost, err = refitPartTx(ctx, newStores(tx), teamID, partID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return cost, nil
}

func refitPartTx(ctx context.Context, st *stores, teamID, partID string) (decimal.Decimal, error) {
	part, err := st.parts.GetForUpdate(ctx, partID)
	if err != nil {
		return decimal.Zero, err
	}
	if part.TeamID != teamID {
		return decimal.Zero, apperr.ErrForbidden
	}
	if part.IsUpgrade() || !part.CatalogID.Valid {
		return decimal.Zero, apperr.ErrNotRefittable
	}
	cat, err := st.catalog.GetPart(ctx, part.CatalogID.String)
	if err != nil {
		return decimal.Zero, err
	}
	value := cat.Price
	upgrades, err := st.parts.ListUpgradesOn(ctx, partID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, u := range upgrades {
		blueprint, err := st.catalog.GetUpgrade(ctx, u.UpgradeCatalogID.String)
		if err != nil {
			return decimal.Zero, err
		}
		value = value.Add(blueprint.Price)
	}
	cost := value.Div(decimal.NewFromInt(2))

	if err := debitDoricoinsTx(ctx, st, teamID, cost); err != nil {
		return decimal.Zero, err
	}
	return cost, st.parts.RestoreDurability(ctx, partID)
}

func (s *GarageService) ListCars(ctx context.Context, teamID string) ([]models.Car, error) {
	return store.NewCarStore(s.pool).ListByTeam(ctx, teamID)
}

func (s *GarageService) ListWarehouse(ctx context.Context, teamID string) ([]models.Part, error) {
	return store.NewPartStore(s.pool).ListWarehouseByTeam(ctx, teamID)
}

// CreateModel registers a car model in the catalogue, with its default V1
// variant.
func (s *GarageService) CreateModel(ctx context.Context, m *models.CarModel) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return store.NewCatalogStore(tx).CreateModel(ctx, m)
	})
}

func (s *GarageService) ListModels(ctx context.Context) ([]models.CarModel, error) {
	return store.NewCatalogStore(s.pool).ListModels(ctx)
}

// CreateVariant adds a priced variant to an existing model.
func (s *GarageService) CreateVariant(ctx context.Context, v *models.CarVariant) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		if _, err := st.catalog.GetModel(ctx, v.ModelID); err != nil {
			return err
		}
		return st.catalog.CreateVariant(ctx, v)
	})
}

func (s *GarageService) CreatePartBlueprint(ctx context.Context, p *models.PartCatalog) error {
	return store.NewCatalogStore(s.pool).CreatePart(ctx, p)
}

func (s *GarageService) ListPartBlueprints(ctx context.Context) ([]models.PartCatalog, error) {
	return store.NewCatalogStore(s.pool).ListParts(ctx)
}

// CreateUpgradeBlueprint adds an upgrade bound to an existing part blueprint.
func (s *GarageService) CreateUpgradeBlueprint(ctx context.Context, u *models.UpgradeCatalog) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		if _, err := st.catalog.GetPart(ctx, u.BasePartID); err != nil {
			return err
		}
		return st.catalog.CreateUpgrade(ctx, u)
	})
}

// MandatorySlotsFilled reports whether the car has all four mandatory slots
// occupied; inscription requires a race-ready car.
func (s *GarageService) MandatorySlotsFilled(ctx context.Context, carID string) (bool, error) {
	return mandatorySlotsFilled(ctx, newStores(s.pool), carID)
}

func mandatorySlotsFilled(ctx context.Context, st *stores, carID string) (bool, error) {
	for _, slot := range models.MandatorySlots {
		_, err := st.parts.GetInstalledByType(ctx, carID, slot)
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}
