package handlers

import (
	"database/sql"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

type createModelRequest struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	Class     string `json:"class"`
	BasePrice string `json:"base_price"`
	Image     string `json:"image"`
}

func (h *Handler) CreateModelHandler(w http.ResponseWriter, r *http.Request) {
	var req createModelRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid base_price"})
		return
	}
	m := &models.CarModel{
		Make:      req.Make,
		Model:     req.Model,
		Class:     req.Class,
		BasePrice: price,
		Image:     req.Image,
	}
	if err := h.services.Garage.CreateModel(r.Context(), m); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "model created", Code: http.StatusCreated, Data: m})
}

func (h *Handler) ListModelsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.Garage.ListModels(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: list})
}

type createVariantRequest struct {
	ModelID                string `json:"model_id"`
	Name                   string `json:"name"`
	Price                  string `json:"price"`
	MotorTemplateID        string `json:"motor_template_id"`
	GearboxTemplateID      string `json:"gearbox_template_id"`
	SuspensionTemplateID   string `json:"suspension_template_id"`
	AngleKitTemplateID     string `json:"angle_kit_template_id"`
	DifferentialTemplateID string `json:"differential_template_id"`
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (h *Handler) CreateVariantHandler(w http.ResponseWriter, r *http.Request) {
	var req createVariantRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid price"})
		return
	}
	v := &models.CarVariant{
		ModelID:                req.ModelID,
		Name:                   req.Name,
		Price:                  price,
		MotorTemplateID:        nullable(req.MotorTemplateID),
		GearboxTemplateID:      nullable(req.GearboxTemplateID),
		SuspensionTemplateID:   nullable(req.SuspensionTemplateID),
		AngleKitTemplateID:     nullable(req.AngleKitTemplateID),
		DifferentialTemplateID: nullable(req.DifferentialTemplateID),
	}
	if err := h.services.Garage.CreateVariant(r.Context(), v); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "variant created", Code: http.StatusCreated, Data: v})
}

type createPartBlueprintRequest struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Price            string   `json:"price"`
	MaxDurability    string   `json:"max_durability"`
	BreakCoefficient string   `json:"break_coefficient"`
	Compatibility    []string `json:"compatibility"`
	Image            string   `json:"image"`
}

func (h *Handler) CreatePartBlueprintHandler(w http.ResponseWriter, r *http.Request) {
	var req createPartBlueprintRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err1 := decimal.NewFromString(req.Price)
	maxDur, err2 := decimal.NewFromString(req.MaxDurability)
	coeff, err3 := decimal.NewFromString(req.BreakCoefficient)
	if err1 != nil || err2 != nil || err3 != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid numeric field"})
		return
	}
	switch req.Type {
	case models.PartTypeMotor, models.PartTypeGearbox, models.PartTypeSuspension,
		models.PartTypeAngleKit, models.PartTypeDifferential:
	default:
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "unknown part type"})
		return
	}
	p := &models.PartCatalog{
		Name:             req.Name,
		Type:             req.Type,
		Price:            price,
		MaxDurability:    maxDur,
		BreakCoefficient: coeff,
		Compatibility:    req.Compatibility,
		Image:            req.Image,
	}
	if err := h.services.Garage.CreatePartBlueprint(r.Context(), p); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "part blueprint created", Code: http.StatusCreated, Data: p})
}

func (h *Handler) ListPartBlueprintsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.Garage.ListPartBlueprints(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Code: http.StatusOK, Data: list})
}

type createUpgradeBlueprintRequest struct {
	BasePartID string `json:"base_part_id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
}

func (h *Handler) CreateUpgradeBlueprintHandler(w http.ResponseWriter, r *http.Request) {
	var req createUpgradeBlueprintRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid price"})
		return
	}
	u := &models.UpgradeCatalog{
		BasePartID: req.BasePartID,
		Name:       req.Name,
		Price:      price,
	}
	if err := h.services.Garage.CreateUpgradeBlueprint(r.Context(), u); err != nil {
		h.respondErr(w, err)
		return
	}
	h.CreateResponse(w, Response{Message: "upgrade blueprint created", Code: http.StatusCreated, Data: u})
}
