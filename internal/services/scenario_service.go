package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "propvest/internal/errors"
	"propvest/internal/forecast"
	"propvest/internal/logger"
	"propvest/internal/models"
	"propvest/internal/pagination"
)

// scenarioSorts are the orderings accepted by GetScenarios.
var scenarioSorts = pagination.Sorts{
	"newest": "created_at DESC",
	"oldest": "created_at ASC",
	"name":   "name ASC, created_at DESC",
}

// scenarioService persists scenario snapshots and baseline pins.
type scenarioService struct {
	db        *gorm.DB
	forecasts ForecastServicer
	audit     AuditServicer
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewScenarioService creates a new ScenarioServicer.
func NewScenarioService(db *gorm.DB, forecasts ForecastServicer, audit AuditServicer) ScenarioServicer {
	return &scenarioService{
		db:        db,
		forecasts: forecasts,
		audit:     audit,
		now:       time.Now,
		log:       logger.Named("scenarios"),
	}
}

// SaveScenario evaluates the input and stores the result as an immutable snapshot.
func (s *scenarioService) SaveScenario(ownerID, name string, in forecast.Input, ipAddress string) (*models.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Scenario name is required")
	}
	if in.Property == nil || in.Property.ID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidProperty, "Property id is required")
	}

	res, err := s.forecasts.Evaluate(in)
	if err != nil {
		return nil, err
	}

	rec := newScenarioRecord(ownerID, name, s.now().UTC(), res)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if err != nil {
		s.log.Errorw("failed to save scenario", "error", err, "owner_id", ownerID, "property_id", rec.PropertyID)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ownerID, AuditScenarioSaved, "scenario", rec.ID, ipAddress, map[string]any{
		"name":        rec.Name,
		"property_id": rec.PropertyID,
		"mode":        rec.Mode,
	})
	return rec, nil
}

// GetScenarios lists the owner's snapshots, newest first unless page.Sort says
// otherwise, optionally for one property.
func (s *scenarioService) GetScenarios(ownerID, propertyID string, page pagination.PageRequest) (*pagination.PageResponse[models.Scenario], error) {
	page.Defaults()

	query := s.db.Model(&models.Scenario{}).Where("owner_id = ?", ownerID)
	if propertyID != "" {
		query = query.Where("property_id = ?", propertyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var scenarios []models.Scenario
	if err := query.Order(scenarioSorts.Order(page.Sort, "newest")).Scopes(pagination.Paginate(page)).Find(&scenarios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(scenarios, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetScenarioByID returns one snapshot with its periods in year order.
func (s *scenarioService) GetScenarioByID(ownerID, scenarioID string) (*models.Scenario, error) {
	var scenario models.Scenario
	err := s.db.Preload("Periods", func(db *gorm.DB) *gorm.DB {
		return db.Order("year ASC")
	}).Where("id = ? AND owner_id = ?", scenarioID, ownerID).First(&scenario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScenarioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &scenario, nil
}

// PinBaseline makes the scenario its property's baseline, replacing any earlier pin.
func (s *scenarioService) PinBaseline(ownerID, scenarioID, ipAddress string) (*models.BaselinePin, error) {
	scenario, err := s.GetScenarioByID(ownerID, scenarioID)
	if err != nil {
		return nil, err
	}

	var pin models.BaselinePin
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("owner_id = ? AND property_id = ?", ownerID, scenario.PropertyID).First(&pin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			pin = models.BaselinePin{
				OwnerID:    ownerID,
				PropertyID: scenario.PropertyID,
				ScenarioID: scenario.ID,
				PinnedAt:   s.now().UTC(),
			}
			return tx.Create(&pin).Error
		case err != nil:
			return err
		}
		pin.ScenarioID = scenario.ID
		pin.PinnedAt = s.now().UTC()
		return tx.Save(&pin).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.audit.Log(ownerID, AuditBaselinePinned, "scenario", scenario.ID, ipAddress, map[string]any{
		"property_id": scenario.PropertyID,
	})
	return &pin, nil
}

// UnpinBaseline removes the property's baseline pin. The scenario itself is kept.
func (s *scenarioService) UnpinBaseline(ownerID, propertyID, ipAddress string) error {
	result := s.db.Where("owner_id = ? AND property_id = ?", ownerID, propertyID).Delete(&models.BaselinePin{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBaselineNotPinned
	}

	s.audit.Log(ownerID, AuditBaselineUnpinned, "property", propertyID, ipAddress, nil)
	return nil
}

// CompareWithBaseline evaluates the live input and diffs it against the
// property's pinned baseline.
func (s *scenarioService) CompareWithBaseline(ownerID string, in forecast.Input) (*forecast.Comparison, error) {
	if in.Property == nil || in.Property.ID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidProperty, "Property id is required")
	}

	var pin models.BaselinePin
	err := s.db.Where("owner_id = ? AND property_id = ?", ownerID, in.Property.ID).First(&pin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBaselineNotPinned
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rec, err := s.GetScenarioByID(ownerID, pin.ScenarioID)
	if err != nil {
		return nil, err
	}
	snap, err := snapshotFromRecord(rec)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	live, err := s.forecasts.Evaluate(in)
	if err != nil {
		return nil, err
	}

	rounded, err := roundedResult(live)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	cmp := forecast.Compare(snap.Result(), rounded)
	return &cmp, nil
}
