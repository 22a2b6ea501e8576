package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// defaultDepletionLadder are the depletion thresholds seeded on first run.
var defaultDepletionLadder = []int{1, 5, 15, 25}

// triggeredKey identifies one semantically distinct condition occurrence.
func triggeredKey(eventID uuid.UUID, alertType models.AlertType) string {
	return eventID.String() + "/" + string(alertType)
}

// checkAndStoreAlert decides whether a stored event raises an alert and, if
// so, persists it with strict at-most-once semantics. It runs inside the
// caller's transaction so the existence check and insert are one atomic
// unit. Failures are logged and swallowed: a missed notification, not a
// broken process.
func (p *Pipeline) checkAndStoreAlert(tx *gorm.DB, event *models.BatteryEvent, forced models.AlertType) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlerts),
	)

	rules, err := p.rulesIn(tx)
	if err != nil {
		logger.Warn("Failed to load alert rules", zap.Error(err))
		return
	}

	alertType := p.decideAlertType(event, forced, rules)
	if alertType == models.AlertTypeNone {
		return
	}

	// Tier one: rapid re-evaluations of the same condition (several sensor
	// refreshes inside one second) stop here, before any storage work.
	key := triggeredKey(event.ID, alertType)
	p.triggeredMu.Lock()
	_, seen := p.lastTriggered[key]
	p.triggeredMu.Unlock()
	if seen {
		return
	}

	// Tier two: a persisted alert already referencing this event is
	// refreshed in place rather than duplicated, and does not re-notify.
	var existing models.Alert
	err = tx.Where("event_id = ?", event.ID).First(&existing).Error
	if err == nil {
		existing.TriggeredAt = p.now()
		existing.Type = alertType
		if err := tx.Save(&existing).Error; err != nil {
			logger.Warn("Failed to refresh alert", zap.Error(err))
		}
		return
	}
	if err != gorm.ErrRecordNotFound {
		logger.Warn("Failed to look up alert", zap.Error(err))
		return
	}

	alert := models.Alert{
		ID:          uuid.New(),
		Type:        alertType,
		EventID:     event.ID,
		TriggeredAt: p.now(),
		LocalOnly:   alertType.LocalOnly(),
	}

	if err := tx.Create(&alert).Error; err != nil {
		logger.Warn("Failed to store alert", zap.Error(err))
		return
	}

	p.triggeredMu.Lock()
	p.lastTriggered[key] = alert.TriggeredAt
	p.triggeredMu.Unlock()

	logger.Info("Alert raised",
		zap.String("type", string(alertType)),
		zap.String("event_id", event.ID.String()),
		zap.Int("percent", event.Percent))

	if p.Notifier != nil {
		p.Notifier.AlertRaised(alertType, p.alertDevice(tx, event))
	}
}

// decideAlertType resolves the candidate condition for an event. A forced
// hint overrides the threshold rules, except deviceOverheating which is
// advisory: it is honored only when the recorded temperature is actually in
// the suboptimal band.
func (p *Pipeline) decideAlertType(event *models.BatteryEvent, forced models.AlertType, rules []models.AlertRule) models.AlertType {
	alertType := models.AlertTypeNone

	if event.DeviceID != nil {
		if depletionRuleMatches(rules, event.Percent) {
			alertType = models.AlertTypeDeviceDepleting
		}
		return alertType
	}

	if event.Percent == p.Cfg.MaxPercent && event.State == models.ChargingStateCharging {
		alertType = models.AlertTypeChargingComplete
	} else if depletionRuleMatches(rules, event.Percent) {
		alertType = models.AlertTypeDeviceDepleting
	}

	if forced != models.AlertTypeNone {
		if forced == models.AlertTypeDeviceOverheating {
			if event.Temperature != nil && *event.Temperature >= p.Cfg.ThermalSuboptimal {
				alertType = models.AlertTypeDeviceOverheating
			}
		} else {
			alertType = forced
		}
	}

	return alertType
}

func depletionRuleMatches(rules []models.AlertRule, percent int) bool {
	for _, rule := range rules {
		if rule.Type == models.AlertTypeDeviceDepleting && rule.Percent != nil && *rule.Percent == percent {
			return true
		}
	}
	return false
}

func (p *Pipeline) alertDevice(tx *gorm.DB, event *models.BatteryEvent) *models.Device {
	if event.DeviceID == nil {
		return nil
	}
	var device models.Device
	if err := tx.First(&device, "id = ?", *event.DeviceID).Error; err != nil {
		return nil
	}
	return &device
}

func (p *Pipeline) rulesIn(tx *gorm.DB) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := tx.Find(&rules).Error
	return rules, err
}

// seedDefaultRules wipes the rule set and installs the default ladder:
// depletion tripwires at 1/5/15/25 percent plus the unconditional charging
// transition rules.
func (p *Pipeline) seedDefaultRules() error {
	return p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.AlertRule{}).Error; err != nil {
			return err
		}

		for _, percent := range defaultDepletionLadder {
			value := percent
			if err := p.ruleCreateIn(tx, models.AlertTypeDeviceDepleting, &value, false); err != nil {
				return err
			}
		}

		for _, alertType := range []models.AlertType{
			models.AlertTypeChargingBegan,
			models.AlertTypeChargingStopped,
			models.AlertTypeChargingComplete,
		} {
			if err := p.ruleCreateIn(tx, alertType, nil, false); err != nil {
				return err
			}
		}

		return nil
	})
}

// ruleCreateIn is idempotent: an existing rule for the same (type, percent)
// is left alone.
func (p *Pipeline) ruleCreateIn(tx *gorm.DB, alertType models.AlertType, percent *int, custom bool) error {
	query := tx.Where("type = ?", alertType)
	if percent != nil {
		query = query.Where("percent = ?", *percent)
	}

	var existing models.AlertRule
	err := query.First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	rule := models.AlertRule{
		ID:      uuid.New(),
		Type:    alertType,
		Percent: percent,
		Custom:  custom,
		AddedAt: p.now(),
	}
	return tx.Create(&rule).Error
}

func (p *Pipeline) ruleCreate(alertType models.AlertType, percent *int, custom bool) error {
	return p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		return p.ruleCreateIn(tx, alertType, percent, custom)
	})
}

func (p *Pipeline) ruleDeleteByID(ruleID uuid.UUID) error {
	return p.Db.Conn.Delete(&models.AlertRule{}, "id = ?", ruleID).Error
}

func (p *Pipeline) ruleDelete(alertType models.AlertType, percent *int) error {
	query := p.Db.Conn.Where("type = ?", alertType)
	if percent != nil {
		query = query.Where("percent = ?", *percent)
	}
	return query.Delete(&models.AlertRule{}).Error
}

// rulesMultiple registers a depletion tripwire at every multiple of the
// given value between 1 and 99. Multiples of four and below are rejected to
// keep the rule set from flooding.
func (p *Pipeline) rulesMultiple(multiple int) error {
	if multiple <= 4 {
		return nil
	}
	return p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for i := multiple; i < 100; i += multiple {
			value := i
			if err := p.ruleCreateIn(tx, models.AlertTypeDeviceDepleting, &value, true); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Pipeline) rules() ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := p.Db.Conn.Order("percent asc").Find(&rules).Error
	return rules, err
}

func (p *Pipeline) deviceAlerts(deviceID uuid.UUID) ([]models.Alert, error) {
	var alerts []models.Alert
	err := p.Db.Conn.
		Joins("JOIN battery_events ON battery_events.id = alerts.event_id").
		Where("battery_events.device_id = ?", deviceID).
		Order("alerts.triggered_at desc").
		Find(&alerts).Error
	return alerts, err
}

// MarkAlertViewed stamps the alert as seen by the user.
func (p *Pipeline) MarkAlertViewed(alertID uuid.UUID) error {
	now := p.now()
	return p.Db.Conn.Model(&models.Alert{}).
		Where("id = ?", alertID).
		Update("viewed_at", now).Error
}

type IAlertEngineImpl struct {
	pipeline *Pipeline
}

func (ia *IAlertEngineImpl) CheckAndStoreAlert(tx *gorm.DB, event *models.BatteryEvent, forced models.AlertType) {
	ia.pipeline.checkAndStoreAlert(tx, event, forced)
}

func (ia *IAlertEngineImpl) SeedDefaultRules() error {
	return ia.pipeline.seedDefaultRules()
}

func (ia *IAlertEngineImpl) RuleCreate(alertType models.AlertType, percent *int, custom bool) error {
	return ia.pipeline.ruleCreate(alertType, percent, custom)
}

func (ia *IAlertEngineImpl) RuleDelete(alertType models.AlertType, percent *int) error {
	return ia.pipeline.ruleDelete(alertType, percent)
}

func (ia *IAlertEngineImpl) RuleDeleteByID(ruleID uuid.UUID) error {
	return ia.pipeline.ruleDeleteByID(ruleID)
}

func (ia *IAlertEngineImpl) RulesMultiple(multiple int) error {
	return ia.pipeline.rulesMultiple(multiple)
}

func (ia *IAlertEngineImpl) Rules() ([]models.AlertRule, error) {
	return ia.pipeline.rules()
}

func (ia *IAlertEngineImpl) DeviceAlerts(deviceID uuid.UUID) ([]models.Alert, error) {
	return ia.pipeline.deviceAlerts(deviceID)
}

func (p *Pipeline) GetIAlertEngine() IAlertEngine {
	return &IAlertEngineImpl{pipeline: p}
}
