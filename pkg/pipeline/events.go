package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// recordEvent stores one battery sample for a companion device, or for the
// local host when device is nil. Telemetry recording must never crash the
// caller: every failure is logged and swallowed, at worst the sample for
// this tick is lost and the next sighting retries naturally.
//
// Dedup: the most recent event for the same identity with the same percent,
// from an earlier session, younger than the dedup window suppresses the
// insert. The existing event is still re-run through the alert engine, so a
// rule added since then can still fire.
func (p *Pipeline) recordEvent(device *models.Device, percent *int, forced models.AlertType) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryEvents),
	)

	host := p.HostStatus()

	currentPercent := host.Percent
	if percent != nil {
		currentPercent = *percent
	}

	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		now := p.now()
		cutoff := now.Add(-p.Cfg.EventDedupWindow)

		query := tx.
			Where("session_id != ?", p.SessionID).
			Where("percent = ?", currentPercent).
			Where("created_at > ?", cutoff)

		if device != nil {
			query = query.Where("device_id = ?", device.ID)
		} else {
			query = query.Where("device_id IS NULL")
		}

		var last models.BatteryEvent
		err := query.Order("created_at desc").First(&last).Error
		if err == nil {
			// Stable reading; re-emit so alerting logic changes still apply.
			p.Alerts.CheckAndStoreAlert(tx, &last, forced)
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		event := models.BatteryEvent{
			ID:        uuid.New(),
			CreatedAt: now,
			Percent:   currentPercent,
			SessionID: p.SessionID,
		}

		if device != nil {
			deviceID := device.ID
			event.DeviceID = &deviceID
			event.State = models.ChargingStateBattery
			event.Mode = models.BatteryModeNormal
		} else {
			event.State = host.State
			event.Mode = host.Mode
			event.Temperature = host.Temperature
			event.Cycles = host.Cycles
			event.OSVersion = models.StrPtr(host.OSVersion)
		}

		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		p.Alerts.CheckAndStoreAlert(tx, &event, forced)
		return nil
	})
	if err != nil {
		logger.Warn("Failed to record battery event", zap.Error(err))
	}
}

// cleanupExpiredEvents hard-deletes events older than the retention window,
// together with any alerts that reference them. Deletion is unconditional;
// whether an event ever produced an alert does not matter. The cascade is an
// explicit child-then-parent transaction.
func (p *Pipeline) cleanupExpiredEvents() (int64, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRetention),
	)

	cutoff := p.now().Add(-p.Cfg.EventRetention)
	var removed int64

	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var expired []uuid.UUID
		if err := tx.Model(&models.BatteryEvent{}).
			Where("created_at < ?", cutoff).
			Pluck("id", &expired).Error; err != nil {
			return err
		}

		if len(expired) == 0 {
			return nil
		}

		if err := tx.Delete(&models.Alert{}, "event_id IN ?", expired).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.BatteryEvent{}, "id IN ?", expired)
		if result.Error != nil {
			return result.Error
		}

		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		logger.Info("Pruned expired battery events", zap.Int64("removed", removed))
	}

	return removed, nil
}

// StartRetentionLoop runs the retention sweep once immediately and then on
// every tick until ctx is cancelled. Sweep failures are logged and retried
// on the next tick.
func (p *Pipeline) StartRetentionLoop(ctx context.Context, interval time.Duration) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRetention),
	)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if _, err := p.Events.CleanupExpiredEvents(); err != nil {
			logger.Warn("Retention sweep failed", zap.Error(err))
		}

		for {
			select {
			case <-ticker.C:
				if _, err := p.Events.CleanupExpiredEvents(); err != nil {
					logger.Warn("Retention sweep failed", zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (p *Pipeline) deviceEvents(deviceID uuid.UUID) ([]models.BatteryEvent, error) {
	var events []models.BatteryEvent
	err := p.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("created_at desc").
		Find(&events).Error
	return events, err
}

type IEventStoreImpl struct {
	pipeline *Pipeline
}

func (ie *IEventStoreImpl) RecordEvent(device *models.Device, percent *int, forced models.AlertType) {
	ie.pipeline.recordEvent(device, percent, forced)
}

func (ie *IEventStoreImpl) CleanupExpiredEvents() (int64, error) {
	return ie.pipeline.cleanupExpiredEvents()
}

func (ie *IEventStoreImpl) DeviceEvents(deviceID uuid.UUID) ([]models.BatteryEvent, error) {
	return ie.pipeline.deviceEvents(deviceID)
}

func (p *Pipeline) GetIEventStore() IEventStore {
	return &IEventStoreImpl{pipeline: p}
}
