package pipeline

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/continuity"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// IngestAdvertisement is the scan-source entry point: raw manufacturer data
// paired with whatever device metadata the radio reported. Payloads without
// a decodable battery level are dropped silently; that is the normal fate
// of almost every advertisement seen during a scan.
func (p *Pipeline) IngestAdvertisement(ctx context.Context, profile models.DeviceProfile, manufacturerData []byte) (*models.Device, bool) {
	battery, ok := continuity.DecodeBatteryLevel(manufacturerData)
	if !ok {
		return nil, false
	}

	return p.ingestReading(ctx, profile, battery), true
}

// IngestDeviceReading records a self-reported battery percentage for a
// companion device, resolving the profile to a canonical device first.
func (p *Pipeline) IngestDeviceReading(ctx context.Context, profile models.DeviceProfile, percent int) *models.Device {
	return p.ingestReading(ctx, profile, percent)
}

func (p *Pipeline) ingestReading(ctx context.Context, profile models.DeviceProfile, percent int) *models.Device {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryEvents),
	)

	device, err := p.Resolver.ResolveOrCreate(profile)
	if err != nil {
		// Fail closed: skip this sample, the next sighting retries.
		logger.Warn("Failed to resolve device for sighting",
			zap.String("name", profile.Name), zap.Error(err))
		return nil
	}

	if device.ClassifiedAt == nil {
		p.classifyAndSave(ctx, device)
	}

	p.Events.RecordEvent(device, &percent, models.AlertTypeNone)
	return device
}

func (p *Pipeline) classifyAndSave(ctx context.Context, device *models.Device) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryClassifier),
	)

	result := p.Classifier.Classify(ctx, device.Profile())

	now := p.now()
	category := result.Category
	device.Category = &category
	device.CategoryConfidence = &result.Confidence
	device.CategorySummary = &result.Summary
	device.ClassifiedAt = &now

	if err := p.Db.Conn.Save(device).Error; err != nil {
		// A failed classification save degrades to "unclassified", it never
		// blocks the battery sample behind it.
		logger.Warn("Failed to save device classification",
			zap.String("device_id", device.ID.String()), zap.Error(err))
	}
}

// IngestHostReading records a self-reported power-source reading for the
// local machine. Charging transitions and thermal breaches are detected
// here, against the previous snapshot, and passed down as forced hints.
func (p *Pipeline) IngestHostReading(status HostStatus) {
	previous := p.HostStatus()
	p.UpdateHostStatus(status)

	forced := models.AlertTypeNone

	if previous.State != status.State {
		switch status.State {
		case models.ChargingStateCharging:
			forced = models.AlertTypeChargingBegan
		case models.ChargingStateBattery:
			forced = models.AlertTypeChargingStopped
		}
	}

	if status.Temperature != nil && *status.Temperature >= p.Cfg.ThermalSuboptimal {
		forced = models.AlertTypeDeviceOverheating
	}

	p.Events.RecordEvent(nil, nil, forced)
}

// Devices lists every stored device, most recently seen first.
func (p *Pipeline) Devices() ([]models.Device, error) {
	var devices []models.Device
	err := p.Db.Conn.Order("last_seen_at desc").Find(&devices).Error
	return devices, err
}

// DestroyAllData is the explicit user-facing wipe: alerts, events, devices
// and rules, children before parents.
func (p *Pipeline) DestroyAllData() error {
	return p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Alert{}, &models.BatteryEvent{}, &models.Device{}, &models.AlertRule{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
