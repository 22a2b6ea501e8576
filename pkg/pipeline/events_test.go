package pipeline_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"powersense.xyz/battery-telemetry-service/pkg/common"
	. "powersense.xyz/battery-telemetry-service/pkg/pipeline"
	"powersense.xyz/battery-telemetry-service/pkg/models"
	_ "powersense.xyz/battery-telemetry-service/pkg/testing"
)

func createTestDevice(t *testing.T, p *Pipeline, name string) *models.Device {
	t.Helper()
	device := models.Device{
		ID:         uuid.New(),
		Name:       name,
		State:      models.DeviceStateDiscovered,
		AddedAt:    time.Now(),
		LastSeenAt: time.Now(),
	}
	assert.NoError(t, p.Db.Conn.Create(&device).Error)
	return &device
}

func TestRecordEventStoresCompanionSample(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, mockAlerts := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	device := createTestDevice(t, p, "Events Companion A")

	mockAlerts.EXPECT().CheckAndStoreAlert(gomock.Any(), gomock.Any(), models.AlertTypeNone).Times(1)

	percent := 42
	p.Events.RecordEvent(device, &percent, models.AlertTypeNone)

	events, err := p.Events.DeviceEvents(device.ID)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, 42, events[0].Percent)
	assert.Equal(t, p.SessionID, events[0].SessionID)
	assert.Equal(t, models.ChargingStateBattery, events[0].State)
}

func TestRecordEventDedupAcrossSessions(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, mockAlerts := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	device := createTestDevice(t, p, "Events Dedup B")
	deviceID := device.ID

	// A reading stored by an earlier run, inside the dedup window.
	prior := models.BatteryEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now().Add(-10 * time.Minute),
		Percent:   55,
		State:     models.ChargingStateBattery,
		Mode:      models.BatteryModeNormal,
		SessionID: uuid.New(),
		DeviceID:  &deviceID,
	}
	assert.NoError(t, p.Db.Conn.Create(&prior).Error)

	// The stable reading is suppressed but still re-evaluated for alerts.
	mockAlerts.EXPECT().
		CheckAndStoreAlert(gomock.Any(), gomock.Any(), models.AlertTypeNone).
		Do(func(_ any, event *models.BatteryEvent, _ models.AlertType) {
			assert.Equal(t, prior.ID, event.ID)
		}).
		Times(1)

	percent := 55
	p.Events.RecordEvent(device, &percent, models.AlertTypeNone)

	events, err := p.Events.DeviceEvents(device.ID)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRecordEventOutsideWindowIsStored(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, mockAlerts := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	device := createTestDevice(t, p, "Events Window C")
	deviceID := device.ID

	prior := models.BatteryEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now().Add(-45 * time.Minute),
		Percent:   55,
		State:     models.ChargingStateBattery,
		Mode:      models.BatteryModeNormal,
		SessionID: uuid.New(),
		DeviceID:  &deviceID,
	}
	assert.NoError(t, p.Db.Conn.Create(&prior).Error)

	mockAlerts.EXPECT().CheckAndStoreAlert(gomock.Any(), gomock.Any(), models.AlertTypeNone).Times(1)

	percent := 55
	p.Events.RecordEvent(device, &percent, models.AlertTypeNone)

	events, err := p.Events.DeviceEvents(device.ID)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRecordEventDifferentPercentIsStored(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, mockAlerts := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	device := createTestDevice(t, p, "Events Percent D")

	mockAlerts.EXPECT().CheckAndStoreAlert(gomock.Any(), gomock.Any(), models.AlertTypeNone).Times(2)

	first := 60
	p.Events.RecordEvent(device, &first, models.AlertTypeNone)
	second := 59
	p.Events.RecordEvent(device, &second, models.AlertTypeNone)

	events, err := p.Events.DeviceEvents(device.ID)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRecordEventHostSnapshot(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, mockAlerts := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, true)
	defer ctrl.Finish()

	temperature := 35
	cycles := 120
	p.UpdateHostStatus(HostStatus{
		Percent:     63,
		State:       models.ChargingStateCharging,
		Mode:        models.BatteryModeEfficient,
		Temperature: &temperature,
		Cycles:      &cycles,
		OSVersion:   "14.5",
	})

	mockAlerts.EXPECT().CheckAndStoreAlert(gomock.Any(), gomock.Any(), models.AlertTypeNone).Times(1)

	p.Events.RecordEvent(nil, nil, models.AlertTypeNone)

	var event models.BatteryEvent
	err := p.Db.Conn.
		Where("device_id IS NULL").
		Where("session_id = ?", p.SessionID).
		Order("created_at desc").
		First(&event).Error
	assert.NoError(t, err)
	assert.Equal(t, 63, event.Percent)
	assert.Equal(t, models.ChargingStateCharging, event.State)
	assert.Equal(t, models.BatteryModeEfficient, event.Mode)
	assert.NotNil(t, event.Temperature)
	assert.Equal(t, 35, *event.Temperature)
	assert.NotNil(t, event.OSVersion)
	assert.Equal(t, "14.5", *event.OSVersion)
}

func TestCleanupExpiredEventsCascades(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, p, _, _, _, _ := GetMockPipelineWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	device := createTestDevice(t, p, "Events Retention E")
	deviceID := device.ID

	expired := models.BatteryEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now().Add(-31 * 24 * time.Hour),
		Percent:   12,
		State:     models.ChargingStateBattery,
		Mode:      models.BatteryModeNormal,
		SessionID: uuid.New(),
		DeviceID:  &deviceID,
	}
	assert.NoError(t, p.Db.Conn.Create(&expired).Error)

	orphanAlert := models.Alert{
		ID:          uuid.New(),
		Type:        models.AlertTypeDeviceDepleting,
		EventID:     expired.ID,
		TriggeredAt: expired.CreatedAt,
	}
	assert.NoError(t, p.Db.Conn.Create(&orphanAlert).Error)

	fresh := models.BatteryEvent{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Percent:   90,
		State:     models.ChargingStateBattery,
		Mode:      models.BatteryModeNormal,
		SessionID: uuid.New(),
		DeviceID:  &deviceID,
	}
	assert.NoError(t, p.Db.Conn.Create(&fresh).Error)

	removed, err := p.Events.CleanupExpiredEvents()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))

	var count int64
	assert.NoError(t, p.Db.Conn.Model(&models.BatteryEvent{}).Where("id = ?", expired.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, p.Db.Conn.Model(&models.Alert{}).Where("id = ?", orphanAlert.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, p.Db.Conn.Model(&models.BatteryEvent{}).Where("id = ?", fresh.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
