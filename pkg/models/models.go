package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeviceCategory is the semantic device class assigned by the classifier.
type DeviceCategory string

const (
	CategoryDesktop      DeviceCategory = "desktop"
	CategoryLaptop       DeviceCategory = "laptop"
	CategoryTablet       DeviceCategory = "tablet"
	CategorySmartphone   DeviceCategory = "smartphone"
	CategoryMouse        DeviceCategory = "mouse"
	CategoryKeyboard     DeviceCategory = "keyboard"
	CategoryHeadphones   DeviceCategory = "headphones"
	CategoryEarbuds      DeviceCategory = "earbuds"
	CategorySpeaker      DeviceCategory = "speaker"
	CategoryGamepad      DeviceCategory = "gamepad"
	CategoryTracker      DeviceCategory = "tracker"
	CategoryWatch        DeviceCategory = "watch"
	CategoryStylus       DeviceCategory = "stylus"
	CategoryCamera       DeviceCategory = "camera"
	CategoryRemote       DeviceCategory = "remote"
	CategorySensor       DeviceCategory = "sensor"
	CategoryHealthDevice DeviceCategory = "healthDevice"
	CategoryOther        DeviceCategory = "other"
	CategoryUnknown      DeviceCategory = "unknown"
)

var deviceCategories = map[DeviceCategory]bool{
	CategoryDesktop: true, CategoryLaptop: true, CategoryTablet: true,
	CategorySmartphone: true, CategoryMouse: true, CategoryKeyboard: true,
	CategoryHeadphones: true, CategoryEarbuds: true, CategorySpeaker: true,
	CategoryGamepad: true, CategoryTracker: true, CategoryWatch: true,
	CategoryStylus: true, CategoryCamera: true, CategoryRemote: true,
	CategorySensor: true, CategoryHealthDevice: true, CategoryOther: true,
	CategoryUnknown: true,
}

// ParseDeviceCategory maps a stored string onto a category, falling back to
// unknown for anything unrecognised instead of failing.
func ParseDeviceCategory(s string) DeviceCategory {
	if deviceCategories[DeviceCategory(s)] {
		return DeviceCategory(s)
	}
	return CategoryUnknown
}

func (c *DeviceCategory) Scan(value any) error {
	*c = ParseDeviceCategory(asString(value))
	return nil
}

func (c DeviceCategory) Value() (driver.Value, error) {
	return string(c), nil
}

// AlertType identifies the semantic condition a tripwire fires on.
type AlertType string

const (
	AlertTypeNone              AlertType = ""
	AlertTypeDeviceDepleting   AlertType = "deviceDepleting"
	AlertTypeChargingBegan     AlertType = "chargingBegan"
	AlertTypeChargingStopped   AlertType = "chargingStopped"
	AlertTypeChargingComplete  AlertType = "chargingComplete"
	AlertTypeDeviceOverheating AlertType = "deviceOverheating"
	AlertTypeUnknown           AlertType = "unknown"
)

var alertTypes = map[AlertType]bool{
	AlertTypeDeviceDepleting: true, AlertTypeChargingBegan: true,
	AlertTypeChargingStopped: true, AlertTypeChargingComplete: true,
	AlertTypeDeviceOverheating: true,
}

func ParseAlertType(s string) AlertType {
	if alertTypes[AlertType(s)] {
		return AlertType(s)
	}
	return AlertTypeUnknown
}

func (a *AlertType) Scan(value any) error {
	*a = ParseAlertType(asString(value))
	return nil
}

func (a AlertType) Value() (driver.Value, error) {
	return string(a), nil
}

// LocalOnly alerts never leave the host; charging transitions are only
// meaningful on the machine they happened on.
func (a AlertType) LocalOnly() bool {
	switch a {
	case AlertTypeChargingBegan, AlertTypeChargingStopped, AlertTypeChargingComplete:
		return true
	}
	return false
}

// ChargingState is the power-source state recorded with an event.
type ChargingState string

const (
	ChargingStateCharging ChargingState = "charging"
	ChargingStateBattery  ChargingState = "battery"
	ChargingStateUnknown  ChargingState = "unknown"
)

func ParseChargingState(s string) ChargingState {
	switch ChargingState(s) {
	case ChargingStateCharging, ChargingStateBattery:
		return ChargingState(s)
	}
	return ChargingStateUnknown
}

func (c *ChargingState) Scan(value any) error {
	*c = ParseChargingState(asString(value))
	return nil
}

func (c ChargingState) Value() (driver.Value, error) {
	return string(c), nil
}

// BatteryMode records whether the host was in an efficiency mode.
type BatteryMode string

const (
	BatteryModeNormal    BatteryMode = "normal"
	BatteryModeEfficient BatteryMode = "efficient"
	BatteryModeUnknown   BatteryMode = "unknown"
)

func ParseBatteryMode(s string) BatteryMode {
	switch BatteryMode(s) {
	case BatteryModeNormal, BatteryModeEfficient:
		return BatteryMode(s)
	}
	return BatteryModeUnknown
}

func (m *BatteryMode) Scan(value any) error {
	*m = ParseBatteryMode(asString(value))
	return nil
}

func (m BatteryMode) Value() (driver.Value, error) {
	return string(m), nil
}

// DeviceState tracks where a device sits in its user-facing lifecycle.
type DeviceState string

const (
	DeviceStateDiscovered DeviceState = "discovered"
	DeviceStateAdded      DeviceState = "added"
	DeviceStateIgnored    DeviceState = "ignored"
	DeviceStateUnknown    DeviceState = "unknown"
)

func ParseDeviceState(s string) DeviceState {
	switch DeviceState(s) {
	case DeviceStateDiscovered, DeviceStateAdded, DeviceStateIgnored:
		return DeviceState(s)
	}
	return DeviceStateUnknown
}

func (d *DeviceState) Scan(value any) error {
	*d = ParseDeviceState(asString(value))
	return nil
}

func (d DeviceState) Value() (driver.Value, error) {
	return string(d), nil
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// DeviceProfile is the identity-relevant snapshot taken at observation time.
// It is never stored directly; the resolver uses it to match or create a
// Device. Empty strings mean the attribute was not reported.
type DeviceProfile struct {
	Name       string
	Model      string
	Vendor     string
	Serial     string
	Appearance string
	FindMy     bool
}

// Device is the canonical persisted entity for one physical accessory.
type Device struct {
	ID                 uuid.UUID `gorm:"type:text;primaryKey"`
	Name               string
	Model              string `gorm:"index"`
	Vendor             *string
	Serial             *string `gorm:"index"`
	Appearance         *string
	FindMy             bool
	Category           *DeviceCategory `gorm:"type:varchar(20)"`
	CategoryConfidence *float64
	CategorySummary    *string
	ClassifiedAt       *time.Time
	State              DeviceState `gorm:"type:varchar(20)"`
	AddedAt            time.Time
	LastSeenAt         time.Time `gorm:"index"`

	Events []BatteryEvent `gorm:"foreignKey:DeviceID;references:ID"`
}

// Profile rebuilds the observation-time view of a stored device.
func (d *Device) Profile() DeviceProfile {
	return DeviceProfile{
		Name:       d.Name,
		Model:      d.Model,
		Vendor:     strDeref(d.Vendor),
		Serial:     strDeref(d.Serial),
		Appearance: strDeref(d.Appearance),
		FindMy:     d.FindMy,
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StrPtr returns nil for an empty string so absent profile attributes stay
// NULL in storage.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BatteryEvent is one percentage/state sample. Immutable once written.
// A nil DeviceID means the sample belongs to the local host battery.
type BatteryEvent struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt   time.Time `gorm:"index"`
	Percent     int
	State       ChargingState `gorm:"type:varchar(20)"`
	Mode        BatteryMode   `gorm:"type:varchar(20)"`
	Cycles      *int
	Temperature *int
	OSVersion   *string
	SessionID   uuid.UUID  `gorm:"type:text;index"`
	DeviceID    *uuid.UUID `gorm:"type:text;index"`
}

// Alert records that a condition was raised for an event.
type Alert struct {
	ID          uuid.UUID `gorm:"type:text;primaryKey"`
	Type        AlertType `gorm:"type:varchar(30)"`
	EventID     uuid.UUID `gorm:"type:text;index"`
	TriggeredAt time.Time
	ViewedAt    *time.Time
	LocalOnly   bool
}

// AlertRule is a configured tripwire. Percent is nil for the charging
// transition and thermal rules, which fire unconditionally on their type.
type AlertRule struct {
	ID      uuid.UUID `gorm:"type:text;primaryKey"`
	Type    AlertType `gorm:"type:varchar(30);index"`
	Percent *int
	Custom  bool
	AddedAt time.Time
}
