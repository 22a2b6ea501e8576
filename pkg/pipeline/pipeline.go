package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"powersense.xyz/battery-telemetry-service/pkg/db"
	"powersense.xyz/battery-telemetry-service/pkg/kv"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// IResolver matches a tentative sighting against stored devices.
type IResolver interface {
	ResolveOrCreate(profile models.DeviceProfile) (*models.Device, error)
	Deduplicate() (int, error)
}

// IClassifier assigns a semantic category to a device profile.
type IClassifier interface {
	Classify(ctx context.Context, profile models.DeviceProfile) ClassificationResult
	ClassifyUnclassified(ctx context.Context) error
	Progress() (completed int, total int)
	Analytics() ClassificationAnalytics
}

// IEventStore records battery samples with session-scoped dedup.
type IEventStore interface {
	RecordEvent(device *models.Device, percent *int, forced models.AlertType)
	CleanupExpiredEvents() (int64, error)
	DeviceEvents(deviceID uuid.UUID) ([]models.BatteryEvent, error)
}

// IAlertEngine decides whether stored events raise alerts and manages rules.
type IAlertEngine interface {
	CheckAndStoreAlert(tx *gorm.DB, event *models.BatteryEvent, forced models.AlertType)
	SeedDefaultRules() error
	RuleCreate(alertType models.AlertType, percent *int, custom bool) error
	RuleDelete(alertType models.AlertType, percent *int) error
	RuleDeleteByID(ruleID uuid.UUID) error
	RulesMultiple(multiple int) error
	Rules() ([]models.AlertRule, error)
	DeviceAlerts(deviceID uuid.UUID) ([]models.Alert, error)
}

// Notifier is the presentation collaborator; it receives one callback per
// truly-created alert.
type Notifier interface {
	AlertRaised(alertType models.AlertType, device *models.Device)
}

// GenerativeClassifier is an optional on-device or remote model consulted by
// the classifier cascade under a hard timeout. Implementations return an
// error (or nil result) to make the cascade fall through to heuristics.
type GenerativeClassifier interface {
	Classify(ctx context.Context, profile models.DeviceProfile) (*ClassificationResult, error)
}

// HostStatus is the most recent self-reported power-source reading for the
// local machine. Events recorded without a device fall back to it.
type HostStatus struct {
	Percent     int
	State       models.ChargingState
	Mode        models.BatteryMode
	Temperature *int
	Cycles      *int
	OSVersion   string
}

// Config carries the tunables of the pipeline. Zero values are replaced by
// defaults in NewPipeline.
type Config struct {
	MaxPercent          int           // percent treated as "full" for chargingComplete
	ThermalSuboptimal   int           // degrees C at which the thermal band is suboptimal
	EventDedupWindow    time.Duration // identical readings inside this window are not re-stored
	EventRetention      time.Duration // hard-delete events older than this
	ClassifyTimeout     time.Duration // generative classification deadline
	ClassifyInterval    time.Duration // minimum spacing between batch classifications
	FuzzyMatchThreshold float64       // Jaro-Winkler score required by the resolver
}

func (c Config) withDefaults() Config {
	if c.MaxPercent == 0 {
		c.MaxPercent = 100
	}
	if c.ThermalSuboptimal == 0 {
		c.ThermalSuboptimal = 40
	}
	if c.EventDedupWindow == 0 {
		c.EventDedupWindow = 30 * time.Minute
	}
	if c.EventRetention == 0 {
		c.EventRetention = 30 * 24 * time.Hour
	}
	if c.ClassifyTimeout == 0 {
		c.ClassifyTimeout = 5 * time.Second
	}
	if c.ClassifyInterval == 0 {
		c.ClassifyInterval = time.Second
	}
	if c.FuzzyMatchThreshold == 0 {
		c.FuzzyMatchThreshold = 0.92
	}
	return c
}

// Pipeline is the composition root of the telemetry subsystem. Collaborators
// are injected here; there are no package-level singletons.
type Pipeline struct {
	Db       db.DB
	KV       *kv.Store
	Cfg      Config
	Notifier Notifier

	// SessionID scopes event dedup to one process run.
	SessionID uuid.UUID

	Resolver   IResolver
	Classifier IClassifier
	Events     IEventStore
	Alerts     IAlertEngine

	// Generative is consulted by the classifier when set; nil means the
	// cascade starts at the heuristic tiers.
	Generative GenerativeClassifier

	// OnClassifyProgress, when set, receives incremental batch progress so a
	// UI can render a progress bar.
	OnClassifyProgress func(completed, total int)

	now func() time.Time

	hostMu sync.RWMutex
	host   HostStatus

	cacheMu       sync.RWMutex
	classifyCache map[string]ClassificationResult

	analyticsMu sync.Mutex
	analytics   ClassificationAnalytics

	triggeredMu   sync.Mutex
	lastTriggered map[string]time.Time
}

type ServiceOpts struct {
	Resolver   IResolver
	Classifier IClassifier
	Events     IEventStore
	Alerts     IAlertEngine
}

func NewPipeline(dbInstance db.DB, store *kv.Store, notifier Notifier, cfg Config) *Pipeline {
	p := &Pipeline{
		Db:            dbInstance,
		KV:            store,
		Cfg:           cfg.withDefaults(),
		Notifier:      notifier,
		SessionID:     uuid.New(),
		now:           time.Now,
		host:          HostStatus{Percent: 100, State: models.ChargingStateBattery, Mode: models.BatteryModeNormal},
		classifyCache: make(map[string]ClassificationResult),
		lastTriggered: make(map[string]time.Time),
	}
	p.loadAnalytics()
	return p
}

func (p *Pipeline) WithServices(opts ServiceOpts) *Pipeline {
	if opts.Resolver != nil {
		p.Resolver = opts.Resolver
	}
	if opts.Classifier != nil {
		p.Classifier = opts.Classifier
	}
	if opts.Events != nil {
		p.Events = opts.Events
	}
	if opts.Alerts != nil {
		p.Alerts = opts.Alerts
	}
	return p
}

// WithDefaultServices wires the built-in implementations of every service.
func (p *Pipeline) WithDefaultServices() *Pipeline {
	return p.WithServices(ServiceOpts{
		Resolver:   p.GetIResolver(),
		Classifier: p.GetIClassifier(),
		Events:     p.GetIEventStore(),
		Alerts:     p.GetIAlertEngine(),
	})
}

// UpdateHostStatus replaces the local power-source snapshot.
func (p *Pipeline) UpdateHostStatus(status HostStatus) {
	p.hostMu.Lock()
	p.host = status
	p.hostMu.Unlock()
}

func (p *Pipeline) HostStatus() HostStatus {
	p.hostMu.RLock()
	defer p.hostMu.RUnlock()
	return p.host
}
