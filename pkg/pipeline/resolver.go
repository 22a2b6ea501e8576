package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// Radios re-advertise the same accessory under drifting display names (case
// open/closed, battery suffixes), so pure exact-name matching explodes into
// duplicate devices. The resolver matches on the strongest available signal
// first and only falls back to fuzzy name similarity.

// trailing battery suffixes like " 85%", " (85%)" or " [85%]"
var batterySuffixPattern = regexp.MustCompile(`\s*[\(\[]?\d{1,3}\s*%[\)\]]?\s*$`)

func normalizeDeviceName(name string) string {
	name = batterySuffixPattern.ReplaceAllString(name, "")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// fieldsCompatible reports whether two profile attributes can describe the
// same device: equal, or at least one side never reported the attribute.
func fieldsCompatible(a, b string) bool {
	return a == "" || b == "" || strings.EqualFold(a, b)
}

// mostRecentlySeen is the documented tie-break for equally strong candidates.
func mostRecentlySeen(matches []models.Device) *models.Device {
	if len(matches) == 0 {
		return nil
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.LastSeenAt.After(best.LastSeenAt) {
			best = m
		}
	}
	return &best
}

// resolveMatch finds the stored device a tentative profile represents, or
// nil when it is genuinely new. It never fails; absence is a normal outcome.
func (p *Pipeline) resolveMatch(profile models.DeviceProfile, candidates []models.Device) *models.Device {
	if profile.Serial != "" {
		var matches []models.Device
		for _, c := range candidates {
			if c.Serial != nil && *c.Serial == profile.Serial {
				matches = append(matches, c)
			}
		}
		if m := mostRecentlySeen(matches); m != nil {
			return m
		}
	}

	if profile.Model != "" && profile.Vendor != "" {
		var matches []models.Device
		for _, c := range candidates {
			if c.Model == profile.Model && c.Vendor != nil && strings.EqualFold(*c.Vendor, profile.Vendor) {
				matches = append(matches, c)
			}
		}
		if m := mostRecentlySeen(matches); m != nil {
			return m
		}
	}

	tentative := normalizeDeviceName(profile.Name)
	if tentative == "" {
		return nil
	}

	var matches []models.Device
	bestScore := p.Cfg.FuzzyMatchThreshold
	for _, c := range candidates {
		existing := normalizeDeviceName(c.Name)
		if existing == "" {
			continue
		}
		if !fieldsCompatible(profile.Vendor, strDeref(c.Vendor)) {
			continue
		}
		if !fieldsCompatible(profile.Model, c.Model) {
			continue
		}

		score := smetrics.JaroWinkler(tentative, existing, 0.1, 4)
		if score > bestScore {
			bestScore = score
			matches = []models.Device{c}
		} else if score == bestScore && len(matches) > 0 {
			matches = append(matches, c)
		}
	}

	return mostRecentlySeen(matches)
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// resolveOrCreate matches the profile against all stored devices inside one
// transaction and refreshes the match, or creates a new device. Doing the
// existence check and the insert atomically is what keeps the one-device-
// per-identity invariant under concurrent sightings.
func (p *Pipeline) resolveOrCreate(profile models.DeviceProfile) (*models.Device, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryResolver),
	)

	var resolved *models.Device

	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var candidates []models.Device
		if err := tx.Find(&candidates).Error; err != nil {
			return err
		}

		now := p.now()

		if match := p.resolveMatch(profile, candidates); match != nil {
			match.Name = profile.Name
			if profile.Model != "" {
				match.Model = profile.Model
			}
			if profile.Vendor != "" {
				match.Vendor = models.StrPtr(profile.Vendor)
			}
			if profile.Serial != "" {
				match.Serial = models.StrPtr(profile.Serial)
			}
			if profile.Appearance != "" {
				match.Appearance = models.StrPtr(profile.Appearance)
			}
			if profile.FindMy {
				match.FindMy = true
			}
			match.LastSeenAt = now

			if err := tx.Save(match).Error; err != nil {
				return err
			}

			resolved = match
			return nil
		}

		device := models.Device{
			ID:         uuid.New(),
			Name:       profile.Name,
			Model:      profile.Model,
			Vendor:     models.StrPtr(profile.Vendor),
			Serial:     models.StrPtr(profile.Serial),
			Appearance: models.StrPtr(profile.Appearance),
			FindMy:     profile.FindMy,
			State:      models.DeviceStateDiscovered,
			AddedAt:    now,
			LastSeenAt: now,
		}

		if err := tx.Create(&device).Error; err != nil {
			return err
		}

		logger.Info("Created device for unresolved sighting",
			zap.String("device_id", device.ID.String()),
			zap.String("name", device.Name))

		resolved = &device
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// deduplicate is the post-hoc maintenance sweep: any residual duplicates the
// live resolver missed are merged onto the most-recently-seen copy, their
// battery events reparented, and the losers deleted. Returns the number of
// devices removed.
func (p *Pipeline) deduplicate() (int, error) {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryResolver),
	)

	merged := 0

	err := p.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var devices []models.Device
		if err := tx.Order("last_seen_at desc").Find(&devices).Error; err != nil {
			return err
		}

		removed := make(map[uuid.UUID]bool)

		for i := range devices {
			canonical := &devices[i]
			if removed[canonical.ID] {
				continue
			}

			rest := devices[i+1:]
			for j := range rest {
				loser := &rest[j]
				if removed[loser.ID] {
					continue
				}

				if p.resolveMatch(loser.Profile(), []models.Device{*canonical}) == nil {
					continue
				}

				if err := tx.Model(&models.BatteryEvent{}).
					Where("device_id = ?", loser.ID).
					Update("device_id", canonical.ID).Error; err != nil {
					return err
				}

				if err := tx.Delete(&models.Device{}, "id = ?", loser.ID).Error; err != nil {
					return err
				}

				logger.Info("Merged duplicate device",
					zap.String("canonical", canonical.ID.String()),
					zap.String("removed", loser.ID.String()))

				removed[loser.ID] = true
				merged++
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return merged, nil
}

type IResolverImpl struct {
	pipeline *Pipeline
}

func (ir *IResolverImpl) ResolveOrCreate(profile models.DeviceProfile) (*models.Device, error) {
	return ir.pipeline.resolveOrCreate(profile)
}

func (ir *IResolverImpl) Deduplicate() (int, error) {
	return ir.pipeline.deduplicate()
}

func (p *Pipeline) GetIResolver() IResolver {
	return &IResolverImpl{pipeline: p}
}
