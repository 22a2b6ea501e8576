package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/models"
)

// KV keys for durable classification state.
const (
	kvKeyAnalytics         = "classification_analytics"
	kvKeyClassifyCompleted = "classification_completed"
	kvKeyClassifyTotal     = "classification_total"
	kvKeyClassifyDone      = "classification_done"
)

// ClassificationResult is what one pass of the cascade produces.
type ClassificationResult struct {
	Category   models.DeviceCategory `json:"category"`
	Confidence float64               `json:"confidence"`
	Summary    string                `json:"summary"`
	Reasoning  string                `json:"reasoning,omitempty"`
}

// ClassificationAnalytics are running counters over every non-cached
// classification, persisted after each update.
type ClassificationAnalytics struct {
	TotalClassifications      int            `json:"total_classifications"`
	SuccessfulClassifications int            `json:"successful_classifications"`
	HeuristicFallbacks        int            `json:"heuristic_fallbacks"`
	ConfidenceDistribution    map[string]int `json:"confidence_distribution"`
	CategoryDistribution      map[string]int `json:"category_distribution"`
}

func newAnalytics() ClassificationAnalytics {
	return ClassificationAnalytics{
		ConfidenceDistribution: make(map[string]int),
		CategoryDistribution:   make(map[string]int),
	}
}

type appearanceRule struct {
	category   models.DeviceCategory
	confidence float64
	summary    string
}

// Bluetooth SIG appearance values we recognise. Exact-match only.
var appearanceRules = map[int64]appearanceRule{
	0x03C1: {models.CategoryKeyboard, 0.95, "Bluetooth keyboard for computer input."},
	0x03C2: {models.CategoryMouse, 0.95, "Bluetooth mouse device for computer input."},
	0x03C4: {models.CategoryGamepad, 0.90, "Bluetooth game controller or gamepad."},
	0x0841: {models.CategoryHeadphones, 0.90, "Bluetooth headphones for audio output."},
	0x0842: {models.CategoryHeadphones, 0.90, "Bluetooth headphones for audio output."},
	0x0843: {models.CategoryEarbuds, 0.92, "Bluetooth earbuds for wireless audio."},
	0x0844: {models.CategoryEarbuds, 0.92, "Bluetooth earbuds for wireless audio."},
	0x0845: {models.CategorySpeaker, 0.88, "Bluetooth speaker for audio playback."},
	0x0846: {models.CategorySpeaker, 0.88, "Bluetooth speaker for audio playback."},
	0x0847: {models.CategorySpeaker, 0.88, "Bluetooth speaker for audio playback."},
}

type vendorRule struct {
	vendor     string
	pattern    string
	category   models.DeviceCategory
	confidence float64
	summary    string
}

// Ordered; first match wins. Rules can overlap, so only specific tokens are
// used (a bare "apple" rule would swallow every Apple device).
var vendorRules = []vendorRule{
	{"apple", "magicmouse", models.CategoryMouse, 0.95, "Apple Magic Mouse for Mac input control."},
	{"apple", "airpods", models.CategoryEarbuds, 0.98, "Apple AirPods wireless earbuds."},
	{"apple", "pencil", models.CategoryStylus, 0.95, "Apple Pencil for iPad input."},
	{"apple", "watch", models.CategoryWatch, 0.97, "Apple Watch smartwatch device."},
	{"nut", "nut", models.CategoryTracker, 0.92, "Nut Smart Tracker for locating items like keys and wallets."},
	{"tile", "", models.CategoryTracker, 0.90, "Tile Bluetooth tracker for finding items."},
	{"logitech", "mx", models.CategoryMouse, 0.90, "Logitech MX series mouse."},
	{"logitech", "keyboard", models.CategoryKeyboard, 0.90, "Logitech Bluetooth keyboard."},
	{"sony", "wh", models.CategoryHeadphones, 0.88, "Sony WH series wireless headphones."},
	{"bose", "", models.CategoryHeadphones, 0.85, "Bose Bluetooth headphones or speakers."},
	{"samsung", "buds", models.CategoryEarbuds, 0.88, "Samsung Galaxy Buds earbuds."},
	{"microsoft", "xbox", models.CategoryGamepad, 0.95, "Microsoft Xbox wireless controller."},
	{"8bitdo", "", models.CategoryGamepad, 0.90, "8BitDo wireless game controller."},
}

// First-party model identifier prefixes, the legacy lookup tier.
var firstPartyModels = []struct {
	prefix   string
	category models.DeviceCategory
	name     string
}{
	{"MacBookPro", models.CategoryLaptop, "MacBook Pro"},
	{"MacBookAir", models.CategoryLaptop, "MacBook Air"},
	{"MacBook", models.CategoryLaptop, "MacBook"},
	{"Macmini", models.CategoryDesktop, "Mac mini"},
	{"MacPro", models.CategoryDesktop, "Mac Pro"},
	{"iMac", models.CategoryDesktop, "iMac"},
	{"iPhone", models.CategorySmartphone, "iPhone"},
	{"iPad", models.CategoryTablet, "iPad"},
	{"AirPods", models.CategoryEarbuds, "AirPods"},
	{"Watch", models.CategoryWatch, "Apple Watch"},
}

func classifyCacheKey(profile models.DeviceProfile) string {
	return profile.Model + "_" + profile.Vendor + "_" + profile.Appearance
}

func (p *Pipeline) cachedResult(key string) (ClassificationResult, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	result, ok := p.classifyCache[key]
	return result, ok
}

func (p *Pipeline) setCachedResult(key string, result ClassificationResult) {
	p.cacheMu.Lock()
	p.classifyCache[key] = result
	p.cacheMu.Unlock()
}

// ClearClassificationCache drops every memoized result.
func (p *Pipeline) ClearClassificationCache() {
	p.cacheMu.Lock()
	p.classifyCache = make(map[string]ClassificationResult)
	p.cacheMu.Unlock()
}

// classify runs the cascade. Each tier only runs when the previous one
// produced nothing; the cascade always degrades, never errors. Cache hits
// return immediately and do not touch analytics.
func (p *Pipeline) classify(ctx context.Context, profile models.DeviceProfile) ClassificationResult {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryClassifier),
	)

	key := classifyCacheKey(profile)
	if cached, ok := p.cachedResult(key); ok {
		logger.Debug("Using cached classification", zap.String("model", profile.Model))
		return cached
	}

	result, usedHeuristics := p.classifyUncached(ctx, profile, logger)

	p.recordClassification(result, usedHeuristics, logger)
	p.setCachedResult(key, result)

	return result
}

func (p *Pipeline) classifyUncached(ctx context.Context, profile models.DeviceProfile, logger *zap.Logger) (ClassificationResult, bool) {
	if p.Generative != nil {
		if result, ok := p.classifyGenerative(ctx, profile, logger); ok {
			return result, false
		}
	}

	if result, ok := classifyAppearanceCode(profile.Appearance); ok {
		return result, true
	}

	if result, ok := classifyVendorModel(profile.Model, profile.Vendor); ok {
		return result, true
	}

	if result, ok := classifyFirstParty(profile.Model); ok {
		return result, true
	}

	return ClassificationResult{
		Category:   models.CategoryUnknown,
		Confidence: 0.3,
		Summary:    "Device type could not be determined from available information.",
		Reasoning:  "No matching classification rules for model: " + profile.Model,
	}, true
}

// classifyGenerative consults the pluggable model under a hard deadline. On
// timeout, error or an unusable result the cascade falls through; the
// pending call is cancelled with the context.
func (p *Pipeline) classifyGenerative(ctx context.Context, profile models.DeviceProfile, logger *zap.Logger) (ClassificationResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.Cfg.ClassifyTimeout)
	defer cancel()

	result, err := p.Generative.Classify(ctx, profile)
	if err != nil {
		logger.Debug("Generative classification unavailable, falling through",
			zap.String("model", profile.Model), zap.Error(err))
		return ClassificationResult{}, false
	}
	if result == nil {
		return ClassificationResult{}, false
	}
	if models.ParseDeviceCategory(string(result.Category)) == models.CategoryUnknown {
		// An unparseable or non-committal response is treated as a miss.
		return ClassificationResult{}, false
	}

	clamped := *result
	if clamped.Confidence < 0 {
		clamped.Confidence = 0
	}
	if clamped.Confidence > 1 {
		clamped.Confidence = 1
	}
	return clamped, true
}

func classifyAppearanceCode(appearance string) (ClassificationResult, bool) {
	if appearance == "" {
		return ClassificationResult{}, false
	}
	hex, err := strconv.ParseInt(appearance, 16, 64)
	if err != nil {
		return ClassificationResult{}, false
	}

	rule, ok := appearanceRules[hex]
	if !ok {
		return ClassificationResult{}, false
	}

	return ClassificationResult{
		Category:   rule.category,
		Confidence: rule.confidence,
		Summary:    rule.summary,
		Reasoning:  fmt.Sprintf("Matched Bluetooth appearance code: 0x%04X", hex),
	}, true
}

func classifyVendorModel(model, vendor string) (ClassificationResult, bool) {
	lowerModel := strings.ToLower(model)
	lowerVendor := strings.ToLower(vendor)

	for _, rule := range vendorRules {
		if !strings.Contains(lowerVendor, rule.vendor) && !strings.Contains(lowerModel, rule.vendor) {
			continue
		}
		if rule.pattern != "" && !strings.Contains(lowerModel, rule.pattern) {
			continue
		}
		return ClassificationResult{
			Category:   rule.category,
			Confidence: rule.confidence,
			Summary:    rule.summary,
			Reasoning:  "Matched vendor/model pattern: " + rule.vendor + " + " + rule.pattern,
		}, true
	}

	return ClassificationResult{}, false
}

func classifyFirstParty(model string) (ClassificationResult, bool) {
	for _, entry := range firstPartyModels {
		if strings.HasPrefix(model, entry.prefix) {
			return ClassificationResult{
				Category:   entry.category,
				Confidence: 0.85,
				Summary:    entry.name + " (" + model + ")",
				Reasoning:  "Matched first-party model identifier",
			}, true
		}
	}
	return ClassificationResult{}, false
}

// recordClassification updates the running counters and persists them. The
// confidence histogram is bucketed at 10% granularity.
func (p *Pipeline) recordClassification(result ClassificationResult, usedHeuristics bool, logger *zap.Logger) {
	p.analyticsMu.Lock()
	defer p.analyticsMu.Unlock()

	p.analytics.TotalClassifications++
	if result.Category != models.CategoryUnknown {
		p.analytics.SuccessfulClassifications++
	}
	if usedHeuristics {
		p.analytics.HeuristicFallbacks++
	}

	bucket := fmt.Sprintf("%d%%", int(result.Confidence*10)*10)
	p.analytics.ConfidenceDistribution[bucket]++
	p.analytics.CategoryDistribution[string(result.Category)]++

	if err := p.KV.SetJSON(kvKeyAnalytics, p.analytics); err != nil {
		logger.Warn("Failed to persist classification analytics", zap.Error(err))
	}
}

func (p *Pipeline) loadAnalytics() {
	p.analyticsMu.Lock()
	defer p.analyticsMu.Unlock()

	p.analytics = newAnalytics()
	if p.KV == nil {
		return
	}
	var saved ClassificationAnalytics
	if err := p.KV.GetJSON(kvKeyAnalytics, &saved); err == nil {
		if saved.ConfidenceDistribution == nil {
			saved.ConfidenceDistribution = make(map[string]int)
		}
		if saved.CategoryDistribution == nil {
			saved.CategoryDistribution = make(map[string]int)
		}
		p.analytics = saved
	}
}

func (p *Pipeline) analyticsSnapshot() ClassificationAnalytics {
	p.analyticsMu.Lock()
	defer p.analyticsMu.Unlock()

	snapshot := p.analytics
	snapshot.ConfidenceDistribution = make(map[string]int, len(p.analytics.ConfidenceDistribution))
	for k, v := range p.analytics.ConfidenceDistribution {
		snapshot.ConfidenceDistribution[k] = v
	}
	snapshot.CategoryDistribution = make(map[string]int, len(p.analytics.CategoryDistribution))
	for k, v := range p.analytics.CategoryDistribution {
		snapshot.CategoryDistribution[k] = v
	}
	return snapshot
}

// ResetAnalytics clears the running counters and their persisted copy.
func (p *Pipeline) ResetAnalytics() {
	p.analyticsMu.Lock()
	defer p.analyticsMu.Unlock()

	p.analytics = newAnalytics()
	_ = p.KV.Delete(kvKeyAnalytics)
}

// classifyUnclassified walks every device with no classification yet, one at
// a time behind a rate limiter. The limiter is the rate-limiting stand-in
// for an expensive remote classification path, not a correctness
// requirement; cancellation happens at the per-item boundary via ctx.
// Progress is persisted so a crash mid-batch resumes instead of restarting.
func (p *Pipeline) classifyUnclassified(ctx context.Context) error {
	logger := common.GetLoggerWith(
		common.LoggerNamePipelineCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryClassifier),
	)

	var unclassified []models.Device
	if err := p.Db.Conn.
		Where("classified_at IS NULL").
		Order("added_at asc").
		Find(&unclassified).Error; err != nil {
		return err
	}

	if len(unclassified) == 0 {
		logger.Info("All devices already classified")
		_ = p.KV.SetBool(kvKeyClassifyDone, true)
		return nil
	}

	_ = p.KV.SetBool(kvKeyClassifyDone, false)
	_ = p.KV.SetInt(kvKeyClassifyCompleted, 0)
	_ = p.KV.SetInt(kvKeyClassifyTotal, len(unclassified))

	logger.Info("Starting batch classification", zap.Int("unclassified", len(unclassified)))

	limiter := rate.NewLimiter(rate.Every(p.Cfg.ClassifyInterval), 1)

	completed := 0
	for i := range unclassified {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		device := &unclassified[i]
		result := p.classify(ctx, device.Profile())

		now := p.now()
		category := result.Category
		device.Category = &category
		device.CategoryConfidence = &result.Confidence
		device.CategorySummary = &result.Summary
		device.ClassifiedAt = &now

		if err := p.Db.Conn.Save(device).Error; err != nil {
			// One bad save must not abort the batch.
			logger.Warn("Failed to save classified device",
				zap.String("device_id", device.ID.String()), zap.Error(err))
			continue
		}

		completed++
		_ = p.KV.SetInt(kvKeyClassifyCompleted, completed)

		if p.OnClassifyProgress != nil {
			p.OnClassifyProgress(completed, len(unclassified))
		}

		logger.Debug("Classification progress",
			zap.Int("completed", completed), zap.Int("total", len(unclassified)))
	}

	_ = p.KV.SetBool(kvKeyClassifyDone, true)
	logger.Info("Batch classification completed", zap.Int("classified", completed))
	return nil
}

func (p *Pipeline) classifyProgress() (int, int) {
	completed, _ := p.KV.GetInt(kvKeyClassifyCompleted)
	total, _ := p.KV.GetInt(kvKeyClassifyTotal)
	return completed, total
}

type IClassifierImpl struct {
	pipeline *Pipeline
}

func (ic *IClassifierImpl) Classify(ctx context.Context, profile models.DeviceProfile) ClassificationResult {
	return ic.pipeline.classify(ctx, profile)
}

func (ic *IClassifierImpl) ClassifyUnclassified(ctx context.Context) error {
	return ic.pipeline.classifyUnclassified(ctx)
}

func (ic *IClassifierImpl) Progress() (int, int) {
	return ic.pipeline.classifyProgress()
}

func (ic *IClassifierImpl) Analytics() ClassificationAnalytics {
	return ic.pipeline.analyticsSnapshot()
}

func (p *Pipeline) GetIClassifier() IClassifier {
	return &IClassifierImpl{pipeline: p}
}
