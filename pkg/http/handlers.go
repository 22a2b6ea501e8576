package http

import (
	"context"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"powersense.xyz/battery-telemetry-service/pkg/models"
	"powersense.xyz/battery-telemetry-service/pkg/pipeline"
)

type AdvertisementRequest struct {
	Name             string `json:"name"`
	ManufacturerData string `json:"manufacturer_data"`
	Model            string `json:"model"`
	Vendor           string `json:"vendor"`
	Serial           string `json:"serial"`
	Appearance       string `json:"appearance"`
	FindMy           bool   `json:"find_my"`
}

var advertisementRequestSchema = z.Struct(z.Shape{
	"Name":             z.String().Min(1).Required(),
	"ManufacturerData": z.String().Min(4).Required(),
	"Model":            z.String(),
	"Vendor":           z.String(),
	"Serial":           z.String(),
	"Appearance":       z.String(),
	"FindMy":           z.Bool(),
})

// deviceKey is what the per-device rate limiter buckets on: the serial when
// the radio reported one, otherwise the advertised name.
func (req *AdvertisementRequest) deviceKey() string {
	if req.Serial != "" {
		return req.Serial
	}
	return req.Name
}

func (rs *RestfulServer) PostAdvertisement(c *gin.Context) {
	var req AdvertisementRequest
	if err := advertisementRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckDeviceLimiter(req.deviceKey()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	raw, err := hex.DecodeString(req.ManufacturerData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manufacturer_data is not valid hex"})
		return
	}

	device, ok := rs.Pipeline.IngestAdvertisement(c.Request.Context(), models.DeviceProfile{
		Name:       req.Name,
		Model:      req.Model,
		Vendor:     req.Vendor,
		Serial:     req.Serial,
		Appearance: req.Appearance,
		FindMy:     req.FindMy,
	}, raw)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"ingested": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingested": true, "device": device})
}

type SystemReadingRequest struct {
	Percent     int    `json:"percent"`
	State       string `json:"state"`
	Mode        string `json:"mode"`
	Temperature *int   `json:"temperature"`
	Cycles      *int   `json:"cycles"`
	OSVersion   string `json:"os_version"`
}

var systemReadingRequestSchema = z.Struct(z.Shape{
	"Percent":     z.Int().GTE(0).LTE(100).Required(),
	"State":       z.String().Required(),
	"Mode":        z.String(),
	"Temperature": z.Ptr(z.Int()),
	"Cycles":      z.Ptr(z.Int()),
	"OSVersion":   z.String(),
})

func (rs *RestfulServer) PostSystemReading(c *gin.Context) {
	var req SystemReadingRequest
	if err := systemReadingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	mode := models.ParseBatteryMode(req.Mode)
	if req.Mode == "" {
		mode = models.BatteryModeNormal
	}

	rs.Pipeline.IngestHostReading(pipeline.HostStatus{
		Percent:     req.Percent,
		State:       models.ParseChargingState(req.State),
		Mode:        mode,
		Temperature: req.Temperature,
		Cycles:      req.Cycles,
		OSVersion:   req.OSVersion,
	})

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) GetDevices(c *gin.Context) {
	devices, err := rs.Pipeline.Devices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDeviceEvents(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("device_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id is not a valid uuid"})
		return
	}

	if !rs.CheckDeviceLimiter(deviceID.String()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	events, err := rs.Pipeline.Events.DeviceEvents(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (rs *RestfulServer) GetDeviceAlerts(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("device_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id is not a valid uuid"})
		return
	}

	if !rs.CheckDeviceLimiter(deviceID.String()) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	alerts, err := rs.Pipeline.Alerts.DeviceAlerts(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (rs *RestfulServer) GetAlertRules(c *gin.Context) {
	rules, err := rs.Pipeline.Alerts.Rules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

type AlertRuleRequest struct {
	Type    string `json:"type"`
	Percent *int   `json:"percent"`
}

var alertRuleRequestSchema = z.Struct(z.Shape{
	"Type":    z.String().Min(1).Required(),
	"Percent": z.Ptr(z.Int()),
})

func (rs *RestfulServer) PostAlertRule(c *gin.Context) {
	var req AlertRuleRequest
	if err := alertRuleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	alertType := models.ParseAlertType(req.Type)
	if alertType == models.AlertTypeUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognised alert type"})
		return
	}
	if req.Percent != nil && (*req.Percent < 1 || *req.Percent > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent must be between 1 and 100"})
		return
	}

	if err := rs.Pipeline.Alerts.RuleCreate(alertType, req.Percent, true); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusOK)
}

type AlertRulesMultipleRequest struct {
	Multiple int `json:"multiple"`
}

var alertRulesMultipleRequestSchema = z.Struct(z.Shape{
	"Multiple": z.Int().GT(4).Required(),
})

func (rs *RestfulServer) PostAlertRulesMultiple(c *gin.Context) {
	var req AlertRulesMultipleRequest
	if err := alertRulesMultipleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.Pipeline.Alerts.RulesMultiple(req.Multiple); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusOK)
}

func (rs *RestfulServer) DeleteAlertRule(c *gin.Context) {
	ruleID, err := uuid.Parse(c.Param("rule_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rule_id is not a valid uuid"})
		return
	}

	if err := rs.Pipeline.Alerts.RuleDeleteByID(ruleID); err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusOK)
}

// PostClassificationRun kicks off the batch in the background; progress is
// polled via GET /classification/progress.
func (rs *RestfulServer) PostClassificationRun(c *gin.Context) {
	go func() {
		_ = rs.Pipeline.Classifier.ClassifyUnclassified(context.Background())
	}()
	c.Status(http.StatusAccepted)
}

func (rs *RestfulServer) GetClassificationProgress(c *gin.Context) {
	completed, total := rs.Pipeline.Classifier.Progress()
	c.JSON(http.StatusOK, gin.H{"completed": completed, "total": total})
}

func (rs *RestfulServer) GetClassificationAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Pipeline.Classifier.Analytics())
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"Rate":  z.Float64().Required(),
	"Burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceKey := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceKey, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) PostDeduplicate(c *gin.Context) {
	merged, err := rs.Pipeline.Resolver.Deduplicate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"merged": merged})
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
