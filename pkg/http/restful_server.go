package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"powersense.xyz/battery-telemetry-service/pkg/pipeline"
)

type RestfulServer struct {
	Server           *gin.Engine
	Pipeline         *pipeline.Pipeline
	RateLimiterStore *pipeline.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceKey)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceKey string) bool {
	limiter := rs.GetLimiter(deviceKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceKey string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceKey, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	scan := rs.Server.Group("/scan")
	{
		scan.POST("/advertisements", rs.PostAdvertisement)
	}

	system := rs.Server.Group("/system")
	{
		system.POST("/readings", rs.PostSystemReading)
	}

	rs.Server.GET("/devices", rs.GetDevices)
	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.GET("/events", rs.GetDeviceEvents)
		devices.GET("/alerts", rs.GetDeviceAlerts)
		devices.POST("/limiter", rs.PostLimiter)
	}

	rules := rs.Server.Group("/alerts/rules")
	{
		rules.GET("", rs.GetAlertRules)
		rules.POST("", rs.PostAlertRule)
		rules.POST("/multiple", rs.PostAlertRulesMultiple)
		rules.DELETE("/:rule_id", rs.DeleteAlertRule)
	}

	classification := rs.Server.Group("/classification")
	{
		classification.POST("/run", rs.PostClassificationRun)
		classification.GET("/progress", rs.GetClassificationProgress)
		classification.GET("/analytics", rs.GetClassificationAnalytics)
	}

	maintenance := rs.Server.Group("/maintenance")
	{
		maintenance.POST("/deduplicate", rs.PostDeduplicate)
	}
}
