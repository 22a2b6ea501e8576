package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"powersense.xyz/battery-telemetry-service/pkg/common"
	"powersense.xyz/battery-telemetry-service/pkg/db"
	telemetryHttp "powersense.xyz/battery-telemetry-service/pkg/http"
	"powersense.xyz/battery-telemetry-service/pkg/kv"
	"powersense.xyz/battery-telemetry-service/pkg/models"
	"powersense.xyz/battery-telemetry-service/pkg/pipeline"
)

// logNotifier is the default presentation sink: raised alerts go to the
// structured log. A desktop or push frontend replaces this at composition.
type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) AlertRaised(alertType models.AlertType, device *models.Device) {
	fields := []zap.Field{zap.String("type", string(alertType))}
	if device != nil {
		fields = append(fields,
			zap.String("device_id", device.ID.String()),
			zap.String("device_name", device.Name))
	}
	n.logger.Info("Alert notification", fields...)
}

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	telemetryDbType := os.Getenv(common.EnvKeyTelemetryDBType)
	switch telemetryDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown TELEMETRY_DB_TYPE: " + telemetryDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyTelemetryHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyTelemetryDefaultRate), 64); err != nil {
		log.Fatal("Invalid TELEMETRY_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyTelemetryDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid TELEMETRY_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	store, err := kv.NewStore(dbInstance.Conn)
	if err != nil {
		log.Fatalf("failed to initialize kv store: %v", err)
	}

	notifier := &logNotifier{
		logger: common.GetLoggerWith(
			common.LoggerNamePipelineCore,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryNotification),
		),
	}

	core := pipeline.NewPipeline(*dbInstance, store, notifier, pipeline.Config{}).
		WithDefaultServices()

	rules, err := core.Alerts.Rules()
	if err != nil {
		log.Fatalf("failed to load alert rules: %v", err)
	}
	if len(rules) == 0 {
		logger.Info("No alert rules found, seeding defaults")
		if err := core.Alerts.SeedDefaultRules(); err != nil {
			log.Fatalf("failed to seed default alert rules: %v", err)
		}
	}

	core.StartRetentionLoop(context.Background(), time.Hour)

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &telemetryHttp.RestfulServer{
		Server:           gin.Default(),
		Pipeline:         core,
		RateLimiterStore: pipeline.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
