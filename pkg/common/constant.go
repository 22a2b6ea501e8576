package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyTelemetryDBType string = "TELEMETRY_DB_TYPE"
	EnvKeyTelemetryDbPath string = "TELEMETRY_DB_PATH"

	EnvKeyTelemetryHttpHostPort string = "TELEMETRY_HTTP_HOST_PORT"

	EnvKeyTelemetryDefaultRate  string = "TELEMETRY_DEFAULT_RATE"
	EnvKeyTelemetryDefaultBurst string = "TELEMETRY_DEFAULT_BURST"

	LoggerNamePipelineCore  string = "pipeline_core"
	LoggerNameRestfulServer string = "restful_server"

	LoggerFieldCategory        string = "category"
	LoggerCategoryResolver     string = "resolver"
	LoggerCategoryClassifier   string = "classifier"
	LoggerCategoryEvents       string = "events"
	LoggerCategoryAlerts       string = "alerts"
	LoggerCategoryRetention    string = "retention"
	LoggerCategoryNotification string = "notification"
)
