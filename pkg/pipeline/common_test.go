package pipeline_test

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
	"powersense.xyz/battery-telemetry-service/pkg/db"
	"powersense.xyz/battery-telemetry-service/pkg/kv"
	. "powersense.xyz/battery-telemetry-service/pkg/pipeline"
	"powersense.xyz/battery-telemetry-service/pkg/pipeline/mocks"
)

func GetMockPipelineWithMemorySqliteDialector(t *testing.T, useMockResolver, useMockClassifier, useMockEvents, useMockAlerts bool) (
	*gomock.Controller,
	*Pipeline,
	*mocks.MockIResolver,
	*mocks.MockIClassifier,
	*mocks.MockIEventStore,
	*mocks.MockIAlertEngine,
) {
	ctrl := gomock.NewController(t)

	mockResolver := mocks.NewMockIResolver(ctrl)
	mockClassifier := mocks.NewMockIClassifier(ctrl)
	mockEvents := mocks.NewMockIEventStore(ctrl)
	mockAlerts := mocks.NewMockIAlertEngine(ctrl)

	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations

	store, err := kv.NewStore(dbInstance.Conn)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPipeline(*dbInstance, store, nil, Config{}).WithDefaultServices()

	if useMockResolver {
		p.Resolver = mockResolver
	}
	if useMockClassifier {
		p.Classifier = mockClassifier
	}
	if useMockEvents {
		p.Events = mockEvents
	}
	if useMockAlerts {
		p.Alerts = mockAlerts
	}

	return ctrl, p, mockResolver, mockClassifier, mockEvents, mockAlerts
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
