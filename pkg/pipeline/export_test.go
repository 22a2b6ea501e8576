package pipeline

// Bridge for external tests (package pipeline_test), which cannot reference
// unexported identifiers directly.
var NormalizeDeviceName = normalizeDeviceName
