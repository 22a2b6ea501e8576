package common

import (
	"os"
	"testing"
)

func IsTestEnv() bool {
	return testing.Testing()
}
func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}
