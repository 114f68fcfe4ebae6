//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "instrumentos-api"
	ConsumerName = "instrumentos-frontend"

	StateCatalogEmpty     = "catalog is empty"
	StateInstrumentExists = "instrument with id 1 exists"
	StateAdminExists      = "admin account pact-admin exists"
)

const (
	ExistingInstrumentID int64 = 1
	MissingInstrumentID  int64 = 404

	AdminUsername = "pact-admin"
	AdminPassword = "pact-pass"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file written by the frontend consumer test.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleInstrumentPayload is the instrument seeded by StateInstrumentExists.
func ExampleInstrumentPayload() map[string]any {
	return map[string]any{
		"id":              ExistingInstrumentID,
		"instrumento":     "Guitarra Stratocaster",
		"marca":           "Fender",
		"modelo":          "Player",
		"precio":          1250.5,
		"costoEnvio":      "G",
		"imagen":          "strat.jpg",
		"descripcion":     "Alder body, maple neck",
		"cantidadVendida": 12,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
