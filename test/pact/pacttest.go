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
	ProviderName = "order-tracker-api"
	ConsumerName = "order-watcher"

	StateOrdersSeeded = "the two seed orders exist"
)

const (
	DeliveredOrderID int64 = 1
	UnknownOrderID   int64 = 2
	MissingOrderID   int64 = 999

	DeliveredStep = 5
)

const (
	ExampleTrackerLink = "http://localhost:8888/order/1"
	ExampleStatusImage = "/webfile?name=order-tracker-delivered.png"
	ExampleTimeOrdered = "Tue 18 Sep 2018 12:00:00"
	StatusImagePattern = `^/webfile\?name=order-tracker-[a-z]+\.png$`
)

// DeliveredStepPage is the exact page the tracker renders for a delivered order.
const DeliveredStepPage = `<html><head></head><body><div id="currentStep">5</div></body></html>`

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the watcher consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
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
