// ABOUTME: Integration tests for liftlog CLI.
// ABOUTME: Builds the binary and drives a full training workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(t.TempDir(), "liftlog")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/liftlog")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"LIFTLOG_DATA_DIR="+filepath.Join(tmpDir, "data"),
		"LIFTLOG_BACKEND=sqlite",
		"LIFTLOG_LOG_LEVEL=error",
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	// Live session
	output, err := run("session", "start")
	if err != nil {
		t.Fatalf("Failed to start session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Started session") {
		t.Errorf("Expected 'Started session' in output, got: %s", output)
	}

	output, err = run("session", "log", "Barbell_Full_Squat", "--weight", "100", "--reps", "5")
	if err != nil {
		t.Fatalf("Failed to log exercise: %v\n%s", err, output)
	}
	if !strings.Contains(output, "100 kg × 5") {
		t.Errorf("Expected '100 kg × 5' in output, got: %s", output)
	}

	output, err = run("session", "finish")
	if err != nil {
		t.Fatalf("Failed to finish session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "500 kg volume") {
		t.Errorf("Expected volume in output, got: %s", output)
	}

	// Workout after the fact
	output, err = run("workout", "add", "--date", "2024-03-01")
	if err != nil {
		t.Fatalf("Failed to add workout: %v\n%s", err, output)
	}
	match := regexp.MustCompile(`ID: ([0-9a-f]{8})`).FindStringSubmatch(output)
	if match == nil {
		t.Fatalf("Expected workout ID in output, got: %s", output)
	}

	output, err = run("workout", "set", match[1], "Pullups", "--reps", "10")
	if err != nil {
		t.Fatalf("Failed to add set: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added set 1 of Pullups") {
		t.Errorf("Expected 'Added set 1 of Pullups' in output, got: %s", output)
	}

	output, err = run("workout", "list")
	if err != nil {
		t.Fatalf("Failed to list workouts: %v\n%s", err, output)
	}
	if !strings.Contains(output, "2024-03-01") {
		t.Errorf("Expected '2024-03-01' in workout list, got: %s", output)
	}

	// Progress and references
	output, err = run("analytics", "bests")
	if err != nil {
		t.Fatalf("Failed to show bests: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Barbell Full Squat") {
		t.Errorf("Expected squat in bests, got: %s", output)
	}

	output, err = run("check")
	if err != nil {
		t.Fatalf("Failed to check references: %v\n%s", err, output)
	}
	if !strings.Contains(output, "All exercise references resolve") {
		t.Errorf("Expected clean check, got: %s", output)
	}

	output, err = run("export", "markdown")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, "# Liftlog Export") {
		t.Errorf("Expected markdown header, got: %s", output)
	}
}
