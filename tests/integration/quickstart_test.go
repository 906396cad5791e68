//go:build integration

// Package integration provides end-to-end tests for the shardkey binary.
//
// Run with: go test -tags=integration ./tests/integration/...
package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

//nolint:gochecknoglobals // TestMain requires globals for shared test state
var (
	testHome       string
	shardkeyBinary string
)

func TestMain(m *testing.M) {
	cwd, _ := os.Getwd()
	projectRoot := filepath.Join(cwd, "..", "..")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	shardkeyBinary = filepath.Join(cwd, "shardkey-test")
	//nolint:gosec // G204: binary path is controlled by the test environment
	buildCmd := exec.CommandContext(ctx, "go", "build", "-o", shardkeyBinary, "./cmd/shardkey")
	buildCmd.Dir = projectRoot
	if out, err := buildCmd.CombinedOutput(); err != nil {
		panic("failed to build shardkey binary: " + err.Error() + "\n" + string(out))
	}

	var err error
	testHome, err = os.MkdirTemp("", "shardkey-integration-*")
	if err != nil {
		panic("failed to create temp home: " + err.Error())
	}

	code := m.Run()

	_ = os.RemoveAll(testHome)
	_ = os.Remove(shardkeyBinary)
	os.Exit(code)
}

// run invokes the binary with the shared test home.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	//nolint:gosec // G204: args are test-controlled
	cmd := exec.Command(shardkeyBinary, append(args, "--home", testHome)...)
	cmd.Env = append(os.Environ(), "SHARDKEY_LOG_LEVEL=off")
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestQuickstart(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secretPath, []byte("integration secret"), 0o600); err != nil {
		t.Fatal(err)
	}
	shareDir := filepath.Join(dir, "shares")

	// Split into 5 share files.
	_, stderr, err := run(t, "", "split", "--in", secretPath,
		"-t", "3", "-n", "5", "--format", "json", "--out-dir", shareDir, "-o", "text")
	if err != nil {
		t.Fatalf("split failed: %v\n%s", err, stderr)
	}

	entries, err := os.ReadDir(shareDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 share files, found %d", len(entries))
	}

	// Recover from a 3-subset.
	outPath := filepath.Join(dir, "recovered.txt")
	_, stderr, err = run(t, "", "recover",
		filepath.Join(shareDir, "share-1.json"),
		filepath.Join(shareDir, "share-3.json"),
		filepath.Join(shareDir, "share-5.json"),
		"--out", outPath)
	if err != nil {
		t.Fatalf("recover failed: %v\n%s", err, stderr)
	}

	recovered, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(recovered) != "integration secret" {
		t.Fatalf("recovered %q", recovered)
	}

	// Two shares are not enough.
	_, _, err = run(t, "", "recover",
		filepath.Join(shareDir, "share-1.json"),
		filepath.Join(shareDir, "share-2.json"))
	if err == nil {
		t.Fatal("recover should fail below the threshold")
	}

	// Info recognizes the share files.
	stdout, stderr, err := run(t, "", "info", shareDir, "-o", "text")
	if err != nil {
		t.Fatalf("info failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "share-1.json") {
		t.Fatalf("info output missing share files:\n%s", stdout)
	}
}

func TestPipelineHexShares(t *testing.T) {
	stdout, stderr, err := run(t, "pipeline secret", "split", "--in", "-",
		"-t", "2", "-n", "3", "--format", "hex", "-o", "text")
	if err != nil {
		t.Fatalf("split failed: %v\n%s", err, stderr)
	}

	lines := strings.Fields(strings.TrimSpace(stdout))
	if len(lines) != 3 {
		t.Fatalf("expected 3 share lines, got %d", len(lines))
	}

	recovered, stderr, err := run(t, lines[0]+"\n"+lines[2], "recover", "-o", "text")
	if err != nil {
		t.Fatalf("recover failed: %v\n%s", err, stderr)
	}
	if recovered != "pipeline secret" {
		t.Fatalf("recovered %q", recovered)
	}
}
