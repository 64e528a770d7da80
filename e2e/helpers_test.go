package e2e_test

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/foldery/clientcli"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "foldery-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = os.RemoveAll(sharedTempDir)
	if testCleanup != nil {
		testCleanup()
	}

	os.Exit(code)
}

// ServerConfig holds configuration for starting the foldery server.
type ServerConfig struct {
	Port              int
	DBType            string // sqlite, postgres, badger, memory
	DBDSN             string
	StoragePath       string
	IdentityHeader    string
	CascadeParentRefs bool
}

// buildBinary compiles the foldery binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "foldery")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/foldery")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot walks up from the working directory to the go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createConfigFile writes a config file for the server and returns its path.
func createConfigFile(t *testing.T, cfg ServerConfig) string {
	t.Helper()

	identityHeader := cfg.IdentityHeader
	if identityHeader == "" {
		identityHeader = "auth"
	}

	content := fmt.Sprintf(`server:
  port: %d
  identity_header: %s

service:
  cascade_parent_refs: %t

database:
  type: %s
  dsn: "%s"
  auto_migrate: false

storage:
  type: filesystem
  filesystem:
    path: "%s"

log:
  level: error
`,
		cfg.Port,
		identityHeader,
		cfg.CascadeParentRefs,
		cfg.DBType,
		cfg.DBDSN,
		cfg.StoragePath,
	)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600), "write config file")

	return configPath
}

// runCommand runs a foldery subcommand against the config and returns stdout.
func runCommand(t *testing.T, configPath string, args ...string) []byte {
	t.Helper()

	cmd := exec.Command(buildBinary(t), append(args, "--config", configPath)...)
	cmd.Stderr = os.Stderr
	output, err := cmd.Output()
	require.NoError(t, err, "run %v", args)
	return output
}

// startServer migrates the database and starts the server.
// Returns the base URL and the config path; the server is stopped on test cleanup.
func startServer(t *testing.T, cfg ServerConfig) (string, string) {
	t.Helper()

	configPath := createConfigFile(t, cfg)
	runCommand(t, configPath, "migrate")

	cmd := exec.Command(buildBinary(t), "serve", "--config", configPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Start(), "start server")

	t.Cleanup(func() {
		if cmd.Process != nil {
			_ = cmd.Process.Signal(syscall.SIGTERM)
			_ = cmd.Wait()
		}
	})

	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(t, baseURL, 10*time.Second)

	return baseURL, configPath
}

// waitForServer polls the server until it responds or times out.
func waitForServer(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server failed to start within %v", timeout)
}

// getOpenPort finds an available TCP port.
func getOpenPort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err, "find open port")

	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close(), "close port")

	return port
}

// newClient returns a client acting as user against baseURL.
func newClient(t *testing.T, baseURL, user, identityHeader string) *clientcli.Client {
	t.Helper()

	client, err := clientcli.New(&clientcli.Config{
		Endpoint:       baseURL,
		User:           user,
		IdentityHeader: identityHeader,
	})
	require.NoError(t, err)
	return client
}
