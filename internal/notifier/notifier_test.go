package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/tally/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T, dir string) {
	t.Helper()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
}

func withProcess(t *testing.T, fn func(int) (ps.Process, error)) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = fn
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	withConfigDir(t, tempDir)

	trayConfigDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayConfigDir {
		t.Errorf("expected %s, got %s", trayConfigDir, dir)
	}

	if err := os.MkdirAll(trayConfigDir, 0755); err != nil {
		t.Fatal(err)
	}
	settings := `{"settings": {"lockfile_dir": "/custom/tally/dir"}}`
	if err := os.WriteFile(filepath.Join(trayConfigDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "/custom/tally/dir" {
		t.Errorf("expected custom dir, got %s", dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile: got %v, want ErrTrayNotRunning", err)
	}

	tray := func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "tally-tray"}, nil
	}

	tests := []struct {
		name     string
		content  string
		process  func(int) (ps.Process, error)
		errMatch string
	}{
		{name: "two parts", content: "8080|12345", process: tray, errMatch: "malformed"},
		{name: "garbage", content: "invalid", process: tray, errMatch: "malformed"},
		{name: "empty secret", content: "8080|12345|", process: tray, errMatch: "secret"},
		{name: "empty port", content: "|12345|s3cret", process: tray, errMatch: "port"},
		{name: "port out of range", content: "99999|12345|s3cret", process: tray, errMatch: "outside valid range"},
		{name: "bad pid", content: "8080|abc|s3cret", process: tray, errMatch: "process ID"},
		{
			name:     "process gone",
			content:  "8080|12345|s3cret",
			process:  func(int) (ps.Process, error) { return nil, nil },
			errMatch: ErrTrayNotRunning.Error(),
		},
		{
			name:     "pid reused by another program",
			content:  "8080|12345|s3cret",
			process:  func(pid int) (ps.Process, error) { return &mockProcess{pid: pid, executable: "bash"}, nil },
			errMatch: "is not tally-tray",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			withProcess(t, tt.process)
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.errMatch) {
				t.Errorf("got %v, want error containing %q", err, tt.errMatch)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
			t.Fatal(err)
		}
		withProcess(t, tray)
		port, secret, err := findAndValidateTrayProcess(lockfilePath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if port != "8080" || secret != "s3cret" {
			t.Errorf("got port %q secret %q", port, secret)
		}
	})
}

func newTrayServer(t *testing.T, received *[]WebhookPayload) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.TraySecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		*received = append(*received, payload)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestSend(t *testing.T) {
	var received []WebhookPayload
	port := newTrayServer(t, &received)
	n := New()
	ctx := context.Background()

	if err := n.send(ctx, port, "test-secret", WebhookPayload{Kind: KindReminder, Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(ctx, port, "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.send(ctx, port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.send(ctx, port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}

	if len(received) != 1 || received[0].Kind != KindReminder {
		t.Errorf("received = %+v", received)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := n.send(cancelled, port, "test-secret", WebhookPayload{Text: "late"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNotify_EndToEnd(t *testing.T) {
	var received []WebhookPayload
	port := newTrayServer(t, &received)

	configDir := t.TempDir()
	withConfigDir(t, configDir)
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := port + "|4242|test-secret"
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}
	withProcess(t, func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "tally-tray"}, nil
	})

	if err := New().Notify(context.Background(), KindAchievement, "⭐ Prima Zi"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(received) != 1 || received[0].Text != "⭐ Prima Zi" || received[0].DurationMs != constants.NotificationDurationMs {
		t.Errorf("received = %+v", received)
	}
}
