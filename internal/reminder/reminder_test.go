package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/notifier"
)

type fakeSource struct {
	percent  int
	complete bool
	err      error
}

func (f fakeSource) Progress() (string, int, bool, error) {
	return "2025-10-15", f.percent, f.complete, f.err
}

type fakeSender struct {
	texts []string
	err   error
}

func (f *fakeSender) Notify(_ context.Context, kind notifier.Kind, text string) error {
	if kind != notifier.KindReminder {
		return errors.New("unexpected kind")
	}
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:00", "0 8 * * *", false},
		{"13:05", "5 13 * * *", false},
		{" 20:30 ", "30 20 * * *", false},
		{"24:00", "", true},
		{"8am", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CronSpec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CronSpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CronSpec(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewScheduler(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"

	s, err := NewScheduler(fakeSource{}, &fakeSender{}, settings)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if got := s.Times(); len(got) != 3 {
		t.Errorf("Times() = %v, want 3 entries", got)
	}

	settings.ReminderTimes = []string{"noon"}
	if _, err := NewScheduler(fakeSource{}, &fakeSender{}, settings); err == nil {
		t.Error("NewScheduler() accepted an invalid time")
	}

	settings.ReminderTimes = nil
	settings.Timezone = "Nowhere/Special"
	if _, err := NewScheduler(fakeSource{}, &fakeSender{}, settings); err == nil {
		t.Error("NewScheduler() accepted an invalid timezone")
	}
}

func TestCheck(t *testing.T) {
	t.Run("incomplete day notifies", func(t *testing.T) {
		sender := &fakeSender{}
		s := &Scheduler{source: fakeSource{percent: 41}, sender: sender}
		sent, err := s.Check(context.Background())
		if err != nil || !sent {
			t.Fatalf("Check() = %v, %v; want true, nil", sent, err)
		}
		if len(sender.texts) != 1 || sender.texts[0] != Message(41) {
			t.Errorf("sent %v", sender.texts)
		}
	})

	t.Run("complete day is quiet", func(t *testing.T) {
		sender := &fakeSender{}
		s := &Scheduler{source: fakeSource{percent: 90, complete: true}, sender: sender}
		sent, err := s.Check(context.Background())
		if err != nil || sent {
			t.Fatalf("Check() = %v, %v; want false, nil", sent, err)
		}
		if len(sender.texts) != 0 {
			t.Errorf("sent %v", sender.texts)
		}
	})

	t.Run("progress error", func(t *testing.T) {
		s := &Scheduler{source: fakeSource{err: errors.New("db locked")}, sender: &fakeSender{}}
		if _, err := s.Check(context.Background()); err == nil {
			t.Error("Check() error = nil, want error")
		}
	})

	t.Run("tray not running", func(t *testing.T) {
		s := &Scheduler{source: fakeSource{}, sender: &fakeSender{err: notifier.ErrTrayNotRunning}}
		if _, err := s.Check(context.Background()); !errors.Is(err, notifier.ErrTrayNotRunning) {
			t.Errorf("Check() error = %v, want ErrTrayNotRunning", err)
		}
	})
}

func TestRun_StopsOnCancel(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	s, err := NewScheduler(fakeSource{}, &fakeSender{}, settings)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for s.Next().IsZero() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Next().IsZero() {
		t.Error("Next() is zero while running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNext_BeforeStart(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	s, err := NewScheduler(fakeSource{}, &fakeSender{}, settings)
	if err != nil {
		t.Fatal(err)
	}

	next := s.Next()
	if next.IsZero() {
		t.Fatal("Next() is zero")
	}
	if d := time.Until(next); d <= 0 || d > 24*time.Hour {
		t.Errorf("Next() = %v, want within a day", next)
	}

	empty := settings
	empty.ReminderTimes = nil
	s, err = NewScheduler(fakeSource{}, &fakeSender{}, empty)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Next().IsZero() {
		t.Error("Next() with no reminder times should be zero")
	}
}
