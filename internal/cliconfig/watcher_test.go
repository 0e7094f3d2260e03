package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type tuneCall struct {
	flushDelay       time.Duration
	maxBatchMessages int
}

type fakeTuner struct {
	mu    sync.Mutex
	calls []tuneCall
}

func (f *fakeTuner) Tune(flushDelay time.Duration, maxBatchMessages int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tuneCall{flushDelay, maxBatchMessages})
}

func (f *fakeTuner) Calls() []tuneCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tuneCall{}, f.calls...)
}

func TestWatcher_Reload(t *testing.T) {
	path := writeConfigFile(t, `
flush_delay = "7ms"
max_batch_messages = 64
`)

	tuner := &fakeTuner{}
	w := NewWatcher(path, tuner, zerolog.Nop())
	w.reload()

	calls := tuner.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d Tune calls, want 1", len(calls))
	}
	if calls[0].flushDelay != 7*time.Millisecond || calls[0].maxBatchMessages != 64 {
		t.Errorf("Tune(%v, %d), want (7ms, 64)", calls[0].flushDelay, calls[0].maxBatchMessages)
	}
}

func TestWatcher_Reload_AbsentFieldsAreSentinels(t *testing.T) {
	path := writeConfigFile(t, `topic = "documents"`)

	tuner := &fakeTuner{}
	w := NewWatcher(path, tuner, zerolog.Nop())
	w.reload()

	calls := tuner.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d Tune calls, want 1", len(calls))
	}
	// Zero delay and -1 ceiling mean "leave unchanged".
	if calls[0].flushDelay != 0 || calls[0].maxBatchMessages != -1 {
		t.Errorf("Tune(%v, %d), want (0, -1)", calls[0].flushDelay, calls[0].maxBatchMessages)
	}
}

func TestWatcher_Reload_BadDuration(t *testing.T) {
	path := writeConfigFile(t, `flush_delay = "soonish"`)

	tuner := &fakeTuner{}
	w := NewWatcher(path, tuner, zerolog.Nop())
	w.reload()

	if len(tuner.Calls()) != 0 {
		t.Error("Tune called despite invalid flush_delay")
	}
}

func TestWatcher_Run_AppliesFileChanges(t *testing.T) {
	path := writeConfigFile(t, `flush_delay = "5ms"`)

	tuner := &fakeTuner{}
	w := NewWatcher(path, tuner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher time to register before rewriting.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`flush_delay = "9ms"`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, call := range tuner.Calls() {
			if call.flushDelay == 9*time.Millisecond {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("watcher did not apply file change; calls = %v", tuner.Calls())
}

func TestWatcher_Run_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`flush_delay = "5ms"`), 0o644); err != nil {
		t.Fatal(err)
	}

	tuner := &fakeTuner{}
	w := NewWatcher(path, tuner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if len(tuner.Calls()) != 0 {
		t.Errorf("Tune called for an unrelated file: %v", tuner.Calls())
	}
}
