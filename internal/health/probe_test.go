package health

import (
	"os"
	"testing"
	"time"

	"loomd/internal/logger"
	"loomd/internal/multiplexer"
)

func TestIntervalFromEnvDisabledByDefault(t *testing.T) {
	os.Unsetenv(EnvVar)
	if _, ok := IntervalFromEnv(); ok {
		t.Error("IntervalFromEnv() ok = true with env var unset")
	}
}

func TestIntervalFromEnvParsesSeconds(t *testing.T) {
	t.Setenv(EnvVar, "30")
	interval, ok := IntervalFromEnv()
	if !ok {
		t.Fatal("IntervalFromEnv() ok = false with env var set")
	}
	if interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", interval)
	}
}

func TestIntervalFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv(EnvVar, "not-a-number")
	if _, ok := IntervalFromEnv(); ok {
		t.Error("IntervalFromEnv() ok = true for unparseable value")
	}
}

func TestProbeCheckDistinguishesNoServerFromNoSessions(t *testing.T) {
	log, _ := logger.New(logger.Config{Enabled: false})

	fake := multiplexer.NewFakeAdapter()
	fake.ListErr = multiplexer.ErrNoServerRunning
	p := NewProbe(fake, log, time.Second)
	p.check() // should not panic; exercises the "no server" branch

	fake2 := multiplexer.NewFakeAdapter()
	p2 := NewProbe(fake2, log, time.Second)
	p2.check() // exercises the "zero sessions" branch
}

func TestProbeStopEndsRun(t *testing.T) {
	log, _ := logger.New(logger.Config{Enabled: false})
	fake := multiplexer.NewFakeAdapter()
	p := NewProbe(fake, log, time.Hour)

	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	p.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Stop()")
	}
}
