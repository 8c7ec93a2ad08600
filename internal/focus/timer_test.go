package focus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/ibozctl/internal/api"
)

var epoch = time.Date(2025, 3, 18, 9, 30, 0, 0, time.UTC)

func session(id string, minutes int) api.FocusSession {
	return api.FocusSession{ID: id, Label: id, EstimatedMinutes: minutes}
}

func TestTimer_IdleByDefault(t *testing.T) {
	var timer Timer
	require.Equal(t, StatusIdle, timer.Status())
	require.False(t, timer.Active())
	require.Equal(t, Placeholder, timer.Countdown())
	require.Equal(t, 0, timer.Progress())
	require.False(t, timer.Tick())
}

func TestTimer_FiveMinuteSessionRunsToCompletion(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 5), epoch)
	require.Equal(t, StatusRunning, timer.Status())
	require.Equal(t, 300, timer.Remaining())
	require.Equal(t, "05:00", timer.Countdown())

	for range 299 {
		require.True(t, timer.Tick())
	}
	require.Equal(t, 1, timer.Remaining())
	require.Equal(t, StatusRunning, timer.Status())

	require.True(t, timer.Tick())
	require.Equal(t, 0, timer.Remaining())
	require.Equal(t, StatusCompleted, timer.Status())
	require.Equal(t, 100, timer.Progress())
	require.Equal(t, "00:00", timer.Countdown())

	require.False(t, timer.Tick())
	require.Equal(t, 0, timer.Remaining())
}

func TestTimer_StartReplacesRunningSession(t *testing.T) {
	var timer Timer
	first := timer.Start(session("focus-urgent", 45), epoch)
	for range 10 {
		timer.Tick()
	}

	second := timer.Start(session("focus-followup", 30), epoch.Add(10*time.Second))
	require.NotEqual(t, first, second)
	require.False(t, timer.Current(first))
	require.True(t, timer.Current(second))
	require.Equal(t, "focus-followup", timer.SessionID())
	require.Equal(t, 1800, timer.Remaining())
	require.Equal(t, 0, timer.Progress())
}

func TestTimer_RestartSameSessionResets(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 1), epoch)
	timer.Tick()
	timer.Start(session("focus-urgent", 1), epoch)
	require.Equal(t, 60, timer.Remaining())
}

func TestTimer_AdvanceCatchesUpMissedTicks(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 1), epoch)

	require.Equal(t, 0, timer.Advance(epoch.Add(900*time.Millisecond)))
	require.Equal(t, 1, timer.Advance(epoch.Add(1100*time.Millisecond)))
	// A wakeup that arrives three seconds late applies three ticks at once.
	require.Equal(t, 3, timer.Advance(epoch.Add(4*time.Second)))
	require.Equal(t, 56, timer.Remaining())
	// The same instant again owes nothing.
	require.Equal(t, 0, timer.Advance(epoch.Add(4*time.Second)))
	require.Equal(t, 56, timer.Remaining())
}

func TestTimer_AdvanceStopsAtZero(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 1), epoch)

	require.Equal(t, 60, timer.Advance(epoch.Add(10*time.Minute)))
	require.Equal(t, 0, timer.Remaining())
	require.Equal(t, StatusCompleted, timer.Status())
	require.Equal(t, 0, timer.Advance(epoch.Add(20*time.Minute)))
}

func TestTimer_RemainingNeverIncreasesWhileRunning(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 2), epoch)
	prev := timer.Remaining()
	for i := 0; i < 200; i += 7 {
		timer.Advance(epoch.Add(time.Duration(i) * time.Second))
		require.LessOrEqual(t, timer.Remaining(), prev)
		prev = timer.Remaining()
	}
}

func TestTimer_StopInvalidatesTicks(t *testing.T) {
	var timer Timer
	gen := timer.Start(session("focus-urgent", 5), epoch)
	timer.Stop()

	require.False(t, timer.Current(gen))
	require.Equal(t, StatusIdle, timer.Status())
	require.Equal(t, Placeholder, timer.Countdown())
	require.Equal(t, 0, timer.Advance(epoch.Add(time.Minute)))
}

func TestTimer_CompletedIsNotCurrent(t *testing.T) {
	var timer Timer
	gen := timer.Start(session("focus-urgent", 1), epoch)
	timer.Advance(epoch.Add(time.Minute))
	require.False(t, timer.Current(gen))
}

func TestTimer_Acknowledge(t *testing.T) {
	var timer Timer
	timer.Start(session("focus-urgent", 1), epoch)
	timer.Acknowledge()
	require.Equal(t, StatusRunning, timer.Status(), "running sessions ignore acknowledge")

	timer.Advance(epoch.Add(time.Minute))
	timer.Acknowledge()
	require.Equal(t, StatusIdle, timer.Status())
	require.Empty(t, timer.SessionID())
}

func TestTimer_ZeroLengthSession(t *testing.T) {
	var timer Timer
	gen := timer.Start(session("empty", 0), epoch)
	require.Equal(t, StatusCompleted, timer.Status())
	require.False(t, timer.Current(gen))
	require.Equal(t, 0, timer.Progress())
	require.Equal(t, "00:00", timer.Countdown())
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		remaining int
		want      int
	}{
		{name: "half way", total: 300, remaining: 150, want: 50},
		{name: "not started", total: 300, remaining: 300, want: 0},
		{name: "done", total: 300, remaining: 0, want: 100},
		{name: "rounds", total: 3, remaining: 1, want: 67},
		{name: "zero total", total: 0, remaining: 0, want: 0},
		{name: "clamped high", total: 10, remaining: -5, want: 100},
		{name: "clamped low", total: 10, remaining: 20, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Progress(tt.total, tt.remaining))
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{seconds: 2700, want: "45:00"},
		{seconds: 61, want: "01:01"},
		{seconds: 9, want: "00:09"},
		{seconds: 0, want: "00:00"},
		{seconds: 6000, want: "100:00"},
		{seconds: -1, want: Placeholder},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatCountdown(tt.seconds), "seconds=%d", tt.seconds)
	}
}
