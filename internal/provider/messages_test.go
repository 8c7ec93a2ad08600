package provider

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/ibozctl/internal/api"
)

func batch(syncedAt *time.Time, ids ...string) *api.MessagesResponse {
	resp := &api.MessagesResponse{SyncedAt: syncedAt}
	for _, id := range ids {
		resp.Messages = append(resp.Messages, api.Message{ID: id, Subject: "subject " + id})
	}
	return resp
}

func TestMessages_ApplyReplacesWholesale(t *testing.T) {
	m := NewMessages()
	first := time.Date(2025, 3, 18, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	gen := m.Begin()
	require.True(t, m.Loading())
	require.True(t, m.Apply(gen, batch(&first, "a", "b", "c")))
	require.Len(t, m.Messages(), 3)

	gen = m.Begin()
	require.Len(t, m.Messages(), 3, "previous batch stays visible while loading")
	require.True(t, m.Apply(gen, batch(&second, "d")))
	require.Len(t, m.Messages(), 1)
	require.Equal(t, "d", m.Messages()[0].ID)
	require.Equal(t, second, *m.SyncedAt())
	require.False(t, m.Loading())
}

func TestMessages_StaleResultDropped(t *testing.T) {
	m := NewMessages()
	first := m.Begin()
	second := m.Begin()

	require.False(t, m.Apply(first, batch(nil, "old")))
	require.False(t, m.Fail(first, errors.New("boom")))
	require.True(t, m.Loading())
	require.Empty(t, m.Err())

	require.True(t, m.Apply(second, batch(nil, "new")))
	require.Equal(t, "new", m.Messages()[0].ID)
}

func TestMessages_FailKeepsBatch(t *testing.T) {
	m := NewMessages()
	m.Apply(m.Begin(), batch(nil, "a"))

	gen := m.Begin()
	require.True(t, m.Fail(gen, &api.TransportError{Status: 502, Message: "request failed with status 502"}))
	require.Equal(t, "request failed with status 502", m.Err())
	require.Len(t, m.Messages(), 1)
}

func TestMessages_Reset(t *testing.T) {
	m := NewMessages()
	synced := time.Now()
	m.Apply(m.Begin(), batch(&synced, "a"))
	inFlight := m.Begin()

	m.Reset()
	require.Empty(t, m.Messages())
	require.Nil(t, m.SyncedAt())
	require.False(t, m.Loading())
	require.False(t, m.Apply(inFlight, batch(nil, "late")))
	require.Empty(t, m.Messages())
}

func TestPatchState_TouchesOnlySyncFields(t *testing.T) {
	cfg := DeriveDefaults(api.ProviderOutlook)
	auth := &api.AuthState{Method: api.AuthMethodOAuth, Username: "ops", UpdatedAt: updatedAt}
	prevSync := time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC)
	state := &api.ProviderState{Config: &cfg, Auth: auth, LastSync: &prevSync, MessagesFetched: 9}
	before := cfg.Clone()

	synced := time.Date(2025, 3, 18, 10, 0, 0, 0, time.UTC)
	PatchState(state, batch(&synced, "a", "b"))

	require.Same(t, &cfg, state.Config)
	require.Same(t, auth, state.Auth)
	require.Equal(t, before, *state.Config)
	require.Equal(t, synced, *state.LastSync)
	require.Equal(t, uint(2), state.MessagesFetched)
}

func TestPatchState_KeepsLastSyncWithoutTimestamp(t *testing.T) {
	prevSync := time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC)
	state := &api.ProviderState{LastSync: &prevSync, MessagesFetched: 4}

	PatchState(state, batch(nil))
	require.Equal(t, prevSync, *state.LastSync)
	require.Equal(t, uint(0), state.MessagesFetched)

	PatchState(nil, batch(nil, "a"))
}
