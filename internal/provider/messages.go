package provider

import (
	"time"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// Messages holds the most recently fetched message batch.
type Messages struct {
	messages   []api.Message
	syncedAt   *time.Time
	generation uint64
	loading    bool
	err        string
}

func NewMessages() *Messages {
	return &Messages{}
}

// Begin starts a fetch and returns its generation. The current batch stays
// visible until the fetch settles.
func (m *Messages) Begin() uint64 {
	m.generation++
	m.loading = true
	m.err = ""
	return m.generation
}

// Apply replaces the batch wholesale with resp.
func (m *Messages) Apply(generation uint64, resp *api.MessagesResponse) bool {
	if !m.current(generation) {
		return false
	}
	m.loading = false
	m.err = ""
	m.messages = nil
	m.syncedAt = nil
	if resp != nil {
		m.messages = append([]api.Message(nil), resp.Messages...)
		m.syncedAt = resp.SyncedAt
	}
	log.Printf("messages synced count=%d gen=%d", len(m.messages), generation)
	return true
}

// Fail records err for the fetch started at generation. The previous batch
// is kept.
func (m *Messages) Fail(generation uint64, err error) bool {
	if !m.current(generation) {
		return false
	}
	m.loading = false
	m.err = api.ErrorMessage(err)
	if m.err == "" {
		m.err = "Unable to fetch messages"
	}
	return true
}

// Reset empties the batch and drops any fetch in flight.
func (m *Messages) Reset() {
	m.generation++
	m.messages = nil
	m.syncedAt = nil
	m.loading = false
	m.err = ""
}

func (m *Messages) current(generation uint64) bool {
	if generation != m.generation || !m.loading {
		log.Printf("messages drop stale gen=%d current=%d", generation, m.generation)
		return false
	}
	return true
}

func (m *Messages) Messages() []api.Message { return m.messages }
func (m *Messages) SyncedAt() *time.Time    { return m.syncedAt }
func (m *Messages) Loading() bool           { return m.loading }
func (m *Messages) Err() string             { return m.err }

// PatchState folds a fetch result into state. Only LastSync and
// MessagesFetched change; LastSync is kept when resp carries no timestamp.
func PatchState(state *api.ProviderState, resp *api.MessagesResponse) {
	if state == nil || resp == nil {
		return
	}
	if resp.SyncedAt != nil {
		synced := *resp.SyncedAt
		state.LastSync = &synced
	}
	state.MessagesFetched = uint(len(resp.Messages))
}
