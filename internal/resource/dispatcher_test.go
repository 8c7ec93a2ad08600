package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_InvokeClearsPreviousOutcome(t *testing.T) {
	d := NewDispatcher[widget]()
	require.False(t, d.State().Loading)

	first := d.Invoke("auto-ack")
	require.True(t, d.Settle(first, &widget{Name: "first"}, nil))
	require.Equal(t, "first", d.State().Data.Name)

	d.Invoke("vip-sms")
	state := d.State()
	require.True(t, state.Loading)
	require.Nil(t, state.Data)
	require.Empty(t, state.Err)
	require.True(t, d.InFlightFor("vip-sms"))
	require.False(t, d.InFlightFor("auto-ack"))
}

func TestDispatcher_LastIssuedWins(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{name: "settle in issue order", order: []int{0, 1}},
		{name: "settle in reverse order", order: []int{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher[widget]()
			tickets := []Ticket{d.Invoke("a"), d.Invoke("b")}
			results := []*widget{{Name: "a"}, {Name: "b"}}

			for _, i := range tt.order {
				d.Settle(tickets[i], results[i], nil)
			}

			state := d.State()
			require.False(t, state.Loading)
			require.Equal(t, "b", state.Data.Name)
			require.Equal(t, "b", d.Key())
		})
	}
}

func TestDispatcher_StaleErrorDropped(t *testing.T) {
	d := NewDispatcher[widget]()
	first := d.Invoke("a")
	second := d.Invoke("b")

	require.False(t, d.Settle(first, nil, errors.New("boom")))
	require.True(t, d.State().Loading)
	require.Empty(t, d.State().Err)

	require.True(t, d.Settle(second, nil, errors.New("templateId is required")))
	require.Equal(t, "templateId is required", d.State().Err)
	require.Nil(t, d.State().Data)
}

func TestDispatcher_SettleOnceOnly(t *testing.T) {
	d := NewDispatcher[widget]()
	ticket := d.Invoke("a")

	require.True(t, d.Settle(ticket, &widget{Name: "a"}, nil))
	require.False(t, d.Settle(ticket, nil, errors.New("again")))
	require.Equal(t, "a", d.State().Data.Name)
}
