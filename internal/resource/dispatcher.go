package resource

import (
	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// Ticket identifies one Invoke call.
type Ticket struct {
	Key        string
	Generation uint64
}

// Dispatcher tracks the result of the most recently invoked mutation. It has
// a single slot: when invocations overlap, only the last one issued is ever
// visible, whatever order they settle in.
type Dispatcher[T any] struct {
	generation uint64
	key        string
	inFlight   bool
	state      State[T]
}

func NewDispatcher[T any]() *Dispatcher[T] {
	return &Dispatcher[T]{}
}

// Invoke marks a new mutation as in flight and clears the previous outcome.
// key names what the mutation acts on (a template id, for example).
func (d *Dispatcher[T]) Invoke(key string) Ticket {
	d.generation++
	d.key = key
	d.inFlight = true
	d.state = State[T]{Loading: true}
	log.Printf("dispatch start key=%s gen=%d", key, d.generation)
	return Ticket{Key: key, Generation: d.generation}
}

// Settle applies the outcome for ticket. Outcomes of superseded tickets are
// dropped and false is returned.
func (d *Dispatcher[T]) Settle(ticket Ticket, data *T, err error) bool {
	if ticket.Generation != d.generation || !d.inFlight {
		log.Printf(
			"dispatch drop stale key=%s gen=%d current=%d",
			ticket.Key,
			ticket.Generation,
			d.generation,
		)
		return false
	}
	d.inFlight = false
	if err != nil {
		d.state = State[T]{Err: api.ErrorMessage(err)}
		log.Printf("dispatch error key=%s gen=%d err=%v", ticket.Key, ticket.Generation, err)
		return true
	}
	d.state = State[T]{Data: data}
	log.Printf("dispatch done key=%s gen=%d", ticket.Key, ticket.Generation)
	return true
}

// Key is what the most recent invocation acted on.
func (d *Dispatcher[T]) Key() string {
	return d.key
}

// InFlightFor reports whether the latest invocation targets key and has not
// settled yet.
func (d *Dispatcher[T]) InFlightFor(key string) bool {
	return d.inFlight && d.key == key
}

func (d *Dispatcher[T]) State() State[T] {
	return d.state
}
