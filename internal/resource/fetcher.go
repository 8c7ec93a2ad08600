// Package resource holds the two async result slots the panel is built on:
// Fetcher for reads that restart when their endpoint changes, and Dispatcher
// for caller-triggered mutations. Both are single-owner and are meant to be
// driven from one event loop; neither takes locks.
//
// Ordering is enforced with a generation counter. Every issued request
// captures the counter value at issue time and its result is applied only if
// that value is still current. Anything else is a stale response and is
// dropped without touching state.
package resource

import (
	"context"

	"github.com/example/ibozctl/internal/api"
	"github.com/example/ibozctl/internal/log"
)

// State is the observable result of a read or mutation. Data and Err are
// never both set.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     string
}

// Request is one issued read. Ctx is cancelled as soon as the request is
// superseded.
type Request struct {
	Endpoint   string
	Generation uint64
	Ctx        context.Context
}

// Result carries the outcome of a Request back to its Fetcher.
type Result[T any] struct {
	Endpoint   string
	Generation uint64
	Data       *T
	Err        error
}

// Fetcher loads T from an endpoint with last-issued-request-wins semantics.
type Fetcher[T any] struct {
	endpoint   string
	generation uint64
	cancel     context.CancelFunc
	state      State[T]
}

// NewFetcher returns a Fetcher that has not issued anything yet.
func NewFetcher[T any]() *Fetcher[T] {
	return &Fetcher[T]{}
}

// Observe starts a read of endpoint. The state flips to loading immediately
// and any request still in flight becomes stale.
func (f *Fetcher[T]) Observe(parent context.Context, endpoint string) Request {
	if parent == nil {
		parent = context.Background()
	}
	f.supersede()
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.endpoint = endpoint
	f.state = State[T]{Loading: true}
	log.Printf("fetch start endpoint=%s gen=%d", endpoint, f.generation)
	return Request{Endpoint: endpoint, Generation: f.generation, Ctx: ctx}
}

// Apply records a settled result. It returns false and leaves the state
// alone when the result belongs to a superseded request.
func (f *Fetcher[T]) Apply(res Result[T]) bool {
	if res.Generation != f.generation || res.Endpoint != f.endpoint || f.cancel == nil {
		log.Printf(
			"fetch drop stale endpoint=%s gen=%d current=%s/%d",
			res.Endpoint,
			res.Generation,
			f.endpoint,
			f.generation,
		)
		return false
	}
	f.cancel()
	f.cancel = nil
	if res.Err != nil {
		f.state = State[T]{Err: api.ErrorMessage(res.Err)}
		log.Printf("fetch error endpoint=%s gen=%d err=%v", res.Endpoint, res.Generation, res.Err)
		return true
	}
	f.state = State[T]{Data: res.Data}
	log.Printf("fetch done endpoint=%s gen=%d", res.Endpoint, res.Generation)
	return true
}

// Stop abandons any in-flight request. The current state is kept.
func (f *Fetcher[T]) Stop() {
	f.supersede()
}

func (f *Fetcher[T]) supersede() {
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Set replaces the cached data with a server-confirmed value, as returned by
// a mutation. A read still in flight is superseded so it cannot roll the
// data back.
func (f *Fetcher[T]) Set(data *T) {
	f.supersede()
	f.state = State[T]{Data: data}
}

// Patch edits the cached data in place, leaving every field the callback
// does not touch as it was. It is a no-op until data has arrived.
func (f *Fetcher[T]) Patch(edit func(*T)) bool {
	if f.state.Data == nil || edit == nil {
		return false
	}
	edit(f.state.Data)
	return true
}

// Endpoint is the endpoint of the most recent request.
func (f *Fetcher[T]) Endpoint() string {
	return f.endpoint
}

// Generation is the generation of the most recent request.
func (f *Fetcher[T]) Generation() uint64 {
	return f.generation
}

// Pending reports whether a request is in flight.
func (f *Fetcher[T]) Pending() bool {
	return f.cancel != nil
}

func (f *Fetcher[T]) State() State[T] {
	return f.state
}

// Load runs req through load and packages the outcome for Apply. It blocks,
// so callers run it off the event loop.
func Load[T any](req Request, load func(ctx context.Context, endpoint string) (*T, error)) Result[T] {
	data, err := load(req.Ctx, req.Endpoint)
	return Result[T]{Endpoint: req.Endpoint, Generation: req.Generation, Data: data, Err: err}
}
