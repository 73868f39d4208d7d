// Package remotetest provides an in-memory stand-in for the remote document
// store, shared by the store and view tests.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/remote"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpRemove = "remove"
	OpPing   = "ping"
)

type Call struct {
	Op         string
	Collection string
	ID         string
	Body       json.RawMessage
}

type collection struct {
	keys    []string
	records map[string]json.RawMessage
}

// Fake keeps every collection in insertion order, like a push-id keyed store.
type Fake struct {
	mu          sync.Mutex
	collections map[string]*collection
	failures    map[string]error
	calls       []Call
	seq         int

	// BeforeSettle, when set, runs after the fake has applied a call and
	// before it returns. Tests use it to observe the loading flag.
	BeforeSettle func(op string)
}

func NewFake() *Fake {
	return &Fake{
		collections: make(map[string]*collection),
		failures:    make(map[string]error),
	}
}

// Seed stores record under id without recording a call.
func (f *Fake) Seed(name, id string, record interface{}) {
	data, err := json.Marshal(record)
	if err != nil {
		panic(fmt.Sprintf("remotetest: seed %s/%s: %v", name, id, err))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(name, id, data)
}

// FailOn makes every following call of op fail with err. A nil err clears it.
func (f *Fake) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// FailWithStatus is FailOn with the error the HTTP client would produce for
// a non-2xx answer.
func (f *Fake) FailWithStatus(op string, status int) {
	f.FailOn(op, internal.NewRemoteError(
		fmt.Sprintf("%s returned status %d", op, status),
		internal.ErrCodeRemoteStatus, status, nil))
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *Fake) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Record returns the stored body of id, or nil.
func (f *Fake) Record(name, id string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.collections[name]; ok {
		return c.records[id]
	}
	return nil
}

func (f *Fake) Len(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.collections[name]; ok {
		return len(c.keys)
	}
	return 0
}

func (f *Fake) List(ctx context.Context, name string) ([]remote.Document, error) {
	if err := f.begin(ctx, Call{Op: OpList, Collection: name}); err != nil {
		return nil, err
	}

	f.mu.Lock()
	docs := make([]remote.Document, 0)
	if c, ok := f.collections[name]; ok {
		for _, key := range c.keys {
			docs = append(docs, remote.Document{ID: key, Body: c.records[key]})
		}
	}
	f.mu.Unlock()

	f.settle(OpList)
	return docs, nil
}

func (f *Fake) Create(ctx context.Context, name string, record interface{}) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	if err := f.begin(ctx, Call{Op: OpCreate, Collection: name, Body: data}); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.seq++
	id := fmt.Sprintf("%s-%d", name, f.seq)
	f.put(name, id, data)
	f.mu.Unlock()

	f.settle(OpCreate)
	return id, nil
}

func (f *Fake) Update(ctx context.Context, name, id string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := f.begin(ctx, Call{Op: OpUpdate, Collection: name, ID: id, Body: data}); err != nil {
		return err
	}

	f.mu.Lock()
	f.put(name, id, data)
	f.mu.Unlock()

	f.settle(OpUpdate)
	return nil
}

func (f *Fake) Remove(ctx context.Context, name, id string) (string, error) {
	if err := f.begin(ctx, Call{Op: OpRemove, Collection: name, ID: id}); err != nil {
		return "", err
	}

	f.mu.Lock()
	if c, ok := f.collections[name]; ok {
		if _, exists := c.records[id]; exists {
			delete(c.records, id)
			kept := c.keys[:0]
			for _, key := range c.keys {
				if key != id {
					kept = append(kept, key)
				}
			}
			c.keys = kept
		}
	}
	f.mu.Unlock()

	f.settle(OpRemove)
	return id, nil
}

func (f *Fake) Ping(ctx context.Context) error {
	return f.begin(ctx, Call{Op: OpPing})
}

func (f *Fake) begin(ctx context.Context, call Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, call)
	if err := ctx.Err(); err != nil {
		return internal.NewRemoteError("request cancelled", internal.ErrCodeRemoteUnreachable, 0, err)
	}
	return f.failures[call.Op]
}

func (f *Fake) settle(op string) {
	if f.BeforeSettle != nil {
		f.BeforeSettle(op)
	}
}

// put must be called with f.mu held.
func (f *Fake) put(name, id string, data json.RawMessage) {
	c, ok := f.collections[name]
	if !ok {
		c = &collection{records: make(map[string]json.RawMessage)}
		f.collections[name] = c
	}
	if _, exists := c.records[id]; !exists {
		c.keys = append(c.keys, id)
	}
	c.records[id] = data
}
