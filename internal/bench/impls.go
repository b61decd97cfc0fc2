package bench

import (
	"fmt"
	"slices"
	"strings"

	"github.com/randomizedcoder/spsc-fifo/fifo"
	"github.com/randomizedcoder/spsc-fifo/internal/baseline"
)

// Pipe is a queue as seen by the harness. Push and Pop must not block.
// Push is called only from the producer goroutine and Pop only from the
// consumer goroutine.
type Pipe struct {
	Push  func(m *Message) bool
	Pop   func(m *Message) bool
	Close func()
}

// Impl is a named queue implementation the harness can run.
type Impl struct {
	Name string
	Desc string

	// SeqOnly is set for queues that only carry the sequence number;
	// verification then ignores the payload.
	SeqOnly bool

	New func(capacity int) (Pipe, error)
}

var impls = []Impl{
	{
		Name: "fifo",
		Desc: "fifo.Fifo, mask indexing, Push/PopInto",
		New: func(capacity int) (Pipe, error) {
			q, err := fifo.New[Message](capacity, fifo.WithRoundUp())
			if err != nil {
				return Pipe{}, err
			}
			return Pipe{
				Push:  func(m *Message) bool { return q.Push(*m) },
				Pop:   q.PopInto,
				Close: q.Close,
			}, nil
		},
	},
	{
		Name: "fifo-proxy",
		Desc: "fifo.Fifo through PushSlot/PopSlot handles",
		New: func(capacity int) (Pipe, error) {
			q, err := fifo.New[Message](capacity, fifo.WithRoundUp())
			if err != nil {
				return Pipe{}, err
			}
			return Pipe{
				Push: func(m *Message) bool {
					p := q.PushSlot()
					if !p.Active() {
						return false
					}
					*p.Get() = *m
					p.Commit()
					return true
				},
				Pop: func(m *Message) bool {
					c := q.PopSlot()
					if !c.Active() {
						return false
					}
					*m = *c.Get()
					c.Commit()
					return true
				},
				Close: q.Close,
			}, nil
		},
	},
	{
		Name: "fifo-remainder",
		Desc: "fifo.Fifo, remainder indexing, exact capacity",
		New: func(capacity int) (Pipe, error) {
			q, err := fifo.New[Message](capacity, fifo.WithIndexing(fifo.Remainder))
			if err != nil {
				return Pipe{}, err
			}
			return Pipe{
				Push:  func(m *Message) bool { return q.Push(*m) },
				Pop:   q.PopInto,
				Close: q.Close,
			}, nil
		},
	},
	{
		Name:    "fifo-partial",
		Desc:    "fifo.Fifo copying only the sequence number",
		SeqOnly: true,
		New: func(capacity int) (Pipe, error) {
			q, err := fifo.New[Message](capacity, fifo.WithRoundUp(),
				fifo.WithCopySize(fifo.Prefix[Message](seqBytes)))
			if err != nil {
				return Pipe{}, err
			}
			return Pipe{
				Push:  func(m *Message) bool { return q.Push(*m) },
				Pop:   q.PopInto,
				Close: q.Close,
			}, nil
		},
	},
	{
		Name: "uncached",
		Desc: "atomic cursors without cursor cache",
		New: func(capacity int) (Pipe, error) {
			return queuePipe(baseline.NewUncached[Message](capacity)), nil
		},
	},
	{
		Name: "locked",
		Desc: "mutex-protected ring",
		New: func(capacity int) (Pipe, error) {
			return queuePipe(baseline.NewLocked[Message](capacity)), nil
		},
	},
	{
		Name: "channel",
		Desc: "buffered channel with select/default",
		New: func(capacity int) (Pipe, error) {
			return queuePipe(baseline.NewChannel[Message](capacity)), nil
		},
	},
	{
		Name: "sharded",
		Desc: "go-lock-free-ring ShardedRing, one shard",
		New: func(capacity int) (Pipe, error) {
			q, err := baseline.NewSharded[Message](capacity)
			if err != nil {
				return Pipe{}, err
			}
			return queuePipe(q), nil
		},
	},
}

func queuePipe(q fifo.Queue[Message]) Pipe {
	return Pipe{
		Push: func(m *Message) bool { return q.Push(*m) },
		Pop: func(m *Message) bool {
			v, ok := q.Pop()
			if ok {
				*m = v
			}
			return ok
		},
		Close: func() {},
	}
}

// Impls returns every registered implementation, fifo first.
func Impls() []Impl {
	return slices.Clone(impls)
}

// Names returns the names of the registered implementations.
func Names() []string {
	names := make([]string, len(impls))
	for i, impl := range impls {
		names[i] = impl.Name
	}
	return names
}

// Lookup returns the implementation called name.
func Lookup(name string) (Impl, error) {
	for _, impl := range impls {
		if impl.Name == name {
			return impl, nil
		}
	}
	return Impl{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownImpl, name, strings.Join(Names(), ", "))
}

// Select resolves a comma separated list of names; "all" or "" selects
// every implementation.
func Select(list string) ([]Impl, error) {
	if list == "" || list == "all" {
		return Impls(), nil
	}
	var out []Impl
	for _, name := range strings.Split(list, ",") {
		impl, err := Lookup(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, impl)
	}
	return out, nil
}
