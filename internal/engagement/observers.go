package engagement

import "sync"

// observers fans a view out to subscribers. Callbacks run on the caller's goroutine
// with no component lock held.
type observers[V any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(V)
}

func (o *observers[V]) subscribe(fn func(V)) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	if o.subs == nil {
		o.subs = make(map[int]func(V))
	}
	id := o.next
	o.next++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

func (o *observers[V]) notify(v V) {
	o.mu.Lock()
	fns := make([]func(V), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
