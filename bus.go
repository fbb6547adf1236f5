package livelex

import "sync"

// UpdateEvent describes one completed Document.Modify call: the range of
// the document's new text whose tokenization actually changed.
type UpdateEvent struct {
	ModStart, ModEnd int
}

// bus is a minimal synchronous pub/sub used by Document to notify
// observers of lex activity. Subscribers run inline, in subscription
// order, on whichever goroutine called Modify; there is no queueing or
// concurrency of its own.
type bus struct {
	mu         sync.Mutex
	onStarted  []func()
	onUpdated  []func(UpdateEvent)
	onFinished []func()
}

func (b *bus) OnStarted(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStarted = append(b.onStarted, f)
}

func (b *bus) OnUpdated(f func(UpdateEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onUpdated = append(b.onUpdated, f)
}

func (b *bus) OnFinished(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onFinished = append(b.onFinished, f)
}

func (b *bus) fireStarted() {
	b.mu.Lock()
	fs := append([]func(){}, b.onStarted...)
	b.mu.Unlock()
	for _, f := range fs {
		f()
	}
}

func (b *bus) fireUpdated(e UpdateEvent) {
	b.mu.Lock()
	fs := append([]func(UpdateEvent){}, b.onUpdated...)
	b.mu.Unlock()
	for _, f := range fs {
		f(e)
	}
}

func (b *bus) fireFinished() {
	b.mu.Lock()
	fs := append([]func(){}, b.onFinished...)
	b.mu.Unlock()
	for _, f := range fs {
		f()
	}
}
