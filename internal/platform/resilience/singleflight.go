package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution. Late arrivals block on the in-flight call and receive its
// result; shared reports that the caller got someone else's answer. The
// zero value is ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done  chan struct{}
	value any
	err   error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (value any, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}
	if existing, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.value, existing.err, true
	}

	result := &flightResult{done: make(chan struct{})}
	g.inflight[key] = result
	g.mu.Unlock()

	result.value, result.err = fn()
	close(result.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return result.value, result.err, false
}
