package mock

import (
	"context"
	"dispatch-route-service/internal/ports"
	"sync"
)

// Lookup replays scripted candidates per query string.
// Queries listed in Errors fail with that error; unknown queries yield no candidates.
type Lookup struct {
	mu         sync.Mutex
	Candidates map[string][]ports.AddressCandidate
	Errors     map[string]error
	calls      []string
}

func NewLookup(candidates map[string][]ports.AddressCandidate) *Lookup {
	return &Lookup{Candidates: candidates, Errors: map[string]error{}}
}

func (l *Lookup) Lookup(ctx context.Context, query string) ([]ports.AddressCandidate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, query)
	if err, ok := l.Errors[query]; ok {
		return nil, err
	}
	return l.Candidates[query], nil
}

func (l *Lookup) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}
