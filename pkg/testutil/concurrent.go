package testutil

import (
	"errors"
	"sync"

	dErrors "consentvault/pkg/domain-errors"
	"consentvault/pkg/platform/sentinel"
)

// Tally counts how a batch of racing calls ended. Failures are keyed by
// domain error code, or by sentinel for raw store errors.
type Tally struct {
	OK       int
	Failures map[string]int
}

// Total is the number of calls that returned.
func (t *Tally) Total() int {
	n := t.OK
	for _, c := range t.Failures {
		n += c
	}
	return n
}

// Failed returns how many calls failed with kind.
func (t *Tally) Failed(kind string) int {
	return t.Failures[kind]
}

var storeSentinels = map[string]error{
	"not_found":    sentinel.ErrNotFound,
	"conflict":     sentinel.ErrConflict,
	"already_used": sentinel.ErrAlreadyUsed,
}

func failureKind(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return string(de.Code)
	}
	for kind, target := range storeSentinels {
		if errors.Is(err, target) {
			return kind
		}
	}
	return "other"
}

// RunConcurrent releases n goroutines at once, each calling fn with its
// index, and waits for all of them.
func RunConcurrent(n int, fn func(i int) error) *Tally {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
		tally = &Tally{Failures: make(map[string]int)}
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := fn(i)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				tally.OK++
				return
			}
			tally.Failures[failureKind(err)]++
		}()
	}
	close(start)
	wg.Wait()
	return tally
}
