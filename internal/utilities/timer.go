package utilities

import (
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

// timerGroup only keeps running timers; stopped ones are folded into the
// aggregates so a long running service doesn't grow without bound.
type timerGroup struct {
	running map[int]time.Time
	next    int
	count   int64
	total   int64
	max     int64
}

type timers struct {
	sync.RWMutex
	groups map[string]*timerGroup
}

// Timers measures elapsed time per group, e.g. per child process or per
// endpoint; Start returns an index that has to be handed to Stop.
type Timers interface {
	Start(group string) int
	Stop(group string, index int) int64
	ReadAll() *data.Timers
	Clear()
}

func NewTimers() Timers {
	return &timers{
		groups: make(map[string]*timerGroup),
	}
}

func (t *timers) Clear() {
	t.Lock()
	defer t.Unlock()

	t.groups = make(map[string]*timerGroup)
}

func (t *timers) Start(group string) int {
	t.Lock()
	defer t.Unlock()

	g, found := t.groups[group]
	if !found {
		g = &timerGroup{running: make(map[int]time.Time)}
		t.groups[group] = g
	}
	index := g.next
	g.next++
	g.running[index] = time.Now()
	return index
}

// Stop returns the elapsed nanoseconds, or -1 if the timer doesn't exist
// or was already stopped.
func (t *timers) Stop(group string, index int) int64 {
	t.Lock()
	defer t.Unlock()

	g, found := t.groups[group]
	if !found {
		return -1
	}
	started, found := g.running[index]
	if !found {
		return -1
	}
	delete(g.running, index)
	elapsed := int64(time.Since(started))
	g.count++
	g.total += elapsed
	if elapsed > g.max {
		g.max = elapsed
	}
	return elapsed
}

func (t *timers) ReadAll() *data.Timers {
	t.RLock()
	defer t.RUnlock()

	timers := &data.Timers{
		Totals:   make(map[string]int64),
		Averages: make(map[string]int64),
		Counts:   make(map[string]int64),
		Maximums: make(map[string]int64),
	}
	for group, g := range t.groups {
		timers.Totals[group] = g.total
		timers.Counts[group] = g.count
		timers.Maximums[group] = g.max
		if g.count > 0 {
			timers.Averages[group] = g.total / g.count
		}
	}
	return timers
}
