package utilities

import (
	"sync"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

type counter struct {
	valid   int
	skipped int
}

type blockCounter struct {
	sync.RWMutex
	counters map[string]*counter
}

// Counter keeps, per store file, how many blocks were read as valid records
// and how many were skipped by the validity filter.
type Counter interface {
	Read(key string) (validCount, skippedCount int)
	ReadAll() *data.BlockCounters
	IncrementValid(key string, n int) (validCount int)
	IncrementSkipped(key string, n int) (skippedCount int)
	Reset()
}

func NewCounter(parameters ...any) Counter {
	return &blockCounter{
		counters: make(map[string]*counter),
	}
}

func (c *blockCounter) Read(key string) (int, int) {
	c.RLock()
	defer c.RUnlock()

	if counter, found := c.counters[key]; found {
		return counter.valid, counter.skipped
	}
	return -1, -1
}

func (c *blockCounter) ReadAll() *data.BlockCounters {
	c.RLock()
	defer c.RUnlock()

	counterValid := make(map[string]int)
	counterSkipped := make(map[string]int)
	for key, value := range c.counters {
		counterValid[key] = value.valid
		counterSkipped[key] = value.skipped
	}
	return &data.BlockCounters{
		Valid:   counterValid,
		Skipped: counterSkipped,
	}
}

func (c *blockCounter) Reset() {
	c.Lock()
	defer c.Unlock()

	c.counters = make(map[string]*counter)
}

func (c *blockCounter) get(key string) *counter {
	cntr, found := c.counters[key]
	if !found {
		cntr = &counter{}
		c.counters[key] = cntr
	}
	return cntr
}

func (c *blockCounter) IncrementValid(key string, n int) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.valid += n
	return cntr.valid
}

func (c *blockCounter) IncrementSkipped(key string, n int) int {
	c.Lock()
	defer c.Unlock()

	cntr := c.get(key)
	cntr.skipped += n
	return cntr.skipped
}
