package core

import (
	"sync"
	"time"

	"github.com/spaghettifunk/rendercost/engine/containers"
)

const AVG_COUNT int = 30

/**
 * @brief Rolling evaluation timings. Keeps the last AVG_COUNT durations
 * and the total number of evaluations seen.
 */
type Metrics struct {
	mutex       sync.Mutex
	times       *containers.RingQueue[time.Duration]
	sum         time.Duration
	evaluations uint64
	last        time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{
		times: containers.NewRingQueue[time.Duration](AVG_COUNT),
	}
}

// Update records the duration of one evaluation.
func (m *Metrics) Update(elapsed time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if evicted, ok := m.times.Push(elapsed); ok {
		m.sum -= evicted
	}
	m.sum += elapsed
	m.last = elapsed
	m.evaluations++
}

// Average is the mean over the window, zero before the first update.
func (m *Metrics) Average() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.times.IsEmpty() {
		return 0
	}
	return m.sum / time.Duration(m.times.Len())
}

func (m *Metrics) Last() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.last
}

func (m *Metrics) Evaluations() uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.evaluations
}
