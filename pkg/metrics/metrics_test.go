package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryMetrics_RecordCheck(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordCheck("intro", "say_hello", "passed", 5*time.Millisecond)
	m.RecordCheck("intro", "say_hello", "passed", 7*time.Millisecond)
	m.RecordCheck("intro", "say_hello", "failed", 3*time.Millisecond)

	assert.Equal(t, 2, m.CheckCount("intro", "say_hello", "passed"))
	assert.Equal(t, 1, m.CheckCount("intro", "say_hello", "failed"))
	assert.Equal(t, 0, m.CheckCount("intro", "say_hello", "message"))
	assert.Equal(t, 0, m.CheckCount("loops", "say_hello", "passed"))
}

func TestInMemoryMetrics_RecordMatch(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordMatch("case")
	m.RecordMatch("case")
	assert.Equal(t, 2, m.MatchCount("case"))
	assert.Equal(t, 0, m.MatchCount("exact"))
}

func TestInMemoryMetrics_RecordSynthesis(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordSynthesis("int")
	m.RecordSynthesis("int")
	m.RecordSynthesis("list[str]")
	assert.Equal(t, 2, m.SynthesisCount("int"))
	assert.Equal(t, 1, m.SynthesisCount("list[str]"))
	assert.Equal(t, 0, m.SynthesisCount("bool"))
}

func TestInMemoryMetrics_ActiveChecks(t *testing.T) {
	m := NewInMemoryMetrics()
	assert.Equal(t, 0, m.ActiveChecks())
	m.SetActiveChecks(3)
	assert.Equal(t, 3, m.ActiveChecks())
}

func TestInMemoryMetrics_ConcurrentUse(t *testing.T) {
	m := NewInMemoryMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCheck("intro", "s", "passed", time.Millisecond)
			m.RecordMatch("case")
			m.RecordSynthesis("int")
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, m.CheckCount("intro", "s", "passed"))
	assert.Equal(t, 20, m.MatchCount("case"))
	assert.Equal(t, 20, m.SynthesisCount("int"))
}

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	m.RecordCheck("p", "s", "passed", 0)
	m.RecordMatch("case")
	m.RecordSynthesis("int")
	m.SetActiveChecks(1)
}
