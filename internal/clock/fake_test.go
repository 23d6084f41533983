package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func TestFakeClock_AfterFuncFiresAtDeadline(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(2*time.Second, func() { fired++ })

	c.Advance(1999 * time.Millisecond)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, c.Pending())

	c.Advance(time.Hour)
	assert.Equal(t, 1, fired, "one-shot timer fired twice")
}

func TestFakeClock_StopPreventsFire(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestFakeClock_CallbackStopsLaterTimerInSameAdvance(t *testing.T) {
	c := Fake(epoch)
	var (
		later    *Timer
		stopped  bool
		laterRan bool
	)
	later = c.AfterFunc(2*time.Second, func() { laterRan = true })
	c.AfterFunc(time.Second, func() { stopped = later.Stop() })

	c.Advance(5 * time.Second)

	assert.True(t, stopped)
	assert.False(t, laterRan)
	assert.Equal(t, 0, c.Pending())
}

func TestFakeClock_StopAfterFireReportsFalse(t *testing.T) {
	c := Fake(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "late") })
	c.AfterFunc(1*time.Second, func() { order = append(order, "early") })

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestFakeClock_CallbackMayScheduleMore(t *testing.T) {
	c := Fake(epoch)
	var hits []time.Time
	c.AfterFunc(time.Second, func() {
		hits = append(hits, c.Now())
		c.AfterFunc(0, func() { hits = append(hits, c.Now()) })
	})

	c.Advance(time.Second)
	require.Len(t, hits, 2)
	assert.Equal(t, epoch.Add(time.Second), hits[1])
}

func TestFakeClock_Ticker(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(time.Minute)
	defer tk.Stop()

	select {
	case <-tk.C:
		t.Fatal("tick before interval")
	default:
	}

	c.Advance(time.Minute)
	select {
	case got := <-tk.C:
		assert.Equal(t, epoch.Add(time.Minute), got)
	default:
		t.Fatal("no tick after interval")
	}

	tk.Stop()
	c.Advance(time.Hour)
	select {
	case <-tk.C:
		t.Fatal("tick after Stop")
	default:
	}
}

func TestFakeClock_NowAdvances(t *testing.T) {
	c := Fake(epoch)
	c.Advance(90 * time.Second)
	assert.Equal(t, epoch.Add(90*time.Second), c.Now())
}
