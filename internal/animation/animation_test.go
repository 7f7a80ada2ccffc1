package animation

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTimings = Timings{
	Spin:  time.Millisecond,
	Type:  2 * time.Millisecond,
	Hold:  3 * time.Millisecond,
	Erase: 4 * time.Millisecond,
	Pause: 5 * time.Millisecond,
}

func TestMachineCycle(t *testing.T) {
	m := NewMachine([]string{"ab"}, testTimings, rand.New(rand.NewPCG(1, 2)))

	want := []struct {
		frame Frame
		phase Phase
	}{
		{Frame{"a", testTimings.Type}, Typing},
		{Frame{"ab", testTimings.Type}, Typing},
		{Frame{"ab", testTimings.Hold}, Holding},
		{Frame{"a", testTimings.Erase}, Erasing},
		{Frame{"", testTimings.Erase}, Erasing},
		{Frame{"", testTimings.Pause}, Idle},
		{Frame{"a", testTimings.Type}, Typing},
	}

	for i, w := range want {
		got := m.Step()
		assert.Equal(t, w.frame, got, "step %d", i)
		assert.Equal(t, w.phase, m.Phase(), "step %d", i)
	}
}

func TestMachineTypesRunes(t *testing.T) {
	m := NewMachine([]string{"né"}, testTimings, nil)

	assert.Equal(t, "n", m.Step().Text)
	assert.Equal(t, "né", m.Step().Text)
}

func TestPickCoversAllWordsWithoutAdjacentRepeats(t *testing.T) {
	words := []string{"one", "two", "three", "four"}
	m := NewMachine(words, testTimings, rand.New(rand.NewPCG(7, 7)))

	first := map[int]bool{}
	for i := 0; i < len(words); i++ {
		first[m.pick()] = true
	}
	assert.Len(t, first, len(words), "first cycle shows every word once")

	prev := m.last
	for i := 0; i < 200; i++ {
		idx := m.pick()
		require.NotEqual(t, prev, idx, "pick %d repeated the previous word", i)
		prev = idx
	}
}

func TestPickSingleWord(t *testing.T) {
	m := NewMachine([]string{"only"}, testTimings, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 0, m.pick())
	}
}

type recorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *recorder) sink(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, text)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

func TestAnimationRendersSpinnerFrames(t *testing.T) {
	rec := &recorder{}
	a := Start(rec.sink, WithTimings(testTimings), WithWords("Thinking..."))

	require.Eventually(t, func() bool { return rec.count() >= 20 }, 2*time.Second, time.Millisecond)
	a.Stop()

	for i, f := range rec.snapshot() {
		glyph, text, ok := strings.Cut(f, " ")
		require.True(t, ok, "frame %d: %q", i, f)
		assert.Equal(t, Spinner[(i+1)%len(Spinner)], glyph)
		assert.True(t, strings.HasPrefix("Thinking...", text), "frame %d text %q", i, text)
	}
}

func TestNoFramesAfterStop(t *testing.T) {
	rec := &recorder{}
	a := Start(rec.sink, WithTimings(testTimings))

	require.Eventually(t, func() bool { return rec.count() >= 5 }, 2*time.Second, time.Millisecond)
	a.Stop()

	n := rec.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, rec.count())
}

func TestStopIsIdempotent(t *testing.T) {
	a := Start(func(string) {}, WithTimings(testTimings))

	done := make(chan struct{})
	go func() {
		a.Stop()
		a.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestCustomSpinner(t *testing.T) {
	rec := &recorder{}
	a := Start(rec.sink, WithTimings(testTimings), WithSpinner("|", "/"))

	require.Eventually(t, func() bool { return rec.count() >= 3 }, 2*time.Second, time.Millisecond)
	a.Stop()

	frames := rec.snapshot()
	assert.True(t, strings.HasPrefix(frames[0], "/ "))
	assert.True(t, strings.HasPrefix(frames[1], "| "))
}

func TestFirstFrameUsesSecondGlyph(t *testing.T) {
	rec := &recorder{}
	a := Start(rec.sink, WithTimings(testTimings))

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, time.Millisecond)
	a.Stop()

	assert.True(t, strings.HasPrefix(rec.snapshot()[0], "⠋ "))
}
