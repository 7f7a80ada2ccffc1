package animation

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Sink receives every rendered frame. It is called from the animation
// goroutine and must not call Stop.
type Sink func(text string)

// Animation is a running thinking animation
type Animation struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

type settings struct {
	timings Timings
	words   []string
	spinner []string
	rng     *rand.Rand
}

// Option configures an animation
type Option func(*settings)

// WithTimings overrides the intervals
func WithTimings(t Timings) Option {
	return func(s *settings) { s.timings = t }
}

// WithWords overrides the word list
func WithWords(words ...string) Option {
	return func(s *settings) { s.words = words }
}

// WithSpinner overrides the spinner glyphs
func WithSpinner(glyphs ...string) Option {
	return func(s *settings) {
		if len(glyphs) > 0 {
			s.spinner = glyphs
		}
	}
}

// WithRand sets the random source used to pick words
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) { s.rng = rng }
}

// Start begins rendering "<glyph> <text>" frames into sink on every spinner
// tick until Stop is called.
func Start(sink Sink, opts ...Option) *Animation {
	s := settings{timings: DefaultTimings, words: Words, spinner: Spinner}
	for _, opt := range opts {
		opt(&s)
	}
	if s.timings.Spin <= 0 {
		s.timings.Spin = DefaultTimings.Spin
	}

	a := &Animation{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go a.run(sink, s)
	return a
}

// Stop halts the animation and waits for its goroutine to exit. No frame
// reaches the sink after Stop returns. Safe to call more than once.
func (a *Animation) Stop() {
	a.once.Do(func() { close(a.stop) })
	<-a.done
}

func (a *Animation) run(sink Sink, s settings) {
	defer close(a.done)

	m := NewMachine(s.words, s.timings, s.rng)

	spin := time.NewTicker(s.timings.Spin)
	defer spin.Stop()

	f := m.Step()
	text := f.Text
	step := time.NewTimer(f.Delay)
	defer step.Stop()

	frame := 0
	for {
		select {
		case <-a.stop:
			return

		case <-spin.C:
			if a.stopped() {
				return
			}
			frame++
			sink(s.spinner[frame%len(s.spinner)] + " " + text)

		case <-step.C:
			if a.stopped() {
				return
			}
			f = m.Step()
			text = f.Text
			step.Reset(f.Delay)
		}
	}
}

func (a *Animation) stopped() bool {
	select {
	case <-a.stop:
		return true
	default:
		return false
	}
}
