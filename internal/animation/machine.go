// Package animation renders the "thinking" typewriter line shown in the
// commit message field while a request is outstanding.
package animation

import (
	"math/rand/v2"
	"time"
)

// Phase is the typewriter state
type Phase int

const (
	Idle Phase = iota
	Typing
	Holding
	Erasing
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Holding:
		return "holding"
	case Erasing:
		return "erasing"
	default:
		return "idle"
	}
}

// Timings controls the pace of the animation
type Timings struct {
	Spin  time.Duration
	Type  time.Duration
	Hold  time.Duration
	Erase time.Duration
	Pause time.Duration
}

// DefaultTimings are the stock intervals
var DefaultTimings = Timings{
	Spin:  80 * time.Millisecond,
	Type:  60 * time.Millisecond,
	Hold:  1200 * time.Millisecond,
	Erase: 30 * time.Millisecond,
	Pause: 100 * time.Millisecond,
}

// Words are the gerunds cycled through while waiting
var Words = []string{
	"Reasoning...",
	"Analyzing...",
	"Pondering...",
	"Reflecting...",
	"Synthesizing...",
	"Considering...",
	"Examining...",
	"Evaluating...",
	"Deciphering...",
	"Contemplating...",
	"Interpreting...",
	"Distilling...",
}

// Spinner is the glyph cycle drawn in front of the text
var Spinner = []string{"⠇", "⠋", "⠙", "⠸", "⢰", "⣠", "⣄", "⡆"}

// Frame is the visible text after a step and how long it stays
type Frame struct {
	Text  string
	Delay time.Duration
}

// Machine is the typewriter state machine. It is not safe for concurrent
// use; the scheduler owns it.
type Machine struct {
	words   []string
	timings Timings
	rng     *rand.Rand

	phase Phase
	word  []rune
	index int
	used  map[int]bool
	last  int
}

// NewMachine creates a machine in the Idle phase
func NewMachine(words []string, timings Timings, rng *rand.Rand) *Machine {
	words = nonEmpty(words)
	if len(words) == 0 {
		words = Words
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Machine{
		words:   words,
		timings: timings,
		rng:     rng,
		used:    make(map[int]bool, len(words)),
		last:    -1,
	}
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.phase
}

// Step advances one transition
//
//	Idle    -> Typing  first rune of a fresh word, Type
//	Typing  -> Typing  one more rune, Type
//	Typing  -> Holding full word, Hold
//	Holding -> Erasing one rune removed, Erase
//	Erasing -> Erasing one more rune removed, Erase
//	Erasing -> Idle    empty, Pause
func (m *Machine) Step() Frame {
	switch m.phase {
	case Typing:
		if m.index < len(m.word) {
			m.index++
			return m.frame(m.timings.Type)
		}
		m.phase = Holding
		return m.frame(m.timings.Hold)

	case Holding:
		m.phase = Erasing
		m.index = len(m.word) - 1
		return m.frame(m.timings.Erase)

	case Erasing:
		if m.index > 0 {
			m.index--
			return m.frame(m.timings.Erase)
		}
		m.phase = Idle
		return Frame{Text: "", Delay: m.timings.Pause}

	default:
		m.word = []rune(m.words[m.pick()])
		m.phase = Typing
		m.index = 1
		return m.frame(m.timings.Type)
	}
}

func (m *Machine) frame(d time.Duration) Frame {
	return Frame{Text: string(m.word[:m.index]), Delay: d}
}

// pick chooses a word not shown since the last reset. When every word has
// been used the set starts over, excluding the word just shown.
func (m *Machine) pick() int {
	if len(m.used) >= len(m.words) {
		m.used = make(map[int]bool, len(m.words))
		if len(m.words) > 1 && m.last >= 0 {
			m.used[m.last] = true
		}
	}

	free := make([]int, 0, len(m.words)-len(m.used))
	for i := range m.words {
		if !m.used[i] {
			free = append(free, i)
		}
	}

	idx := free[m.rng.IntN(len(free))]
	m.used[idx] = true
	m.last = idx
	return idx
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
