package synth

import (
	"fmt"
	"strings"
)

// DispatchMode selects how incoming notes map onto voices.
type DispatchMode int

const (
	// DispatchPoly gives every note its own pool voice.
	DispatchPoly DispatchMode = iota
	// DispatchMono drives a single voice with last-note priority and glide.
	DispatchMono
)

func (m DispatchMode) String() string {
	switch m {
	case DispatchPoly:
		return "poly"
	case DispatchMono:
		return "mono"
	default:
		return fmt.Sprintf("DispatchMode(%d)", int(m))
	}
}

// ParseDispatchMode resolves "poly" or "mono" (case-insensitive).
func ParseDispatchMode(s string) (DispatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "poly", "polyphonic":
		return DispatchPoly, nil
	case "mono", "monophonic":
		return DispatchMono, nil
	}
	return 0, fmt.Errorf("unknown dispatch mode: %q", s)
}

const maxHeldNotes = 128

// Dispatcher is the note-event state machine in front of the pool. In poly
// mode it delegates allocation; in mono mode it keeps a held-note stack with
// last-note priority, retuning the single voice legato on fallback instead
// of retriggering it.
type Dispatcher struct {
	mode DispatchMode
	pool *VoicePool

	heldBacking [maxHeldNotes]int
	held        []int
	velocities  [maxHeldNotes]float32
	monoVoice   *Voice
}

// NewDispatcher wires a dispatcher to a pool, starting in poly mode.
func NewDispatcher(pool *VoicePool) *Dispatcher {
	d := &Dispatcher{mode: DispatchPoly, pool: pool}
	d.held = d.heldBacking[:0]
	return d
}

// Mode returns the current dispatch mode.
func (d *Dispatcher) Mode() DispatchMode {
	return d.mode
}

// SetMode switches between poly and mono. Switching silences everything so
// the two modes never share lingering voice state.
func (d *Dispatcher) SetMode(mode DispatchMode) {
	if mode != DispatchPoly && mode != DispatchMono {
		return
	}
	if mode == d.mode {
		return
	}
	d.mode = mode
	d.Reset()
}

// NoteOn routes a note-on. Notes outside 0..127 are dropped here, before
// any voice state changes.
func (d *Dispatcher) NoteOn(note int, frequency, velocity float32, mode Mode) {
	if note < 0 || note > 127 {
		return
	}
	if d.mode == DispatchPoly {
		d.pool.NoteOn(note, frequency, velocity, mode)
		return
	}

	d.removeHeld(note)
	if len(d.held) < maxHeldNotes {
		d.held = append(d.held, note)
	}
	d.velocities[note] = velocity

	if d.monoVoice == nil || !d.monoVoice.Active() {
		d.monoVoice = d.pool.NoteOn(note, frequency, velocity, mode)
		return
	}
	if d.monoVoice.Releasing() {
		// Tail from the previous phrase: restart the attack.
		d.monoVoice.Retune(note, frequency, false)
		d.monoVoice.Retrigger(velocity, mode)
		return
	}
	// Legato: retune with glide, keep the envelope running.
	d.monoVoice.Retune(note, frequency, true)
}

// NoteOff routes a note-off. In mono mode releasing a non-sounding held
// note only removes it from the stack; releasing the sounding note falls
// back to the most recent remaining note, if any.
func (d *Dispatcher) NoteOff(note int, frequencyFor func(int) float32) {
	if note < 0 || note > 127 {
		return
	}
	if d.mode == DispatchPoly {
		d.pool.NoteOff(note)
		return
	}

	d.removeHeld(note)
	if d.monoVoice == nil || !d.monoVoice.Active() || d.monoVoice.Note() != note {
		return
	}
	if len(d.held) == 0 {
		d.monoVoice.Release()
		return
	}
	prev := d.held[len(d.held)-1]
	d.monoVoice.Retune(prev, frequencyFor(prev), true)
}

// AllNotesOff is the emergency stop: held state cleared, every voice
// silenced immediately without release tails.
func (d *Dispatcher) AllNotesOff() {
	d.Reset()
}

// ReleaseAll clears the held stack and lets every sounding voice fade out
// through its release stage.
func (d *Dispatcher) ReleaseAll() {
	d.held = d.heldBacking[:0]
	d.pool.AllNotesOff()
}

// Reset clears the held stack and hard-stops the pool.
func (d *Dispatcher) Reset() {
	d.held = d.heldBacking[:0]
	d.monoVoice = nil
	d.pool.Reset()
}

// HeldCount reports the mono stack depth.
func (d *Dispatcher) HeldCount() int {
	return len(d.held)
}

func (d *Dispatcher) removeHeld(note int) {
	for i, n := range d.held {
		if n == note {
			copy(d.held[i:], d.held[i+1:])
			d.held = d.held[:len(d.held)-1]
			return
		}
	}
}
