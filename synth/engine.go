package synth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/effects"
	"github.com/cwbudde/algo-synth/dsp"
)

// Engine is the synthesizer core: a fixed pool of voices behind a note
// dispatcher, rendered sample by sample through normalization, a DC blocker,
// smoothed master gain, and an optional chorus/reverb chain.
//
// All control methods (NoteOn, NoteOff, SetMode, ...) are meant to be called
// from the same goroutine that calls Process; the snapshot accessors are the
// only methods safe to call concurrently.
type Engine struct {
	sampleRate int
	params     *Params

	pool       *VoicePool
	dispatcher *Dispatcher
	mode       Mode

	gain    dsp.OnePole
	dc      *dsp.DCBlocker
	chorus  *effects.Chorus
	reverb  *effects.Reverb
	invSqrt [PoolSize + 1]float32

	snapshots snapshotPublisher
}

// New creates an engine at the given sample rate. A nil params uses the
// defaults.
func New(sampleRate int, params *Params) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %d", sampleRate)
	}
	if params == nil {
		params = NewDefaultParams()
	}

	e := &Engine{
		sampleRate: sampleRate,
		params:     params,
		mode:       ModeCrystalline,
		dc:         dsp.NewDCBlocker(0.995),
	}
	e.pool = NewVoicePool(sampleRate, 0x5eed, params)
	e.dispatcher = NewDispatcher(e.pool)
	e.gain.SetTime(0.01, sampleRate)
	e.gain.Snap(params.Gain)
	for n := 1; n <= PoolSize; n++ {
		e.invSqrt[n] = float32(1.0 / math.Sqrt(float64(n)))
	}
	e.invSqrt[0] = 1.0

	chorus, err := effects.NewChorus()
	if err != nil {
		return nil, err
	}
	e.chorus = chorus
	e.reverb = effects.NewReverb()
	if err := e.configureEffects(); err != nil {
		return nil, err
	}
	return e, nil
}

// Prepare readies the engine for playback at a (possibly new) sample rate.
// The voice pool is rebuilt when the rate changes because delay lengths and
// envelope coefficients depend on it. Not safe to call while Process runs.
func (e *Engine) Prepare(sampleRate, maxBlockSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d", sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", maxBlockSize)
	}
	if sampleRate != e.sampleRate {
		dispatch := e.dispatcher.Mode()
		e.sampleRate = sampleRate
		e.pool = NewVoicePool(sampleRate, 0x5eed, e.params)
		e.dispatcher = NewDispatcher(e.pool)
		e.dispatcher.SetMode(dispatch)
		e.gain.SetTime(0.01, sampleRate)
	} else {
		e.dispatcher.Reset()
	}
	e.gain.Snap(e.params.Gain)
	e.dc.Reset()
	return e.configureEffects()
}

// ApplyParams swaps in a new parameter set. Nil restores defaults.
func (e *Engine) ApplyParams(params *Params) error {
	if params == nil {
		params = NewDefaultParams()
	}
	e.params = params
	e.pool.Configure(params)
	return e.configureEffects()
}

// Params returns the active parameter set.
func (e *Engine) Params() *Params {
	return e.params
}

// SampleRate returns the rate the engine renders at.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

func (e *Engine) configureEffects() error {
	if err := e.chorus.SetSampleRate(float64(e.sampleRate)); err != nil {
		return err
	}
	if err := e.chorus.SetMix(e.params.ChorusMix); err != nil {
		return err
	}
	if err := e.chorus.SetDepth(e.params.ChorusDepth); err != nil {
		return err
	}
	if err := e.chorus.SetSpeedHz(e.params.ChorusSpeedHz); err != nil {
		return err
	}
	if err := e.chorus.SetStages(e.params.ChorusStages); err != nil {
		return err
	}

	e.reverb.SetWet(e.params.ReverbWet)
	e.reverb.SetDry(e.params.ReverbDry)
	e.reverb.SetRoomSize(e.params.ReverbRoomSize)
	e.reverb.SetDamp(e.params.ReverbDamp)
	e.reverb.SetGain(e.params.ReverbGain)
	return nil
}

// NoteOn starts a note. Velocity runs 0..127; zero velocity is treated as a
// note-off, matching MIDI running-status conventions.
func (e *Engine) NoteOn(note, velocity int) {
	if velocity <= 0 {
		e.NoteOff(note)
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	freq := e.frequencyForNote(note)
	e.dispatcher.NoteOn(note, freq, float32(velocity)/127.0, e.mode)
}

// NoteOff releases a note.
func (e *Engine) NoteOff(note int) {
	e.dispatcher.NoteOff(note, e.frequencyForNote)
}

// AllNotesOff is the emergency stop: every voice goes silent immediately,
// bypassing release tails.
func (e *Engine) AllNotesOff() {
	e.dispatcher.AllNotesOff()
}

// ReleaseAll moves everything that is sounding into its release tail.
func (e *Engine) ReleaseAll() {
	e.dispatcher.ReleaseAll()
}

func (e *Engine) frequencyForNote(note int) float32 {
	return noteToFrequency(note, e.params.OctaveShift, e.params.ReferencePitch)
}

// SetMode switches the synthesis algorithm. All voices are silenced so no
// algorithm renders with another algorithm's leftover state.
func (e *Engine) SetMode(mode Mode) {
	if !mode.Valid() || mode == e.mode {
		return
	}
	e.mode = mode
	e.dispatcher.Reset()
}

// Mode returns the active synthesis mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// SetDispatchMode switches between poly and mono note handling.
func (e *Engine) SetDispatchMode(mode DispatchMode) {
	e.dispatcher.SetMode(mode)
}

// DispatchMode returns the active note-handling mode.
func (e *Engine) DispatchMode() DispatchMode {
	return e.dispatcher.Mode()
}

// ActiveVoices reports how many voices are currently sounding.
func (e *Engine) ActiveVoices() int {
	return e.pool.ActiveCount()
}

// Process renders len(out[0]) frames. Every channel receives the same
// signal. The call never allocates.
func (e *Engine) Process(out [][]float32) {
	if len(out) == 0 || len(out[0]) == 0 {
		return
	}
	numFrames := len(out[0])
	gainTarget := e.params.Gain
	chorusOn := e.params.ChorusEnabled
	reverbOn := e.params.ReverbEnabled

	for i := 0; i < numFrames; i++ {
		var mix float32
		active := 0
		for s := 0; s < PoolSize; s++ {
			v := e.pool.voiceAt(s)
			if !v.Active() {
				continue
			}
			mix += v.NextSample(e.mode)
			active++
		}

		mix *= e.invSqrt[active]
		mix *= e.gain.Process(gainTarget)
		mix = e.dc.Process(mix)

		if chorusOn || reverbOn {
			x := float64(mix)
			if chorusOn {
				x = e.chorus.ProcessSample(x)
			}
			if reverbOn {
				x = e.reverb.ProcessSample(x)
			}
			mix = float32(x)
		}
		mix = dsp.SoftClip(mix)

		for ch := range out {
			out[ch][i] = mix
		}
	}

	e.snapshots.publish(e.pool)
}

// CurrentFrequency returns the frequency of the loudest sounding voice from
// the last processed block, or 0 when silent. Safe to call from any
// goroutine.
func (e *Engine) CurrentFrequency() float32 {
	snap := e.snapshots.current()
	if snap == nil {
		return 0
	}
	return snap.dominant
}

// ActiveFrequencies appends the sounding frequencies from the last processed
// block to buf and returns it. Safe to call from any goroutine.
func (e *Engine) ActiveFrequencies(buf []float32) []float32 {
	snap := e.snapshots.current()
	if snap == nil {
		return buf[:0]
	}
	buf = buf[:0]
	for i := 0; i < snap.count; i++ {
		buf = append(buf, snap.freqs[i])
	}
	return buf
}
