package synth

import "math"

// EnvelopeStage identifies where an Envelope is in its lifecycle.
type EnvelopeStage int

const (
	StageIdle EnvelopeStage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// Envelope is an exponential ADSR. Each stage approaches its target with a
// one-pole coefficient exp(-1/(time*sampleRate)), so a zero time snaps to
// the target in a single sample.
type Envelope struct {
	stage       EnvelopeStage
	value       float32
	sustain     float32
	attackCoef  float32
	decayCoef   float32
	releaseCoef float32
}

func rateCoef(seconds float32, sampleRate int) float32 {
	if seconds <= 0 || sampleRate <= 0 {
		return 0
	}
	return float32(math.Exp(-1.0 / (float64(seconds) * float64(sampleRate))))
}

// Configure sets the stage times (seconds) and sustain level. Safe to call
// between notes; a running envelope picks up the new rates immediately.
func (e *Envelope) Configure(attack, decay, sustain, release float32, sampleRate int) {
	e.attackCoef = rateCoef(attack, sampleRate)
	e.decayCoef = rateCoef(decay, sampleRate)
	e.releaseCoef = rateCoef(release, sampleRate)
	e.sustain = clampf(sustain, 0, 1)
}

// Trigger starts the attack stage from the current level.
func (e *Envelope) Trigger() {
	e.stage = StageAttack
}

// Release moves a sounding envelope into the release stage.
func (e *Envelope) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Reset silences the envelope immediately.
func (e *Envelope) Reset() {
	e.stage = StageIdle
	e.value = 0
}

// Active reports whether the envelope still produces output.
func (e *Envelope) Active() bool {
	return e.stage != StageIdle
}

// Releasing reports whether the envelope is in its release stage.
func (e *Envelope) Releasing() bool {
	return e.stage == StageRelease
}

// Stage returns the current lifecycle stage.
func (e *Envelope) Stage() EnvelopeStage {
	return e.stage
}

// Value returns the current level without advancing.
func (e *Envelope) Value() float32 {
	return e.value
}

// Next advances the envelope one sample and returns the new level.
func (e *Envelope) Next() float32 {
	switch e.stage {
	case StageAttack:
		e.value = 1.0 + (e.value-1.0)*e.attackCoef
		if e.value >= 0.999 {
			e.value = 1.0
			e.stage = StageDecay
		}
	case StageDecay:
		e.value = e.sustain + (e.value-e.sustain)*e.decayCoef
		if e.value-e.sustain <= 0.001 {
			e.value = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.value = e.sustain
	case StageRelease:
		e.value *= e.releaseCoef
		if e.value <= 0.001 {
			e.value = 0
			e.stage = StageIdle
		}
	default:
		return 0
	}
	return e.value
}
