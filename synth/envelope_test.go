package synth

import "testing"

func TestEnvelopeStageProgression(t *testing.T) {
	var e Envelope
	e.Configure(0.005, 0.02, 0.5, 0.05, 48000)
	e.Trigger()
	if e.Stage() != StageAttack {
		t.Fatalf("expected attack stage after trigger, got %d", e.Stage())
	}

	steps := 0
	for e.Stage() == StageAttack {
		e.Next()
		steps++
		if steps > 48000 {
			t.Fatalf("attack never completed")
		}
	}
	if e.Value() != 1.0 {
		t.Fatalf("expected attack to land exactly on 1.0, got %f", e.Value())
	}
	if e.Stage() != StageDecay {
		t.Fatalf("expected decay stage after attack, got %d", e.Stage())
	}

	steps = 0
	for e.Stage() == StageDecay {
		e.Next()
		steps++
		if steps > 48000 {
			t.Fatalf("decay never completed")
		}
	}
	if e.Stage() != StageSustain {
		t.Fatalf("expected sustain stage after decay, got %d", e.Stage())
	}
	if e.Value() != 0.5 {
		t.Fatalf("expected sustain level 0.5, got %f", e.Value())
	}

	for i := 0; i < 1000; i++ {
		if got := e.Next(); got != 0.5 {
			t.Fatalf("sustain drifted at step %d: got=%f want=0.5", i, got)
		}
	}

	e.Release()
	if e.Stage() != StageRelease {
		t.Fatalf("expected release stage, got %d", e.Stage())
	}
	steps = 0
	for e.Active() {
		e.Next()
		steps++
		if steps > 480000 {
			t.Fatalf("release never reached idle")
		}
	}
	if e.Value() != 0 {
		t.Fatalf("expected idle value 0, got %f", e.Value())
	}
}

func TestEnvelopeZeroTimesSnap(t *testing.T) {
	var e Envelope
	e.Configure(0, 0, 0.75, 0, 48000)
	e.Trigger()
	e.Next()
	if e.Stage() != StageDecay || e.Value() != 1.0 {
		t.Fatalf("expected zero attack to snap to 1.0: stage=%d value=%f", e.Stage(), e.Value())
	}
	e.Next()
	if e.Stage() != StageSustain || e.Value() != 0.75 {
		t.Fatalf("expected zero decay to snap to sustain: stage=%d value=%f", e.Stage(), e.Value())
	}
	e.Release()
	e.Next()
	if e.Active() {
		t.Fatalf("expected zero release to go idle in one sample")
	}
}

func TestEnvelopeReleaseFromIdleIsNoop(t *testing.T) {
	var e Envelope
	e.Configure(0.01, 0.01, 0.5, 0.01, 48000)
	e.Release()
	if e.Active() {
		t.Fatalf("expected idle envelope to stay idle on release")
	}
	if got := e.Next(); got != 0 {
		t.Fatalf("expected idle envelope output 0, got %f", got)
	}
}

func TestEnvelopeRetriggerFromRelease(t *testing.T) {
	var e Envelope
	e.Configure(0.01, 0.01, 0.6, 0.5, 48000)
	e.Trigger()
	for i := 0; i < 2000; i++ {
		e.Next()
	}
	e.Release()
	for i := 0; i < 100; i++ {
		e.Next()
	}
	mid := e.Value()
	if mid <= 0 {
		t.Fatalf("expected audible release tail, got %f", mid)
	}

	e.Trigger()
	if e.Stage() != StageAttack {
		t.Fatalf("expected retrigger to restart attack, got stage %d", e.Stage())
	}
	if e.Value() != mid {
		t.Fatalf("expected attack to resume from current level %f, got %f", mid, e.Value())
	}
	next := e.Next()
	if next <= mid {
		t.Fatalf("expected attack to rise from %f, got %f", mid, next)
	}
}
