package synth

// fmOperator is a single phase-modulated sine operator. The phase is
// advanced by the owning algorithm.
type fmOperator struct {
	ratio     float32
	amplitude float32
	phase     float32
}

func (o *fmOperator) generate(modulation float32) float32 {
	return sinf(tau*(o.phase+modulation)) * o.amplitude
}

func (o *fmOperator) advance(frequency, sampleRate float32) {
	o.phase += (frequency * o.ratio) / sampleRate
	if o.phase >= 1.0 {
		o.phase -= 1.0
	}
}

// dx7 is six-operator FM wired as the classic electric-piano algorithm:
// two three-operator stacks (6→5→4 and 3→2→1) with operators 4 and 1 as
// carriers, plus a metallic overtone and frequency-dependent brightness.
type dx7 struct {
	sampleRate float32
	ops        [6]fmOperator
}

func newDX7(sampleRate int) *dx7 {
	d := &dx7{sampleRate: float32(sampleRate)}
	ratios := [6]float32{1.0, 1.5, 2.0, 3.0, 4.0, 7.0}
	for i := range d.ops {
		d.ops[i].ratio = ratios[i]
		d.ops[i].amplitude = 1.0 / float32(i+1)
	}
	return d
}

func (d *dx7) Generate(phase, frequency float32) float32 {
	for i := range d.ops {
		d.ops[i].advance(frequency, d.sampleRate)
	}

	mod6 := d.ops[5].generate(0) * 2.0
	mod5 := d.ops[4].generate(mod6) * 1.5
	carrier1 := d.ops[3].generate(mod5)

	mod3 := d.ops[2].generate(0) * 3.0
	mod2 := d.ops[1].generate(mod3) * 2.0
	carrier2 := d.ops[0].generate(mod2)

	out := (carrier1 + carrier2) * 0.5

	// Metallic character.
	out += sinf(tau*phase*7.13) * 0.05

	brightness := frequency / 1000.0
	out = out*(1.0-brightness*0.3) + tanhf(out*3.0)*brightness*0.3

	return out * 0.5
}

func (d *dx7) Reset() {
	for i := range d.ops {
		d.ops[i].phase = 0
	}
}
