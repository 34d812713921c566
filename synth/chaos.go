package synth

import "github.com/cwbudde/algo-synth/dsp"

// living modulates a sine carrier with a Lorenz attractor. The attractor
// state is squashed through tanh each step, so the system cannot blow up
// no matter how long it runs.
type living struct {
	sampleRate float32
	x, y, z    float32
	filter     dsp.StateVariableFilter
}

func newLiving(sampleRate int) *living {
	return &living{
		sampleRate: float32(sampleRate),
		x:          0.1,
	}
}

func (l *living) Generate(phase, frequency float32) float32 {
	const dt = 0.01
	const sigma = 10.0
	const rho = 28.0
	const beta = 8.0 / 3.0

	dx := sigma * (l.y - l.x)
	dy := l.x*(rho-l.z) - l.y
	dz := l.x*l.y - beta*l.z

	l.x += dx * dt
	l.y += dy * dt
	l.z += dz * dt

	l.x = tanhf(l.x * 0.1)
	l.y = tanhf(l.y * 0.1)
	l.z = tanhf(l.z * 0.1)

	carrier := sinf(tau * phase)
	out := carrier * (1.0 + l.x*0.5)

	out += l.y * 0.2
	out += sinf(tau*phase*(2.0+l.z)) * 0.3

	breath := sinf(tau * phase * 0.2)
	out *= 1.0 + breath*0.3

	res := 1.0 + absf(l.y)*5.0
	l.filter.SetParams(500.0+l.x*2000.0, res, l.sampleRate)
	out = l.filter.ProcessLowpass(out)

	return dsp.SoftClip(out * 0.5)
}

func (l *living) Reset() {
	l.x = 0.1
	l.y = 0
	l.z = 0
	l.filter.Reset()
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
