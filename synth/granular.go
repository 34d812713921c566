package synth

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp"
)

const (
	grainCount      = 16
	grainBufferSize = 4096
)

type grain struct {
	active    bool
	position  float32
	duration  float32
	pitch     float32
	amplitude float32
	envelope  float32
}

// grainCloud reads Hann-windowed grains from a precomputed harmonic texture
// buffer. Shared by the Texture and Nebula modes; each algorithm instance
// owns its own cloud.
type grainCloud struct {
	sampleRate float32
	buffer     [grainBufferSize]float32
	grains     [grainCount]grain
}

func newGrainCloud(sampleRate int) *grainCloud {
	c := &grainCloud{sampleRate: float32(sampleRate)}
	for i := range c.buffer {
		t := float64(i) / grainBufferSize
		s := math.Sin(2.0*math.Pi*t*3.0)*0.3 +
			math.Sin(2.0*math.Pi*t*7.0)*0.2 +
			math.Sin(2.0*math.Pi*t*11.0)*0.1
		c.buffer[i] = float32(s * math.Exp(-t*2.0))
	}
	return c
}

func (c *grainCloud) trigger(noise *noiseSource) {
	for i := range c.grains {
		g := &c.grains[i]
		if g.active {
			continue
		}
		g.active = true
		g.position = noise.next()*0.5 + 0.5
		g.duration = 0.05 + (noise.next()*0.5+0.5)*0.1
		g.pitch = 0.5 + (noise.next()*0.5+0.5)*2.0
		g.amplitude = 0.2 + (noise.next()*0.5+0.5)*0.3
		g.envelope = 0
		return
	}
}

// process sums all active grains and advances their envelopes and read
// positions by one sample.
func (c *grainCloud) process() float32 {
	var out float32
	for i := range c.grains {
		g := &c.grains[i]
		if !g.active {
			continue
		}
		env := 0.5 * (1.0 - cosf(tau*g.envelope))

		idx := int(g.position*grainBufferSize) % grainBufferSize
		if idx < 0 {
			idx += grainBufferSize
		}
		out += c.buffer[idx] * env * g.amplitude

		g.envelope += 1.0 / (g.duration * c.sampleRate)
		g.position += g.pitch / c.sampleRate
		if g.envelope >= 1.0 {
			g.active = false
		}
	}
	return out
}

func (c *grainCloud) reset() {
	for i := range c.grains {
		c.grains[i].active = false
	}
}

// texture is the granular mode: a grain cloud retriggered at a
// frequency-dependent rate, blended with filtered noise and a spatial delay.
type texture struct {
	sampleRate float32
	cloud      *grainCloud
	counter    int
	filter     dsp.StateVariableFilter
	delay      *dsp.DelayLine
	noise      noiseSource
}

func newTexture(sampleRate int, seed int64) *texture {
	delayLen := 2048 * sampleRate / 44100
	return &texture{
		sampleRate: float32(sampleRate),
		cloud:      newGrainCloud(sampleRate),
		delay:      dsp.NewDelayLine(delayLen, 0.5),
		noise:      newNoiseSource(seed),
	}
}

func (t *texture) Generate(phase, frequency float32) float32 {
	t.counter++
	if t.counter > int(t.sampleRate/(clampFrequency(frequency)*0.1)) {
		t.counter = 0
		t.cloud.trigger(&t.noise)
	}

	out := t.cloud.process()

	tex := t.noise.next() * 0.1
	t.filter.SetParams(frequency*4.0, 3.0, t.sampleRate)
	tex = t.filter.ProcessBandpass(tex)

	out = out*0.7 + tex*0.3

	delayed := t.delay.Process(out * 0.4)
	return dsp.SoftClip((out + delayed) * 0.5)
}

func (t *texture) Reset() {
	t.cloud.reset()
	t.counter = 0
	t.filter.Reset()
	t.delay.Reset()
	t.noise.reset()
}
