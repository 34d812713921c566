package synth

// PoolSize is the fixed number of simultaneous voices.
const PoolSize = 8

// VoicePool owns the fixed voice array and the allocation policy: reuse the
// slot already sounding the note, then take a free slot, then steal the
// quietest voice (oldest wins ties).
type VoicePool struct {
	voices [PoolSize]*Voice
}

// NewVoicePool builds the pool and every voice's algorithm bank up front so
// note handling never allocates.
func NewVoicePool(sampleRate int, seed int64, params *Params) *VoicePool {
	p := &VoicePool{}
	for i := range p.voices {
		p.voices[i] = NewVoice(sampleRate, seed+int64(i)*977, params)
	}
	return p
}

// Configure reapplies parameters to every voice.
func (p *VoicePool) Configure(params *Params) {
	for _, v := range p.voices {
		v.Configure(params)
	}
}

// NoteOn allocates a voice for the note and returns it.
func (p *VoicePool) NoteOn(note int, frequency, velocity float32, mode Mode) *Voice {
	if v := p.FindNote(note); v != nil {
		v.Retrigger(velocity, mode)
		return v
	}
	v := p.FindFree()
	if v == nil {
		v = p.steal()
	}
	v.Start(note, frequency, velocity, mode)
	return v
}

// NoteOff releases every voice sounding the note. Voices stay allocated
// until their release tails finish.
func (p *VoicePool) NoteOff(note int) {
	for _, v := range p.voices {
		if v.Active() && v.Note() == note {
			v.Release()
		}
	}
}

// AllNotesOff releases every sounding voice.
func (p *VoicePool) AllNotesOff() {
	for _, v := range p.voices {
		if v.Active() {
			v.Release()
		}
	}
}

// Reset hard-stops every voice immediately. Used for mode switches and as
// the emergency stop.
func (p *VoicePool) Reset() {
	for _, v := range p.voices {
		v.Reset()
	}
}

// FindNote returns the active voice sounding note, or nil.
func (p *VoicePool) FindNote(note int) *Voice {
	for _, v := range p.voices {
		if v.Active() && v.Note() == note {
			return v
		}
	}
	return nil
}

// FindFree returns the first inactive voice, or nil when the pool is full.
func (p *VoicePool) FindFree() *Voice {
	for _, v := range p.voices {
		if !v.Active() {
			return v
		}
	}
	return nil
}

// steal picks the victim when the pool is full: the lowest current level,
// with the older voice winning a level tie.
func (p *VoicePool) steal() *Voice {
	victim := p.voices[0]
	for _, v := range p.voices[1:] {
		if v.Level() < victim.Level() {
			victim = v
			continue
		}
		if v.Level() == victim.Level() && v.Age() > victim.Age() {
			victim = v
		}
	}
	return victim
}

// ActiveCount reports how many voices are sounding.
func (p *VoicePool) ActiveCount() int {
	n := 0
	for _, v := range p.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// voiceAt exposes pool slots to the engine's render loop.
func (p *VoicePool) voiceAt(i int) *Voice {
	return p.voices[i]
}
