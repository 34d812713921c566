package synth

import "sync/atomic"

// frequencySnapshot is the read-only view published for visualization after
// each processed block: the frequency of the loudest voice plus the
// frequencies of every sounding voice.
type frequencySnapshot struct {
	dominant float32
	freqs    [PoolSize]float32
	count    int
}

// snapshotPublisher double-buffers snapshots so the audio thread can publish
// without allocating. Readers are UI-side and advisory; a reader holding a
// pointer across two publishes may see the slot rewritten.
type snapshotPublisher struct {
	slots [2]frequencySnapshot
	idx   int
	cur   atomic.Pointer[frequencySnapshot]
}

func (s *snapshotPublisher) publish(pool *VoicePool) {
	s.idx ^= 1
	snap := &s.slots[s.idx]
	snap.count = 0
	snap.dominant = 0
	best := float32(-1)
	for i := 0; i < PoolSize; i++ {
		v := pool.voiceAt(i)
		if !v.Active() {
			continue
		}
		snap.freqs[snap.count] = v.Frequency()
		snap.count++
		if v.Level() > best {
			best = v.Level()
			snap.dominant = v.Frequency()
		}
	}
	s.cur.Store(snap)
}

func (s *snapshotPublisher) current() *frequencySnapshot {
	return s.cur.Load()
}
