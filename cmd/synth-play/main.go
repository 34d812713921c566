// synth-play renders a short demo pattern through the engine and plays it
// on the default audio device.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-synth/preset"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/ebitengine/oto/v3"
)

func main() {
	notesFlag := flag.String("notes", "48,60,64,67", "Comma-separated MIDI notes of the demo pattern")
	modeFlag := flag.String("mode", "Crystalline", "Synthesis mode (name or index)")
	dispatchFlag := flag.String("dispatch", "poly", "Dispatch mode: poly or mono")
	bpm := flag.Float64("bpm", 110, "Pattern tempo in beats per minute")
	duration := flag.Float64("duration", 8.0, "Playback duration in seconds")
	sampleRate := flag.Int("sample-rate", 48000, "Playback sample rate in Hz")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	flag.Parse()

	notes, err := parseNotes(*notesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -notes: %v\n", err)
		os.Exit(1)
	}
	if *bpm <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -bpm must be > 0")
		os.Exit(1)
	}

	p := &preset.Preset{Params: synth.NewDefaultParams()}
	if *presetPath != "" {
		p, err = preset.LoadJSON(*presetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}

	eng, err := synth.New(*sampleRate, p.Params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}
	if p.HasMode {
		eng.SetMode(p.Mode)
	}
	if p.HasDispatch {
		eng.SetDispatchMode(p.DispatchMode)
	}
	if *modeFlag != "" {
		m, err := synth.ParseMode(*modeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		eng.SetMode(m)
	}
	if *dispatchFlag != "" {
		m, err := synth.ParseDispatchMode(*dispatchFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		eng.SetDispatchMode(m)
	}

	op := &oto.NewContextOptions{
		SampleRate:   *sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening audio device: %v\n", err)
		os.Exit(1)
	}
	<-ready

	stepFrames := int(float64(*sampleRate) * 60.0 / *bpm / 2.0)
	if stepFrames < 1 {
		stepFrames = 1
	}
	stream := &patternStream{
		engine:     eng,
		notes:      notes,
		stepFrames: stepFrames,
		gateFrames: stepFrames * 3 / 4,
		block:      make([]float32, 256),
	}

	fmt.Printf("Playing %v in mode %q (%s) at %.0f BPM for %.1fs...\n",
		notes, eng.Mode().String(), eng.DispatchMode().String(), *bpm, *duration)

	player := ctx.NewPlayer(stream)
	player.Play()
	time.Sleep(time.Duration(*duration * float64(time.Second)))
	eng.ReleaseAll()
	time.Sleep(300 * time.Millisecond)
	if err := player.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing player: %v\n", err)
		os.Exit(1)
	}
}

// patternStream renders the engine into oto's pull callback, stepping an
// arpeggio over the configured notes. Read is called from oto's audio
// goroutine; the engine is driven exclusively from here.
type patternStream struct {
	engine     *synth.Engine
	notes      []int
	stepFrames int
	gateFrames int
	frameInBar int
	step       int
	noteDown   bool
	block      []float32
}

func (s *patternStream) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	written := 0
	for written < frames {
		n := frames - written
		if n > len(s.block) {
			n = len(s.block)
		}

		for i := 0; i < n; i++ {
			if s.frameInBar == 0 && !s.noteDown {
				s.engine.NoteOn(s.notes[s.step%len(s.notes)], 100)
				s.noteDown = true
			}
			if s.frameInBar == s.gateFrames && s.noteDown {
				s.engine.NoteOff(s.notes[s.step%len(s.notes)])
				s.noteDown = false
			}
			s.frameInBar++
			if s.frameInBar >= s.stepFrames {
				s.frameInBar = 0
				s.step++
			}
		}

		buf := s.block[:n]
		s.engine.Process([][]float32{buf})
		for i := 0; i < n; i++ {
			bits := math.Float32bits(buf[i])
			binary.LittleEndian.PutUint32(p[(written+i)*4:], bits)
		}
		written += n
	}
	return frames * 4, nil
}

func parseNotes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	notes := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q", part)
		}
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("note %d out of range 0..127", n)
		}
		notes = append(notes, n)
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes given")
	}
	return notes, nil
}
