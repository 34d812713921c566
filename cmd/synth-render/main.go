package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/internal/fitcommon"
	"github.com/cwbudde/algo-synth/preset"
	"github.com/cwbudde/algo-synth/synth"
)

func main() {
	notesFlag := flag.String("notes", "60", "Comma-separated MIDI notes (chord in poly mode, sequence order in mono mode)")
	velocity := flag.Int("velocity", 100, "MIDI velocity (1-127)")
	duration := flag.Float64("duration", 2.0, "Total render duration in seconds")
	releaseAfter := flag.Float64("release-after", 1.0, "Send NoteOff after this many seconds")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	modeFlag := flag.String("mode", "", "Synthesis mode (name or index); overrides the preset")
	dispatchFlag := flag.String("dispatch", "", "Dispatch mode: poly or mono; overrides the preset")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	notes, err := parseNotes(*notesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -notes: %v\n", err)
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

	fmt.Printf("Rendering notes %v, mode %q (%s), for %.2fs at %d Hz...\n",
		notes, eng.Mode().String(), eng.DispatchMode().String(), *duration, *sampleRate)

	for _, n := range notes {
		eng.NoteOn(n, *velocity)
	}

	const blockSize = 128
	const numChannels = 2
	totalFrames := int(float64(*sampleRate) * (*duration))
	if totalFrames < 1 {
		totalFrames = 1
	}
	releaseAtFrame := int(float64(*sampleRate) * (*releaseAfter))
	if releaseAtFrame < 0 {
		releaseAtFrame = 0
	}

	left := make([]float32, blockSize)
	right := make([]float32, blockSize)
	block := [][]float32{left, right}
	samples := make([]float32, 0, totalFrames*numChannels)

	released := false
	framesRendered := 0
	for framesRendered < totalFrames {
		framesToRender := blockSize
		if framesRendered+framesToRender > totalFrames {
			framesToRender = totalFrames - framesRendered
		}

		if !released && framesRendered >= releaseAtFrame {
			for _, n := range notes {
				eng.NoteOff(n)
			}
			released = true
		}

		block[0] = left[:framesToRender]
		block[1] = right[:framesToRender]
		eng.Process(block)
		for i := 0; i < framesToRender; i++ {
			samples = append(samples, block[0][i], block[1][i])
		}
		framesRendered += framesToRender
	}

	if err := fitcommon.WriteStereoInterleavedWAV(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, framesRendered)
}

func parseNotes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	notes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid note %q", p)
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
