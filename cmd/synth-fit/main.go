// synth-fit searches for engine parameters whose render best matches a
// reference recording, using a mayfly optimizer over normalized knobs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-synth/analysis"
	"github.com/cwbudde/algo-synth/internal/fitcommon"
	"github.com/cwbudde/algo-synth/synth"
	"github.com/cwbudde/mayfly"
)

type knobDef struct {
	Name string
	Min  float64
	Max  float64
	Log  bool
}

var knobDefs = []knobDef{
	{Name: "attack", Min: 0.001, Max: 0.5, Log: true},
	{Name: "decay", Min: 0.01, Max: 1.0, Log: true},
	{Name: "sustain", Min: 0.0, Max: 1.0},
	{Name: "release", Min: 0.02, Max: 2.0, Log: true},
	{Name: "filter_cutoff", Min: 200, Max: 16000, Log: true},
	{Name: "filter_resonance", Min: 0.5, Max: 6.0},
	{Name: "gain", Min: 0.2, Max: 1.0},
}

func denormalize(pos []float64) map[string]float64 {
	out := make(map[string]float64, len(knobDefs))
	for i, d := range knobDefs {
		v := pos[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		if d.Log {
			out[d.Name] = d.Min * math.Exp(v*math.Log(d.Max/d.Min))
		} else {
			out[d.Name] = d.Min + v*(d.Max-d.Min)
		}
	}
	return out
}

func paramsFromKnobs(knobs map[string]float64) *synth.Params {
	p := synth.NewDefaultParams()
	p.Attack = float32(knobs["attack"])
	p.Decay = float32(knobs["decay"])
	p.Sustain = float32(knobs["sustain"])
	p.Release = float32(knobs["release"])
	p.FilterCutoff = float32(knobs["filter_cutoff"])
	p.FilterResonance = float32(knobs["filter_resonance"])
	p.Gain = float32(knobs["gain"])
	return p
}

func renderCandidate(params *synth.Params, mode synth.Mode, note, velocity, sampleRate, frames, releaseAt int) ([]float64, error) {
	eng, err := synth.New(sampleRate, params)
	if err != nil {
		return nil, err
	}
	eng.SetMode(mode)
	eng.NoteOn(note, velocity)

	const blockSize = 128
	buf := make([]float32, blockSize)
	out := make([]float64, 0, frames)
	released := false
	rendered := 0
	for rendered < frames {
		n := blockSize
		if rendered+n > frames {
			n = frames - rendered
		}
		if !released && rendered >= releaseAt {
			eng.NoteOff(note)
			released = true
		}
		block := buf[:n]
		eng.Process([][]float32{block})
		for _, s := range block {
			out = append(out, float64(s))
		}
		rendered += n
	}
	return out, nil
}

func newMayflyConfig(variant string, pop, dims, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type fitReport struct {
	Reference  string             `json:"reference"`
	Mode       string             `json:"mode"`
	Note       int                `json:"note"`
	Velocity   int                `json:"velocity"`
	SampleRate int                `json:"sample_rate"`
	Evals      int                `json:"evals"`
	ElapsedS   float64            `json:"elapsed_s"`
	Score      float64            `json:"score"`
	Metrics    analysis.Metrics   `json:"metrics"`
	Knobs      map[string]float64 `json:"knobs"`
}

func main() {
	refPath := flag.String("reference", "", "Reference WAV to match (required)")
	modeFlag := flag.String("mode", "Crystalline", "Synthesis mode (name or index)")
	note := flag.Int("note", 60, "MIDI note")
	velocity := flag.Int("velocity", 100, "MIDI velocity")
	sampleRate := flag.Int("sample-rate", 48000, "Working sample rate in Hz")
	maxEvals := flag.Int("max-evals", 400, "Objective evaluation budget")
	pop := flag.Int("pop", 10, "Mayfly population size")
	variant := flag.String("variant", "ma", "Mayfly variant: ma, desma, olce")
	seed := flag.Int64("seed", 1, "Optimizer RNG seed")
	outputPreset := flag.String("output-preset", "out/fit_preset.json", "Best preset JSON output path")
	reportPath := flag.String("report", "out/fit_report.json", "Fit report JSON output path")
	flag.Parse()

	if *refPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -reference is required")
		os.Exit(1)
	}
	mode, err := synth.ParseMode(*modeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ref, refRate, err := fitcommon.ReadWAVMono(*refPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading reference: %v\n", err)
		os.Exit(1)
	}
	ref, err = fitcommon.ResampleIfNeeded(ref, refRate, *sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resampling reference: %v\n", err)
		os.Exit(1)
	}
	if len(ref) == 0 {
		fmt.Fprintln(os.Stderr, "Error: empty reference")
		os.Exit(1)
	}
	frames := len(ref)
	maxFrames := *sampleRate * 8
	if frames > maxFrames {
		frames = maxFrames
		ref = ref[:frames]
	}
	releaseAt := frames * 6 / 10

	analyzer, err := analysis.NewAnalyzer(*sampleRate, 4096)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating analyzer: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Fitting mode %q to %s (%d frames @ %d Hz), budget %d evals...\n",
		mode.String(), *refPath, frames, *sampleRate, *maxEvals)

	start := time.Now()
	evals := 0
	bestScore := math.Inf(1)
	var bestKnobs map[string]float64
	var bestMetrics analysis.Metrics

	iters := maxInt(1, *maxEvals/(2*(*pop)))
	cfg, err := newMayflyConfig(*variant, *pop, len(knobDefs), iters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Rand = rand.New(rand.NewSource(*seed))
	cfg.ObjectiveFunc = func(pos []float64) float64 {
		if evals >= *maxEvals {
			return bestScore + 1.0
		}
		evals++
		knobs := denormalize(pos)
		cand, err := renderCandidate(paramsFromKnobs(knobs), mode, *note, *velocity, *sampleRate, frames, releaseAt)
		if err != nil {
			return bestScore + 0.8
		}
		m := analyzer.Compare(ref, cand)
		if m.Score < bestScore {
			bestScore = m.Score
			bestKnobs = knobs
			bestMetrics = m
			fmt.Printf("Improved eval=%d score=%.4f spectral=%.1fdB envelope=%.1fdB\n",
				evals, m.Score, m.SpectralRMSEDB, m.EnvelopeRMSEDB)
		}
		return m.Score
	}

	if _, err := runMayfly(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Optimization failed: %v\n", err)
		os.Exit(1)
	}
	if bestKnobs == nil {
		fmt.Fprintln(os.Stderr, "No successful evaluation")
		os.Exit(1)
	}

	elapsed := time.Since(start).Seconds()
	fmt.Printf("Done: %d evals in %.1fs, best score %.4f\n", evals, elapsed, bestScore)

	presetJSON := map[string]any{
		"mode":             mode.String(),
		"attack":           bestKnobs["attack"],
		"decay":            bestKnobs["decay"],
		"sustain":          bestKnobs["sustain"],
		"release":          bestKnobs["release"],
		"filter_cutoff":    bestKnobs["filter_cutoff"],
		"filter_resonance": bestKnobs["filter_resonance"],
		"gain":             bestKnobs["gain"],
	}
	if err := writeJSON(*outputPreset, presetJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing preset: %v\n", err)
		os.Exit(1)
	}

	report := fitReport{
		Reference:  *refPath,
		Mode:       mode.String(),
		Note:       *note,
		Velocity:   *velocity,
		SampleRate: *sampleRate,
		Evals:      evals,
		ElapsedS:   elapsed,
		Score:      bestScore,
		Metrics:    bestMetrics,
		Knobs:      bestKnobs,
	}
	if err := writeJSON(*reportPath, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s and %s\n", *outputPreset, *reportPath)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
