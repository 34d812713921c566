// Package preset loads synth parameter presets from JSON files. Every field
// is optional; present fields are validated and applied on top of the
// defaults.
package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/synth"
)

// File is the JSON schema for synth presets.
type File struct {
	Mode         string `json:"mode"`
	DispatchMode string `json:"dispatch_mode"`

	Gain           *float32 `json:"gain"`
	ReferencePitch *float32 `json:"reference_pitch"`
	OctaveShift    *int     `json:"octave_shift"`

	Attack  *float32 `json:"attack"`
	Decay   *float32 `json:"decay"`
	Sustain *float32 `json:"sustain"`
	Release *float32 `json:"release"`

	FilterCutoff    *float32 `json:"filter_cutoff"`
	FilterResonance *float32 `json:"filter_resonance"`
	Glide           *float32 `json:"glide"`

	ChorusEnabled *bool    `json:"chorus_enabled"`
	ChorusMix     *float64 `json:"chorus_mix"`
	ChorusDepth   *float64 `json:"chorus_depth"`
	ChorusSpeedHz *float64 `json:"chorus_speed_hz"`
	ChorusStages  *int     `json:"chorus_stages"`

	ReverbEnabled  *bool    `json:"reverb_enabled"`
	ReverbWet      *float64 `json:"reverb_wet"`
	ReverbDry      *float64 `json:"reverb_dry"`
	ReverbRoomSize *float64 `json:"reverb_room_size"`
	ReverbDamp     *float64 `json:"reverb_damp"`
}

// Preset is a fully resolved preset: the parameter set plus the synthesis
// and dispatch modes the file selected.
type Preset struct {
	Params       *synth.Params
	Mode         synth.Mode
	HasMode      bool
	DispatchMode synth.DispatchMode
	HasDispatch  bool
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := &Preset{Params: synth.NewDefaultParams()}
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing preset.
func ApplyFile(dst *Preset, f *File) error {
	if dst == nil || dst.Params == nil {
		return fmt.Errorf("nil destination preset")
	}
	if f == nil {
		return nil
	}
	p := dst.Params

	if f.Mode != "" {
		m, err := synth.ParseMode(f.Mode)
		if err != nil {
			return err
		}
		dst.Mode = m
		dst.HasMode = true
	}
	if f.DispatchMode != "" {
		m, err := synth.ParseDispatchMode(f.DispatchMode)
		if err != nil {
			return err
		}
		dst.DispatchMode = m
		dst.HasDispatch = true
	}

	if f.Gain != nil {
		if *f.Gain <= 0 {
			return fmt.Errorf("gain must be > 0")
		}
		p.Gain = *f.Gain
	}
	if f.ReferencePitch != nil {
		if *f.ReferencePitch < 400 || *f.ReferencePitch > 480 {
			return fmt.Errorf("reference_pitch must be in [400, 480] Hz")
		}
		p.ReferencePitch = *f.ReferencePitch
	}
	if f.OctaveShift != nil {
		if *f.OctaveShift < -4 || *f.OctaveShift > 4 {
			return fmt.Errorf("octave_shift must be in [-4, 4]")
		}
		p.OctaveShift = *f.OctaveShift
	}

	if f.Attack != nil {
		if *f.Attack < 0 {
			return fmt.Errorf("attack must be >= 0")
		}
		p.Attack = *f.Attack
	}
	if f.Decay != nil {
		if *f.Decay < 0 {
			return fmt.Errorf("decay must be >= 0")
		}
		p.Decay = *f.Decay
	}
	if f.Sustain != nil {
		if *f.Sustain < 0 || *f.Sustain > 1 {
			return fmt.Errorf("sustain must be in [0, 1]")
		}
		p.Sustain = *f.Sustain
	}
	if f.Release != nil {
		if *f.Release < 0 {
			return fmt.Errorf("release must be >= 0")
		}
		p.Release = *f.Release
	}

	if f.FilterCutoff != nil {
		if *f.FilterCutoff < synth.MinFrequency || *f.FilterCutoff > synth.MaxFrequency {
			return fmt.Errorf("filter_cutoff must be in [%g, %g] Hz", float64(synth.MinFrequency), float64(synth.MaxFrequency))
		}
		p.FilterCutoff = *f.FilterCutoff
	}
	if f.FilterResonance != nil {
		if *f.FilterResonance <= 0 {
			return fmt.Errorf("filter_resonance must be > 0")
		}
		p.FilterResonance = *f.FilterResonance
	}
	if f.Glide != nil {
		if *f.Glide < 0 {
			return fmt.Errorf("glide must be >= 0")
		}
		p.Glide = *f.Glide
	}

	if f.ChorusEnabled != nil {
		p.ChorusEnabled = *f.ChorusEnabled
	}
	if f.ChorusMix != nil {
		if *f.ChorusMix < 0 || *f.ChorusMix > 1 {
			return fmt.Errorf("chorus_mix must be in [0, 1]")
		}
		p.ChorusMix = *f.ChorusMix
	}
	if f.ChorusDepth != nil {
		if *f.ChorusDepth < 0 || *f.ChorusDepth > 0.01 {
			return fmt.Errorf("chorus_depth must be in [0, 0.01]")
		}
		p.ChorusDepth = *f.ChorusDepth
	}
	if f.ChorusSpeedHz != nil {
		if *f.ChorusSpeedHz < 0.05 || *f.ChorusSpeedHz > 5 {
			return fmt.Errorf("chorus_speed_hz must be in [0.05, 5]")
		}
		p.ChorusSpeedHz = *f.ChorusSpeedHz
	}
	if f.ChorusStages != nil {
		if *f.ChorusStages < 1 || *f.ChorusStages > 6 {
			return fmt.Errorf("chorus_stages must be in [1, 6]")
		}
		p.ChorusStages = *f.ChorusStages
	}

	if f.ReverbEnabled != nil {
		p.ReverbEnabled = *f.ReverbEnabled
	}
	if f.ReverbWet != nil {
		if *f.ReverbWet < 0 || *f.ReverbWet > 1.5 {
			return fmt.Errorf("reverb_wet must be in [0, 1.5]")
		}
		p.ReverbWet = *f.ReverbWet
	}
	if f.ReverbDry != nil {
		if *f.ReverbDry < 0 || *f.ReverbDry > 1.5 {
			return fmt.Errorf("reverb_dry must be in [0, 1.5]")
		}
		p.ReverbDry = *f.ReverbDry
	}
	if f.ReverbRoomSize != nil {
		if *f.ReverbRoomSize < 0 || *f.ReverbRoomSize > 0.98 {
			return fmt.Errorf("reverb_room_size must be in [0, 0.98]")
		}
		p.ReverbRoomSize = *f.ReverbRoomSize
	}
	if f.ReverbDamp != nil {
		if *f.ReverbDamp < 0 || *f.ReverbDamp > 0.99 {
			return fmt.Errorf("reverb_damp must be in [0, 0.99]")
		}
		p.ReverbDamp = *f.ReverbDamp
	}
	return nil
}
