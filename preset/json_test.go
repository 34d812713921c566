package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-synth/synth"
)

func writePreset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadJSONAppliesFields(t *testing.T) {
	path := writePreset(t, `{
		"mode": "analog-beast",
		"dispatch_mode": "mono",
		"gain": 0.5,
		"reference_pitch": 432,
		"octave_shift": -1,
		"attack": 0.02,
		"decay": 0.3,
		"sustain": 0.6,
		"release": 1.2,
		"filter_cutoff": 4000,
		"filter_resonance": 1.4,
		"glide": 0.08,
		"chorus_enabled": true,
		"chorus_mix": 0.25,
		"reverb_enabled": true,
		"reverb_wet": 0.4
	}`)

	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON error: %v", err)
	}
	if !p.HasMode || p.Mode != synth.ModeAnalogBeast {
		t.Fatalf("expected Analog Beast mode, got %v (has=%v)", p.Mode, p.HasMode)
	}
	if !p.HasDispatch || p.DispatchMode != synth.DispatchMono {
		t.Fatalf("expected mono dispatch, got %v (has=%v)", p.DispatchMode, p.HasDispatch)
	}
	if p.Params.Gain != 0.5 {
		t.Fatalf("gain: got=%f want=0.5", p.Params.Gain)
	}
	if p.Params.ReferencePitch != 432 {
		t.Fatalf("reference pitch: got=%f want=432", p.Params.ReferencePitch)
	}
	if p.Params.OctaveShift != -1 {
		t.Fatalf("octave shift: got=%d want=-1", p.Params.OctaveShift)
	}
	if p.Params.Sustain != 0.6 {
		t.Fatalf("sustain: got=%f want=0.6", p.Params.Sustain)
	}
	if p.Params.FilterCutoff != 4000 {
		t.Fatalf("filter cutoff: got=%f want=4000", p.Params.FilterCutoff)
	}
	if !p.Params.ChorusEnabled || p.Params.ChorusMix != 0.25 {
		t.Fatalf("chorus: enabled=%v mix=%f", p.Params.ChorusEnabled, p.Params.ChorusMix)
	}
	if !p.Params.ReverbEnabled || p.Params.ReverbWet != 0.4 {
		t.Fatalf("reverb: enabled=%v wet=%f", p.Params.ReverbEnabled, p.Params.ReverbWet)
	}
}

func TestLoadJSONEmptyObjectKeepsDefaults(t *testing.T) {
	path := writePreset(t, `{}`)
	p, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON error: %v", err)
	}
	if p.HasMode || p.HasDispatch {
		t.Fatalf("expected no mode selection in empty preset")
	}
	want := synth.NewDefaultParams()
	if p.Params.Gain != want.Gain || p.Params.Sustain != want.Sustain {
		t.Fatalf("expected default params, got gain=%f sustain=%f", p.Params.Gain, p.Params.Sustain)
	}
}

func TestLoadJSONRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"negative gain", `{"gain": -1}`},
		{"sustain above one", `{"sustain": 1.5}`},
		{"reference pitch out of range", `{"reference_pitch": 1000}`},
		{"octave shift out of range", `{"octave_shift": 9}`},
		{"cutoff below audible", `{"filter_cutoff": 5}`},
		{"unknown mode", `{"mode": "slapback"}`},
		{"unknown dispatch", `{"dispatch_mode": "duo"}`},
		{"chorus stages out of range", `{"chorus_stages": 12}`},
		{"reverb room out of range", `{"reverb_room_size": 1.2}`},
	}
	for _, c := range cases {
		path := writePreset(t, c.body)
		if _, err := LoadJSON(path); err == nil {
			t.Fatalf("%s: expected error for %s", c.name, c.body)
		}
	}
}

func TestLoadJSONMalformedFile(t *testing.T) {
	path := writePreset(t, `{"gain": `)
	if _, err := LoadJSON(path); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyFileNilDestination(t *testing.T) {
	if err := ApplyFile(nil, &File{}); err == nil {
		t.Fatalf("expected error for nil destination")
	}
	if err := ApplyFile(&Preset{}, &File{}); err == nil {
		t.Fatalf("expected error for destination without params")
	}
}
