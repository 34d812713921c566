package synth

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects one of the synthesis algorithms.
type Mode int

const (
	ModeCrystalline Mode = iota
	ModeAnalogBeast
	ModeResonator
	ModeMorpheus
	ModeVox
	ModeTexture
	ModeSpectral
	ModeDX7
	ModeLiving
	ModeNebula
	NumModes
)

// ModeInfo describes a synthesis mode for tools and UIs.
type ModeInfo struct {
	Name        string
	Description string
}

var modeInfoTable = [NumModes]ModeInfo{
	{Name: "Crystalline", Description: "Glass harmonics"},
	{Name: "Analog Beast", Description: "Vintage warmth"},
	{Name: "Resonator", Description: "Physical strings"},
	{Name: "Morpheus", Description: "Evolving textures"},
	{Name: "Vox", Description: "Human vocals"},
	{Name: "Texture", Description: "Grain clouds"},
	{Name: "Spectral", Description: "Harmonic organ"},
	{Name: "DX7", Description: "FM synthesis"},
	{Name: "Living", Description: "Chaos generator"},
	{Name: "Nebula", Description: "Space atmosphere"},
}

// Valid reports whether m indexes an implemented mode.
func (m Mode) Valid() bool {
	return m >= 0 && m < NumModes
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeInfoTable[m].Name
}

// GetModeInfo returns the descriptor for a mode; out-of-range indexes fall
// back to the first mode.
func GetModeInfo(m Mode) ModeInfo {
	if !m.Valid() {
		return modeInfoTable[0]
	}
	return modeInfoTable[m]
}

// ModeNames lists every mode name in index order.
func ModeNames() []string {
	names := make([]string, NumModes)
	for i := range modeInfoTable {
		names[i] = modeInfoTable[i].Name
	}
	return names
}

// ParseMode resolves a mode from a numeric index or a case-insensitive name.
func ParseMode(s string) (Mode, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		m := Mode(n)
		if !m.Valid() {
			return 0, fmt.Errorf("mode index out of range: %d", n)
		}
		return m, nil
	}
	want := strings.ToLower(strings.TrimSpace(s))
	for i := range modeInfoTable {
		name := strings.ToLower(modeInfoTable[i].Name)
		if want == name || want == strings.ReplaceAll(name, " ", "-") {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode: %q", s)
}
