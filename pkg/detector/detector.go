// Package detector describes the supported area detectors: module dimensions,
// gaps and the module layouts of each model size.
package detector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

var (
	// ErrUnknownType is returned when no family matches the detector type
	ErrUnknownType = errors.New("unknown detector type")
	// ErrUnknownSize is returned when the family has no model of that size
	ErrUnknownSize = errors.New("unknown detector type/size combination")
)

// Family holds the module layout shared by every size of a detector
// line. Sizes maps a model name to its module count (horizontal, vertical).
type Family struct {
	ModuleWidthMM  float64           `json:"hms"`
	ModuleHeightMM float64           `json:"vms"`
	PixelSizeMM    float64           `json:"pxs"`
	HGapPx         float64           `json:"hgp"`
	VGapPx         float64           `json:"vgp"`
	CentralHoleMM  float64           `json:"cbh"`
	Sizes          map[string][2]int `json:"size"`
}

// Library maps an upper-case family name to its module layout
type Library map[string]Family

// Default returns the built-in detector table
func Default() Library {
	return Library{
		"PILATUS3": {
			ModuleWidthMM: 83.8, ModuleHeightMM: 33.5, PixelSizeMM: 0.172,
			HGapPx: 7, VGapPx: 17,
			Sizes: map[string][2]int{"300K": {1, 3}, "1M": {2, 5}, "2M": {3, 8}, "6M": {5, 12}},
		},
		"PILATUS4": {
			ModuleWidthMM: 75.0, ModuleHeightMM: 39.0, PixelSizeMM: 0.150,
			HGapPx: 8, VGapPx: 12,
			Sizes: map[string][2]int{"260K": {1, 2}, "800K": {2, 3}, "1M": {2, 4}, "1.5M": {3, 4}, "2M": {3, 6}, "3M": {4, 6}},
		},
		"EIGER2": {
			ModuleWidthMM: 77.1, ModuleHeightMM: 38.4, PixelSizeMM: 0.075,
			HGapPx: 38, VGapPx: 12,
			Sizes: map[string][2]int{"1M": {1, 2}, "4M": {2, 4}, "9M": {3, 6}, "16M": {4, 8}},
		},
		"MPCCD": {
			ModuleWidthMM: 51.2, ModuleHeightMM: 25.6, PixelSizeMM: 0.050,
			HGapPx: 18, VGapPx: 27, CentralHoleMM: 3,
			Sizes: map[string][2]int{"4M": {2, 4}},
		},
	}
}

// Types returns the family names in alphabetical order
func (l Library) Types() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Sizes returns the model sizes of a family, smallest module count first
func (l Library) Sizes(detType string) ([]string, error) {
	fam, ok := l[strings.ToUpper(detType)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, detType)
	}
	sizes := make([]string, 0, len(fam.Sizes))
	for s := range fam.Sizes {
		sizes = append(sizes, s)
	}
	slices.SortFunc(sizes, func(a, b string) int {
		na := fam.Sizes[a][0] * fam.Sizes[a][1]
		nb := fam.Sizes[b][0] * fam.Sizes[b][1]
		if na != nb {
			return na - nb
		}
		return strings.Compare(a, b)
	})
	return sizes, nil
}

// Lookup resolves a type and size, case-insensitively, into a Geometry
func (l Library) Lookup(detType, detSize string) (Geometry, error) {
	t := strings.ToUpper(strings.TrimSpace(detType))
	s := strings.ToUpper(strings.TrimSpace(detSize))

	fam, ok := l[t]
	if !ok {
		return Geometry{}, fmt.Errorf("%w: %q", ErrUnknownType, detType)
	}
	n, ok := fam.Sizes[s]
	if !ok {
		return Geometry{}, fmt.Errorf("%w: %s %s", ErrUnknownSize, t, detSize)
	}
	return Geometry{
		Name:           t + " " + s,
		ModuleWidthMM:  fam.ModuleWidthMM,
		ModuleHeightMM: fam.ModuleHeightMM,
		PixelSizeMM:    fam.PixelSizeMM,
		HGapPx:         fam.HGapPx,
		VGapPx:         fam.VGapPx,
		CentralHoleMM:  fam.CentralHoleMM,
		ModulesH:       n[0],
		ModulesV:       n[1],
	}, nil
}

// Lookup resolves a detector from the built-in table
func Lookup(detType, detSize string) (Geometry, error) {
	return Default().Lookup(detType, detSize)
}

// LoadLibrary reads a detector table from a JSON file
func LoadLibrary(path string) (Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detector library: %w", err)
	}
	var raw Library
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse detector library %s: %w", path, err)
	}

	lib := make(Library, len(raw))
	for name, fam := range raw {
		sizes := make(map[string][2]int, len(fam.Sizes))
		for s, n := range fam.Sizes {
			if n[0] < 1 || n[1] < 1 {
				return nil, fmt.Errorf("detector %s %s: module count must be positive, got %v", name, s, n)
			}
			sizes[strings.ToUpper(s)] = n
		}
		fam.Sizes = sizes
		lib[strings.ToUpper(name)] = fam
	}
	return lib, nil
}

// SaveLibrary writes the detector table as indented JSON
func SaveLibrary(path string, lib Library) error {
	data, err := json.MarshalIndent(lib, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode detector library: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write detector library: %w", err)
	}
	return nil
}
