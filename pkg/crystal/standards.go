package crystal

import (
	"math"
	"sync"

	"github.com/fgjorup/detgeo/pkg/reference"
)

type standard struct {
	name string
	cell Cell
}

var standards = []standard{
	{name: "LaB6", cell: Cubic(4.156826, Primitive)},
	{name: "CeO2", cell: Cubic(5.411651, FaceCentred)},
	{name: "Si", cell: Cell{A: 5.431194, B: 5.431194, C: 5.431194, Alpha: 90, Beta: 90, Gamma: 90, Centring: FaceCentred, Diamond: true}},
	{name: "Ni", cell: Cubic(3.52387, FaceCentred)},
	{name: "Au", cell: Cubic(4.0782, FaceCentred)},
	{name: "Cu", cell: Cubic(3.6149, FaceCentred)},
	{name: "Al", cell: Cubic(4.0495, FaceCentred)},
	{name: "NaCl", cell: Cubic(5.6402, FaceCentred)},
}

// silver behenate long period in Å
const agBhPeriod = 58.380

var (
	standardsOnce sync.Once
	standardsList []reference.Pattern
)

// Standards returns the built-in calibration standards enumerated down to
// DefaultDMin.
func Standards() []reference.Pattern {
	standardsOnce.Do(func() {
		for _, s := range standards {
			ds, err := s.cell.DSpacings(DefaultDMin)
			if err != nil {
				continue
			}
			standardsList = append(standardsList, reference.Pattern{Name: s.name, DSpacings: ds})
		}
		standardsList = append(standardsList, reference.Pattern{
			Name:      "AgBh",
			DSpacings: Lamellar(agBhPeriod, int(math.Floor(agBhPeriod / DefaultDMin))),
		})
	})

	out := make([]reference.Pattern, len(standardsList))
	for i, p := range standardsList {
		out[i] = p.Truncate(len(p.DSpacings))
	}
	return out
}

// StandardLibrary returns a reference library seeded with Standards
func StandardLibrary() *reference.Library {
	return reference.NewLibrary(Standards()...)
}
