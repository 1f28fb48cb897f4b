package ephem

import (
	"fmt"

	"github.com/soniakeys/meeus/v3/planetposition"
)

// vsopIndex maps catalog planets to planetposition body numbers.
var vsopIndex = map[Body]int{
	Mercury: planetposition.Mercury,
	Venus:   planetposition.Venus,
	Mars:    planetposition.Mars,
	Jupiter: planetposition.Jupiter,
	Saturn:  planetposition.Saturn,
	Uranus:  planetposition.Uranus,
	Neptune: planetposition.Neptune,
}

// loadVSOP87 reads the VSOP87B files for Earth and the seven planets from
// dir. Any missing file fails the whole load.
func loadVSOP87(dir string) (*planetposition.V87Planet, map[Body]*planetposition.V87Planet, error) {
	earth, err := planetposition.LoadPlanetPath(planetposition.Earth, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load VSOP87 Earth from %s: %w", dir, err)
	}

	planets := make(map[Body]*planetposition.V87Planet, len(vsopIndex))
	for b, idx := range vsopIndex {
		p, err := planetposition.LoadPlanetPath(idx, dir)
		if err != nil {
			return nil, nil, fmt.Errorf("load VSOP87 %s from %s: %w", b, dir, err)
		}
		planets[b] = p
	}
	return earth, planets, nil
}
