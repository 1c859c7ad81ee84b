package config

import (
	"fmt"
	"math"
	"slices"
)

// Tokens name the adjustable geometry values, as used by sliders and limits
var Tokens = []string{"ener", "dist", "yoff", "xoff", "tilt", "rota"}

// Limit bounds one adjustable value
type Limit struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp restricts v to [Min, Max]
func (l Limit) Clamp(v float64) float64 {
	return math.Max(l.Min, math.Min(l.Max, v))
}

var defaultLimits = map[string]Limit{
	"ener": {Min: 1, Max: 100, Step: 1},
	"dist": {Min: 40, Max: 150, Step: 1},
	"xoff": {Min: -50, Max: 50, Step: 1},
	"yoff": {Min: 0, Max: 200, Step: 1},
	"rota": {Min: 0, Max: 75, Step: 1},
	"tilt": {Min: 0, Max: 45, Step: 1},
}

// Limits holds the slider ranges of the lmt section
type Limits struct {
	EnerMin float64 `mapstructure:"ener_min"`
	EnerMax float64 `mapstructure:"ener_max"`
	EnerStp float64 `mapstructure:"ener_stp"`
	DistMin float64 `mapstructure:"dist_min"`
	DistMax float64 `mapstructure:"dist_max"`
	DistStp float64 `mapstructure:"dist_stp"`
	XoffMin float64 `mapstructure:"xoff_min"`
	XoffMax float64 `mapstructure:"xoff_max"`
	XoffStp float64 `mapstructure:"xoff_stp"`
	YoffMin float64 `mapstructure:"yoff_min"`
	YoffMax float64 `mapstructure:"yoff_max"`
	YoffStp float64 `mapstructure:"yoff_stp"`
	RotaMin float64 `mapstructure:"rota_min"`
	RotaMax float64 `mapstructure:"rota_max"`
	RotaStp float64 `mapstructure:"rota_stp"`
	TiltMin float64 `mapstructure:"tilt_min"`
	TiltMax float64 `mapstructure:"tilt_max"`
	TiltStp float64 `mapstructure:"tilt_stp"`
}

// Range returns the limit for a token
func (l Limits) Range(token string) (Limit, error) {
	switch token {
	case "ener":
		return Limit{l.EnerMin, l.EnerMax, l.EnerStp}, nil
	case "dist":
		return Limit{l.DistMin, l.DistMax, l.DistStp}, nil
	case "xoff":
		return Limit{l.XoffMin, l.XoffMax, l.XoffStp}, nil
	case "yoff":
		return Limit{l.YoffMin, l.YoffMax, l.YoffStp}, nil
	case "rota":
		return Limit{l.RotaMin, l.RotaMax, l.RotaStp}, nil
	case "tilt":
		return Limit{l.TiltMin, l.TiltMax, l.TiltStp}, nil
	}
	return Limit{}, fmt.Errorf("%w: unknown parameter %q, want one of %v", ErrInvalidConfig, token, Tokens)
}

// Validate checks every range
func (l Limits) Validate() error {
	for _, token := range Tokens {
		r, _ := l.Range(token)
		if r.Max < r.Min || !(r.Step > 0) {
			return fmt.Errorf("%w: %s limits min=%g max=%g step=%g", ErrInvalidConfig, token, r.Min, r.Max, r.Step)
		}
	}
	return nil
}

// IsToken reports whether token names an adjustable value
func IsToken(token string) bool {
	return slices.Contains(Tokens, token)
}
