// Package controllers provides reference implementations of the planner's external
// sub-controllers, driven by a road profile instead of camera and map data. They exist
// so the closed-loop simulator can exercise the planner end to end; the planner itself
// only sees the planner interfaces.
package controllers

import "math"

// VCruiseUnset is the target a source reports when it has no opinion.
const VCruiseUnset = 255.0 // m/s

// Locator reports the ego position in metres from the road origin.
type Locator func() float64

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
