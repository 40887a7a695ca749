// Package keyframe provides keyframe tracks, clips and curve sampling for the
// timed effects of the launch scene.
//
// A Clip is a named set of Tracks with a duration. Each Track animates exactly one
// property and stores its samples as a flat value array: for a property with value
// size N, sample i occupies Values[i*N : (i+1)*N]. Evaluation between two samples is
// linear; before the first sample the first value is held, after the last sample the
// last value is held.
package keyframe

// Property identifies the animatable property a track writes to.
type Property string

const (
	// PropertyRotationZ is the rotation around the Z axis in radians (1 value).
	PropertyRotationZ Property = "rotation.z"

	// PropertyPosition is the local position (3 values: x, y, z).
	PropertyPosition Property = "position"

	// PropertyOpacity is the material opacity in [0, 1] (1 value).
	PropertyOpacity Property = "opacity"
)

// ValueSize returns the number of scalar values a single sample of p carries,
// or 0 if the property is unknown.
func (p Property) ValueSize() int {
	switch p {
	case PropertyRotationZ, PropertyOpacity:
		return 1
	case PropertyPosition:
		return 3
	default:
		return 0
	}
}

// LoopMode controls what happens when the playhead reaches the clip duration.
type LoopMode int

const (
	// LoopOnce plays the clip a single time and then finishes.
	LoopOnce LoopMode = iota

	// LoopRepeat wraps the playhead back to zero and never finishes.
	LoopRepeat
)

// String returns the YAML spelling of the loop mode.
func (m LoopMode) String() string {
	switch m {
	case LoopOnce:
		return "once"
	case LoopRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// ParseLoopMode converts the YAML spelling ("once", "repeat") to a LoopMode.
// An empty string means LoopOnce.
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "", "once":
		return LoopOnce, true
	case "repeat":
		return LoopRepeat, true
	default:
		return LoopOnce, false
	}
}

// Track is a sequence of (time, value) samples over one property.
type Track struct {
	// Property is the animated property.
	Property Property

	// Times holds sample times in seconds, ascending.
	Times []float64

	// Values holds len(Times) * Property.ValueSize() scalars.
	Values []float64
}

// Clip is a named set of tracks played together.
type Clip struct {
	// Name identifies the clip, e.g. "rocket-ascent".
	Name string

	// Duration is the playback length in seconds. The playhead finishes at this
	// time even if the last sample comes earlier.
	Duration float64

	// Tracks are evaluated in order; later tracks win when two write the same property.
	Tracks []Track
}
