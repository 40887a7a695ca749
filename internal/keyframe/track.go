package keyframe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gonewx/rocketlaunch/internal/vecmath"
)

// ErrEmptyTrack is returned when a track has no samples.
var ErrEmptyTrack = errors.New("keyframe: track has no samples")

// NewTrack builds and validates a track.
//
// Parameters:
//   - property: the animated property
//   - times: sample times in seconds, must be non-decreasing
//   - values: len(times) * property.ValueSize() scalars
//
// Returns an error if the property is unknown, the track is empty, the value count
// does not match or the times are out of order.
func NewTrack(property Property, times, values []float64) (Track, error) {
	t := Track{Property: property, Times: times, Values: values}
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// NewVectorTrack builds a position track from 3D samples.
func NewVectorTrack(times []float64, points []vecmath.Vec3) (Track, error) {
	values := make([]float64, 0, len(points)*3)
	for _, p := range points {
		values = append(values, p.X, p.Y, p.Z)
	}
	return NewTrack(PropertyPosition, times, values)
}

// Validate checks the structural invariants of the track.
func (t Track) Validate() error {
	size := t.Property.ValueSize()
	if size == 0 {
		return fmt.Errorf("keyframe: unknown property %q", t.Property)
	}
	if len(t.Times) == 0 {
		return ErrEmptyTrack
	}
	if len(t.Values) != len(t.Times)*size {
		return fmt.Errorf("keyframe: track %q has %d values, want %d (%d samples × %d)",
			t.Property, len(t.Values), len(t.Times)*size, len(t.Times), size)
	}
	for i := 1; i < len(t.Times); i++ {
		if t.Times[i] < t.Times[i-1] {
			return fmt.Errorf("keyframe: track %q times not ascending at index %d (%g < %g)",
				t.Property, i, t.Times[i], t.Times[i-1])
		}
	}
	return nil
}

// ValueSize is shorthand for t.Property.ValueSize().
func (t Track) ValueSize() int {
	return t.Property.ValueSize()
}

// sample returns the i-th sample as a sub-slice of Values.
func (t Track) sample(i int) []float64 {
	n := t.ValueSize()
	return t.Values[i*n : (i+1)*n]
}

// Evaluate writes the interpolated value at time tm into out and returns it.
// If out is too small a new slice is allocated.
func (t Track) Evaluate(tm float64, out []float64) []float64 {
	n := t.ValueSize()
	if cap(out) < n {
		out = make([]float64, n)
	}
	out = out[:n]

	last := len(t.Times) - 1
	if tm <= t.Times[0] {
		copy(out, t.sample(0))
		return out
	}
	if tm >= t.Times[last] {
		copy(out, t.sample(last))
		return out
	}

	// first sample strictly after tm
	hi := sort.Search(len(t.Times), func(i int) bool { return t.Times[i] > tm })
	lo := hi - 1
	span := t.Times[hi] - t.Times[lo]
	if span <= 0 {
		copy(out, t.sample(hi))
		return out
	}

	alpha := (tm - t.Times[lo]) / span
	a, b := t.sample(lo), t.sample(hi)
	for k := 0; k < n; k++ {
		out[k] = a[k] + (b[k]-a[k])*alpha
	}
	return out
}

// Validate checks the clip duration and every track.
func (c Clip) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("keyframe: clip %q has non-positive duration %g", c.Name, c.Duration)
	}
	if len(c.Tracks) == 0 {
		return fmt.Errorf("keyframe: clip %q has no tracks", c.Name)
	}
	for _, tr := range c.Tracks {
		if err := tr.Validate(); err != nil {
			return fmt.Errorf("clip %q: %w", c.Name, err)
		}
	}
	return nil
}
