// Package particle provides data structures and parsing functionality for
// particle effect definitions.
package particle

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Keyframe represents a single keyframe in an animation curve.
// Used for animating particle properties over time (e.g., alpha, scale, spin).
type Keyframe struct {
	Time  float64 // Normalized time (0-1)
	Value float64 // Value at this keyframe
}

// Value is a parsed value string from an emitter configuration.
//
// A Value never holds random state of its own: ranges are resolved against a
// caller supplied seed or random source, so evaluating the same Value with the
// same seed always yields the same result.
type Value struct {
	Min, Max      float64
	Keyframes     []Keyframe
	Interpolation string

	// EndMin/EndMax hold the second range of the "[a b] [c d]" format.
	EndMin, EndMax float64
	HasEnd         bool
}

// IsZero reports whether the value string was empty or unparsable.
func (v Value) IsZero() bool {
	return v.Min == 0 && v.Max == 0 && len(v.Keyframes) == 0 && !v.HasEnd
}

// hasRange reports whether Min/Max carry an initial range next to keyframes.
func (v Value) hasRange() bool {
	return v.Min != 0 || v.Max != 0
}

// ParseValue parses a value string from particle configuration.
// Supports multiple formats:
//   - Fixed value: "1500" → min=1500, max=1500
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9
//   - Double range: "[0.4 0.6] [0.8 1.2]" → start range and end range, linear
//   - Range + keyframes: "[-720 720] 0,39.999996" → random start, then value,timePercent pairs
//   - Keyframes: "0,2 1,2 4,21" → keyframes=[{0,2} {1,2} {4,21}]
//   - Interpolation: ".4 Linear 10,9.999999" → keyframes with interpolation="Linear"
//   - PopCap format: ".9,70 0" → 0.9 at time=0%, 0 at time=70%
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}

	// Range + keyframes: "[-720 720] 0,39.999996"
	if strings.HasPrefix(s, "[") && strings.Count(s, "[") == 1 {
		closeIdx := strings.Index(s, "]")
		if closeIdx > 0 && closeIdx < len(s)-1 {
			rest := strings.TrimSpace(s[closeIdx+1:])
			if rest != "" {
				rangeParts := strings.Fields(strings.TrimPrefix(s[:closeIdx], "["))
				var kf []Keyframe
				for _, part := range strings.Fields(rest) {
					pair := strings.Split(part, ",")
					if len(pair) != 2 {
						continue
					}
					val, err1 := strconv.ParseFloat(pair[0], 64)
					timePercent, err2 := strconv.ParseFloat(pair[1], 64)
					if err1 != nil || err2 != nil {
						continue
					}
					// timePercent > 1 is a percentage, otherwise already normalized
					t := timePercent
					if timePercent > 1.0 {
						t = timePercent / 100.0
					}
					kf = append(kf, Keyframe{Time: t, Value: val})
				}
				if len(rangeParts) == 2 {
					lo, err1 := strconv.ParseFloat(rangeParts[0], 64)
					hi, err2 := strconv.ParseFloat(rangeParts[1], 64)
					if err1 == nil && err2 == nil {
						return Value{Min: lo, Max: hi, Keyframes: kf}
					}
				}
			}
		}
	}

	// Double range: "[min1 max1] [min2 max2]"
	if strings.Count(s, "[") == 2 && strings.Count(s, "]") == 2 {
		parts := strings.Split(s, "]")
		if len(parts) >= 2 {
			range1 := strings.Fields(strings.TrimPrefix(strings.TrimSpace(parts[0]), "["))
			range2 := strings.Fields(strings.TrimPrefix(strings.TrimSpace(parts[1]), "["))
			if len(range1) == 2 && len(range2) == 2 {
				startMin, err1 := strconv.ParseFloat(range1[0], 64)
				startMax, err2 := strconv.ParseFloat(range1[1], 64)
				endMin, err3 := strconv.ParseFloat(range2[0], 64)
				endMax, err4 := strconv.ParseFloat(range2[1], 64)
				if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
					return Value{
						Min: startMin, Max: startMax,
						EndMin: endMin, EndMax: endMax,
						HasEnd:        true,
						Interpolation: "Linear",
					}
				}
			}
		}
	}

	// Range format: "[min max]" or "[value]"
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 2:
			lo, _ := strconv.ParseFloat(parts[0], 64)
			hi, _ := strconv.ParseFloat(parts[1], 64)
			return Value{Min: lo, Max: hi}
		case 1:
			if val, err := strconv.ParseFloat(parts[0], 64); err == nil {
				return Value{Min: val, Max: val}
			}
		}
		return Value{}
	}

	var interpolation string
	for _, keyword := range interpolationKeywords {
		if strings.Contains(s, keyword) {
			interpolation = keyword
			s = strings.TrimSpace(strings.ReplaceAll(s, keyword, ""))
			break
		}
	}

	if strings.Contains(s, ",") || interpolation != "" {
		if kf := parseKeyframes(strings.Fields(s)); len(kf) > 0 {
			return Value{Keyframes: kf, Interpolation: interpolation}
		}
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Min: val, Max: val}
	}
	return Value{}
}

var interpolationKeywords = []string{"Linear", "EaseIn", "EaseOut", "FastInOutWeak"}

// parseKeyframes handles the comma separated keyframe formats, including the
// mixed form ".3 .3,39.999996 0,50" (initial value followed by value,timePercent pairs).
func parseKeyframes(parts []string) []Keyframe {
	keyframes := make([]Keyframe, 0, len(parts)+1)
	hasInitial := false
	skip := -1

	for i, part := range parts {
		if i == skip {
			continue
		}
		if !strings.Contains(part, ",") {
			value, err := strconv.ParseFloat(part, 64)
			if err == nil && len(keyframes) == 0 && !hasInitial {
				hasInitial = true
				keyframes = append(keyframes, Keyframe{Time: 0, Value: value})
			}
			continue
		}

		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			continue
		}
		val1, err1 := strconv.ParseFloat(pair[0], 64)
		val2, err2 := strconv.ParseFloat(pair[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		// PopCap "initialValue,timePercent finalValue"
		if val2 > 1 && i+1 < len(parts) && !strings.Contains(parts[i+1], ",") {
			if next, err := strconv.ParseFloat(parts[i+1], 64); err == nil {
				keyframes = append(keyframes,
					Keyframe{Time: 0, Value: val1},
					Keyframe{Time: val2 / 100.0, Value: next},
				)
				skip = i + 1
				continue
			}
		}

		// "value,timePercent" only after a leading initial value
		if hasInitial && val2 > 10 && val2 < 200 {
			keyframes = append(keyframes, Keyframe{Time: val2 / 100.0, Value: val1})
		} else {
			keyframes = append(keyframes, Keyframe{Time: val1, Value: val2})
		}
	}
	return keyframes
}

// Eval evaluates the value at normalized time t (0-1) for a particle whose
// random variation is fixed by seed (0-1). Ranges are resolved as
// min + seed*(max-min), so one seed keeps a particle's curve stable over its life.
func (v Value) Eval(t, seed float64) float64 {
	switch {
	case v.HasEnd:
		start := lerp(v.Min, v.Max, seed)
		end := lerp(v.EndMin, v.EndMax, seed)
		return start + ease(clamp01(t), v.Interpolation)*(end-start)
	case len(v.Keyframes) > 0 && v.hasRange() && v.Keyframes[0].Time > 0:
		// random start followed by keyframes
		initial := lerp(v.Min, v.Max, seed)
		first := v.Keyframes[0]
		t = clamp01(t)
		if t < first.Time {
			return initial + ease(t/first.Time, v.Interpolation)*(first.Value-initial)
		}
		return EvaluateKeyframes(v.Keyframes, t, v.Interpolation)
	case len(v.Keyframes) > 0:
		return EvaluateKeyframes(v.Keyframes, t, v.Interpolation)
	default:
		return lerp(v.Min, v.Max, seed)
	}
}

// At evaluates the value at normalized time t without per-particle variation.
// Ranges resolve to their midpoint.
func (v Value) At(t float64) float64 {
	return v.Eval(t, 0.5)
}

// Sample draws an initial value from r. Keyframed values start at their first keyframe.
func (v Value) Sample(r *rand.Rand) float64 {
	if len(v.Keyframes) > 0 && !v.hasRange() {
		return v.Keyframes[0].Value
	}
	return RandomInRange(r, v.Min, v.Max)
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1)
// using the provided keyframes and interpolation mode.
//
// Parameters:
//   - keyframes: Array of keyframes (must be sorted by Time)
//   - t: Normalized time (0-1)
//   - interpolation: Interpolation mode ("Linear", "EaseIn", etc.)
//
// Returns the interpolated value at time t.
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}

	t = clamp01(t)
	if t < keyframes[0].Time {
		return keyframes[0].Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]
		if t >= k0.Time && t <= k1.Time {
			duration := k1.Time - k0.Time
			if duration <= 0 {
				return k0.Value
			}
			ratio := ease((t-k0.Time)/duration, interpolation)
			return k0.Value + ratio*(k1.Value-k0.Value)
		}
	}

	// t is beyond the last keyframe
	return keyframes[len(keyframes)-1].Value
}

// ease maps a linear ratio through the named interpolation mode.
func ease(ratio float64, interpolation string) float64 {
	switch interpolation {
	case "EaseIn":
		return ratio * ratio
	case "EaseOut":
		return 1 - (1-ratio)*(1-ratio)
	case "FastInOutWeak":
		return ratio * ratio * (3 - 2*ratio)
	default:
		// "Linear", "" and unknown modes
		return ratio
	}
}

// RandomInRange returns a random float64 in the range [min, max] drawn from r.
func RandomInRange(r *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + r.Float64()*(max-min)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
