package fx

import "math"

// Vec2 is a simulation-space 2D vector (pixels, y grows downwards).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rotate rotates v by the angle whose cosine and sine are given.
func (v Vec2) Rotate(cos, sin float64) Vec2 {
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// FVec2 is a renderer-side vertex attribute.
type FVec2 struct {
	X, Y float32
}

func (v Vec2) f32() FVec2 { return FVec2{float32(v.X), float32(v.Y)} }

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White is the neutral tint.
var White = Color{1, 1, 1, 1}

// Pack clamps the channels and packs them as RGBA bytes, R in the low byte.
func (c Color) Pack() uint32 {
	return uint32(channel(c.R)) |
		uint32(channel(c.G))<<8 |
		uint32(channel(c.B))<<16 |
		uint32(channel(c.A))<<24
}

// UnpackColor reverses Pack.
func UnpackColor(packed uint32) (r, g, b, a uint8) {
	return uint8(packed), uint8(packed >> 8), uint8(packed >> 16), uint8(packed >> 24)
}

func channel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
