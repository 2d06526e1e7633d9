// Package particle provides data structures and parsing functionality for
// particle effect definitions.
//
// Effects are described by YAML tables (one file for effects, one for
// textures). Emitters can also be imported from PopCap-style XML files that
// contain multiple top-level <Emitter> elements. Both formats share the same
// EmitterConfig vocabulary.
package particle

// ParticleConfig represents the root structure of an XML emitter file.
// A single particle effect may contain multiple emitters working together.
type ParticleConfig struct {
	Emitters []EmitterConfig `xml:"Emitter"`
}

// EffectFile is the root of the effects YAML table.
type EffectFile struct {
	Effects []EffectConfig `yaml:"effects"`
}

// EffectConfig describes one named effect.
type EffectConfig struct {
	// Name must match one of the engine's effect names (e.g. "FIRE_SPHERE")
	Name string `yaml:"name"`

	// SystemDuration is the animation length in centiseconds (empty = unbounded)
	SystemDuration string `yaml:"system_duration,omitempty"`
	// Looped effects restart their animation instead of dying at SystemDuration
	Looped bool `yaml:"looped,omitempty"`

	// EmitterFile optionally imports emitters from an XML file under data/
	EmitterFile string `yaml:"emitter_file,omitempty"`

	Emitters []EmitterConfig `yaml:"emitters"`
}

// EmitterConfig represents a single particle emitter (sub-system) configuration.
//
// Most fields use string types to preserve the original format, which may contain:
//   - Fixed values: "1500"
//   - Ranges: "[0.7 0.9]" (random value between min and max)
//   - Keyframes: "0,2 1,2 4,21" (time,value pairs)
//   - Interpolation keywords: "Linear", "FastInOutWeak", etc.
//
// Durations are in centiseconds, speeds in pixels/second, angles in degrees.
type EmitterConfig struct {
	Name string `xml:"Name" yaml:"name"`

	// Spawn properties
	SpawnMinActive   string `xml:"SpawnMinActive,omitempty" yaml:"spawn_min_active,omitempty"`     // Burst size on the first step
	SpawnMaxActive   string `xml:"SpawnMaxActive,omitempty" yaml:"spawn_max_active,omitempty"`     // Maximum active particles
	SpawnMaxLaunched string `xml:"SpawnMaxLaunched,omitempty" yaml:"spawn_max_launched,omitempty"` // Maximum total particles to launch
	SpawnRate        string `xml:"SpawnRate,omitempty" yaml:"spawn_rate,omitempty"`                // Particles spawned per second

	// Particle properties
	ParticleDuration  string `xml:"ParticleDuration,omitempty" yaml:"particle_duration,omitempty"`     // Lifetime in centiseconds
	ParticleAlpha     string `xml:"ParticleAlpha,omitempty" yaml:"particle_alpha,omitempty"`           // Transparency (0-1)
	ParticleScale     string `xml:"ParticleScale,omitempty" yaml:"particle_scale,omitempty"`           // Size multiplier
	ParticleSpinAngle string `xml:"ParticleSpinAngle,omitempty" yaml:"particle_spin_angle,omitempty"` // Initial rotation angle
	ParticleSpinSpeed string `xml:"ParticleSpinSpeed,omitempty" yaml:"particle_spin_speed,omitempty"` // Rotation speed (degrees/sec)
	ParticleRed       string `xml:"ParticleRed,omitempty" yaml:"particle_red,omitempty"`               // Red channel (0-1)
	ParticleGreen     string `xml:"ParticleGreen,omitempty" yaml:"particle_green,omitempty"`           // Green channel (0-1)
	ParticleBlue      string `xml:"ParticleBlue,omitempty" yaml:"particle_blue,omitempty"`             // Blue channel (0-1)

	// Launch properties
	LaunchSpeed      string `xml:"LaunchSpeed,omitempty" yaml:"launch_speed,omitempty"`             // Initial velocity
	LaunchAngle      string `xml:"LaunchAngle,omitempty" yaml:"launch_angle,omitempty"`             // Launch direction (degrees, 0 = right, 90 = down)
	RandomLaunchSpin string `xml:"RandomLaunchSpin,omitempty" yaml:"random_launch_spin,omitempty"` // Random initial rotation (0 or 1)

	// Emitter properties
	EmitterBoxX    string `xml:"EmitterBoxX,omitempty" yaml:"emitter_box_x,omitempty"`       // Spawn area width
	EmitterBoxY    string `xml:"EmitterBoxY,omitempty" yaml:"emitter_box_y,omitempty"`       // Spawn area height
	EmitterRadius  string `xml:"EmitterRadius,omitempty" yaml:"emitter_radius,omitempty"`    // Spawn radius (circular emitters)
	EmitterType    string `xml:"EmitterType,omitempty" yaml:"emitter_type,omitempty"`        // "Circle" launches in every direction
	EmitterOffsetX string `xml:"EmitterOffsetX,omitempty" yaml:"emitter_offset_x,omitempty"` // Horizontal offset from the system origin
	EmitterOffsetY string `xml:"EmitterOffsetY,omitempty" yaml:"emitter_offset_y,omitempty"` // Vertical offset from the system origin

	// Emission window
	SystemStart    string `xml:"SystemStart,omitempty" yaml:"system_start,omitempty"`       // Emission start (centiseconds)
	SystemDuration string `xml:"SystemDuration,omitempty" yaml:"system_duration,omitempty"` // Emission length (centiseconds, empty = whole effect)

	// Image properties
	Image       string `xml:"Image,omitempty" yaml:"image,omitempty"`               // Texture name
	ImageFrames string `xml:"ImageFrames,omitempty" yaml:"image_frames,omitempty"` // Number of atlas tiles to pick from

	// Layer orders sub-systems at draw time (higher draws later)
	Layer string `xml:"Layer,omitempty" yaml:"layer,omitempty"`

	Fields []Field `xml:"Field" yaml:"fields,omitempty"`
}

// Field represents a force field that affects particle behavior.
type Field struct {
	FieldType string `xml:"FieldType" yaml:"type"`            // "Acceleration" or "Friction"
	X         string `xml:"X,omitempty" yaml:"x,omitempty"` // Horizontal component (may be keyframes or range)
	Y         string `xml:"Y,omitempty" yaml:"y,omitempty"` // Vertical component (may be keyframes or range)
}

// TextureFile is the root of the textures YAML table.
type TextureFile struct {
	Textures []TextureConfig `yaml:"textures"`
}

// TextureConfig describes an atlas texture.
type TextureConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Cols     int    `yaml:"cols,omitempty"`
	Rows     int    `yaml:"rows,omitempty"`
	Additive bool   `yaml:"additive,omitempty"`
}
