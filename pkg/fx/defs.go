package fx

import (
	"fmt"
	"math"
	"strings"

	"github.com/decker502/fx/internal/particle"
)

// Centiseconds to seconds. Durations in definition files use centiseconds.
const centisecond = 0.01

// BlendMode selects how a texture is composited.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
)

func (b BlendMode) String() string {
	if b == BlendAdditive {
		return "additive"
	}
	return "normal"
}

// FieldType identifies a force field acting on particles.
type FieldType int

const (
	// FieldAcceleration adds X/Y (velocity change per centisecond) to the velocity.
	FieldAcceleration FieldType = iota
	// FieldFriction damps the velocity by X/Y per second.
	FieldFriction
)

// Field is a force field evaluated over normalized particle life.
type Field struct {
	Type FieldType
	X, Y particle.Value
}

// EffectDefinition is the immutable description of one effect.
type EffectDefinition struct {
	Name EffectName
	// AnimLength is the animation length in seconds; 0 means unbounded.
	AnimLength float64
	Looped     bool
	SubSystems []SubSystemDef
}

// SubSystemDef describes one emitter and the particles it launches.
type SubSystemDef struct {
	Name string

	// Emission window relative to the system's animation time, in seconds.
	// Duration 0 emits for the whole system life.
	StartTime float64
	Duration  float64

	SpawnRate   particle.Value // particles per second over normalized emission time
	Burst       int
	MaxActive   int // 0 = unbounded
	MaxLaunched int // 0 = unbounded

	LaunchSpeed particle.Value
	LaunchAngle particle.Value
	// CircleEmitter launches in every direction when LaunchAngle is empty.
	CircleEmitter bool
	RandomSpin    bool
	SpinAngle     particle.Value
	SpinSpeed     particle.Value

	EmitterRadius particle.Value
	EmitterBoxX   particle.Value
	EmitterBoxY   particle.Value
	OffsetX       particle.Value
	OffsetY       particle.Value

	// Particle curves over normalized particle life.
	Life  particle.Value // seconds
	Scale particle.Value
	Alpha particle.Value
	Red   particle.Value
	Green particle.Value
	Blue  particle.Value

	Fields []Field

	Texture TextureName
	Frames  int
	Layer   int
}

// TextureDefinition describes an atlas texture.
type TextureDefinition struct {
	Name   TextureName
	Path   string
	Width  int
	Height int
	Cols   int
	Rows   int
	Blend  BlendMode
}

// TileSize returns the size of one atlas tile in pixels.
func (t *TextureDefinition) TileSize() (w, h float64) {
	return float64(t.Width) / float64(t.Cols), float64(t.Height) / float64(t.Rows)
}

// TileCoords returns the normalized texture rectangle of tile.
func (t *TextureDefinition) TileCoords(tile int) (u0, v0, u1, v1 float64) {
	n := t.Cols * t.Rows
	tile %= n
	if tile < 0 {
		tile += n
	}
	col, row := tile%t.Cols, tile/t.Cols
	cw, rh := 1/float64(t.Cols), 1/float64(t.Rows)
	return float64(col) * cw, float64(row) * rh, float64(col+1) * cw, float64(row+1) * rh
}

// BuildTexture converts a texture table entry.
func BuildTexture(cfg particle.TextureConfig) (TextureDefinition, error) {
	name, err := ParseTextureName(cfg.Name)
	if err != nil {
		return TextureDefinition{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return TextureDefinition{}, fmt.Errorf("texture %s has invalid size %dx%d", cfg.Name, cfg.Width, cfg.Height)
	}
	def := TextureDefinition{
		Name:   name,
		Path:   cfg.Path,
		Width:  cfg.Width,
		Height: cfg.Height,
		Cols:   max(cfg.Cols, 1),
		Rows:   max(cfg.Rows, 1),
	}
	if cfg.Additive {
		def.Blend = BlendAdditive
	}
	return def, nil
}

// BuildEffect converts an effects table entry. Emitter image names are
// resolved against the texture enumeration.
func BuildEffect(cfg particle.EffectConfig) (EffectDefinition, error) {
	name, err := ParseEffectName(cfg.Name)
	if err != nil {
		return EffectDefinition{}, err
	}
	def := EffectDefinition{
		Name:       name,
		AnimLength: scalar(cfg.SystemDuration) * centisecond,
		Looped:     cfg.Looped,
	}
	if def.AnimLength < 0 {
		return EffectDefinition{}, fmt.Errorf("effect %s: negative system_duration", cfg.Name)
	}
	if def.Looped && def.AnimLength == 0 {
		return EffectDefinition{}, fmt.Errorf("effect %s: looped effects need a system_duration", cfg.Name)
	}
	if len(cfg.Emitters) == 0 {
		return EffectDefinition{}, fmt.Errorf("effect %s has no emitters", cfg.Name)
	}
	for i, em := range cfg.Emitters {
		sub, err := buildSubSystem(em)
		if err != nil {
			return EffectDefinition{}, fmt.Errorf("effect %s emitter #%d (%s): %w", cfg.Name, i, em.Name, err)
		}
		def.SubSystems = append(def.SubSystems, sub)
	}
	return def, nil
}

func buildSubSystem(em particle.EmitterConfig) (SubSystemDef, error) {
	if em.Image == "" {
		return SubSystemDef{}, fmt.Errorf("missing image")
	}
	tex, err := ParseTextureName(em.Image)
	if err != nil {
		return SubSystemDef{}, err
	}
	sub := SubSystemDef{
		Name:          em.Name,
		StartTime:     scalar(em.SystemStart) * centisecond,
		Duration:      scalar(em.SystemDuration) * centisecond,
		SpawnRate:     particle.ParseValue(em.SpawnRate),
		Burst:         int(scalar(em.SpawnMinActive)),
		MaxActive:     int(scalar(em.SpawnMaxActive)),
		MaxLaunched:   int(scalar(em.SpawnMaxLaunched)),
		LaunchSpeed:   particle.ParseValue(em.LaunchSpeed),
		LaunchAngle:   particle.ParseValue(em.LaunchAngle),
		CircleEmitter: strings.EqualFold(em.EmitterType, "Circle"),
		RandomSpin:    scalar(em.RandomLaunchSpin) != 0,
		SpinAngle:     particle.ParseValue(em.ParticleSpinAngle),
		SpinSpeed:     particle.ParseValue(em.ParticleSpinSpeed),
		EmitterRadius: particle.ParseValue(em.EmitterRadius),
		EmitterBoxX:   particle.ParseValue(em.EmitterBoxX),
		EmitterBoxY:   particle.ParseValue(em.EmitterBoxY),
		OffsetX:       particle.ParseValue(em.EmitterOffsetX),
		OffsetY:       particle.ParseValue(em.EmitterOffsetY),
		Life:          scaleValue(particle.ParseValue(em.ParticleDuration), centisecond),
		Scale:         orOne(particle.ParseValue(em.ParticleScale)),
		Alpha:         orOne(particle.ParseValue(em.ParticleAlpha)),
		Red:           orOne(particle.ParseValue(em.ParticleRed)),
		Green:         orOne(particle.ParseValue(em.ParticleGreen)),
		Blue:          orOne(particle.ParseValue(em.ParticleBlue)),
		Texture:       tex,
		Frames:        max(int(scalar(em.ImageFrames)), 1),
		Layer:         int(scalar(em.Layer)),
	}
	if sub.StartTime < 0 || sub.Duration < 0 {
		return SubSystemDef{}, fmt.Errorf("negative emission window")
	}
	if sub.Burst < 0 || sub.MaxActive < 0 || sub.MaxLaunched < 0 {
		return SubSystemDef{}, fmt.Errorf("negative spawn limits")
	}
	if sub.Life.IsZero() {
		return SubSystemDef{}, fmt.Errorf("missing particle_duration")
	}
	for _, f := range em.Fields {
		field := Field{X: particle.ParseValue(f.X), Y: particle.ParseValue(f.Y)}
		switch strings.ToLower(f.FieldType) {
		case "acceleration":
			field.Type = FieldAcceleration
		case "friction":
			field.Type = FieldFriction
		default:
			return SubSystemDef{}, fmt.Errorf("unknown field type %q", f.FieldType)
		}
		sub.Fields = append(sub.Fields, field)
	}
	return sub, nil
}

// scalar reads a constant from a value string; ranges resolve to their midpoint.
func scalar(s string) float64 {
	v := particle.ParseValue(s).At(0)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func orOne(v particle.Value) particle.Value {
	if v.IsZero() {
		return particle.Value{Min: 1, Max: 1}
	}
	return v
}

// scaleValue multiplies every magnitude held by v.
func scaleValue(v particle.Value, k float64) particle.Value {
	v.Min *= k
	v.Max *= k
	v.EndMin *= k
	v.EndMax *= k
	if len(v.Keyframes) > 0 {
		kf := make([]particle.Keyframe, len(v.Keyframes))
		for i, f := range v.Keyframes {
			kf[i] = particle.Keyframe{Time: f.Time, Value: f.Value * k}
		}
		v.Keyframes = kf
	}
	return v
}
