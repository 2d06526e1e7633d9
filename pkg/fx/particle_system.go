package fx

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// Status is the lifecycle state of a ParticleSystem.
type Status int

const (
	// StatusAlive systems emit and update particles.
	StatusAlive Status = iota
	// StatusDying systems no longer emit; remaining particles live out their lives.
	StatusDying
	// StatusDead systems are skipped and reaped on the next simulation step.
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusDying:
		return "dying"
	default:
		return "dead"
	}
}

// SnapshotKey holds the custom scalar parameters of an instance.
type SnapshotKey [2]float64

// SnapshotKeyFrom packs params into a key. Missing entries are zero and
// extra entries are ignored.
func SnapshotKeyFrom(params []float64) SnapshotKey {
	var key SnapshotKey
	copy(key[:], params)
	return key
}

// InitConfig carries per-instance parameters.
type InitConfig struct {
	Pos Vec2
	// Direction in degrees, added to every launch angle.
	Direction float64
	// Color tints every particle. The zero value means white.
	Color Color
	// Strength multiplies launch speeds. Zero means 1.
	Strength float64
	Params   SnapshotKey
}

func (c InitConfig) tint() Color {
	if c.Color == (Color{}) {
		return White
	}
	return c.Color
}

func (c InitConfig) strength() float64 {
	if c.Strength == 0 {
		return 1
	}
	return c.Strength
}

// Particle is one simulated particle. Positions are relative to the system
// origin (InitConfig.Pos) so cached states can be drawn anywhere.
type Particle struct {
	Pos, Vel      Vec2
	Life, MaxLife float64
	Rot, RotSpeed float64 // degrees, degrees per second
	Tile          int
	// Seed fixes the particle's position inside every ranged curve.
	Seed float64
}

// SubSystem is the runtime state of one emitter.
type SubSystem struct {
	// AnimTime is the emitter time since the system (re)started.
	AnimTime      float64
	EmissionFract float64
	Launched      int
	BurstDone     bool
	// Rand is copied together with the rest of the state, so a copied
	// sub-system continues with the same random sequence.
	Rand      rand.PCG
	Particles []Particle
}

func (s *SubSystem) clone() SubSystem {
	c := *s
	c.Particles = append([]Particle(nil), s.Particles...)
	return c
}

// ParticleSystem is one effect instance.
type ParticleSystem struct {
	Effect     EffectName
	SpawnTime  uint32
	Config     InitConfig
	AnimTime   float64
	SubSystems []SubSystem
	Status     Status
}

// NewParticleSystem creates an alive system with one sub-system per emitter of
// def. Each sub-system's random source is derived from spawnTime and seed.
func NewParticleSystem(def *EffectDefinition, spawnTime uint32, cfg InitConfig, seed uint64) ParticleSystem {
	ps := ParticleSystem{
		Effect:     def.Name,
		SpawnTime:  spawnTime,
		Config:     cfg,
		SubSystems: make([]SubSystem, len(def.SubSystems)),
	}
	for i := range ps.SubSystems {
		ps.SubSystems[i].Rand = *rand.NewPCG(
			uint64(spawnTime)<<32^seed,
			mix(seed+uint64(i)*0x9e3779b97f4a7c15+uint64(def.Name)),
		)
	}
	return ps
}

// ParticleCount returns the number of live particles.
func (ps *ParticleSystem) ParticleCount() int {
	n := 0
	for i := range ps.SubSystems {
		n += len(ps.SubSystems[i].Particles)
	}
	return n
}

// Clone returns a deep copy of ps.
func (ps *ParticleSystem) Clone() ParticleSystem {
	c := *ps
	c.SubSystems = cloneSubSystems(ps.SubSystems)
	return c
}

func cloneSubSystems(subs []SubSystem) []SubSystem {
	out := make([]SubSystem, len(subs))
	for i := range subs {
		out[i] = subs[i].clone()
	}
	return out
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// snapshotSeed derives the random seed of a snapshot variant.
func snapshotSeed(effect EffectName, key SnapshotKey, variant int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v uint64) {
		for i := range buf {
			buf[i] = byte(v >> (8 * i))
		}
		h.Write(buf[:])
	}
	put(uint64(effect))
	put(math.Float64bits(key[0]))
	put(math.Float64bits(key[1]))
	put(uint64(variant))
	return h.Sum64()
}
