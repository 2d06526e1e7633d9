package fx

import (
	"math"
	"math/rand/v2"
)

// Advance moves ps forward by dt seconds. It is the single step primitive used
// by live instances and by snapshot generation, so both produce identical
// state for identical inputs. Sub-systems and particles are updated in
// declaration and launch order.
func (ps *ParticleSystem) Advance(def *EffectDefinition, dt float64) {
	if ps.Status == StatusDead || dt <= 0 {
		return
	}
	emitting := ps.Status == StatusAlive
	for i := range ps.SubSystems {
		ss := &ps.SubSystems[i]
		sdef := &def.SubSystems[i]
		ss.update(sdef, dt)
		if emitting {
			ss.emit(sdef, ps, def, dt)
		}
		ss.AnimTime += dt
	}
	ps.AnimTime += dt

	if ps.Status == StatusAlive && def.AnimLength > 0 && ps.AnimTime >= def.AnimLength {
		if def.Looped {
			ps.restart(def)
		} else {
			ps.Status = StatusDying
		}
	}
	if ps.Status == StatusAlive && !def.Looped && ps.emissionDone(def) {
		ps.Status = StatusDying
	}
	if ps.Status == StatusDying && ps.ParticleCount() == 0 {
		ps.Status = StatusDead
	}
}

// restart begins the next loop of a looped effect, keeping live particles.
func (ps *ParticleSystem) restart(def *EffectDefinition) {
	ps.AnimTime -= def.AnimLength
	for i := range ps.SubSystems {
		ss := &ps.SubSystems[i]
		ss.AnimTime -= def.AnimLength
		ss.Launched = 0
		ss.BurstDone = false
		ss.EmissionFract = 0
	}
}

// emissionDone reports whether no sub-system can launch another particle.
func (ps *ParticleSystem) emissionDone(def *EffectDefinition) bool {
	for i := range ps.SubSystems {
		if !ps.SubSystems[i].exhausted(&def.SubSystems[i]) {
			return false
		}
	}
	return true
}

func (s *SubSystem) exhausted(def *SubSystemDef) bool {
	if def.MaxLaunched > 0 && s.Launched >= def.MaxLaunched {
		return true
	}
	if def.Duration > 0 && s.AnimTime >= def.StartTime+def.Duration {
		return true
	}
	return def.SpawnRate.IsZero() && (def.Burst == 0 || s.BurstDone)
}

// update ages particles, drops expired ones and integrates motion.
func (s *SubSystem) update(def *SubSystemDef, dt float64) {
	live := s.Particles[:0]
	for _, p := range s.Particles {
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		t := p.Life / p.MaxLife

		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		if len(def.SpinSpeed.Keyframes) > 0 {
			p.RotSpeed = def.SpinSpeed.Eval(t, p.Seed)
		}
		p.Rot += p.RotSpeed * dt

		for _, f := range def.Fields {
			x, y := f.X.Eval(t, p.Seed), f.Y.Eval(t, p.Seed)
			switch f.Type {
			case FieldAcceleration:
				p.Vel.X += x / centisecond * dt
				p.Vel.Y += y / centisecond * dt
			case FieldFriction:
				p.Vel.X *= 1 - x*dt
				p.Vel.Y *= 1 - y*dt
			}
		}
		live = append(live, p)
	}
	clear(s.Particles[len(live):])
	s.Particles = live
}

// emit launches this step's particles: the burst on the first step of the
// emission window, then SpawnRate particles per second.
func (s *SubSystem) emit(def *SubSystemDef, ps *ParticleSystem, effect *EffectDefinition, dt float64) {
	if s.AnimTime < def.StartTime {
		return
	}
	if def.Duration > 0 && s.AnimTime >= def.StartTime+def.Duration {
		return
	}
	r := rand.New(&s.Rand)

	if !s.BurstDone {
		s.BurstDone = true
		for range def.Burst {
			s.launch(def, ps, r)
		}
	}

	rate := def.SpawnRate.At(s.emissionProgress(def, ps, effect))
	if rate <= 0 {
		return
	}
	s.EmissionFract += rate * dt
	n := int(s.EmissionFract)
	s.EmissionFract -= float64(n)
	for range n {
		s.launch(def, ps, r)
	}
}

// emissionProgress is the normalized time used to evaluate SpawnRate.
func (s *SubSystem) emissionProgress(def *SubSystemDef, ps *ParticleSystem, effect *EffectDefinition) float64 {
	switch {
	case def.Duration > 0:
		return (s.AnimTime - def.StartTime) / def.Duration
	case effect.AnimLength > 0:
		return ps.AnimTime / effect.AnimLength
	default:
		return 0
	}
}

func (s *SubSystem) launch(def *SubSystemDef, ps *ParticleSystem, r *rand.Rand) {
	if def.MaxLaunched > 0 && s.Launched >= def.MaxLaunched {
		return
	}
	if def.MaxActive > 0 && len(s.Particles) >= def.MaxActive {
		return
	}

	life := def.Life.Sample(r)
	if life <= 0 {
		return
	}
	speed := def.LaunchSpeed.Sample(r) * ps.Config.strength()
	angle := def.LaunchAngle.Sample(r)
	if def.CircleEmitter && def.LaunchAngle.IsZero() {
		angle = r.Float64() * 360
	}
	angle = (angle + ps.Config.Direction) * math.Pi / 180

	pos := Vec2{def.OffsetX.Sample(r), def.OffsetY.Sample(r)}
	if radius := def.EmitterRadius.Sample(r); radius > 0 {
		d := math.Sqrt(r.Float64()) * radius
		a := r.Float64() * 2 * math.Pi
		pos = pos.Add(Vec2{d * math.Cos(a), d * math.Sin(a)})
	} else {
		if bx := def.EmitterBoxX.Sample(r); bx > 0 {
			pos.X += r.Float64()*bx - bx/2
		}
		if by := def.EmitterBoxY.Sample(r); by > 0 {
			pos.Y += r.Float64()*by - by/2
		}
	}

	rot := def.SpinAngle.Sample(r)
	if def.RandomSpin {
		rot = r.Float64() * 360
	}
	tile := 0
	if def.Frames > 1 {
		tile = r.IntN(def.Frames)
	}
	seed := r.Float64()

	s.Particles = append(s.Particles, Particle{
		Pos:      pos,
		Vel:      Vec2{math.Cos(angle) * speed, math.Sin(angle) * speed},
		MaxLife:  life,
		Rot:      rot,
		RotSpeed: def.SpinSpeed.Eval(0, seed),
		Tile:     tile,
		Seed:     seed,
	})
	s.Launched++
}
