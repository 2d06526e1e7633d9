package fx

import "math"

// DrawParticle is one textured quad ready for batching. Corners are ordered
// top-left, top-right, bottom-left, bottom-right before rotation.
type DrawParticle struct {
	Positions [4]Vec2
	TexCoords [4]Vec2
	// Color is packed RGBA, R in the low byte.
	Color   uint32
	Texture TextureName
	Layer   int
}

// AppendQuads appends the quads of every particle of ps to dst.
func AppendQuads(dst []DrawParticle, defs *DefinitionRegistry, ps *ParticleSystem) []DrawParticle {
	return appendSubSystemQuads(dst, defs, ps.Effect, ps.Config, ps.SubSystems)
}

func appendSubSystemQuads(dst []DrawParticle, defs *DefinitionRegistry, effect EffectName, cfg InitConfig, subs []SubSystem) []DrawParticle {
	def := defs.Effect(effect)
	tint := cfg.tint()
	for i := range subs {
		sdef := &def.SubSystems[i]
		tex := defs.Texture(sdef.Texture)
		tileW, tileH := tex.TileSize()
		for _, p := range subs[i].Particles {
			dst = append(dst, particleQuad(sdef, tex, tileW, tileH, cfg.Pos, tint, &p))
		}
	}
	return dst
}

func particleQuad(sdef *SubSystemDef, tex *TextureDefinition, tileW, tileH float64, origin Vec2, tint Color, p *Particle) DrawParticle {
	t := 0.0
	if p.MaxLife > 0 {
		t = p.Life / p.MaxLife
	}
	scale := sdef.Scale.Eval(t, p.Seed)
	hw, hh := tileW*scale/2, tileH*scale/2
	rad := p.Rot * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	center := origin.Add(p.Pos)

	u0, v0, u1, v1 := tex.TileCoords(p.Tile)
	color := Color{
		R: sdef.Red.Eval(t, p.Seed) * tint.R,
		G: sdef.Green.Eval(t, p.Seed) * tint.G,
		B: sdef.Blue.Eval(t, p.Seed) * tint.B,
		A: sdef.Alpha.Eval(t, p.Seed) * tint.A,
	}
	return DrawParticle{
		Positions: [4]Vec2{
			center.Add(Vec2{-hw, -hh}.Rotate(cos, sin)),
			center.Add(Vec2{hw, -hh}.Rotate(cos, sin)),
			center.Add(Vec2{-hw, hh}.Rotate(cos, sin)),
			center.Add(Vec2{hw, hh}.Rotate(cos, sin)),
		},
		TexCoords: [4]Vec2{{u0, v0}, {u1, v0}, {u0, v1}, {u1, v1}},
		Color:     color.Pack(),
		Texture:   sdef.Texture,
		Layer:     sdef.Layer,
	}
}
