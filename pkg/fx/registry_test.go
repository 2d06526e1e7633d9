package fx

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/decker502/fx/internal/particle"
)

func TestLoadShippedDefinitions(t *testing.T) {
	defs := loadShipped(t)

	for _, name := range EffectNames() {
		def := defs.Effect(name)
		if def.Name != name {
			t.Errorf("Effect(%s).Name = %s", name, def.Name)
		}
		if len(def.SubSystems) == 0 {
			t.Errorf("effect %s has no sub-systems", name)
		}
	}
	for _, name := range TextureNames() {
		if defs.Texture(name).Name != name {
			t.Errorf("Texture(%s) mismatch", name)
		}
	}

	glitter := defs.Effect(Glitter)
	if len(glitter.SubSystems) != 2 || glitter.SubSystems[0].Name != "GlitterSparkle" {
		t.Errorf("GLITTER should import its emitters from XML, got %d sub-systems", len(glitter.SubSystems))
	}
	if defs.Texture(TexSparks).Blend != BlendAdditive {
		t.Error("SPARKS should be additive")
	}
	if defs.Texture(TexFlakes).Cols != 4 || defs.Texture(TexFlakes).Rows != 4 {
		t.Error("FLAKES should be a 4x4 atlas")
	}
}

func TestNewDefinitionRegistry_Errors(t *testing.T) {
	all := func() []EffectDefinition {
		var out []EffectDefinition
		for _, name := range EffectNames() {
			out = append(out, testEffect(name))
		}
		return out
	}

	tests := []struct {
		name     string
		effects  []EffectDefinition
		textures []TextureDefinition
		wantErr  string
	}{
		{
			name:     "missing effect",
			effects:  all()[1:],
			textures: testTextures(),
			wantErr:  "missing effect definition FIRE_SPHERE",
		},
		{
			name:     "duplicate effect",
			effects:  append(all(), testEffect(Fire)),
			textures: testTextures(),
			wantErr:  "duplicate effect definition FIRE",
		},
		{
			name:     "missing texture",
			effects:  all(),
			textures: testTextures()[:len(testTextures())-1],
			wantErr:  "missing texture definition SLEEP",
		},
		{
			name:     "duplicate texture",
			effects:  all(),
			textures: append(testTextures(), TextureDefinition{Name: TexFlash, Width: 1, Height: 1, Cols: 1, Rows: 1}),
			wantErr:  "duplicate texture definition FLASH",
		},
		{
			name: "unknown texture reference",
			effects: func() []EffectDefinition {
				effects := all()
				sub := testSubSystem(1, 1)
				sub.Texture = TextureName(99)
				effects[0].SubSystems = []SubSystemDef{sub}
				return effects
			}(),
			textures: testTextures(),
			wantErr:  "unknown texture",
		},
		{
			name: "empty effect",
			effects: func() []EffectDefinition {
				effects := all()
				effects[2].SubSystems = nil
				return effects
			}(),
			textures: testTextures(),
			wantErr:  "has no sub-systems",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefinitionRegistry(tt.effects, tt.textures)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryPanicsOnUnknownNames(t *testing.T) {
	defs := newTestRegistry(t)

	for name, fn := range map[string]func(){
		"effect":  func() { defs.Effect(numEffectNames) },
		"texture": func() { defs.Texture(-1) },
		"variant": func() { VariantDef(numVariantNames) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, name := range EffectNames() {
		got, err := ParseEffectName(name.String())
		if err != nil || got != name {
			t.Errorf("ParseEffectName(%q) = %v, %v", name, got, err)
		}
	}
	for _, name := range TextureNames() {
		got, err := ParseTextureName(name.String())
		if err != nil || got != name {
			t.Errorf("ParseTextureName(%q) = %v, %v", name, got, err)
		}
	}
	for _, name := range VariantNames() {
		got, err := ParseVariantName(name.String())
		if err != nil || got != name {
			t.Errorf("ParseVariantName(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseEffectName("NOPE"); err == nil {
		t.Error("expected error for unknown effect name")
	}
	if got := EffectName(-3).String(); got != "EffectName(-3)" {
		t.Errorf("String() of invalid name = %q", got)
	}
}

func TestVariantDef(t *testing.T) {
	tests := []struct {
		variant VariantName
		effect  EffectName
	}{
		{VariantBlind, Blind},
		{VariantFireSphere, FireSphere},
		{VariantSpiralGreen, Spiral},
		{VariantDebuffOrange, Debuff},
		{VariantLaboratoryBlack, Laboratory},
		{VariantForgeOrange, Forge},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			v := VariantDef(tt.variant)
			if v.Effect != tt.effect {
				t.Errorf("effect = %s, want %s", v.Effect, tt.effect)
			}
			if v.Strength != 1 || v.Color.A != 1 {
				t.Errorf("unexpected preset %+v", v)
			}
		})
	}
}

func TestBuildEffect(t *testing.T) {
	def, err := BuildEffect(particle.EffectConfig{
		Name:           "EXPLOSION",
		SystemDuration: "30",
		Emitters: []particle.EmitterConfig{{
			Name:             "Debris",
			SpawnMinActive:   "24",
			SpawnMaxLaunched: "30",
			SystemStart:      "10",
			ParticleDuration: "[40 80]",
			Image:            "SPARKS",
			ImageFrames:      "4",
			Layer:            "2",
			EmitterType:      "circle",
			Fields:           []particle.Field{{FieldType: "Acceleration", Y: "3"}},
		}},
	})
	if err != nil {
		t.Fatalf("BuildEffect failed: %v", err)
	}
	if def.Name != Explosion || math.Abs(def.AnimLength-0.3) > 1e-12 {
		t.Errorf("unexpected header %+v", def)
	}
	sub := def.SubSystems[0]
	if sub.Burst != 24 || sub.MaxLaunched != 30 || sub.Frames != 4 || sub.Layer != 2 {
		t.Errorf("unexpected counts %+v", sub)
	}
	if math.Abs(sub.StartTime-0.1) > 1e-12 {
		t.Errorf("StartTime = %v, want 0.1", sub.StartTime)
	}
	if math.Abs(sub.Life.Min-0.4) > 1e-12 || math.Abs(sub.Life.Max-0.8) > 1e-12 {
		t.Errorf("Life = [%v %v], want [0.4 0.8]", sub.Life.Min, sub.Life.Max)
	}
	if !sub.CircleEmitter || sub.Texture != TexSparks {
		t.Errorf("unexpected emitter %+v", sub)
	}
	if sub.Alpha.At(0.5) != 1 || sub.Scale.At(0.5) != 1 {
		t.Error("empty curves should default to 1")
	}
	if len(sub.Fields) != 1 || sub.Fields[0].Type != FieldAcceleration {
		t.Errorf("unexpected fields %+v", sub.Fields)
	}
}

func TestBuildEffect_Errors(t *testing.T) {
	valid := particle.EmitterConfig{Name: "A", ParticleDuration: "10", Image: "CIRCULAR"}

	tests := []struct {
		name string
		cfg  particle.EffectConfig
	}{
		{"unknown name", particle.EffectConfig{Name: "NOPE", Emitters: []particle.EmitterConfig{valid}}},
		{"no emitters", particle.EffectConfig{Name: "FIRE"}},
		{"looped without duration", particle.EffectConfig{Name: "FIRE", Looped: true, Emitters: []particle.EmitterConfig{valid}}},
		{"unknown image", particle.EffectConfig{Name: "FIRE", Emitters: []particle.EmitterConfig{{ParticleDuration: "10", Image: "NOPE"}}}},
		{"missing life", particle.EffectConfig{Name: "FIRE", Emitters: []particle.EmitterConfig{{Image: "CIRCULAR"}}}},
		{"unknown field", particle.EffectConfig{Name: "FIRE", Emitters: []particle.EmitterConfig{{
			ParticleDuration: "10", Image: "CIRCULAR", Fields: []particle.Field{{FieldType: "Attractor"}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildEffect(tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTileCoords(t *testing.T) {
	tex := TextureDefinition{Width: 128, Height: 64, Cols: 4, Rows: 2}

	w, h := tex.TileSize()
	if w != 32 || h != 32 {
		t.Errorf("TileSize = %vx%v, want 32x32", w, h)
	}
	tests := []struct {
		tile           int
		u0, v0, u1, v1 float64
	}{
		{0, 0, 0, 0.25, 0.5},
		{5, 0.25, 0.5, 0.5, 1},
		{9, 0.25, 0, 0.5, 0.5}, // wraps
	}
	for _, tt := range tests {
		u0, v0, u1, v1 := tex.TileCoords(tt.tile)
		if u0 != tt.u0 || v0 != tt.v0 || u1 != tt.u1 || v1 != tt.v1 {
			t.Errorf("TileCoords(%d) = %v %v %v %v", tt.tile, u0, v0, u1, v1)
		}
	}
}

func TestMixedBlendLayers(t *testing.T) {
	r := &DefinitionRegistry{}
	r.textures[TexCircular].Blend = BlendAdditive
	r.textures[TexSparks].Blend = BlendAdditive
	r.textures[TexFlames].Blend = BlendNormal

	tests := []struct {
		name string
		subs []SubSystemDef
		want []int
	}{
		{"additive only", []SubSystemDef{{Texture: TexCircular}, {Texture: TexSparks}}, nil},
		{"normal on its own layer", []SubSystemDef{{Texture: TexCircular}, {Texture: TexFlames, Layer: 1}}, nil},
		{"mixed in one layer", []SubSystemDef{
			{Texture: TexFlames, Layer: 2}, {Texture: TexCircular}, {Texture: TexSparks, Layer: 2}, {Texture: TexFlames},
		}, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.mixedBlendLayers(&EffectDefinition{SubSystems: tt.subs})
			if !slices.Equal(got, tt.want) {
				t.Errorf("mixedBlendLayers = %v, want %v", got, tt.want)
			}
		})
	}
}
