package fx

import (
	"os"
	"testing"

	"github.com/decker502/fx/internal/particle"
	"github.com/decker502/fx/pkg/embedded"
)

const step60 = 1.0 / 60

func constant(v float64) particle.Value {
	return particle.Value{Min: v, Max: v}
}

func testTextures() []TextureDefinition {
	var out []TextureDefinition
	for _, name := range TextureNames() {
		out = append(out, TextureDefinition{Name: name, Width: 64, Height: 64, Cols: 1, Rows: 1})
	}
	return out
}

// testSubSystem emits rate particles per second that live for life seconds.
func testSubSystem(rate, life float64) SubSystemDef {
	return SubSystemDef{
		SpawnRate: constant(rate),
		Life:      constant(life),
		Scale:     constant(1),
		Alpha:     constant(1),
		Red:       constant(1),
		Green:     constant(1),
		Blue:      constant(1),
		Texture:   TexCircular,
		Frames:    1,
	}
}

func testEffect(name EffectName, subs ...SubSystemDef) EffectDefinition {
	if len(subs) == 0 {
		subs = []SubSystemDef{testSubSystem(10, 1)}
	}
	return EffectDefinition{Name: name, SubSystems: subs}
}

// newTestRegistry builds a registry where every effect is a plain emitter,
// except for the given overrides.
func newTestRegistry(t *testing.T, overrides ...EffectDefinition) *DefinitionRegistry {
	t.Helper()
	byName := map[EffectName]EffectDefinition{}
	for _, def := range overrides {
		byName[def.Name] = def
	}
	var effects []EffectDefinition
	for _, name := range EffectNames() {
		if def, ok := byName[name]; ok {
			effects = append(effects, def)
			continue
		}
		effects = append(effects, testEffect(name))
	}
	defs, err := NewDefinitionRegistry(effects, testTextures())
	if err != nil {
		t.Fatalf("NewDefinitionRegistry failed: %v", err)
	}
	return defs
}

// loadShipped loads the definition tables under data/fx.
func loadShipped(t *testing.T) *DefinitionRegistry {
	t.Helper()
	embedded.Init(os.DirFS("../.."))
	t.Cleanup(func() { embedded.Init(nil) })
	defs, err := LoadDefinitionFiles("data/fx/effects.yaml", "data/fx/textures.yaml")
	if err != nil {
		t.Fatalf("LoadDefinitionFiles failed: %v", err)
	}
	return defs
}
