package main

import (
	"os"
	"testing"

	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
)

func TestFilterEffects(t *testing.T) {
	tests := []struct {
		query string
		want  []fx.EffectName
	}{
		{"", fx.EffectNames()},
		{"missile", []fx.EffectName{fx.MagicMissile, fx.MagicMissileSplash}},
		{"FIRE", []fx.EffectName{fx.FireSphere, fx.Fire}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := filterEffects(fx.EffectNames(), tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("filterEffects(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("filterEffects(%q)[%d] = %v, want %v", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVariantFor(t *testing.T) {
	if _, ok := variantFor(0); ok {
		t.Error("cursor 0 should mean no variant")
	}
	names := fx.VariantNames()
	if v, ok := variantFor(1); !ok || v != names[0] {
		t.Errorf("variantFor(1) = %v, %v", v, ok)
	}
	if v, ok := variantFor(len(names)); !ok || v != names[len(names)-1] {
		t.Errorf("variantFor(last) = %v, %v", v, ok)
	}
}

func TestNewestKillable(t *testing.T) {
	embedded.Init(os.DirFS("."))
	defer embedded.Init(nil)
	defs, err := fx.LoadDefinitionFiles("data/fx/effects.yaml", "data/fx/textures.yaml")
	if err != nil {
		t.Fatalf("failed to load shipped definitions: %v", err)
	}
	g := &ViewerGame{manager: fx.NewManager(defs), effects: []fx.EffectName{fx.FireSphere}}
	g.spawn(10, 10)
	g.spawn(20, 20)
	g.manager.SimulateStable(0.5, 60)
	older, newer := g.spawned[0], g.spawned[1]

	g.manager.Kill(newer, false)
	if id, ok := g.newestKillable(false); !ok || id != older {
		t.Errorf("deferred kill should target the newest emitting system, got %v", id)
	}
	if id, ok := g.newestKillable(true); !ok || id != newer {
		t.Errorf("immediate kill should target the dying system, got %v", id)
	}

	g.manager.Kill(newer, true)
	g.manager.Simulate(1.0 / 60)
	g.newestKillable(true)
	if len(g.spawned) != 1 {
		t.Errorf("dead ids should be dropped, %d left", len(g.spawned))
	}
}
