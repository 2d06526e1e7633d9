package main

import (
	"os"
	"reflect"
	"testing"

	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
	"github.com/decker502/fx/pkg/store"
	"github.com/quasilyte/gdata/v2"
)

func TestParseEffects(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []fx.EffectName
		wantErr bool
	}{
		{"empty selects all", "", fx.EffectNames(), false},
		{"single", "explosion", []fx.EffectName{fx.Explosion}, false},
		{"list with spaces", "FIRE, MAGIC_MISSILE", []fx.EffectName{fx.Fire, fx.MagicMissile}, false},
		{"unknown", "FIRE,SMOKE", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEffects(tt.list)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEffects(%q) error = %v, wantErr %v", tt.list, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseEffects(%q) = %v, want %v", tt.list, got, tt.want)
			}
		})
	}
}

func TestParseFloats(t *testing.T) {
	tests := []struct {
		list    string
		want    []float64
		wantErr bool
	}{
		{"", nil, false},
		{"0.1, 0.5,1", []float64{0.1, 0.5, 1}, false},
		{"-2", []float64{-2}, false},
		{"1,x", nil, true},
	}
	for _, tt := range tests {
		got, err := parseFloats(tt.list)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseFloats(%q) error = %v", tt.list, err)
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFloats(%q) = %v, want %v", tt.list, got, tt.want)
		}
	}
}

func TestBake(t *testing.T) {
	embedded.Init(os.DirFS("../.."))
	defer embedded.Init(nil)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	defs, err := fx.LoadDefinitionFiles("data/fx/effects.yaml", "data/fx/textures.yaml")
	if err != nil {
		t.Fatalf("failed to load shipped definitions: %v", err)
	}
	gm, err := gdata.Open(gdata.Config{AppName: "fxbake_test"})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	snapshots := store.New(gm)

	effects := []fx.EffectName{fx.Explosion, fx.Fire}
	if err := bake(fx.NewManager(defs), snapshots, effects, []float64{0.1, 0.3}, []float64{2}, 2); err != nil {
		t.Fatalf("bake failed: %v", err)
	}

	for _, effect := range effects {
		g, err := snapshots.Load(effect, fx.SnapshotKey{2})
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", effect, err)
		}
		if len(g.Snapshots) != 4 || g.Variants != 2 {
			t.Errorf("%s: %d snapshots, %d variants", effect, len(g.Snapshots), g.Variants)
		}
	}
}
