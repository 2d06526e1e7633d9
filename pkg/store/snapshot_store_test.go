package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/fx/internal/particle"
	"github.com/decker502/fx/pkg/fx"
	"github.com/quasilyte/gdata/v2"
)

// openTestStore creates a store whose gdata files live in a temp HOME.
func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")

	gm, err := gdata.Open(gdata.Config{AppName: "fx_store_test"})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return New(gm)
}

// testDefinitions builds a registry where every effect has the given
// number of identical emitters.
func testDefinitions(t *testing.T, emitters int) *fx.DefinitionRegistry {
	t.Helper()
	emitter := fx.SubSystemDef{
		SpawnRate:   particle.Value{Min: 30, Max: 30},
		Life:        particle.Value{Min: 0.5, Max: 1},
		LaunchSpeed: particle.Value{Min: 10, Max: 40},
		Scale:       particle.Value{Min: 1, Max: 1},
		Alpha:       particle.Value{Min: 1, Max: 1},
		Texture:     fx.TexCircular,
		Frames:      1,
	}
	var effects []fx.EffectDefinition
	for _, name := range fx.EffectNames() {
		subs := make([]fx.SubSystemDef, emitters)
		for i := range subs {
			subs[i] = emitter
		}
		effects = append(effects, fx.EffectDefinition{Name: name, SubSystems: subs})
	}
	var textures []fx.TextureDefinition
	for _, name := range fx.TextureNames() {
		textures = append(textures, fx.TextureDefinition{Name: name, Width: 8, Height: 8, Cols: 1, Rows: 1})
	}
	defs, err := fx.NewDefinitionRegistry(effects, textures)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return defs
}

func testGroup(t *testing.T) *fx.SnapshotGroup {
	t.Helper()
	return fx.NewManager(testDefinitions(t, 1)).GenSnapshots(fx.Fire, []float64{0.25, 0.5}, []float64{1.5, -2}, 2)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	g := testGroup(t)

	if s.Exists(g.Effect, g.Key) {
		t.Fatal("group exists before save")
	}
	if err := s.Save(g); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !s.Exists(g.Effect, g.Key) {
		t.Fatal("group missing after save")
	}

	loaded, err := s.Load(g.Effect, g.Key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Effect != g.Effect || loaded.Key != g.Key || loaded.Variants != g.Variants {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Snapshots) != len(g.Snapshots) {
		t.Fatalf("got %d snapshots, want %d", len(loaded.Snapshots), len(g.Snapshots))
	}
	for i := range g.Snapshots {
		want, got := g.Snapshots[i].SubSystems[0], loaded.Snapshots[i].SubSystems[0]
		if !reflect.DeepEqual(got.Particles, want.Particles) {
			t.Errorf("snapshot %d particles differ", i)
		}
		if got.Rand != want.Rand {
			t.Errorf("snapshot %d random state not preserved", i)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load(fx.Fire, fx.SnapshotKey{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexAndLoadAll(t *testing.T) {
	s := openTestStore(t)
	g := testGroup(t)
	other := *g
	other.Key = fx.SnapshotKey{9}

	for _, group := range []*fx.SnapshotGroup{g, &other, g} {
		if err := s.Save(group); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	refs, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("index has %d entries, want 2: %+v", len(refs), refs)
	}

	cache := fx.NewSnapshotCache()
	n, err := s.LoadAll(cache)
	if err != nil || n != 2 {
		t.Fatalf("LoadAll = %d, %v", n, err)
	}
	if _, ok := cache.Find(fx.Fire, fx.SnapshotKey{9}); !ok {
		t.Error("group missing from cache")
	}

	if err := s.Delete(fx.Fire, fx.SnapshotKey{9}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Exists(fx.Fire, fx.SnapshotKey{9}) {
		t.Error("group still exists after delete")
	}
	if refs, _ := s.List(); len(refs) != 1 {
		t.Errorf("index has %d entries after delete, want 1", len(refs))
	}
}

func TestLoadAllSkipsStaleGroups(t *testing.T) {
	s := openTestStore(t)
	stale := testGroup(t)
	if err := s.Save(stale); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	current := fx.NewManager(testDefinitions(t, 2)).GenSnapshots(fx.Fire, []float64{0.25}, []float64{7}, 1)
	if err := s.Save(current); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The definitions now have two emitters per effect; the one-emitter
	// bake must not reach the cache.
	m := fx.NewManager(testDefinitions(t, 2))
	n, err := s.LoadAll(m.Snapshots())
	if err != nil || n != 1 {
		t.Fatalf("LoadAll = %d, %v, want 1 group", n, err)
	}
	if _, ok := m.FindSnapshotGroup(fx.Fire, stale.Key); ok {
		t.Error("stale group installed")
	}
	if _, ok := m.SnapshotQuads(fx.Fire, stale.Key, 0.5, 1, fx.Vec2{}); ok {
		t.Error("stale group drawable")
	}
	if _, ok := m.SnapshotQuads(fx.Fire, current.Key, 0.25, 0, fx.Vec2{}); !ok {
		t.Error("current group not drawable")
	}
}

func TestLoadRejectsBrokenLayout(t *testing.T) {
	s := openTestStore(t)
	g := *testGroup(t)
	g.Snapshots = g.Snapshots[:3]
	if err := s.Save(&g); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.Load(g.Effect, g.Key); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a validation error, got %v", err)
	}
	if n, err := s.LoadAll(fx.NewSnapshotCache()); n != 0 || err != nil {
		t.Errorf("LoadAll = %d, %v, want 0, nil", n, err)
	}
}

func TestNilManagerIsNoop(t *testing.T) {
	s := New(nil)
	g := testGroup(t)

	if err := s.Save(g); err != nil {
		t.Errorf("Save on degraded store: %v", err)
	}
	if s.Exists(g.Effect, g.Key) {
		t.Error("degraded store reports stored groups")
	}
	if _, err := s.Load(g.Effect, g.Key); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(g.Effect, g.Key); err != nil {
		t.Errorf("Delete on degraded store: %v", err)
	}
	if n, err := s.LoadAll(fx.NewSnapshotCache()); n != 0 || err != nil {
		t.Errorf("LoadAll on degraded store = %d, %v", n, err)
	}
}

func TestPropertyName(t *testing.T) {
	if got := propertyName(fx.FireSphere, fx.SnapshotKey{1.5, -2}); got != "FIRE_SPHERE_1.5_-2" {
		t.Errorf("propertyName = %q", got)
	}
}
