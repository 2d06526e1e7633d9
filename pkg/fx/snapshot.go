package fx

import (
	"cmp"
	"fmt"
	"log"
	"math"
	"slices"
)

// Snapshot is the sub-system state of an effect at one animation time.
type Snapshot struct {
	AnimTime   float64
	Variant    int
	SubSystems []SubSystem
}

// SnapshotGroup is every snapshot generated for one (effect, key) pair.
// Snapshots are ordered by variant, then by animation time.
type SnapshotGroup struct {
	Effect    EffectName
	Key       SnapshotKey
	AnimTimes []float64
	Variants  int
	Snapshots []Snapshot
}

// Nearest returns the snapshot of variant whose time is closest to animTime.
// Ties go to the earlier time. The variant wraps around the group's count.
func (g *SnapshotGroup) Nearest(animTime float64, variant int) (*Snapshot, bool) {
	if g == nil || g.Variants <= 0 || len(g.AnimTimes) == 0 || len(g.Snapshots) != g.Variants*len(g.AnimTimes) {
		return nil, false
	}
	variant %= g.Variants
	if variant < 0 {
		variant += g.Variants
	}
	row := g.Snapshots[variant*len(g.AnimTimes) : (variant+1)*len(g.AnimTimes)]
	best := 0
	for i := 1; i < len(row); i++ {
		if math.Abs(row[i].AnimTime-animTime) < math.Abs(row[best].AnimTime-animTime) {
			best = i
		}
	}
	return &row[best], true
}

// Validate checks the layout of g and, when def is not nil, that every
// snapshot has one sub-system per emitter of def.
func (g *SnapshotGroup) Validate(def *EffectDefinition) error {
	if !g.Effect.Valid() {
		return fmt.Errorf("snapshot group has unknown effect %d", int(g.Effect))
	}
	if g.Variants < 0 {
		return fmt.Errorf("snapshot group %s has %d variants", g.Effect, g.Variants)
	}
	if want := g.Variants * len(g.AnimTimes); len(g.Snapshots) != want {
		return fmt.Errorf("snapshot group %s has %d snapshots, want %d variants x %d times",
			g.Effect, len(g.Snapshots), g.Variants, len(g.AnimTimes))
	}
	if !slices.IsSorted(g.AnimTimes) {
		return fmt.Errorf("snapshot group %s has unsorted animation times", g.Effect)
	}
	if def == nil {
		return nil
	}
	if def.Name != g.Effect {
		return fmt.Errorf("snapshot group %s checked against definition %s", g.Effect, def.Name)
	}
	for i := range g.Snapshots {
		if n := len(g.Snapshots[i].SubSystems); n != len(def.SubSystems) {
			return fmt.Errorf("snapshot group %s has %d sub-systems, definition has %d",
				g.Effect, n, len(def.SubSystems))
		}
	}
	return nil
}

type snapshotID struct {
	effect EffectName
	key    SnapshotKey
}

// SnapshotCache stores snapshot groups by effect and key.
type SnapshotCache struct {
	groups map[snapshotID]*SnapshotGroup
	// defs, when set, is checked by Put.
	defs *DefinitionRegistry
}

// NewSnapshotCache returns an empty cache. Put only checks group layout.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{groups: make(map[snapshotID]*SnapshotGroup)}
}

func newDefinitionCache(defs *DefinitionRegistry) *SnapshotCache {
	c := NewSnapshotCache()
	c.defs = defs
	return c
}

// Find returns the group of (effect, key).
func (c *SnapshotCache) Find(effect EffectName, key SnapshotKey) (*SnapshotGroup, bool) {
	g, ok := c.groups[snapshotID{effect, key}]
	return g, ok
}

// Put installs g, replacing any group with the same effect and key. Groups
// that do not fit the cache's definitions are rejected.
func (c *SnapshotCache) Put(g *SnapshotGroup) error {
	var def *EffectDefinition
	if c.defs != nil && g.Effect.Valid() {
		def = c.defs.Effect(g.Effect)
	}
	if err := g.Validate(def); err != nil {
		return err
	}
	c.groups[snapshotID{g.Effect, g.Key}] = g
	return nil
}

// Len returns the number of groups.
func (c *SnapshotCache) Len() int {
	return len(c.groups)
}

// Groups returns every group ordered by effect and key.
func (c *SnapshotCache) Groups() []*SnapshotGroup {
	out := make([]*SnapshotGroup, 0, len(c.groups))
	for _, g := range c.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b *SnapshotGroup) int {
		if a.Effect != b.Effect {
			return cmp.Compare(a.Effect, b.Effect)
		}
		if a.Key[0] != b.Key[0] {
			return cmp.Compare(a.Key[0], b.Key[0])
		}
		return cmp.Compare(a.Key[1], b.Key[1])
	})
	return out
}

// Add captures ps at animTime into the single-variant group keyed by its
// effect and parameters. Existing snapshots of a single-variant group are
// kept, one at the same time is replaced. Multi-variant groups are replaced.
func (c *SnapshotCache) Add(animTime float64, ps *ParticleSystem) {
	id := snapshotID{ps.Effect, ps.Config.Params}
	g, ok := c.groups[id]
	if !ok || g.Variants != 1 {
		g = &SnapshotGroup{Effect: ps.Effect, Key: ps.Config.Params, Variants: 1}
		c.groups[id] = g
	}
	snap := Snapshot{AnimTime: animTime, SubSystems: cloneSubSystems(ps.SubSystems)}
	i, found := slices.BinarySearch(g.AnimTimes, animTime)
	if found {
		g.Snapshots[i] = snap
		return
	}
	g.AnimTimes = slices.Insert(g.AnimTimes, i, animTime)
	g.Snapshots = slices.Insert(g.Snapshots, i, snap)
}

// Generate runs effect offline and stores a group with one snapshot per
// variant and animation time. Variant v uses spawn time v+1 and a seed
// derived from (effect, key, v), so regeneration is reproducible.
func (c *SnapshotCache) Generate(defs *DefinitionRegistry, effect EffectName, animTimes []float64, params []float64, variants, fps int) *SnapshotGroup {
	def := defs.Effect(effect)
	key := SnapshotKeyFrom(params)
	variants = max(variants, 1)
	if fps <= 0 {
		fps = 60
	}
	times := slices.Clone(animTimes)
	slices.Sort(times)
	step := 1 / float64(fps)

	g := &SnapshotGroup{
		Effect:    effect,
		Key:       key,
		AnimTimes: times,
		Variants:  variants,
		Snapshots: make([]Snapshot, 0, variants*len(times)),
	}
	for v := range variants {
		ps := NewParticleSystem(def, uint32(v+1), InitConfig{Params: key}, snapshotSeed(effect, key, v))
		done := 0
		for _, t := range times {
			for target := int(math.Round(t * float64(fps))); done < target; done++ {
				ps.Advance(def, step)
			}
			g.Snapshots = append(g.Snapshots, Snapshot{
				AnimTime:   t,
				Variant:    v,
				SubSystems: cloneSubSystems(ps.SubSystems),
			})
		}
	}
	c.groups[snapshotID{effect, key}] = g
	return g
}

// GenSnapshots regenerates the snapshot group of (effect, params) at the
// manager's snapshot rate. randomVariants below 1 is treated as 1.
func (m *Manager) GenSnapshots(effect EffectName, animTimes []float64, params []float64, randomVariants int) *SnapshotGroup {
	g := m.snapshots.Generate(m.defs, effect, animTimes, params, randomVariants, m.snapshotFps)
	if m.verbose {
		log.Printf("[SnapshotCache] generated %s key=%v: %d variants x %d times",
			effect, g.Key, g.Variants, len(g.AnimTimes))
	}
	return g
}

// AddSnapshot captures a live system into the cache.
func (m *Manager) AddSnapshot(animTime float64, ps *ParticleSystem) {
	m.snapshots.Add(animTime, ps)
}

// FindSnapshotGroup returns the cached group of (effect, key).
func (m *Manager) FindSnapshotGroup(effect EffectName, key SnapshotKey) (*SnapshotGroup, bool) {
	return m.snapshots.Find(effect, key)
}

// Snapshots returns the manager's snapshot cache.
func (m *Manager) Snapshots() *SnapshotCache {
	return m.snapshots
}

// SnapshotQuads draws the cached snapshot nearest to animTime at pos
// without occupying a pool slot.
func (m *Manager) SnapshotQuads(effect EffectName, key SnapshotKey, animTime float64, variant int, pos Vec2) ([]DrawParticle, bool) {
	g, ok := m.snapshots.Find(effect, key)
	if !ok {
		return nil, false
	}
	snap, ok := g.Nearest(animTime, variant)
	if !ok {
		return nil, false
	}
	return appendSubSystemQuads(nil, m.defs, effect, InitConfig{Pos: pos, Params: key}, snap.SubSystems), true
}
