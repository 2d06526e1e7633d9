package fx

import "sort"

// Element is a contiguous vertex range sharing one texture.
type Element struct {
	FirstVertex int
	NumVertices int
	Texture     TextureName
}

// DrawBuffers holds flat vertex arrays, four vertices per particle, and the
// ranges that split them by texture.
type DrawBuffers struct {
	Positions []FVec2
	TexCoords []FVec2
	Colors    []uint32
	Elements  []Element

	lookup   map[bucketKey]int
	keys     []bucketKey
	bucketOf []int
	order    []int
	offsets  []int
}

type bucketKey struct {
	layer   int
	texture TextureName
}

// Reset empties the buffers and keeps their capacity.
func (b *DrawBuffers) Reset() {
	b.Positions = b.Positions[:0]
	b.TexCoords = b.TexCoords[:0]
	b.Colors = b.Colors[:0]
	b.Elements = b.Elements[:0]
}

// NumVertices returns the vertex count of the batch.
func (b *DrawBuffers) NumVertices() int {
	return len(b.Positions)
}

// Fill replaces the buffers with particles. Particles are grouped by layer
// (ascending) and, within a layer, by texture in order of first appearance.
// The relative order of particles inside a group is preserved. Every group
// becomes exactly one Element.
//
// Grouping by texture reorders particles across textures, which is only
// invisible for additive blending. An effect that mixes additive and
// normal-blend textures must put them on separate layers to control which
// is drawn over the other.
func (b *DrawBuffers) Fill(particles []DrawParticle) {
	b.Reset()
	if len(particles) == 0 {
		return
	}
	if b.lookup == nil {
		b.lookup = make(map[bucketKey]int)
	}
	clear(b.lookup)
	b.keys = b.keys[:0]
	b.bucketOf = b.bucketOf[:0]
	for i := range particles {
		k := bucketKey{particles[i].Layer, particles[i].Texture}
		bi, ok := b.lookup[k]
		if !ok {
			bi = len(b.keys)
			b.keys = append(b.keys, k)
			b.lookup[k] = bi
		}
		b.bucketOf = append(b.bucketOf, bi)
	}

	// order[rank] = bucket, stable so textures keep first-appearance order.
	b.order = b.order[:0]
	for i := range b.keys {
		b.order = append(b.order, i)
	}
	sort.SliceStable(b.order, func(i, j int) bool {
		return b.keys[b.order[i]].layer < b.keys[b.order[j]].layer
	})

	// offsets[bucket] = first vertex of the bucket.
	counts := resize(b.offsets, len(b.keys))
	for _, bi := range b.bucketOf {
		counts[bi]++
	}
	next := 0
	for _, bi := range b.order {
		n := counts[bi] * 4
		b.Elements = append(b.Elements, Element{FirstVertex: next, NumVertices: n, Texture: b.keys[bi].texture})
		counts[bi] = next
		next += n
	}
	b.offsets = counts

	total := len(particles) * 4
	b.Positions = resize(b.Positions, total)
	b.TexCoords = resize(b.TexCoords, total)
	b.Colors = resize(b.Colors, total)
	for i := range particles {
		p := &particles[i]
		at := b.offsets[b.bucketOf[i]]
		b.offsets[b.bucketOf[i]] += 4
		for v := range 4 {
			b.Positions[at+v] = p.Positions[v].f32()
			b.TexCoords[at+v] = p.TexCoords[v].f32()
			b.Colors[at+v] = p.Color
		}
	}
}

// resize returns s with length n, zeroed, reusing capacity.
func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	s = s[:n]
	clear(s)
	return s
}
