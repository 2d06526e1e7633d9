// Package render draws fx.DrawBuffers with ebiten.
package render

import (
	"github.com/decker502/fx/pkg/fx"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxQuadsPerCall keeps vertex indices within uint16.
const maxQuadsPerCall = (1 << 16) / 4

var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// BuildTriangles appends the vertices and indices of the quads in
// buf[first:first+count] vertices. Texture coordinates are scaled to a
// w by h image. Vertex colors use straight alpha.
func BuildTriangles(buf *fx.DrawBuffers, first, count int, w, h float32, vs []ebiten.Vertex, is []uint16) ([]ebiten.Vertex, []uint16) {
	for q := 0; q < count; q += 4 {
		base := uint16(len(vs))
		for i := first + q; i < first+q+4; i++ {
			pos, tc := buf.Positions[i], buf.TexCoords[i]
			r, g, b, a := fx.UnpackColor(buf.Colors[i])
			vs = append(vs, ebiten.Vertex{
				DstX:   pos.X,
				DstY:   pos.Y,
				SrcX:   tc.X * w,
				SrcY:   tc.Y * h,
				ColorR: float32(r) / 255,
				ColorG: float32(g) / 255,
				ColorB: float32(b) / 255,
				ColorA: float32(a) / 255,
			})
		}
		is = append(is, base, base+1, base+2, base+1, base+3, base+2)
	}
	return vs, is
}

// Batcher issues one DrawTriangles call per element.
type Batcher struct {
	defs   *fx.DefinitionRegistry
	images map[fx.TextureName]*ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
	opts     ebiten.DrawTrianglesOptions
}

// NewBatcher draws with images, keyed by texture name.
func NewBatcher(defs *fx.DefinitionRegistry, images map[fx.TextureName]*ebiten.Image) *Batcher {
	return &Batcher{defs: defs, images: images}
}

// Draw renders buf onto screen. Elements with no image are skipped.
func (b *Batcher) Draw(screen *ebiten.Image, buf *fx.DrawBuffers) {
	for _, el := range buf.Elements {
		img := b.images[el.Texture]
		if img == nil {
			continue
		}
		bounds := img.Bounds()
		w, h := float32(bounds.Dx()), float32(bounds.Dy())

		b.opts = ebiten.DrawTrianglesOptions{}
		if b.defs.Texture(el.Texture).Blend == fx.BlendAdditive {
			b.opts.Blend = additiveBlend
		}

		for first := 0; first < el.NumVertices; first += maxQuadsPerCall * 4 {
			count := min(el.NumVertices-first, maxQuadsPerCall*4)
			b.vertices, b.indices = BuildTriangles(buf, el.FirstVertex+first, count, w, h, b.vertices[:0], b.indices[:0])
			screen.DrawTriangles(b.vertices, b.indices, img, &b.opts)
		}
	}
}
