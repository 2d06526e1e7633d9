package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"math"

	"github.com/decker502/fx/pkg/embedded"
	"github.com/decker502/fx/pkg/fx"
	"github.com/hajimehoshi/ebiten/v2"
)

// LoadTexture decodes the atlas image of def from the embedded data.
func LoadTexture(def *fx.TextureDefinition) (image.Image, error) {
	file, err := embedded.Open(def.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", def.Path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", def.Path, err)
	}
	return img, nil
}

// Placeholder draws a soft disc in every tile of def's atlas. Successive
// tiles shrink slightly so animated frames remain distinguishable.
func Placeholder(def *fx.TextureDefinition) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, def.Width, def.Height))
	tw, th := def.TileSize()
	for row := range def.Rows {
		for col := range def.Cols {
			tile := row*def.Cols + col
			radius := 0.5 * (1 - 0.5*float64(tile)/float64(def.Cols*def.Rows))
			x0, y0 := int(float64(col)*tw), int(float64(row)*th)
			x1, y1 := int(float64(col+1)*tw), int(float64(row+1)*th)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					dx := (float64(x-x0)+0.5)/tw - 0.5
					dy := (float64(y-y0)+0.5)/th - 0.5
					d := math.Hypot(dx, dy) / radius
					if d >= 1 {
						continue
					}
					a := uint8(255 * (1 - d*d))
					img.SetRGBA(x, y, color.RGBA{a, a, a, a})
				}
			}
		}
	}
	return img
}

// LoadImages creates an ebiten image for every texture in defs. Textures
// whose file is missing or unreadable get a placeholder.
func LoadImages(defs *fx.DefinitionRegistry) map[fx.TextureName]*ebiten.Image {
	images := make(map[fx.TextureName]*ebiten.Image, len(fx.TextureNames()))
	for _, name := range fx.TextureNames() {
		def := defs.Texture(name)
		img, err := LoadTexture(def)
		if err != nil {
			log.Printf("[Render] %s: %v, using placeholder", name, err)
			img = Placeholder(def)
		}
		images[name] = ebiten.NewImageFromImage(img)
	}
	return images
}
