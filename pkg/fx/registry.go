package fx

import (
	"fmt"
	"log"
	"slices"

	"github.com/decker502/fx/internal/particle"
)

// DefinitionRegistry holds one definition per effect and texture name.
// It is read-only after construction and may be shared between managers.
type DefinitionRegistry struct {
	effects  [numEffectNames]EffectDefinition
	textures [numTextureNames]TextureDefinition
}

// NewDefinitionRegistry checks that both enumerations are fully covered
// exactly once and that every sub-system references a known texture.
func NewDefinitionRegistry(effects []EffectDefinition, textures []TextureDefinition) (*DefinitionRegistry, error) {
	r := &DefinitionRegistry{}

	var haveTex [numTextureNames]bool
	for _, tex := range textures {
		if !tex.Name.Valid() {
			return nil, fmt.Errorf("texture definition with invalid name %v", tex.Name)
		}
		if haveTex[tex.Name] {
			return nil, fmt.Errorf("duplicate texture definition %s", tex.Name)
		}
		if tex.Width <= 0 || tex.Height <= 0 || tex.Cols <= 0 || tex.Rows <= 0 {
			return nil, fmt.Errorf("texture %s: invalid atlas geometry", tex.Name)
		}
		haveTex[tex.Name] = true
		r.textures[tex.Name] = tex
	}
	for _, name := range TextureNames() {
		if !haveTex[name] {
			return nil, fmt.Errorf("missing texture definition %s", name)
		}
	}

	var haveFx [numEffectNames]bool
	for _, def := range effects {
		if !def.Name.Valid() {
			return nil, fmt.Errorf("effect definition with invalid name %v", def.Name)
		}
		if haveFx[def.Name] {
			return nil, fmt.Errorf("duplicate effect definition %s", def.Name)
		}
		if len(def.SubSystems) == 0 {
			return nil, fmt.Errorf("effect %s has no sub-systems", def.Name)
		}
		for i, sub := range def.SubSystems {
			if !sub.Texture.Valid() {
				return nil, fmt.Errorf("effect %s sub-system #%d: unknown texture %v", def.Name, i, sub.Texture)
			}
		}
		for _, layer := range r.mixedBlendLayers(&def) {
			log.Printf("[FXManager] Warning: effect %s layer %d mixes additive and normal-blend textures, their draw order follows texture order",
				def.Name, layer)
		}
		haveFx[def.Name] = true
		r.effects[def.Name] = def
	}
	for _, name := range EffectNames() {
		if !haveFx[name] {
			return nil, fmt.Errorf("missing effect definition %s", name)
		}
	}
	return r, nil
}

// mixedBlendLayers returns the layers of def holding both additive and
// normal-blend textures, in ascending order.
func (r *DefinitionRegistry) mixedBlendLayers(def *EffectDefinition) []int {
	blends := make(map[int]BlendMode)
	var mixed []int
	for _, sub := range def.SubSystems {
		blend := r.textures[sub.Texture].Blend
		seen, ok := blends[sub.Layer]
		if !ok {
			blends[sub.Layer] = blend
			continue
		}
		if seen != blend && !slices.Contains(mixed, sub.Layer) {
			mixed = append(mixed, sub.Layer)
		}
	}
	slices.Sort(mixed)
	return mixed
}

// Effect returns the definition of name. Names outside the enumeration panic.
func (r *DefinitionRegistry) Effect(name EffectName) *EffectDefinition {
	if !name.Valid() {
		panic(fmt.Sprintf("fx: unknown effect %v", name))
	}
	return &r.effects[name]
}

// Texture returns the definition of name. Names outside the enumeration panic.
func (r *DefinitionRegistry) Texture(name TextureName) *TextureDefinition {
	if !name.Valid() {
		panic(fmt.Sprintf("fx: unknown texture %v", name))
	}
	return &r.textures[name]
}

// BuildRegistry converts parsed definition tables into a registry.
func BuildRegistry(effects *particle.EffectFile, textures *particle.TextureFile) (*DefinitionRegistry, error) {
	texDefs := make([]TextureDefinition, 0, len(textures.Textures))
	for _, cfg := range textures.Textures {
		def, err := BuildTexture(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build texture definitions: %w", err)
		}
		texDefs = append(texDefs, def)
	}
	fxDefs := make([]EffectDefinition, 0, len(effects.Effects))
	for _, cfg := range effects.Effects {
		def, err := BuildEffect(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build effect definitions: %w", err)
		}
		fxDefs = append(fxDefs, def)
	}
	return NewDefinitionRegistry(fxDefs, texDefs)
}

// LoadDefinitions builds a registry from YAML effect and texture tables.
// Emitter file imports are not resolved; use LoadDefinitionFiles for that.
func LoadDefinitions(effectsYAML, texturesYAML []byte) (*DefinitionRegistry, error) {
	effects, err := particle.ParseEffectsYAML(effectsYAML)
	if err != nil {
		return nil, err
	}
	textures, err := particle.ParseTexturesYAML(texturesYAML)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(effects, textures)
}

// LoadDefinitionFiles builds a registry from table files in the embedded
// data tree, resolving emitter_file imports.
func LoadDefinitionFiles(effectsPath, texturesPath string) (*DefinitionRegistry, error) {
	effects, err := particle.LoadEffects(effectsPath)
	if err != nil {
		return nil, err
	}
	textures, err := particle.LoadTextures(texturesPath)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(effects, textures)
}
