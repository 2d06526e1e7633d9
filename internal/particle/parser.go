package particle

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/decker502/fx/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ParseParticleXML parses an XML emitter file from the embedded data and
// returns the parsed configuration.
//
// The XML file may contain multiple top-level <Emitter> elements without a root wrapper.
//
// Example usage:
//
//	config, err := ParseParticleXML("data/fx/emitters/Glitter.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Loaded %d emitters\n", len(config.Emitters))
func ParseParticleXML(path string) (*ParticleConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read particle XML file %s: %w", path, err)
	}
	return DecodeParticleXML(data, path)
}

// DecodeParticleXML parses emitter XML content. source is only used in error messages.
func DecodeParticleXML(data []byte, source string) (*ParticleConfig, error) {
	// Particle XML files contain multiple top-level <Emitter> elements without a root wrapper
	wrappedXML := fmt.Sprintf("<ParticleConfig>%s</ParticleConfig>", string(data))

	var config ParticleConfig
	if err := xml.Unmarshal([]byte(wrappedXML), &config); err != nil {
		return nil, fmt.Errorf("failed to parse particle XML %s: %w", source, err)
	}
	if len(config.Emitters) == 0 {
		return nil, fmt.Errorf("particle XML %s contains no emitters", source)
	}
	return &config, nil
}

// ParseEffectsYAML decodes an effects table.
func ParseEffectsYAML(data []byte) (*EffectFile, error) {
	var file EffectFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse effects YAML: %w", err)
	}
	for i, effect := range file.Effects {
		if effect.Name == "" {
			return nil, fmt.Errorf("effect #%d is missing 'name'", i)
		}
	}
	return &file, nil
}

// ParseTexturesYAML decodes a textures table.
func ParseTexturesYAML(data []byte) (*TextureFile, error) {
	var file TextureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse textures YAML: %w", err)
	}
	for i, tex := range file.Textures {
		if tex.Name == "" {
			return nil, fmt.Errorf("texture #%d is missing 'name'", i)
		}
		if tex.Width <= 0 || tex.Height <= 0 {
			return nil, fmt.Errorf("texture %s has invalid size %dx%d", tex.Name, tex.Width, tex.Height)
		}
	}
	return &file, nil
}

// LoadEffects reads an effects table from the embedded data and resolves
// emitter_file imports. Imported emitters are appended after inline ones.
func LoadEffects(effectsPath string) (*EffectFile, error) {
	data, err := embedded.ReadFile(effectsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read effects file %s: %w", effectsPath, err)
	}
	file, err := ParseEffectsYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", effectsPath, err)
	}
	for i := range file.Effects {
		effect := &file.Effects[i]
		if effect.EmitterFile == "" {
			continue
		}
		if !embedded.Exists(effect.EmitterFile) {
			return nil, fmt.Errorf("effect %s: emitter file %s not found (available: %s)",
				effect.Name, effect.EmitterFile, strings.Join(EmitterFiles(path.Dir(effect.EmitterFile)), ", "))
		}
		imported, err := ParseParticleXML(effect.EmitterFile)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", effect.Name, err)
		}
		effect.Emitters = append(effect.Emitters, imported.Emitters...)
	}
	return file, nil
}

// EmitterFiles lists the XML emitter files in dir of the embedded data.
func EmitterFiles(dir string) []string {
	matches, err := embedded.Glob(path.Join(dir, "*.xml"))
	if err != nil {
		return nil
	}
	return matches
}

// LoadTextures reads a textures table from the embedded data.
func LoadTextures(path string) (*TextureFile, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read textures file %s: %w", path, err)
	}
	file, err := ParseTexturesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}
