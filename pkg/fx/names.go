package fx

import "fmt"

// EffectName identifies one effect definition. The set is closed: every name
// must have a definition in the loaded effects table.
type EffectName int

const (
	FireSphere EffectName = iota
	Fire
	Explosion
	WoodSplinters
	RockCloud
	Ripple
	MagicMissile
	MagicMissileSplash
	Sleep
	Blind
	Speed
	Flying
	Debuff
	Glitter
	Spiral
	Laboratory
	Forge

	numEffectNames
)

var effectNameStrings = [numEffectNames]string{
	FireSphere:         "FIRE_SPHERE",
	Fire:               "FIRE",
	Explosion:          "EXPLOSION",
	WoodSplinters:      "WOOD_SPLINTERS",
	RockCloud:          "ROCK_CLOUD",
	Ripple:             "RIPPLE",
	MagicMissile:       "MAGIC_MISSILE",
	MagicMissileSplash: "MAGIC_MISSILE_SPLASH",
	Sleep:              "SLEEP",
	Blind:              "BLIND",
	Speed:              "SPEED",
	Flying:             "FLYING",
	Debuff:             "DEBUFF",
	Glitter:            "GLITTER",
	Spiral:             "SPIRAL",
	Laboratory:         "LABORATORY",
	Forge:              "FORGE",
}

func (n EffectName) String() string {
	if !n.Valid() {
		return fmt.Sprintf("EffectName(%d)", int(n))
	}
	return effectNameStrings[n]
}

// Valid reports whether n belongs to the enumeration.
func (n EffectName) Valid() bool {
	return n >= 0 && n < numEffectNames
}

// EffectNames returns every effect name in declaration order.
func EffectNames() []EffectName {
	names := make([]EffectName, numEffectNames)
	for i := range names {
		names[i] = EffectName(i)
	}
	return names
}

// ParseEffectName maps a table name such as "FIRE_SPHERE" to its EffectName.
func ParseEffectName(s string) (EffectName, error) {
	for i, name := range effectNameStrings {
		if name == s {
			return EffectName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect name %q", s)
}

// TextureName identifies one texture definition. The set is closed.
type TextureName int

const (
	TexCircular TextureName = iota
	TexCircularStrong
	TexSparks
	TexFlakes
	TexFlash
	TexTorus
	TexFlames
	TexClouds
	TexSpecial
	TexSleep

	numTextureNames
)

var textureNameStrings = [numTextureNames]string{
	TexCircular:       "CIRCULAR",
	TexCircularStrong: "CIRCULAR_STRONG",
	TexSparks:         "SPARKS",
	TexFlakes:         "FLAKES",
	TexFlash:          "FLASH",
	TexTorus:          "TORUS",
	TexFlames:         "FLAMES",
	TexClouds:         "CLOUDS",
	TexSpecial:        "SPECIAL",
	TexSleep:          "SLEEP",
}

func (n TextureName) String() string {
	if !n.Valid() {
		return fmt.Sprintf("TextureName(%d)", int(n))
	}
	return textureNameStrings[n]
}

// Valid reports whether n belongs to the enumeration.
func (n TextureName) Valid() bool {
	return n >= 0 && n < numTextureNames
}

// TextureNames returns every texture name in declaration order.
func TextureNames() []TextureName {
	names := make([]TextureName, numTextureNames)
	for i := range names {
		names[i] = TextureName(i)
	}
	return names
}

// ParseTextureName maps a table name such as "CIRCULAR" to its TextureName.
func ParseTextureName(s string) (TextureName, error) {
	for i, name := range textureNameStrings {
		if name == s {
			return TextureName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown texture name %q", s)
}
