package fx

import "fmt"

// VariantName is a named preset of an effect with a tint and strength.
type VariantName int

const (
	VariantBlind VariantName = iota
	VariantSpeed
	VariantSleep
	VariantFlying
	VariantFireSphere
	VariantSpiralBlue
	VariantSpiralGreen
	VariantDebuffRed
	VariantDebuffGreen
	VariantDebuffGray
	VariantDebuffPink
	VariantDebuffBlack
	VariantDebuffWhite
	VariantDebuffOrange
	VariantLaboratoryGreen
	VariantLaboratoryBlue
	VariantLaboratoryRed
	VariantLaboratoryBlack
	VariantForgeOrange

	numVariantNames
)

// Variant is the effect and instance parameters a VariantName expands to.
type Variant struct {
	Effect   EffectName
	Color    Color
	Strength float64
}

type variantEntry struct {
	name    string
	variant Variant
}

func rgb(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

var variants = [numVariantNames]variantEntry{
	VariantBlind:           {"BLIND", Variant{Blind, White, 1}},
	VariantSpeed:           {"SPEED", Variant{Speed, White, 1}},
	VariantSleep:           {"SLEEP", Variant{Sleep, White, 1}},
	VariantFlying:          {"FLYING", Variant{Flying, White, 1}},
	VariantFireSphere:      {"FIRE_SPHERE", Variant{FireSphere, White, 1}},
	VariantSpiralBlue:      {"SPIRAL_BLUE", Variant{Spiral, rgb(70, 130, 225), 1}},
	VariantSpiralGreen:     {"SPIRAL_GREEN", Variant{Spiral, rgb(0, 160, 30), 1}},
	VariantDebuffRed:       {"DEBUFF_RED", Variant{Debuff, rgb(190, 30, 30), 1}},
	VariantDebuffGreen:     {"DEBUFF_GREEN", Variant{Debuff, rgb(0, 160, 30), 1}},
	VariantDebuffGray:      {"DEBUFF_GRAY", Variant{Debuff, rgb(115, 115, 115), 1}},
	VariantDebuffPink:      {"DEBUFF_PINK", Variant{Debuff, rgb(255, 0, 255), 1}},
	VariantDebuffBlack:     {"DEBUFF_BLACK", Variant{Debuff, rgb(0, 0, 0), 1}},
	VariantDebuffWhite:     {"DEBUFF_WHITE", Variant{Debuff, White, 1}},
	VariantDebuffOrange:    {"DEBUFF_ORANGE", Variant{Debuff, rgb(255, 165, 0), 1}},
	VariantLaboratoryGreen: {"LABORATORY_GREEN", Variant{Laboratory, rgb(0, 160, 30), 1}},
	VariantLaboratoryBlue:  {"LABORATORY_BLUE", Variant{Laboratory, rgb(70, 130, 225), 1}},
	VariantLaboratoryRed:   {"LABORATORY_RED", Variant{Laboratory, rgb(190, 30, 30), 1}},
	VariantLaboratoryBlack: {"LABORATORY_BLACK", Variant{Laboratory, rgb(0, 0, 0), 1}},
	VariantForgeOrange:     {"FORGE_ORANGE", Variant{Forge, rgb(255, 165, 0), 1}},
}

func (n VariantName) String() string {
	if !n.Valid() {
		return fmt.Sprintf("VariantName(%d)", int(n))
	}
	return variants[n].name
}

// Valid reports whether n belongs to the enumeration.
func (n VariantName) Valid() bool {
	return n >= 0 && n < numVariantNames
}

// VariantNames returns every variant name in declaration order.
func VariantNames() []VariantName {
	names := make([]VariantName, numVariantNames)
	for i := range names {
		names[i] = VariantName(i)
	}
	return names
}

// ParseVariantName maps a name such as "DEBUFF_RED" to its VariantName.
func ParseVariantName(s string) (VariantName, error) {
	for i, v := range variants {
		if v.name == s {
			return VariantName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown variant name %q", s)
}

// VariantDef returns the effect, tint and strength of n.
func VariantDef(n VariantName) Variant {
	if !n.Valid() {
		panic(fmt.Sprintf("fx: unknown variant %v", n))
	}
	return variants[n].variant
}

// Apply returns cfg with the variant's tint and strength.
func (v Variant) Apply(cfg InitConfig) InitConfig {
	cfg.Color = v.Color
	cfg.Strength = v.Strength
	return cfg
}
