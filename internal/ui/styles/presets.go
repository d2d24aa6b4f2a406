// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"dracula":       DraculaPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// PresetNames returns the built-in preset names in display order.
func PresetNames() []string {
	return []string{"default", "dracula", "nord", "high-contrast"}
}

// DefaultPreset matches the Dark values in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default orchard theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextDescription: "#999999",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenSelectionIndicator: "#FFFFFF",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenToastSuccess: "#73F59F",
		TokenToastError:   "#FF8787",
		TokenToastInfo:    "#54A0FF",
		TokenToastWarn:    "#FECA57",

		TokenNodeBorder:   "#8C8C8C",
		TokenNodeSelected: "#54A0FF",
		TokenNodeTitle:    "#E0E0E0",
		TokenNodeMeta:     "#7D56F4",
		TokenNodeProxy:    "#94E2D5",

		TokenLinkEnabled:  "#AAAAAA",
		TokenLinkDisabled: "#555555",
		TokenLinkDynamic:  "#F9E2AF",
		TokenLinkSelected: "#54A0FF",

		TokenTempPending: "#BBBBBB",
		TokenTempAccept:  "#73F59F",
		TokenTempReject:  "#FF8787",

		TokenAnnotationText:  "#999999",
		TokenAnnotationArrow: "#E0484E",
	},
}

// DraculaPreset is based on the Dracula color scheme.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#F8F8F2",
		TokenTextSecondary:   "#F8F8F2",
		TokenTextMuted:       "#6272A4",
		TokenTextDescription: "#BFBFBF",

		TokenBorderDefault: "#6272A4",
		TokenBorderFocus:   "#BD93F9",

		TokenStatusSuccess: "#50FA7B",
		TokenStatusWarning: "#F1FA8C",
		TokenStatusError:   "#FF5555",

		TokenSelectionIndicator: "#FF79C6",

		TokenOverlayTitle:  "#F8F8F2",
		TokenOverlayBorder: "#6272A4",

		TokenToastSuccess: "#50FA7B",
		TokenToastError:   "#FF5555",
		TokenToastInfo:    "#8BE9FD",
		TokenToastWarn:    "#F1FA8C",

		TokenNodeBorder:   "#6272A4",
		TokenNodeSelected: "#BD93F9",
		TokenNodeTitle:    "#F8F8F2",
		TokenNodeMeta:     "#FF79C6",
		TokenNodeProxy:    "#8BE9FD",

		TokenLinkEnabled:  "#F8F8F2",
		TokenLinkDisabled: "#44475A",
		TokenLinkDynamic:  "#FFB86C",
		TokenLinkSelected: "#BD93F9",

		TokenTempPending: "#6272A4",
		TokenTempAccept:  "#50FA7B",
		TokenTempReject:  "#FF5555",

		TokenAnnotationText:  "#BFBFBF",
		TokenAnnotationArrow: "#FF5555",
	},
}

// NordPreset is based on the Nord color palette.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Arctic, north-bluish color palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#ECEFF4",
		TokenTextSecondary:   "#E5E9F0",
		TokenTextMuted:       "#4C566A",
		TokenTextDescription: "#D8DEE9",

		TokenBorderDefault: "#4C566A",
		TokenBorderFocus:   "#88C0D0",

		TokenStatusSuccess: "#A3BE8C",
		TokenStatusWarning: "#EBCB8B",
		TokenStatusError:   "#BF616A",

		TokenSelectionIndicator: "#88C0D0",

		TokenOverlayTitle:  "#ECEFF4",
		TokenOverlayBorder: "#4C566A",

		TokenToastSuccess: "#A3BE8C",
		TokenToastError:   "#BF616A",
		TokenToastInfo:    "#81A1C1",
		TokenToastWarn:    "#EBCB8B",

		TokenNodeBorder:   "#81A1C1",
		TokenNodeSelected: "#88C0D0",
		TokenNodeTitle:    "#ECEFF4",
		TokenNodeMeta:     "#B48EAD",
		TokenNodeProxy:    "#8FBCBB",

		TokenLinkEnabled:  "#D8DEE9",
		TokenLinkDisabled: "#4C566A",
		TokenLinkDynamic:  "#D08770",
		TokenLinkSelected: "#88C0D0",

		TokenTempPending: "#81A1C1",
		TokenTempAccept:  "#A3BE8C",
		TokenTempReject:  "#BF616A",

		TokenAnnotationText:  "#D8DEE9",
		TokenAnnotationArrow: "#BF616A",
	},
}

// HighContrastPreset maximizes readability.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#FFFFFF",
		TokenTextMuted:       "#BBBBBB",
		TokenTextDescription: "#FFFFFF",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#00FFFF",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenSelectionIndicator: "#00FFFF",

		TokenOverlayTitle:  "#FFFFFF",
		TokenOverlayBorder: "#FFFFFF",

		TokenToastSuccess: "#00FF00",
		TokenToastError:   "#FF0000",
		TokenToastInfo:    "#00FFFF",
		TokenToastWarn:    "#FFFF00",

		TokenNodeBorder:   "#FFFFFF",
		TokenNodeSelected: "#00FFFF",
		TokenNodeTitle:    "#FFFFFF",
		TokenNodeMeta:     "#FF00FF",
		TokenNodeProxy:    "#00FF00",

		TokenLinkEnabled:  "#FFFFFF",
		TokenLinkDisabled: "#888888",
		TokenLinkDynamic:  "#FF8800",
		TokenLinkSelected: "#00FFFF",

		TokenTempPending: "#FFFF00",
		TokenTempAccept:  "#00FF00",
		TokenTempReject:  "#FF0000",

		TokenAnnotationText:  "#FFFFFF",
		TokenAnnotationArrow: "#FF0000",
	},
}
