// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
// Packages that derive styles from these colors register here because styles
// cannot import them.
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// palette maps each token to the color variables it drives.
var palette = map[ColorToken][]*lipgloss.AdaptiveColor{
	TokenTextPrimary:        {&TextPrimaryColor},
	TokenTextSecondary:      {&TextSecondaryColor},
	TokenTextMuted:          {&TextMutedColor},
	TokenTextDescription:    {&TextDescriptionColor},
	TokenBorderDefault:      {&BorderDefaultColor},
	TokenBorderFocus:        {&BorderFocusColor},
	TokenStatusSuccess:      {&StatusSuccessColor},
	TokenStatusWarning:      {&StatusWarningColor},
	TokenStatusError:        {&StatusErrorColor},
	TokenSelectionIndicator: {&SelectionIndicatorColor},
	TokenOverlayTitle:       {&OverlayTitleColor},
	TokenOverlayBorder:      {&OverlayBorderColor},
	TokenToastSuccess:       {&ToastBorderSuccessColor},
	TokenToastError:         {&ToastBorderErrorColor},
	TokenToastInfo:          {&ToastBorderInfoColor},
	TokenToastWarn:          {&ToastBorderWarnColor},
	TokenNodeBorder:         {&NodeBorderColor},
	TokenNodeSelected:       {&NodeSelectedColor},
	TokenNodeTitle:          {&NodeTitleColor},
	TokenNodeMeta:           {&NodeMetaColor},
	TokenNodeProxy:          {&NodeProxyColor},
	TokenLinkEnabled:        {&LinkEnabledColor},
	TokenLinkDisabled:       {&LinkDisabledColor},
	TokenLinkDynamic:        {&LinkDynamicColor},
	TokenLinkSelected:       {&LinkSelectedColor},
	TokenTempPending:        {&TempPendingColor},
	TokenTempAccept:         {&TempAcceptColor},
	TokenTempReject:         {&TempRejectColor},
	TokenAnnotationText:     {&AnnotationTextColor},
	TokenAnnotationArrow:    {&AnnotationArrowColor},
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

func applyColors(colors map[ColorToken]string) {
	for token, hex := range colors {
		for _, target := range palette[token] {
			*target = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}

// rebuildStyles recreates all Style objects with updated colors.
// lipgloss.Style objects capture colors at creation time.
func rebuildStyles() {
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)
	ModifiedStyle = lipgloss.NewStyle().Foreground(StatusWarningColor).Bold(true)
	BreadcrumbStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
