// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#696969"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Selection indicator color (used for ">" prefix in lists)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Canvas nodes
	NodeBorderColor   = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#8C8C8C"}
	NodeSelectedColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}
	NodeTitleColor    = lipgloss.AdaptiveColor{Light: "#222222", Dark: "#E0E0E0"}
	NodeMetaColor     = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#7D56F4"}
	NodeProxyColor    = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"}

	// Canvas links
	LinkEnabledColor  = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"}
	LinkDisabledColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"}
	LinkDynamicColor  = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"}
	LinkSelectedColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}

	// Link being drawn
	TempPendingColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#BBBBBB"}
	TempAcceptColor  = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	TempRejectColor  = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Annotations
	AnnotationTextColor  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}
	AnnotationArrowColor = lipgloss.AdaptiveColor{Light: "#C1272D", Dark: "#E0484E"}

	// Selection indicator style (used for ">" prefix in pickers)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	// Modified marker in the status bar
	ModifiedStyle = lipgloss.NewStyle().Foreground(StatusWarningColor).Bold(true)

	// Breadcrumb trail of opened macros
	BreadcrumbStyle = lipgloss.NewStyle().Foreground(TextMutedColor)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)
