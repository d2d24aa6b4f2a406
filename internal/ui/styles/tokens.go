// Package styles contains Lip Gloss style definitions.
package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextDescription ColorToken = "text.description"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Selection
	TokenSelectionIndicator ColorToken = "selection.indicator"

	// Overlays/Modals
	TokenOverlayTitle  ColorToken = "overlay.title"
	TokenOverlayBorder ColorToken = "overlay.border"

	// Toast notifications
	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
	TokenToastWarn    ColorToken = "toast.warn"

	// Canvas nodes
	TokenNodeBorder   ColorToken = "node.border"
	TokenNodeSelected ColorToken = "node.selected"
	TokenNodeTitle    ColorToken = "node.title"
	TokenNodeMeta     ColorToken = "node.meta"
	TokenNodeProxy    ColorToken = "node.proxy"

	// Canvas links
	TokenLinkEnabled  ColorToken = "link.enabled"
	TokenLinkDisabled ColorToken = "link.disabled"
	TokenLinkDynamic  ColorToken = "link.dynamic"
	TokenLinkSelected ColorToken = "link.selected"

	// Link being drawn
	TokenTempPending ColorToken = "templink.pending"
	TokenTempAccept  ColorToken = "templink.accept"
	TokenTempReject  ColorToken = "templink.reject"

	// Annotations
	TokenAnnotationText  ColorToken = "annotation.text"
	TokenAnnotationArrow ColorToken = "annotation.arrow"
)

// AllTokens returns all valid color tokens for validation.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextDescription,

		TokenBorderDefault,
		TokenBorderFocus,

		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		TokenSelectionIndicator,

		TokenOverlayTitle,
		TokenOverlayBorder,

		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastWarn,

		TokenNodeBorder,
		TokenNodeSelected,
		TokenNodeTitle,
		TokenNodeMeta,
		TokenNodeProxy,

		TokenLinkEnabled,
		TokenLinkDisabled,
		TokenLinkDynamic,
		TokenLinkSelected,

		TokenTempPending,
		TokenTempAccept,
		TokenTempReject,

		TokenAnnotationText,
		TokenAnnotationArrow,
	}
}
