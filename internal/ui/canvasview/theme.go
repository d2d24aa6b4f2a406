package canvasview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/orchard/internal/ui/styles"
)

var themed = &palette{}

func init() {
	buildPalette()
	styles.RegisterStyleRebuilder(buildPalette)
}

func buildPalette() {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	p := &palette{set: true}
	p.styles[classNone] = lipgloss.NewStyle()
	p.styles[classNode] = fg(styles.NodeBorderColor)
	p.styles[classNodeSelected] = fg(styles.NodeSelectedColor).Bold(true)
	p.styles[classTitle] = fg(styles.NodeTitleColor).Bold(true)
	p.styles[classMeta] = fg(styles.NodeMetaColor)
	p.styles[classProxy] = fg(styles.NodeProxyColor)
	p.styles[classChannel] = fg(styles.TextDescriptionColor)
	p.styles[classAnchorIn] = fg(styles.NodeBorderColor)
	p.styles[classAnchorOut] = fg(styles.NodeBorderColor)
	p.styles[classLink] = fg(styles.LinkEnabledColor)
	p.styles[classLinkDisabled] = fg(styles.LinkDisabledColor)
	p.styles[classLinkDynamic] = fg(styles.LinkDynamicColor)
	p.styles[classLinkSelected] = fg(styles.LinkSelectedColor).Bold(true)
	p.styles[classTempPending] = fg(styles.TempPendingColor)
	p.styles[classTempAccept] = fg(styles.TempAcceptColor).Bold(true)
	p.styles[classTempReject] = fg(styles.TempRejectColor).Bold(true)
	p.styles[classAnnotation] = fg(styles.AnnotationTextColor).Italic(true)
	p.styles[classArrow] = fg(styles.AnnotationArrowColor)
	p.styles[classBand] = fg(styles.BorderFocusColor)
	themed = p
}
