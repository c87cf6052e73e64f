// Package logo renders the Budget Chat wordmark.
package logo

import (
	"strings"

	"charm.land/lipgloss/v2"

	"budgetchat/internal/tui/styles"
)

// ASCII art for the Budget Chat logo.
const budgetLogo = `
██████╗ ██╗   ██╗██████╗  ██████╗ ███████╗████████╗
██╔══██╗██║   ██║██╔══██╗██╔════╝ ██╔════╝╚══██╔══╝
██████╔╝██║   ██║██║  ██║██║  ███╗█████╗     ██║
██╔══██╗██║   ██║██║  ██║██║   ██║██╔══╝     ██║
██████╔╝╚██████╔╝██████╔╝╚██████╔╝███████╗   ██║
╚═════╝  ╚═════╝ ╚═════╝  ╚═════╝ ╚══════╝   ╚═╝
`

// Smaller logo for narrow spaces.
const budgetLogoSmall = `
╔╗ ╦ ╦╔╦╗╔═╗╔═╗╔╦╗
╠╩╗║ ║ ║║║ ╦║╣  ║
╚═╝╚═╝═╩╝╚═╝╚═╝ ╩
`

// Render returns the logo with the current theme colors.
func Render() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(budgetLogo, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderSmall returns a smaller version of the logo.
func RenderSmall() string {
	t := styles.CurrentTheme()
	logo := strings.TrimPrefix(budgetLogoSmall, "\n")
	return styles.ApplyForegroundGrad(logo, t.Primary, t.Secondary)
}

// RenderWithTagline returns the logo with a tagline.
func RenderWithTagline() string {
	t := styles.CurrentTheme()
	tagline := t.S().Muted.Render("Union Budget Assistant")
	return lipgloss.JoinVertical(lipgloss.Center, Render(), "", tagline)
}

// Width returns the width of the full logo.
func Width() int {
	return lipgloss.Width(budgetLogo)
}
