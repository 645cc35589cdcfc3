package feedback

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Render formats a notification as a single terminal line.
func Render(n Notification) string {
	badge := successStyle.Render("✔ " + n.Kind.String())
	if n.Kind == Error {
		badge = errorStyle.Render("✘ " + n.Kind.String())
	}
	return badge + " " + messageStyle.Render(n.Message)
}
