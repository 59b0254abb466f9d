package tui

// Color constants for the daybook TUI theme
const (
	// Base Colors
	ColorCardBackground = "#1B1530" // Dark purple
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Field labels, user input, titles
	ColorSecondaryText = "#B1B8C7" // Subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Skipped steps
	ColorPlaceholder   = "#B1B8C7"
	ColorHelpText      = "240"

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Accent elements, active borders
	ColorAccentBright = "#A78BFA" // Highlights, current step

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)

// priorityColor maps P1..P3 onto the state colours
func priorityColor(p string) string {
	switch p {
	case "P1":
		return ColorError
	case "P2":
		return ColorWarning
	default:
		return ColorSuccess
	}
}
