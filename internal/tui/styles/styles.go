package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	TubeRed    = lipgloss.Color("#FF0033")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(TubeRed)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Tab bar styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(TubeRed).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Raw toggle indicator characters (unstyled)
const (
	LikedChar      = "♥"
	UnlikedChar    = "♡"
	SubscribedChar = "✓"
)

// Pre-rendered toggle indicators
var (
	LikedHeart     = lipgloss.NewStyle().Foreground(TubeRed).Render(LikedChar)
	UnlikedHeart   = lipgloss.NewStyle().Foreground(DimGray).Render(UnlikedChar)
	SubscribedMark = lipgloss.NewStyle().Foreground(Green).Render(SubscribedChar)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(TubeRed).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(TubeRed)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark).
			Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(TubeRed)
)

// Footer rows under lists ("Loading more...", "End of feed")
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Padding(0, 1)
)

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	b := make([]byte, width-len(runes))
	for i := range b {
		b[i] = ' '
	}
	return s + string(b)
}
