package viewstate

// Theme is the colour scheme a page renders with.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// ThemeState holds the dark-mode flag of a single page. The zero value is Light.
type ThemeState struct {
	theme Theme
}

// Toggle flips the theme. Every call flips exactly once.
func (s *ThemeState) Toggle() {
	if s.theme == Dark {
		s.theme = Light
		return
	}
	s.theme = Dark
}

func (s *ThemeState) Theme() Theme { return s.theme }

func (s *ThemeState) Dark() bool { return s.theme == Dark }

// Palette maps semantic roles to concrete style tokens for one theme.
type Palette struct {
	Primary    string
	Secondary  string
	Muted      string
	Accent     string
	Card       string
	Background string
	Nav        string
	NavActive  string
	NavIdle    string
	Border     string
	Toggle     string
	Highlight  string
}

var palettes = map[Theme]Palette{
	Light: {
		Primary:    "text-pink-900",
		Secondary:  "text-pink-700",
		Muted:      "text-pink-600",
		Accent:     "text-pink-500",
		Card:       "bg-white/95 backdrop-blur-sm border-pink-200 text-pink-900",
		Background: "bg-gradient-to-br from-pink-50 via-rose-50 to-pink-100",
		Nav:        "bg-white/90 backdrop-blur-sm",
		NavActive:  "bg-pink-500 text-white shadow-lg",
		NavIdle:    "text-pink-700 hover:bg-pink-400 hover:text-white",
		Border:     "border-pink-300",
		Toggle:     "bg-white/90 border-pink-300 text-pink-600 hover:bg-pink-100",
		Highlight:  "bg-gradient-to-r from-pink-400 to-pink-600",
	},
	Dark: {
		Primary:    "text-white",
		Secondary:  "text-purple-200",
		Muted:      "text-purple-300",
		Accent:     "text-purple-400",
		Card:       "bg-gray-800/80 backdrop-blur-sm border-purple-700 text-purple-100",
		Background: "bg-gradient-to-br from-gray-900 to-blue-900 text-white",
		Nav:        "bg-gray-900/90 backdrop-blur-sm",
		NavActive:  "bg-purple-500 text-white shadow-lg",
		NavIdle:    "text-purple-200 hover:bg-purple-700 hover:text-white",
		Border:     "border-purple-700",
		Toggle:     "bg-purple-800 border-purple-700 text-yellow-300 hover:bg-purple-700",
		Highlight:  "bg-gradient-to-r from-purple-400 to-blue-400",
	},
}

// PaletteFor resolves a theme into its style record.
func PaletteFor(t Theme) Palette {
	return palettes[t]
}

// ToggleIcon is the glyph on the dark-mode button: it shows the theme a click switches to.
func ToggleIcon(t Theme) string {
	if t == Dark {
		return "☀️"
	}
	return "🌙"
}

// MenuBadge is the heading of the mobile sidebar.
func MenuBadge(t Theme) string {
	if t == Dark {
		return "🌙 Menu"
	}
	return "🌸 Menu"
}
