package viewstate

import "time"

// Greeting is the time-of-day banner on the home page.
type Greeting struct {
	Text       string
	Emoji      string
	Background string
	TextColor  string
}

// GreetingAt picks the greeting for the local hour of t.
func GreetingAt(t time.Time, theme Theme) Greeting {
	dark := theme == Dark
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return Greeting{
			Text:       "Good Morning",
			Emoji:      "🌞",
			Background: pick(dark, "bg-gradient-to-br from-indigo-900 via-purple-900 to-blue-900", "bg-gradient-to-br from-pink-50 via-pink-100 to-rose-50"),
			TextColor:  pick(dark, "text-purple-100", "text-pink-700"),
		}
	case hour >= 12 && hour < 18:
		return Greeting{
			Text:       "Good Afternoon",
			Emoji:      "🌆",
			Background: pick(dark, "bg-gradient-to-br from-purple-900 via-indigo-900 to-blue-900", "bg-gradient-to-br from-pink-100 via-rose-50 to-pink-50"),
			TextColor:  pick(dark, "text-purple-100", "text-pink-800"),
		}
	default:
		return Greeting{
			Text:       "Good Evening",
			Emoji:      "🌙",
			Background: pick(dark, "bg-gradient-to-br from-blue-900 via-purple-900 to-indigo-900", "bg-gradient-to-br from-pink-200 via-rose-100 to-pink-300"),
			TextColor:  pick(dark, "text-purple-100", "text-pink-900"),
		}
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
