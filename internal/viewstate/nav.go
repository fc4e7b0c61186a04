package viewstate

// Route is one of the fixed navigable pages.
type Route struct {
	Path  string
	Label string
}

// Routes lists every page of the site in menu order.
var Routes = []Route{
	{Path: "/", Label: "Home"},
	{Path: "/profile", Label: "Profile"},
	{Path: "/about", Label: "About Me"},
	{Path: "/projects", Label: "Projects"},
	{Path: "/contact", Label: "Contact"},
}

// IsActiveRoute reports whether candidate is the current page.
// Matching is exact: "/about/" and "/about?x=1" do not match "/about".
func IsActiveRoute(candidate, current string) bool {
	return candidate == current
}

// KnownRoute reports whether path is one of Routes.
func KnownRoute(path string) bool {
	for _, r := range Routes {
		if r.Path == path {
			return true
		}
	}
	return false
}

// NavLink is a Route annotated for rendering.
type NavLink struct {
	Route
	Active bool
}

// NavLinks returns Routes with the entry for current marked active.
func NavLinks(current string) []NavLink {
	links := make([]NavLink, 0, len(Routes))
	for _, r := range Routes {
		links = append(links, NavLink{Route: r, Active: IsActiveRoute(r.Path, current)})
	}
	return links
}

// MenuState tracks the mobile sidebar. The zero value is closed.
// The desktop bar and the sidebar share one MenuState per page.
type MenuState struct {
	open bool
}

// SetOpen sets visibility directly. Overlay and link clicks pass false.
func (m *MenuState) SetOpen(open bool) {
	m.open = open
}

// ToggleOpen flips visibility for the hamburger button.
func (m *MenuState) ToggleOpen() {
	m.open = !m.open
}

func (m *MenuState) IsOpen() bool { return m.open }

// Overlay reports whether the backdrop behind the sidebar is shown.
func (m *MenuState) Overlay() bool { return m.open }

// SidebarVisible reports whether the sidebar is slid in.
func (m *MenuState) SidebarVisible() bool { return m.open }
