package pages

import (
	"context"
	"sync"
	"time"

	"github.com/uniceg/eunice-dev/internal/content"
	"github.com/uniceg/eunice-dev/internal/viewstate"
)

// Instance is one mounted page: the view state behind a single rendered
// document. Its controllers live exactly as long as the instance.
type Instance struct {
	ID    string
	Route string

	mu       sync.Mutex
	clock    viewstate.Clock
	theme    viewstate.ThemeState
	menu     viewstate.MenuState
	tabs     *viewstate.Tabs[string]
	panels   *viewstate.Accordion[int]
	modal    *viewstate.Accordion[int]
	greeting viewstate.Greeting
	lastSeen time.Time

	form   *viewstate.ContactForm
	cancel context.CancelFunc
}

// View is a consistent copy of an instance's state for templates.
type View struct {
	ID          string
	Route       string
	Theme       viewstate.Theme
	Dark        bool
	Palette     viewstate.Palette
	ToggleIcon  string
	MenuBadge   string
	MenuOpen    bool
	NavLinks    []viewstate.NavLink
	ActiveTab   string
	OpenPanel   int
	OpenProject int
	Greeting    viewstate.Greeting
	Contact     viewstate.ContactSnapshot
	Interests   []viewstate.Interest
}

func newInstance(id, route string, c *content.Content, clock viewstate.Clock, sender viewstate.Sender) (*Instance, error) {
	inst := &Instance{ID: id, Route: route, clock: clock, lastSeen: clock.Now()}

	switch route {
	case "/":
		inst.greeting = viewstate.GreetingAt(clock.Now(), viewstate.Light)
	case "/profile":
		tabs, err := viewstate.NewTabs(c.Profile.DefaultTab, c.Profile.TabIDs()...)
		if err != nil {
			return nil, err
		}
		inst.tabs = tabs
	case "/about":
		inst.panels = viewstate.NewAccordion(c.About.PanelIDs()...)
	case "/projects":
		inst.modal = viewstate.NewAccordion(c.ProjectIDs()...)
	case "/contact":
		inst.form = viewstate.NewContactForm(sender)
	}
	return inst, nil
}

func (p *Instance) touch() {
	p.mu.Lock()
	p.lastSeen = p.clock.Now()
	p.mu.Unlock()
}

func (p *Instance) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// ToggleTheme flips dark mode. The home greeting is recomputed for the new theme.
func (p *Instance) ToggleTheme() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme.Toggle()
	if p.Route == "/" {
		p.greeting = viewstate.GreetingAt(p.clock.Now(), p.theme.Theme())
	}
}

func (p *Instance) ToggleMenu() {
	p.mu.Lock()
	p.menu.ToggleOpen()
	p.mu.Unlock()
}

// CloseMenu handles overlay and link clicks.
func (p *Instance) CloseMenu() {
	p.mu.Lock()
	p.menu.SetOpen(false)
	p.mu.Unlock()
}

// SelectTab switches the profile tab.
func (p *Instance) SelectTab(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tabs == nil {
		return ErrNoController
	}
	return p.tabs.Select(id)
}

// TogglePanel opens or closes an about-page accordion panel.
func (p *Instance) TogglePanel(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.panels == nil {
		return ErrNoController
	}
	return p.panels.Toggle(id)
}

// OpenProject shows the detail modal for a project.
func (p *Instance) OpenProject(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal == nil {
		return ErrNoController
	}
	return p.modal.Open(id)
}

// CloseProject hides the detail modal.
func (p *Instance) CloseProject() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.modal == nil {
		return ErrNoController
	}
	p.modal.Close()
	return nil
}

// Form returns the contact form, or ErrNoController on other pages.
// The form locks itself; a pending submission never blocks the instance.
func (p *Instance) Form() (*viewstate.ContactForm, error) {
	if p.form == nil {
		return nil, ErrNoController
	}
	return p.form, nil
}

// refreshGreeting recomputes the greeting for now under the instance lock,
// so a concurrent theme toggle is never overwritten by a stale theme.
func (p *Instance) refreshGreeting(now time.Time) viewstate.Greeting {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.greeting = viewstate.GreetingAt(now, p.theme.Theme())
	return p.greeting
}

// View snapshots the instance for rendering.
func (p *Instance) View() View {
	p.mu.Lock()
	theme := p.theme.Theme()
	v := View{
		ID:         p.ID,
		Route:      p.Route,
		Theme:      theme,
		Dark:       theme == viewstate.Dark,
		Palette:    viewstate.PaletteFor(theme),
		ToggleIcon: viewstate.ToggleIcon(theme),
		MenuBadge:  viewstate.MenuBadge(theme),
		MenuOpen:   p.menu.IsOpen(),
		NavLinks:   viewstate.NavLinks(p.Route),
		Greeting:   p.greeting,
		Interests:  viewstate.Interests,
	}
	if p.tabs != nil {
		v.ActiveTab = p.tabs.Active()
	}
	if p.panels != nil {
		if id, ok := p.panels.Active(); ok {
			v.OpenPanel = id
		}
	}
	if p.modal != nil {
		if id, ok := p.modal.Active(); ok {
			v.OpenProject = id
		}
	}
	p.mu.Unlock()

	if p.form != nil {
		v.Contact = p.form.Snapshot()
	}
	return v
}
