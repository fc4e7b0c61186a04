package pages

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uniceg/eunice-dev/internal/content"
	"github.com/uniceg/eunice-dev/internal/viewstate"
)

type stepClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []chan time.Time
	due     []time.Time
	armed   chan struct{}
}

func newStepClock(now time.Time) *stepClock {
	return &stepClock{now: now, armed: make(chan struct{}, 16)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	c.waiters = append(c.waiters, ch)
	c.due = append(c.due, c.now.Add(d))
	select {
	case c.armed <- struct{}{}:
	default:
	}
	return ch
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	var waiters []chan time.Time
	var due []time.Time
	for i, ch := range c.waiters {
		if !c.due[i].After(c.now) {
			ch <- c.now
			continue
		}
		waiters = append(waiters, ch)
		due = append(due, c.due[i])
	}
	c.waiters, c.due = waiters, due
}

func (c *stepClock) waitArmed(t *testing.T) {
	t.Helper()
	select {
	case <-c.armed:
	case <-time.After(time.Second):
		t.Fatal("clock was never waited on")
	}
}

func newTestRegistry(t *testing.T, clock viewstate.Clock, interval time.Duration) *Registry {
	t.Helper()
	return newCappedRegistry(t, clock, interval, 0)
}

func newCappedRegistry(t *testing.T, clock viewstate.Clock, interval time.Duration, maxPages int) *Registry {
	t.Helper()
	c, err := content.Default()
	require.NoError(t, err)
	r := NewRegistry(Options{
		Content:          c,
		Clock:            clock,
		Sender:           viewstate.SimulatedSender{Clock: clock},
		GreetingInterval: interval,
		MaxPages:         maxPages,
	})
	t.Cleanup(r.Close)
	return r
}

func TestMountStartsFromDefaults(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newStepClock(time.Now()), 0)

	profile, err := r.Mount("/profile")
	require.NoError(t, err)
	v := profile.View()
	require.Equal(t, "about", v.ActiveTab)
	require.False(t, v.Dark)
	require.False(t, v.MenuOpen)
	require.True(t, v.NavLinks[1].Active)

	require.NoError(t, profile.SelectTab("skills"))
	profile.ToggleTheme()

	reloaded, err := r.Mount("/profile")
	require.NoError(t, err)
	require.NotEqual(t, profile.ID, reloaded.ID)
	require.Equal(t, "about", reloaded.View().ActiveTab)
	require.False(t, reloaded.View().Dark)
	require.Equal(t, "skills", profile.View().ActiveTab)
}

func TestMountRejectsUnknownRoute(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newStepClock(time.Now()), 0)
	_, err := r.Mount("/admin")
	require.ErrorIs(t, err, ErrUnknownRoute)
	_, err = r.Mount("/about/")
	require.ErrorIs(t, err, ErrUnknownRoute)
}

func TestControllersBelongToTheirPage(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newStepClock(time.Now()), 0)
	contact, err := r.Mount("/contact")
	require.NoError(t, err)

	require.ErrorIs(t, contact.SelectTab("skills"), ErrNoController)
	require.ErrorIs(t, contact.TogglePanel(1), ErrNoController)
	require.ErrorIs(t, contact.OpenProject(1), ErrNoController)
	form, err := contact.Form()
	require.NoError(t, err)
	require.NotNil(t, form)

	about, err := r.Mount("/about")
	require.NoError(t, err)
	_, err = about.Form()
	require.ErrorIs(t, err, ErrNoController)
	require.NoError(t, about.TogglePanel(3))
	require.Equal(t, 3, about.View().OpenPanel)
	require.ErrorIs(t, about.TogglePanel(7), viewstate.ErrUnknownPanel)

	projects, err := r.Mount("/projects")
	require.NoError(t, err)
	require.NoError(t, projects.OpenProject(2))
	require.Equal(t, 2, projects.View().OpenProject)
	require.NoError(t, projects.CloseProject())
	require.Zero(t, projects.View().OpenProject)
}

func TestMenuSharedAcrossLayouts(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newStepClock(time.Now()), 0)
	p, err := r.Mount("/")
	require.NoError(t, err)

	p.ToggleMenu()
	require.True(t, p.View().MenuOpen)
	p.ToggleMenu()
	p.ToggleMenu()
	p.CloseMenu()
	require.False(t, p.View().MenuOpen)
}

func TestLookupAndUnmount(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newStepClock(time.Now()), 0)
	p, err := r.Mount("/contact")
	require.NoError(t, err)

	got, err := r.Lookup(p.ID)
	require.NoError(t, err)
	require.Same(t, p, got)

	_, err = r.Lookup("not-a-uuid")
	require.ErrorIs(t, err, ErrPageGone)

	require.True(t, r.Unmount(p.ID))
	require.False(t, r.Unmount(p.ID))
	_, err = r.Lookup(p.ID)
	require.ErrorIs(t, err, ErrPageGone)
	require.Zero(t, r.Len())
}

func TestSweepUnmountsIdlePages(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Now())
	r := newTestRegistry(t, clock, 0)

	idle, err := r.Mount("/about")
	require.NoError(t, err)
	active, err := r.Mount("/projects")
	require.NoError(t, err)

	clock.advance(20 * time.Minute)
	_, err = r.Lookup(active.ID)
	require.NoError(t, err)
	clock.advance(15 * time.Minute)

	require.Equal(t, 1, r.Sweep(30*time.Minute))
	_, err = r.Lookup(idle.ID)
	require.ErrorIs(t, err, ErrPageGone)
	_, err = r.Lookup(active.ID)
	require.NoError(t, err)
}

func TestHomeGreetingRefreshStopsOnUnmount(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Date(2024, 5, 1, 11, 59, 0, 0, time.Local))
	r := newTestRegistry(t, clock, time.Minute)

	home, err := r.Mount("/")
	require.NoError(t, err)
	require.Equal(t, "Good Morning", home.View().Greeting.Text)

	clock.waitArmed(t)
	clock.advance(time.Minute)
	clock.waitArmed(t)
	require.Equal(t, "Good Afternoon", home.View().Greeting.Text)

	home.ToggleTheme()
	require.Equal(t, viewstate.GreetingAt(clock.Now(), viewstate.Dark), home.View().Greeting)

	r.Unmount(home.ID)
	clock.advance(6 * time.Hour)
	require.Equal(t, "Good Afternoon", home.View().Greeting.Text)
}

func TestMountEvictsLeastRecentlySeen(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Now())
	r := newCappedRegistry(t, clock, 0, 3)

	first, err := r.Mount("/about")
	require.NoError(t, err)
	clock.advance(time.Second)
	second, err := r.Mount("/profile")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = r.Mount("/projects")
	require.NoError(t, err)
	clock.advance(time.Second)

	_, err = r.Lookup(first.ID)
	require.NoError(t, err)
	clock.advance(time.Second)

	for i := 0; i < 10; i++ {
		_, err := r.Mount("/contact")
		require.NoError(t, err)
		require.Equal(t, 3, r.Len())
		clock.advance(time.Second)
	}

	_, err = r.Lookup(second.ID)
	require.ErrorIs(t, err, ErrPageGone)
}

func TestMountKeepsRecentlyUsedPage(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Now())
	r := newCappedRegistry(t, clock, 0, 2)

	kept, err := r.Mount("/about")
	require.NoError(t, err)
	clock.advance(time.Second)
	dropped, err := r.Mount("/profile")
	require.NoError(t, err)
	clock.advance(time.Second)

	_, err = r.Lookup(kept.ID)
	require.NoError(t, err)
	clock.advance(time.Second)

	_, err = r.Mount("/projects")
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	_, err = r.Lookup(kept.ID)
	require.NoError(t, err)
	_, err = r.Lookup(dropped.ID)
	require.ErrorIs(t, err, ErrPageGone)
}

func TestEvictedGreetingRefreshStops(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Date(2024, 5, 1, 11, 59, 0, 0, time.Local))
	r := newCappedRegistry(t, clock, time.Minute, 1)

	evicted, err := r.Mount("/")
	require.NoError(t, err)
	clock.waitArmed(t)

	current, err := r.Mount("/")
	require.NoError(t, err)
	clock.waitArmed(t)
	require.Equal(t, 1, r.Len())

	clock.advance(time.Minute)
	clock.waitArmed(t)

	require.Equal(t, "Good Afternoon", current.View().Greeting.Text)
	require.Equal(t, "Good Morning", evicted.View().Greeting.Text)
}

func TestGreetingRefreshFollowsThemeToggle(t *testing.T) {
	t.Parallel()

	clock := newStepClock(time.Date(2024, 5, 1, 20, 0, 0, 0, time.Local))
	r := newTestRegistry(t, clock, time.Minute)

	home, err := r.Mount("/")
	require.NoError(t, err)
	clock.waitArmed(t)

	home.ToggleTheme()
	clock.advance(time.Minute)
	clock.waitArmed(t)

	require.Equal(t, viewstate.GreetingAt(clock.Now(), viewstate.Dark), home.View().Greeting)
}
