// Package content loads the fixed copy shown on the portfolio pages.
// It is read-only: page controllers select from it but never modify it.
package content

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

type Site struct {
	Owner       string `yaml:"owner" validate:"required"`
	Brand       string `yaml:"brand" validate:"required"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Stat struct {
	Number string `yaml:"number"`
	Label  string `yaml:"label"`
	Emoji  string `yaml:"emoji"`
}

type Home struct {
	Intro string `yaml:"intro"`
	Stats []Stat `yaml:"stats"`
}

type Tab struct {
	ID    string `yaml:"id" validate:"required"`
	Label string `yaml:"label" validate:"required"`
	Emoji string `yaml:"emoji"`
}

type Skills struct {
	Technical []string `yaml:"technical"`
	Soft      []string `yaml:"soft"`
}

type Education struct {
	Degree string `yaml:"degree"`
	School string `yaml:"school"`
	Period string `yaml:"period"`
	Status string `yaml:"status"`
}

// Current reports whether the entry is still in progress.
func (e Education) Current() bool { return e.Status == "Currently Enrolled" }

type Profile struct {
	Name       string      `yaml:"name" validate:"required"`
	Title      string      `yaml:"title"`
	Age        string      `yaml:"age"`
	Location   string      `yaml:"location"`
	Email      string      `yaml:"email"`
	Phone      string      `yaml:"phone"`
	About      string      `yaml:"about"`
	Mission    string      `yaml:"mission"`
	Vision     string      `yaml:"vision"`
	DefaultTab string      `yaml:"default_tab" validate:"required"`
	Tabs       []Tab       `yaml:"tabs" validate:"required,min=1,dive"`
	Skills     Skills      `yaml:"skills"`
	Education  []Education `yaml:"education"`
	Focus      string      `yaml:"focus"`
	Interests  []string    `yaml:"interests"`
	FunFacts   []string    `yaml:"fun_facts"`
}

// TabIDs returns the tab identifiers in display order.
func (p Profile) TabIDs() []string {
	ids := make([]string, 0, len(p.Tabs))
	for _, t := range p.Tabs {
		ids = append(ids, t.ID)
	}
	return ids
}

type Panel struct {
	ID           int      `yaml:"id" validate:"required"`
	Title        string   `yaml:"title" validate:"required"`
	Body         string   `yaml:"body"`
	Skills       []string `yaml:"skills"`
	Achievements []string `yaml:"achievements"`
}

type About struct {
	Intro  string  `yaml:"intro"`
	Panels []Panel `yaml:"panels" validate:"required,min=1,dive"`
}

// PanelIDs returns the accordion identifiers in display order.
func (a About) PanelIDs() []int {
	ids := make([]int, 0, len(a.Panels))
	for _, p := range a.Panels {
		ids = append(ids, p.ID)
	}
	return ids
}

type Project struct {
	ID          int      `yaml:"id" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Placeholder string   `yaml:"placeholder"`
	Tech        []string `yaml:"tech"`
	Features    []string `yaml:"features"`
	DemoLink    string   `yaml:"demo_link"`
	CodeLink    string   `yaml:"code_link"`
}

type Social struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url" validate:"required,url"`
}

type Contact struct {
	Email    string   `yaml:"email"`
	Phone    string   `yaml:"phone"`
	Location string   `yaml:"location"`
	Socials  []Social `yaml:"socials" validate:"dive"`
}

// Content is everything the pages display.
type Content struct {
	Site     Site      `yaml:"site"`
	Home     Home      `yaml:"home"`
	Profile  Profile   `yaml:"profile"`
	About    About     `yaml:"about"`
	Projects []Project `yaml:"projects" validate:"required,min=1,dive"`
	Contact  Contact   `yaml:"contact"`
}

// ProjectIDs returns the project identifiers in display order.
func (c *Content) ProjectIDs() []int {
	ids := make([]int, 0, len(c.Projects))
	for _, p := range c.Projects {
		ids = append(ids, p.ID)
	}
	return ids
}

// Project looks up a project by id.
func (c *Content) Project(id int) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
	defaultErr     error
)

// Default returns the embedded content, parsed once.
func Default() (*Content, error) {
	defaultOnce.Do(func() {
		defaultContent, defaultErr = Parse(defaultYAML)
	})
	return defaultContent, defaultErr
}

// Parse decodes and checks a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	if err := checkIDs(&c); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return &c, nil
}

func checkIDs(c *Content) error {
	tabs := c.Profile.TabIDs()
	if !slices.Contains(tabs, c.Profile.DefaultTab) {
		return fmt.Errorf("default tab %q is not one of %v", c.Profile.DefaultTab, tabs)
	}
	if dup, ok := duplicate(tabs); ok {
		return fmt.Errorf("duplicate tab id %q", dup)
	}
	if dup, ok := duplicate(c.About.PanelIDs()); ok {
		return fmt.Errorf("duplicate panel id %d", dup)
	}
	if dup, ok := duplicate(c.ProjectIDs()); ok {
		return fmt.Errorf("duplicate project id %d", dup)
	}
	return nil
}

func duplicate[K comparable](ids []K) (K, bool) {
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	var zero K
	return zero, false
}
