package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uniceg/eunice-dev/internal/content"
	"github.com/uniceg/eunice-dev/internal/logger"
	"github.com/uniceg/eunice-dev/internal/pages"
	"github.com/uniceg/eunice-dev/internal/viewstate"
	"github.com/uniceg/eunice-dev/internal/visits"
)

// Full-page template and swappable body fragment for each route.
var (
	pageTemplates = map[string]string{
		"/":         "home.html",
		"/profile":  "profile.html",
		"/about":    "about.html",
		"/projects": "projects.html",
		"/contact":  "contact.html",
	}
	bodyTemplates = map[string]string{
		"/":         "home_body",
		"/profile":  "profile_body",
		"/about":    "about_body",
		"/projects": "projects_body",
		"/contact":  "contact_body",
	}
)

type server struct {
	content  *content.Content
	registry *pages.Registry
	visits   *visits.Store
	log      *logger.Logger
}

func newRouter(s *server, templateGlob string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	if s.visits != nil {
		r.Use(visitorTracking(s.visits, s.log))
	}
	r.LoadHTMLGlob(templateGlob)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "pages": s.registry.Len()})
	})

	for _, route := range viewstate.Routes {
		r.GET(route.Path, s.mountPage(route.Path))
	}

	ui := r.Group("/ui/:page")
	ui.Use(s.loadPage())
	{
		ui.DELETE("", s.unmountPage)
		ui.POST("/theme", s.toggleTheme)
		ui.POST("/menu/toggle", s.toggleMenu)
		ui.POST("/menu/close", s.closeMenu)
		ui.POST("/tabs/:tab", s.selectTab)
		ui.POST("/accordion/:panel", s.togglePanel)
		ui.POST("/projects/:project", s.openProject)
		ui.DELETE("/projects", s.closeProject)
		ui.GET("/greeting", s.greeting)
		ui.POST("/contact/field/:field", s.updateField)
		ui.POST("/contact/interest", s.selectInterest)
		ui.POST("/contact/submit", s.submitContact)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error", gin.H{"error": "Page not found."})
	})

	return r
}

func (s *server) pageData(inst *pages.Instance) gin.H {
	v := inst.View()
	data := gin.H{"view": v, "content": s.content}
	if v.OpenProject != 0 {
		if p, ok := s.content.Project(v.OpenProject); ok {
			data["project"] = p
		}
	}
	return data
}

func (s *server) render(c *gin.Context, status int, name string, inst *pages.Instance) {
	c.HTML(status, name, s.pageData(inst))
}

func (s *server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error", gin.H{"error": message})
}

func (s *server) mountPage(route string) gin.HandlerFunc {
	return func(c *gin.Context) {
		inst, err := s.registry.Mount(route)
		if err != nil {
			s.log.Error(err, "mount page")
			s.renderError(c, http.StatusInternalServerError, "Something went wrong loading this page.")
			return
		}
		s.render(c, http.StatusOK, pageTemplates[route], inst)
	}
}

func (s *server) loadPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		inst, err := s.registry.Lookup(c.Param("page"))
		if err != nil {
			c.HTML(http.StatusGone, "page_gone", gin.H{})
			c.Abort()
			return
		}
		c.Set("page", inst)
		c.Next()
	}
}

func page(c *gin.Context) *pages.Instance {
	return c.MustGet("page").(*pages.Instance)
}

// controllerError maps a controller error to a status and renders it.
func (s *server) controllerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pages.ErrNoController):
		s.renderError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, viewstate.ErrUnknownPanel),
		errors.Is(err, viewstate.ErrUnknownInterest),
		errors.Is(err, viewstate.ErrUnknownField):
		s.renderError(c, http.StatusBadRequest, err.Error())
	default:
		s.log.Error(err, "page control failed")
		s.renderError(c, http.StatusInternalServerError, "Something went wrong.")
	}
}

func (s *server) unmountPage(c *gin.Context) {
	s.registry.Unmount(page(c).ID)
	c.Status(http.StatusNoContent)
}

func (s *server) toggleTheme(c *gin.Context) {
	inst := page(c)
	inst.ToggleTheme()
	s.render(c, http.StatusOK, bodyTemplates[inst.Route], inst)
}

func (s *server) toggleMenu(c *gin.Context) {
	inst := page(c)
	inst.ToggleMenu()
	s.render(c, http.StatusOK, "nav", inst)
}

func (s *server) closeMenu(c *gin.Context) {
	inst := page(c)
	inst.CloseMenu()
	s.render(c, http.StatusOK, "nav", inst)
}

func (s *server) selectTab(c *gin.Context) {
	inst := page(c)
	if err := inst.SelectTab(c.Param("tab")); err != nil {
		s.controllerError(c, err)
		return
	}
	s.render(c, http.StatusOK, "profile_tabs", inst)
}

func (s *server) togglePanel(c *gin.Context) {
	inst := page(c)
	id, err := strconv.Atoi(c.Param("panel"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, viewstate.ErrUnknownPanel.Error())
		return
	}
	if err := inst.TogglePanel(id); err != nil {
		s.controllerError(c, err)
		return
	}
	s.render(c, http.StatusOK, "about_accordion", inst)
}

func (s *server) openProject(c *gin.Context) {
	inst := page(c)
	id, err := strconv.Atoi(c.Param("project"))
	if err != nil {
		s.renderError(c, http.StatusBadRequest, viewstate.ErrUnknownPanel.Error())
		return
	}
	if err := inst.OpenProject(id); err != nil {
		s.controllerError(c, err)
		return
	}
	s.render(c, http.StatusOK, "project_modal", inst)
}

func (s *server) closeProject(c *gin.Context) {
	inst := page(c)
	if err := inst.CloseProject(); err != nil {
		s.controllerError(c, err)
		return
	}
	s.render(c, http.StatusOK, "project_modal", inst)
}

func (s *server) greeting(c *gin.Context) {
	s.render(c, http.StatusOK, "greeting", page(c))
}

func (s *server) updateField(c *gin.Context) {
	inst := page(c)
	form, err := inst.Form()
	if err != nil {
		s.controllerError(c, err)
		return
	}
	field, err := viewstate.ParseField(c.Param("field"))
	if err != nil {
		s.controllerError(c, err)
		return
	}
	if err := form.UpdateField(field, c.PostForm(string(field))); err != nil {
		s.controllerError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) selectInterest(c *gin.Context) {
	inst := page(c)
	form, err := inst.Form()
	if err != nil {
		s.controllerError(c, err)
		return
	}
	if err := form.SelectInterest(viewstate.Interest(c.PostForm("interest"))); err != nil {
		s.controllerError(c, err)
		return
	}
	s.render(c, http.StatusOK, "interest_grid", inst)
}

// submitContact applies the posted field values, then runs the submission.
// The response is held until the submission resolves.
func (s *server) submitContact(c *gin.Context) {
	inst := page(c)
	form, err := inst.Form()
	if err != nil {
		s.controllerError(c, err)
		return
	}

	for _, field := range []viewstate.Field{viewstate.FieldName, viewstate.FieldEmail, viewstate.FieldMessage} {
		if value, ok := c.GetPostForm(string(field)); ok {
			if err := form.UpdateField(field, value); err != nil {
				s.controllerError(c, err)
				return
			}
		}
	}

	outcome, err := form.Submit(c.Request.Context())
	if errors.Is(err, viewstate.ErrSubmitInProgress) {
		s.render(c, http.StatusConflict, "contact_form", inst)
		return
	}
	if err != nil {
		s.controllerError(c, err)
		return
	}

	log := s.log.WithFields(map[string]any{"page": inst.ID, "status": outcome.Status})
	if outcome.Result == viewstate.Success {
		log.Info("contact message accepted")
	} else {
		log.Warn("contact submission failed")
	}
	s.render(c, http.StatusOK, "contact_form", inst)
}
