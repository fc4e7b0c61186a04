package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniceg/eunice-dev/internal/logger"
	"github.com/uniceg/eunice-dev/internal/viewstate"
	"github.com/uniceg/eunice-dev/internal/visits"
)

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Request(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// visitorTracking records full page views. Static assets, HTMX fragments and
// requests carrying Do Not Track are skipped.
func visitorTracking(store *visits.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !viewstate.KnownRoute(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, userAgent := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Record(ctx, ip, userAgent, path); err != nil {
				log.Error(err, "record visit")
			}
		}()
		c.Next()
	}
}
