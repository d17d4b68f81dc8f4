package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"gazequest/internal/repository"
)

// RunLoaderMiddleware checks for a run id in the session. If found, it loads
// the run from the database and adds it to the context. This keeps stale
// cookies from pointing at runs that no longer exist.
func RunLoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		runID, ok := session.Get("runID").(int)
		if !ok {
			c.Next()
			return
		}

		run, err := repository.GetRun(runID)
		if err != nil {
			// The session references a deleted or bogus run. Clear it and
			// treat the caller as a newcomer.
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		c.Set("run", run)
		c.Next()
	}
}

// RunRequired rejects requests that arrive without a loaded run.
func RunRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("run"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no active run"})
			return
		}
		c.Next()
	}
}
