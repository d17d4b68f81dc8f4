package router

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"gazequest/internal/config"
	"gazequest/internal/handlers"
	"gazequest/internal/models"
	"gazequest/internal/utils"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

func Setup(log *zap.Logger, qn *models.Questionnaire) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secret := config.Conf.Server.SessionSecret
	if secret == "" || secret == "change-me" {
		// An unconfigured secret gets a random ephemeral one; sessions then
		// die with the process, which beats a guessable cookie key.
		generated, err := utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatal("Failed to generate session secret", zap.Error(err))
		}
		log.Warn("No session secret configured, using an ephemeral random one")
		secret = generated
	}

	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	router.Use(sessions.Sessions("gazequest_session", store))

	router.Use(RunLoaderMiddleware())

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	router.Static("/assets", "./assets")

	// Handlers and routes
	runHandler := handlers.NewRunHandler(log, qn)
	gazeHandler := handlers.NewGazeHandler(log, qn)
	resultsHandler := handlers.NewResultsHandler(log, qn)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	api := router.Group("/api")
	{
		api.POST("/runs", limiter, runHandler.Start)

		active := api.Group("/runs")
		active.Use(RunRequired())
		{
			active.GET("/current/question", runHandler.CurrentQuestion)
		}

		api.GET("/runs/:id/export.csv", resultsHandler.ExportAnswers)
		api.GET("/runs/:id/events.csv", resultsHandler.ExportEvents)
	}

	ws := router.Group("/ws")
	ws.Use(RunRequired())
	{
		ws.GET("/gaze", gazeHandler.Stream)
	}

	router.GET("/results/:id/timeline", resultsHandler.ShowTimeline)

	return router
}
