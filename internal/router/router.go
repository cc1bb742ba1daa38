package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/DeonBratus/small-transcriptor/internal/handlers"
	"github.com/DeonBratus/small-transcriptor/internal/session"
	"github.com/DeonBratus/small-transcriptor/internal/status"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// Deps bundles everything the routes need.
type Deps struct {
	Log          *zap.Logger
	Transcriptor handlers.TranscriptorClient
	Judge        handlers.JudgeClient
	Poller       *status.Poller
	Transcript   *session.Transcription
	Evaluation   *session.Evaluation
}

func Setup(d Deps) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(d.Log))

	// The remote backends are CORS-open; the dashboard's own API is too.
	router.Use(cors.Default())

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
	router.LoadHTMLGlob("views/*.html")

	// Handlers and routes
	pagesHandler := handlers.NewPagesHandler(d.Log)
	statusHandler := handlers.NewStatusHandler(d.Log, d.Poller)
	transcribeHandler := handlers.NewTranscribeHandler(d.Log, d.Transcriptor, d.Transcript)
	evaluateHandler := handlers.NewEvaluateHandler(d.Log, d.Judge, d.Evaluation)

	// Uploads kick off minutes-long remote inference; keep them rate limited.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/", pagesHandler.Index)

	api := router.Group("/api")
	{
		api.GET("/status", statusHandler.GetStatus)
		api.GET("/models", evaluateHandler.GetModels)

		api.POST("/transcribe", limiter, transcribeHandler.Transcribe)
		api.POST("/transcribe/download", limiter, transcribeHandler.Download)
		api.GET("/transcription", transcribeHandler.GetTranscription)

		api.POST("/evaluate", limiter, evaluateHandler.Evaluate)
		api.GET("/evaluation", evaluateHandler.GetEvaluation)
	}

	return router
}
