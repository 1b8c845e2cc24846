package server

import (
	"net/http"
	"time"

	"github.com/CPU-commits/Intranet_BXams/live"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/middlewares"
	"github.com/CPU-commits/Intranet_BXams/models"
	controllers_query "github.com/CPU-commits/Intranet_BXams/query/controllers"
	"github.com/CPU-commits/Intranet_BXams/query/docs"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/CPU-commits/Intranet_BXams/stack"
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const BASE_PATH = "/api/xams"

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, &res.Response{
		Success: false,
		Message: "Too many requests. Try again in " + time.Until(info.ResetTime).String(),
	})
}

var settingsData = settings.GetSettings()

// checkOrigin accepts websocket handshakes from the client app only
func checkOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, allowed := range origins {
			if origin == allowed {
				return true
			}
		}
		return false
	}
}

func Init() {
	defer logger.Sync()
	log := logger.Get()
	if settingsData.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	httpOrigin := "http://" + settingsData.CLIENT_URL
	httpsOrigin := "https://" + settingsData.CLIENT_URL
	// Live monitor
	hub := live.NewHub(checkOrigin([]string{httpOrigin, httpsOrigin}))
	if err := hub.Listen(stack.NewNats()); err != nil {
		// The monitor stays silent but reads keep working
		logger.ReportError(err, zap.String("component", "live"))
	}

	router := gin.New()
	// Proxies
	router.SetTrustedProxies([]string{"localhost"})
	// Zap logger
	router.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths: []string{
			BASE_PATH + "/swagger",
			BASE_PATH + "/healthz",
			"/metrics",
		},
	}))
	router.Use(middlewares.Recovery())
	// Docs
	docs.SwaggerInfo.BasePath = BASE_PATH
	docs.SwaggerInfo.Version = "v1"
	docs.SwaggerInfo.Host = "localhost:8080"
	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{httpOrigin, httpsOrigin},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
	}))
	// Secure
	sslUrl := "ssl." + settingsData.CLIENT_URL
	secureConfig := secure.Config{
		SSLHost:              sslUrl,
		STSSeconds:           315360000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		IENoOpen:             true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
		SSLProxyHeaders: map[string]string{
			"X-Fowarded-Proto": "https",
		},
	}
	router.Use(secure.New(secureConfig))
	// Rate limit
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 7,
	})
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: ErrorHandler,
		KeyFunc:      keyFunc,
	})
	router.Use(mw)
	// Threats and metrics
	router.Use(middlewares.ThreatsMiddleware())
	router.Use(middlewares.MetricsMiddleware("query"))
	// Routes
	defaultRoles := []string{models.INSTRUCTOR, models.STUDENT}
	instructorRol := []string{models.INSTRUCTOR}

	auth := router.Group(
		BASE_PATH+"/auth",
		middlewares.JWTMiddleware(),
	)
	course := router.Group(
		BASE_PATH+"/course",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(defaultRoles),
	)
	group := router.Group(
		BASE_PATH+"/group",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(instructorRol),
	)
	exam := router.Group(
		BASE_PATH+"/exam",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(instructorRol),
	)
	schedule := router.Group(
		BASE_PATH+"/exam-schedule",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(defaultRoles),
	)
	attempt := router.Group(
		BASE_PATH+"/exam-attempt",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(defaultRoles),
	)
	search := router.Group(
		BASE_PATH+"/search",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(defaultRoles),
	)
	{
		// Init controllers
		authController := new(controllers_query.AuthController)
		courseController := new(controllers_query.CourseController)
		groupController := new(controllers_query.GroupController)
		examController := new(controllers_query.ExamController)
		scheduleController := new(controllers_query.ScheduleController)
		attemptController := new(controllers_query.AttemptController)
		searchController := new(controllers_query.SearchController)
		liveController := &controllers_query.LiveController{Hub: hub}
		// Define routes
		// Auth
		auth.GET("/me", authController.Me)
		// Course
		course.GET("", courseController.GetCourses)
		course.GET(
			"/:idCourse",
			middlewares.AuthorizedRouteCourse(),
			courseController.GetCourse,
		)
		course.GET(
			"/:idCourse/image",
			middlewares.AuthorizedRouteCourse(),
			courseController.GetImageURL,
		)
		course.GET(
			"/:idCourse/files",
			middlewares.AuthorizedRouteCourse(),
			courseController.GetFiles,
		)
		course.GET(
			"/:idCourse/files/:idFile",
			middlewares.AuthorizedRouteCourse(),
			courseController.GetFileURL,
		)
		course.GET(
			"/:idCourse/group",
			middlewares.AuthorizedRouteCourse(),
			groupController.GetGroups,
		)
		// Group
		group.GET("/:idGroup/students", groupController.GetStudents)
		// Exam
		exam.GET("", examController.GetExams)
		exam.GET("/:idExam", examController.GetExam)
		// Schedule
		schedule.GET("", scheduleController.GetSchedules)
		schedule.GET("/:idSchedule", scheduleController.GetSchedule)
		schedule.GET(
			"/:idSchedule/attempts",
			middlewares.RolesMiddleware(instructorRol),
			scheduleController.GetScheduleAttempts,
		)
		schedule.GET(
			"/:idSchedule/export",
			middlewares.RolesMiddleware(instructorRol),
			scheduleController.ExportResults,
		)
		schedule.GET(
			"/:idSchedule/reports",
			middlewares.RolesMiddleware(instructorRol),
			scheduleController.ExportReports,
		)
		schedule.GET(
			"/:idSchedule/live",
			middlewares.RolesMiddleware(instructorRol),
			liveController.Monitor,
		)
		// Attempt
		attempt.GET("/:idAttempt", attemptController.GetAttempt)
		attempt.GET("/:idAttempt/report", attemptController.AttemptReport)
		// Search
		search.GET("", searchController.Search)
	}
	// Route docs
	router.GET(BASE_PATH+"/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	// Route metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Route healthz
	router.GET(BASE_PATH+"/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, &res.Response{
			Success: true,
		})
	})
	// No route
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(404, res.Response{
			Success: false,
			Message: "Not found",
		})
	})
	// Init server
	if err := router.Run(); err != nil {
		log.Fatal("Error init server", zap.Error(err))
	}
}
