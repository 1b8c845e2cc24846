package server

import (
	"net/http"
	"time"

	"github.com/CPU-commits/Intranet_BXams/feed/controllers"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/middlewares"
	"github.com/CPU-commits/Intranet_BXams/models"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/CPU-commits/Intranet_BXams/settings"
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
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

func Init() {
	defer logger.Sync()
	log := logger.Get()
	if settingsData.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	// Collections and subscriptions
	if err := models.InitCollections(); err != nil {
		log.Fatal("init collections", zap.Error(err))
	}
	if err := services.InitSubscriptions(); err != nil {
		// Expired attempts still close lazily on read
		logger.ReportError(err, zap.String("component", "subscriptions"))
	}

	router := gin.New()
	// Proxies
	router.SetTrustedProxies([]string{"localhost"})
	// Zap logger
	router.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{BASE_PATH + "/healthz"},
	}))
	router.Use(middlewares.Recovery())
	// CORS
	httpOrigin := "http://" + settingsData.CLIENT_URL
	httpsOrigin := "https://" + settingsData.CLIENT_URL
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{httpOrigin, httpsOrigin},
		AllowMethods:     []string{"OPTIONS", "PUT", "DELETE", "POST"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
		AllowWebSockets:  false,
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
	router.Use(middlewares.MetricsMiddleware("feed"))
	// Validators
	InitValidators()
	// Routes
	instructorRol := []string{models.INSTRUCTOR}
	studentRol := []string{models.STUDENT}
	defaultRoles := []string{models.INSTRUCTOR, models.STUDENT}

	auth := router.Group(BASE_PATH + "/auth")
	course := router.Group(
		BASE_PATH+"/course",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(instructorRol),
	)
	group := router.Group(
		BASE_PATH+"/group",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(defaultRoles),
	)
	exam := router.Group(
		BASE_PATH+"/exam",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(instructorRol),
	)
	schedule := router.Group(
		BASE_PATH+"/exam-schedule",
		middlewares.JWTMiddleware(),
		middlewares.RolesMiddleware(instructorRol),
	)
	attempt := router.Group(
		BASE_PATH+"/exam-attempt",
		middlewares.JWTMiddleware(),
	)
	{
		// Init controllers
		authController := new(controllers.AuthController)
		courseController := new(controllers.CourseController)
		groupController := new(controllers.GroupController)
		examController := new(controllers.ExamController)
		scheduleController := new(controllers.ScheduleController)
		attemptController := new(controllers.AttemptController)
		// Define routes
		// Auth
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
		// Course
		course.POST("", courseController.NewCourse)
		course.PUT("/:idCourse", courseController.UpdateCourse)
		course.DELETE("/:idCourse", courseController.DeleteCourse)
		course.POST("/:idCourse/image", courseController.UploadImage)
		course.POST("/:idCourse/files", courseController.UploadFiles)
		course.DELETE("/:idCourse/files/:idFile", courseController.DeleteFile)
		course.POST("/:idCourse/group", groupController.NewGroup)
		// Group
		group.POST(
			"/join",
			middlewares.RolesMiddleware(studentRol),
			groupController.JoinGroup,
		)
		group.PUT(
			"/:idGroup",
			middlewares.RolesMiddleware(instructorRol),
			groupController.RenameGroup,
		)
		group.POST(
			"/:idGroup/code",
			middlewares.RolesMiddleware(instructorRol),
			groupController.RegenerateCode,
		)
		group.DELETE(
			"/:idGroup",
			middlewares.RolesMiddleware(instructorRol),
			groupController.DeleteGroup,
		)
		group.DELETE(
			"/:idGroup/students/:idStudent",
			middlewares.RolesMiddleware(instructorRol),
			groupController.RemoveStudent,
		)
		group.DELETE(
			"/:idGroup/leave",
			middlewares.RolesMiddleware(studentRol),
			groupController.LeaveGroup,
		)
		// Exam
		exam.POST("", examController.NewExam)
		exam.PUT("/:idExam", examController.UpdateExam)
		exam.DELETE("/:idExam", examController.DeleteExam)
		// Schedule
		schedule.POST("", scheduleController.NewSchedule)
		schedule.PUT("/:idSchedule", scheduleController.UpdateSchedule)
		schedule.DELETE("/:idSchedule", scheduleController.DeleteSchedule)
		schedule.POST("/:idSchedule/publish", scheduleController.PublishResults)
		// Attempt
		attempt.POST(
			"/:idSchedule/start",
			middlewares.RolesMiddleware(studentRol),
			attemptController.StartAttempt,
		)
		attempt.PUT(
			"/:idAttempt/answer/:idQuestion",
			middlewares.RolesMiddleware(studentRol),
			attemptController.SaveAnswer,
		)
		attempt.POST(
			"/:idAttempt/submit",
			middlewares.RolesMiddleware(studentRol),
			attemptController.SubmitAttempt,
		)
		attempt.PUT(
			"/:idAttempt/grade/:idQuestion",
			middlewares.RolesMiddleware(instructorRol),
			attemptController.GradeAnswer,
		)
	}
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
