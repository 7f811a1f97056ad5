package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"mockquiz-service/internal/access"
	"mockquiz-service/internal/cache"
	"mockquiz-service/internal/db"
	"mockquiz-service/internal/event"
	"mockquiz-service/internal/handlers"
	"mockquiz-service/internal/repository"
	"mockquiz-service/internal/selection"
	"mockquiz-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)

	// RabbitMQ event publisher
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.EventPublisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(rabbitURL, eventExchange, logger)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		logger.Info("RabbitMQ not configured, events will not be published")
	}

	// Redis cache for access rules
	var ruleCache *cache.RuleCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		ruleCache = cache.NewRuleCache(redis.NewClient(opts), logger)
	} else {
		logger.Info("Redis not configured, access rules read from MongoDB on every request")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database("mockquiz_service")

	ruleRepo := repository.NewAccessRuleRepository(database)
	enrollmentRepo := repository.NewEnrollmentRepository(database)
	userRepo := repository.NewUserRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	usageRepo := repository.NewUsageRepository(database)
	receiptRepo := repository.NewReceiptRepository(database)
	txRunner := repository.NewMongoTxRunner(db.Client)

	resolver := access.NewResolver(ruleRepo, enrollmentRepo, ruleCache, logger)
	selector := selection.NewSelector(questionRepo, usageRepo, nil, logger)

	quizService := service.NewQuizService(quizRepo, userRepo, usageRepo, questionRepo, receiptRepo, txRunner, resolver, selector, publisher, logger)
	questionService := service.NewQuestionService(questionRepo, publisher, logger)
	ruleService := service.NewAccessRuleService(ruleRepo, enrollmentRepo, ruleCache, publisher, logger)
	usageService := service.NewUsageService(userRepo, usageRepo, questionRepo, resolver, logger)

	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	ruleHandler := handlers.NewAccessRuleHandler(ruleService)
	usageHandler := handlers.NewUsageHandler(usageService)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes - question catalog browsing
	publicQuestion := r.Group("/public/mockquiz/question")
	{
		publicQuestion.GET("/", func(c *gin.Context) {
			questionHandler.ListQuestions(c)
			if publisher != nil {
				publisher.Publish(event.QuestionListed, gin.H{"subject": c.Query("subject")})
			}
		})
		publicQuestion.GET("/:id", func(c *gin.Context) {
			questionHandler.GetQuestion(c)
			if publisher != nil {
				publisher.Publish(event.QuestionFetched, gin.H{"id": c.Param("id")})
			}
		})
	}

	// Protected routes - quiz creation and reads
	protectedQuiz := r.Group("/protected/mockquiz/quiz")
	protectedQuiz.Use(requireUser())
	{
		protectedQuiz.POST("/", quizHandler.CreateMockQuiz)
		protectedQuiz.GET("/", quizHandler.ListMyQuizzes)
		protectedQuiz.GET("/:id", quizHandler.GetQuiz)
	}

	// Protected routes - quota and pool visibility
	protectedUsage := r.Group("/protected/mockquiz/usage")
	protectedUsage.Use(requireUser())
	{
		protectedUsage.GET("/", usageHandler.GetMyUsage)
		protectedUsage.GET("/pool/:subject", usageHandler.GetSubjectPool)
		protectedUsage.GET("/enrollments", ruleHandler.ListMyEnrollments)
	}

	// Protected routes - question administration
	protectedQuestion := r.Group("/protected/mockquiz/question")
	protectedQuestion.Use(requireUser())
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.POST("/bulk", questionHandler.CreateQuestions)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	// Protected routes - access rule administration
	protectedRule := r.Group("/protected/mockquiz/access-rule")
	protectedRule.Use(requireUser())
	{
		protectedRule.POST("/", ruleHandler.CreateRule)
		protectedRule.GET("/", ruleHandler.ListRules)
		protectedRule.GET("/:id", ruleHandler.GetRule)
		protectedRule.PUT("/:id", ruleHandler.UpdateRule)
		protectedRule.DELETE("/:id", ruleHandler.DeactivateRule)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "6666"
	}
	r.Run(":" + port)
}

// requireUser trusts the gateway-set X-User-ID header and exposes it to
// handlers as the authenticated user.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
