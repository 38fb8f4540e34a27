package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"progress-service/internal/config"
	"progress-service/internal/db"
	"progress-service/internal/event"
	"progress-service/internal/handlers"
	"progress-service/internal/repository"
	"progress-service/internal/service"
	"progress-service/pkg/discovery"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	if err := db.InitMongo(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.CloseDB()

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitMQ.URI != "" && cfg.RabbitMQ.Exchange != "" {
		var err error
		publisher, err = event.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Consul service registration
	if cfg.Consul.Address != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("Consul client init failed: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Consul registration failed: %v", err)
		} else {
			defer registry.Deregister()
		}
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

	database := db.Database

	// Progress pipeline
	progressRepo := repository.NewProgressRepository(database)
	progressService := service.NewProgressService(progressRepo, cfg.Curriculum.Lessons)
	progressHandler := handlers.NewProgressHandler(progressService)

	// Certificates
	certRepo := repository.NewCertificateRepository(database)
	certService := service.NewCertificateService(certRepo, progressService, publisher)
	certHandler := handlers.NewCertificateHandler(certService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes - dashboards and verification
	publicProgress := r.Group("/public/progress")
	{
		publicProgress.GET("/user/:id", func(c *gin.Context) {
			progressHandler.GetUserProgress(c)
			if publisher != nil {
				publisher.Publish("progress.dashboard_viewed", gin.H{"user_id": c.Param("id")})
			}
		})
		publicProgress.GET("/user/:id/track/:track", progressHandler.GetTrackProgress)
		publicProgress.GET("/user/:id/eligibility/:kind", func(c *gin.Context) {
			progressHandler.CheckEligibility(c)
			if publisher != nil {
				publisher.Publish("progress.eligibility_checked", gin.H{
					"user_id": c.Param("id"),
					"kind":    c.Param("kind"),
				})
			}
		})
	}

	publicCert := r.Group("/public/certificate")
	{
		publicCert.GET("/verify/:serial", certHandler.VerifyCertificate)
	}

	// Protected routes - client attempt reports and issuance
	protectedProgress := r.Group("/protected/progress")
	protectedProgress.Use(requireUserID())
	protectedProgress.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[PROGRESS] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))
	{
		protectedProgress.POST("/quiz", func(c *gin.Context) {
			progressHandler.ReportQuizAttempt(c)
			if publisher != nil {
				publisher.Publish("progress.quiz_attempt_reported", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		protectedProgress.POST("/simulation", func(c *gin.Context) {
			progressHandler.ReportSimulationAttempt(c)
			if publisher != nil {
				publisher.Publish("progress.simulation_attempt_reported", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		protectedProgress.POST("/pages", progressHandler.ReportPageCompletion)
	}

	protectedCert := r.Group("/protected/certificate")
	protectedCert.Use(requireUserID())
	{
		protectedCert.POST("/issue", certHandler.IssueCertificate)
		protectedCert.GET("/user/:id", certHandler.GetUserCertificates)
	}

	r.Run(cfg.Server.Host + ":" + cfg.Server.Port)
}

// requireUserID expects the gateway to have authenticated the caller and
// forwarded its identity; token issuance itself lives elsewhere.
func requireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
