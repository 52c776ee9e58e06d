package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campusreview/campus-service/internal/app/campus/config"
	"campusreview/campus-service/internal/app/campus/handler"
	"campusreview/campus-service/internal/app/campus/infrastructure/messaging"
	"campusreview/campus-service/internal/app/campus/repository"
	"campusreview/campus-service/internal/app/campus/service"
	"campusreview/pkg/logger"
)

const serviceName = "campus-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// Без Redis не работает только отзыв токенов, /health покажет проблему
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis is unavailable")
	} else {
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}
	pingCancel()

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Strs("brokers", cfg.Kafka.Brokers).
		Msg("Initialized Kafka producer")

	userRepo := repository.NewUserRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)

	commentService := service.NewCommentService(commentRepo, ownerRepo, userRepo, kafkaProducer)
	ratingService := service.NewRatingService(courseRepo, kafkaProducer)
	courseService := service.NewCourseService(courseRepo, userRepo, professorRepo, commentRepo, documentRepo)
	reviewService := service.NewReviewService(reviewRepo, userRepo, professorRepo, courseRepo, kafkaProducer)
	authService := service.NewAuthService(tokenRepo)

	health := handler.NewHealthHandler(serviceName, map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
		"redis":   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	})

	router := handler.SetupRoutes(handler.Handlers{
		Comments: handler.NewCommentHandler(commentService),
		Courses:  handler.NewCourseHandler(courseService, ratingService),
		Reviews:  handler.NewReviewHandler(reviewService),
		Auth:     handler.NewAuthHandler(authService),
		Health:   health,
	}, handler.NewAuthMiddleware(cfg.JWT.Secret, authService), cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Campus Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Campus Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logger.Info().Msg("Campus Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var err error
	for i := 0; i < 10; i++ {
		var client *mongo.Client
		client, err = tryConnectMongoDB(clientOptions, cfg.ConnectTimeout)
		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func tryConnectMongoDB(clientOptions *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
