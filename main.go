package main

import (
	"EmotionTrackerGo/client"
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/middleware"
	"EmotionTrackerGo/routes"
	"EmotionTrackerGo/services"
	"EmotionTrackerGo/utils"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "emotion-tracker",
		Short:         "Webcam emotion logging service and capture agent",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing the .env file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configDir)
		},
	}

	var frameDir string
	capture := &cobra.Command{
		Use:   "capture",
		Short: "Capture frames periodically and submit them to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), configDir, frameDir)
		},
	}
	capture.Flags().StringVar(&frameDir, "frames", "", "directory of frames to replay (overrides AGENT_FRAME_DIR)")

	root.AddCommand(serve, capture)
	root.RunE = serve.RunE
	return root
}

func runServer(configDir string) error {
	conf, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := config.InitLogger(conf); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer config.Logger.Sync()

	if conf.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	utils.SetJWTKey(conf.JWTSecret)

	if err := config.InitDB(conf); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	var opts []services.EmotionServiceOption
	opts = append(opts, services.WithRecentWindow(conf.RecentWindow))
	if err := config.InitRedis(context.Background(), conf); err != nil {
		// reports fall back to the stored snapshot history
		config.Logger.Warnw("redis unavailable, dashboard summary cache disabled", "error", err)
	} else {
		// a cached summary lives as long as the window it describes
		cacheTTL := conf.RecentWindow
		if cacheTTL <= 0 {
			cacheTTL = services.DefaultRecentWindow
		}
		opts = append(opts, services.WithSnapshotCache(services.NewRedisSnapshotCache(config.RedisClient, cacheTTL)))
	}

	classifier, err := newClassifier(conf)
	if err != nil {
		return fmt.Errorf("init classifier: %w", err)
	}

	emotionService := services.NewEmotionService(
		classifier,
		services.NewGormEmotionStore(config.DB),
		services.NewGormGoalStore(config.DB),
		services.NewGormSnapshotStore(config.DB),
		opts...,
	)

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	middleware.SetupMiddleware(r)
	routes.RegisterRoutes(r, emotionService, conf.RateLimitPerMinute)

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		config.Logger.Infow("server listening", "port", conf.ServerPort, "classifier", conf.ClassifierBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	config.Logger.Infow("server stopped")
	return nil
}

func newClassifier(conf config.Config) (services.Classifier, error) {
	switch conf.ClassifierBackend {
	case "http":
		return services.NewHTTPClassifier(services.HTTPClassifierConfig{
			URL:     conf.ClassifierURL,
			Timeout: conf.ClassifierTimeout,
		}), nil
	case "llm":
		return services.NewVisionClassifier(conf.VisionAPIKey, conf.VisionAPIEndpoint, conf.VisionModel)
	default:
		return nil, fmt.Errorf("unknown CLASSIFIER_BACKEND %q", conf.ClassifierBackend)
	}
}

func runCapture(ctx context.Context, configDir, frameDir string) error {
	conf, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := config.InitLogger(conf); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer config.Logger.Sync()
	if frameDir == "" {
		frameDir = conf.AgentFrameDir
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewAPIClient(conf.AgentServerURL, conf.AgentToken, conf.ClassifierTimeout)
	poller := client.NewPoller(client.NewDirectorySource(frameDir), api, client.NewLogRenderer(config.Logger),
		client.WithInterval(conf.AgentInterval),
		client.WithDuration(conf.AgentDuration),
	)
	return poller.Run(ctx)
}
