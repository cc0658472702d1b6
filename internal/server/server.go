package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/NirojT/AspBlogBacken/docs" // swagger docs
	"github.com/NirojT/AspBlogBacken/internal/cache"
	"github.com/NirojT/AspBlogBacken/internal/config"
	"github.com/NirojT/AspBlogBacken/internal/database"
	"github.com/NirojT/AspBlogBacken/internal/featureflags"
	"github.com/NirojT/AspBlogBacken/internal/middleware"
	"github.com/NirojT/AspBlogBacken/internal/models"
	"github.com/NirojT/AspBlogBacken/internal/notifications"
	"github.com/NirojT/AspBlogBacken/internal/render"
	"github.com/NirojT/AspBlogBacken/internal/repository"
	"github.com/NirojT/AspBlogBacken/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config              *config.Config
	db                  *gorm.DB
	redis               *redis.Client
	app                 *fiber.App
	promMiddleware      *fiberprometheus.FiberPrometheus
	shutdownCtx         context.Context
	shutdownFn          context.CancelFunc
	notifier            *notifications.Notifier
	hub                 *notifications.Hub
	flags               *featureflags.Manager
	blogService         *service.BlogService
	commentService      *service.CommentService
	reactionService     *service.ReactionService
	rankingService      *service.RankingService
	notificationService *service.NotificationService
	userService         *service.UserService
}

// NewServer connects to the database and Redis and builds a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; notifications are then delivered to this process's
// sockets only and write rate limits fail open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	renderer, err := render.New(0)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}

	userRepo := repository.NewUserRepository(db, cache.NewStore(redisClient))
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blog-api"),
		notifier:       notifications.NewNotifier(redisClient),
		hub:            notifications.NewHub(),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
	}

	logger := middleware.Logger
	publisher := flaggedPublisher{
		flags: server.flags,
		next:  notifications.NewDelivery(server.notifier, server.hub),
	}
	server.notificationService = service.NewNotificationService(notificationRepo, publisher, logger)
	server.blogService = service.NewBlogService(blogRepo, userRepo, renderer)
	server.commentService = service.NewCommentService(commentRepo, blogRepo, userRepo,
		server.notificationService, logger)
	server.reactionService = service.NewReactionService(reactionRepo, blogRepo, commentRepo, userRepo,
		server.notificationService, logger)
	server.rankingService = service.NewRankingService(blogRepo, reactionRepo, commentRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// flaggedPublisher drops realtime pushes for recipients outside the
// realtime_notifications rollout. The notification is stored either way.
type flaggedPublisher struct {
	flags *featureflags.Manager
	next  service.Publisher
}

func (p flaggedPublisher) PublishUser(ctx context.Context, userID uint, payload string) error {
	if !p.flags.Enabled(featureflags.RealtimeNotifications, userID) {
		return nil
	}
	return p.next.PublishUser(ctx, userID, payload)
}

func (s *Server) tokenConfig() middleware.TokenConfig {
	return middleware.TokenConfig{
		Secret:   s.config.JWTSecret,
		Issuer:   s.config.JWTIssuer,
		Audience: s.config.JWTAudience,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// writeLimit throttles a mutating route per user.
func (s *Server) writeLimit(name string) fiber.Handler {
	limit := s.config.WriteRateLimit
	if limit <= 0 {
		limit = 30
	}
	return middleware.RateLimit(s.redis, limit, time.Minute, name, middleware.FailOpen)
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	auth := s.AuthRequired()

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Get("/leaderboard", s.GetLeaderboard)

	// Static segments are registered before /:id.
	blogs := api.Group("/blogs")
	blogs.Get("/", s.GetBlogs)
	blogs.Get("/recent", s.GetRecentBlogs)
	blogs.Get("/search", s.SearchBlogs)
	blogs.Get("/count", s.CountBlogs)
	blogs.Post("/", auth, s.writeLimit("create_blog"), s.CreateBlog)
	blogs.Get("/:id/comments", s.GetBlogComments)
	blogs.Get("/:id/comments/:commentId", s.GetCommentThread)
	blogs.Get("/:id/reactions", s.GetBlogReactions)
	blogs.Post("/:id/comments", auth, s.writeLimit("create_comment"), s.CreateComment)
	blogs.Post("/:id/comments/:commentId/replies", auth, s.writeLimit("create_reply"), s.CreateReply)
	blogs.Put("/:id/comments/:commentId", auth, s.UpdateComment)
	blogs.Delete("/:id/comments/:commentId", auth, s.DeleteComment)
	blogs.Post("/:id/reactions", auth, s.writeLimit("react"), s.ReactToBlog)
	blogs.Post("/:id/comments/:commentId/reactions", auth, s.writeLimit("react"), s.ReactToComment)
	blogs.Get("/:id", s.GetBlog)
	blogs.Put("/:id", auth, s.UpdateBlog)
	blogs.Delete("/:id", auth, s.DeleteBlog)

	comments := api.Group("/comments")
	comments.Get("/", s.GetAllComments)
	comments.Get("/count", s.CountComments)
	comments.Get("/:commentId/reactions", s.GetCommentReactions)

	reactions := api.Group("/reactions")
	reactions.Get("/", s.GetReactions)
	reactions.Get("/counts", s.GetReactionCounts)
	reactions.Post("/", auth, s.writeLimit("react"), s.CreateReaction)
	reactions.Get("/:id", s.GetReaction)
	reactions.Put("/:id", auth, s.UpdateReaction)
	reactions.Delete("/:id", auth, s.DeleteReaction)

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Get("/count", s.CountUsers)
	users.Get("/me", auth, s.GetMe)
	users.Get("/:id/blogs", s.GetUserBlogs)
	users.Get("/:id", s.GetUser)

	api.Get("/notifications", auth, s.GetMyNotifications)
	api.Get("/features", auth, s.GetFeatureFlags)

	api.Post("/ws/ticket", auth, s.IssueWSTicket)
	api.Get("/ws", auth, s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": s.config.ServiceVersion,
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired resolves the acting user from a single-use websocket ticket
// or a bearer token.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isWSPath := strings.HasPrefix(c.Path(), "/api/ws")

		// 1. WebSocket ticket (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" && s.redis != nil {
			userIDStr, err := s.redis.GetDel(c.UserContext(), cache.WSTicketKey(ticket)).Result()
			if err == nil {
				if userID, parseErr := strconv.ParseUint(userIDStr, 10, 32); parseErr == nil && userID != 0 {
					return s.authenticated(c, uint(userID))
				}
			} else if !errors.Is(err, redis.Nil) {
				middleware.RedisErrors.WithLabelValues("ws_ticket").Inc()
			}
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Bearer token; the query form is refused on websocket routes.
		tokenString := middleware.BearerToken(c)
		if tokenString == "" && !isWSPath {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := middleware.ParseUserID(s.tokenConfig(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}
		return s.authenticated(c, userID)
	}
}

func (s *Server) authenticated(c *fiber.Ctx, userID uint) error {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
	return c.Next()
}

// newApp builds the Fiber application with middleware and routes.
func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Blog Engagement API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, err)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.newApp()

	if s.notifier.Enabled() {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error("failed to start hub wiring",
					slog.String("hub", s.hub.Name()), slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
