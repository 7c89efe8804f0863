package main

import (
	"net/http"
	"time"

	"github.com/ideahub/api/internal/database"
	"github.com/ideahub/api/internal/handler"
	"github.com/ideahub/api/internal/middleware"
	"github.com/ideahub/api/internal/repository"
	"github.com/ideahub/api/internal/search"
	"github.com/ideahub/api/internal/service"
	"github.com/ideahub/api/pkg/jwt"
)

// services is the wired business layer the router serves
type services struct {
	tokens        *service.TokenService
	auth          *service.AuthService
	ideas         *service.IdeaService
	comments      *service.CommentService
	collaborators *service.CollaboratorService
	workspaces    *service.WorkspaceService
	notifications *service.NotificationService
	registry      *service.RegistryService
}

type servicesConfig struct {
	DB         database.Database
	JWT        *jwt.Service
	TokenStore service.TokenStore // nil keeps refresh tokens in the database
	Index      search.Index       // nil searches the store
	Hub        *service.EventHub
	RefreshTTL time.Duration
}

func newServices(cfg servicesConfig) *services {
	userRepo := repository.NewUserRepository(cfg.DB)
	ideaRepo := repository.NewIdeaRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	workspaceRepo := repository.NewWorkspaceRepository(cfg.DB)
	collaboratorRepo := repository.NewCollaboratorRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)
	registryRepo := repository.NewRegistryRepository(cfg.DB)

	tokenStore := cfg.TokenStore
	if tokenStore == nil {
		tokenStore = repository.NewTokenRepository(cfg.DB)
	}

	tokens := service.NewTokenService(service.TokenServiceConfig{
		JWTService:      cfg.JWT,
		Store:           tokenStore,
		RefreshDuration: cfg.RefreshTTL,
	})

	notifications := service.NewNotificationService(notificationRepo)
	if cfg.Hub != nil {
		notifications.WithHub(cfg.Hub)
	}

	return &services{
		tokens: tokens,
		auth: service.NewAuthService(service.AuthServiceConfig{
			UserRepo:     userRepo,
			TokenService: tokens,
		}),
		ideas: service.NewIdeaService(service.IdeaServiceConfig{
			Repo:     ideaRepo,
			Searcher: search.NewService(cfg.Index, ideaRepo),
		}),
		comments: service.NewCommentService(service.CommentServiceConfig{
			Repo:     commentRepo,
			IdeaRepo: ideaRepo,
			Notifier: notifications,
		}),
		collaborators: service.NewCollaboratorService(service.CollaboratorServiceConfig{
			Repo:     collaboratorRepo,
			IdeaRepo: ideaRepo,
			UserRepo: userRepo,
			Notifier: notifications,
		}),
		workspaces:    service.NewWorkspaceService(workspaceRepo, collaboratorRepo),
		notifications: notifications,
		registry:      service.NewRegistryService(registryRepo),
	}
}

type routerConfig struct {
	Health         *handler.HealthHandler
	Streams        handler.NotificationStreams // nil disables the event stream
	AuthLimiter    middleware.Limiter          // nil disables rate limiting
	AllowedOrigins []string
}

// newRouter registers every endpoint and wraps the mux in the global chain
func newRouter(svc *services, cfg routerConfig) http.Handler {
	authHandler := handler.NewAuthHandler(svc.auth)
	ideaHandler := handler.NewIdeaHandler(svc.ideas)
	commentHandler := handler.NewCommentHandler(svc.comments)
	collaboratorHandler := handler.NewCollaboratorHandler(svc.collaborators)
	workspaceHandler := handler.NewWorkspaceHandler(svc.workspaces)
	notificationHandler := handler.NewNotificationHandler(svc.notifications, cfg.Streams)
	registryHandler := handler.NewRegistryHandler(svc.registry)

	healthHandler := cfg.Health
	if healthHandler == nil {
		healthHandler = handler.NewHealthHandler()
	}

	mux := http.NewServeMux()
	authMiddleware := middleware.Auth(svc.tokens)
	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimit(cfg.AuthLimiter)(h)
	}

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints
	mux.Handle("POST /api/auth/register", limited(authHandler.Register))
	mux.Handle("POST /api/auth/login", limited(authHandler.Login))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.Handle("POST /api/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))

	// Idea endpoints. Listing and reads accept an optional caller.
	mux.HandleFunc("GET /api/ideas", ideaHandler.List)
	mux.Handle("POST /api/ideas", authMiddleware(http.HandlerFunc(ideaHandler.Create)))
	mux.HandleFunc("GET /api/ideas/search", ideaHandler.Search)
	mux.HandleFunc("GET /api/ideas/{id}", ideaHandler.Get)

	// Comment endpoints
	mux.HandleFunc("GET /api/ideas/{id}/comments", commentHandler.List)
	mux.Handle("POST /api/ideas/{id}/comments", authMiddleware(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("PATCH /api/comments/{id}", authMiddleware(http.HandlerFunc(commentHandler.Update)))
	mux.Handle("DELETE /api/comments/{id}", authMiddleware(http.HandlerFunc(commentHandler.Delete)))
	mux.Handle("POST /api/comments/{id}/vote", authMiddleware(http.HandlerFunc(commentHandler.Vote)))

	// Collaborator endpoints
	mux.Handle("POST /api/ideas/{id}/collaborators", authMiddleware(http.HandlerFunc(collaboratorHandler.Add)))
	mux.Handle("DELETE /api/ideas/{id}/collaborators/{userId}", authMiddleware(http.HandlerFunc(collaboratorHandler.Remove)))

	// Notification endpoints
	mux.Handle("GET /api/notifications", authMiddleware(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("GET /api/notifications/stream", authMiddleware(http.HandlerFunc(notificationHandler.Stream)))
	mux.Handle("PATCH /api/notifications/{id}/read", authMiddleware(http.HandlerFunc(notificationHandler.MarkRead)))

	// Workspace endpoints
	mux.HandleFunc("GET /api/workspace", workspaceHandler.List)
	mux.HandleFunc("POST /api/workspace", workspaceHandler.Create)
	mux.HandleFunc("GET /api/workspace/{id}", workspaceHandler.Get)
	mux.HandleFunc("PATCH /api/workspace/{id}", workspaceHandler.Update)
	mux.HandleFunc("DELETE /api/workspace/{id}", workspaceHandler.Delete)

	// Service registry
	mux.HandleFunc("GET /api/services", registryHandler.List)

	// Platform functions check their own verb so that 405 uses their envelope
	mux.HandleFunc("/functions/ideas-list", ideaHandler.ListPublic)
	mux.HandleFunc("/functions/collaborators-list", collaboratorHandler.List)
	mux.HandleFunc("/functions/auth-signout", authHandler.SignOut)

	// Apply global middleware (first runs outermost)
	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Compress,
		middleware.OptionalAuth(svc.tokens),
	)
}
