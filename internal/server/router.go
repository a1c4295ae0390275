// Package server assembles repositories, services and handlers into the HTTP
// router served by cmd/api.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"ticketadmin/internal/audit"
	"ticketadmin/internal/authz"
	"ticketadmin/internal/metrics"
	"ticketadmin/internal/middleware"
	"ticketadmin/internal/modules/admin"
	"ticketadmin/internal/modules/auth"
	"ticketadmin/internal/modules/event"
	"ticketadmin/internal/modules/role"
	"ticketadmin/internal/modules/team"
	"ticketadmin/internal/pkg/jwt"
	"ticketadmin/internal/repository"
)

const APIPrefix = "/api/v1"

type Options struct {
	DB          *gorm.DB
	JWT         *jwt.Service
	Logger      zerolog.Logger
	Audit       *audit.Logger
	Metrics     *metrics.Metrics          // optional
	Limiter     *middleware.IPRateLimiter // optional, guards register and login
	CORSOrigins []string
}

func NewRouter(o Options) *gin.Engine {
	userRepo := repository.NewUserRepository(o.DB)
	roleRepo := repository.NewRoleRepository(o.DB)
	permissionRepo := repository.NewPermissionRepository(o.DB)
	teamRoleRepo := repository.NewTeamRoleRepository(o.DB)
	historyRepo := repository.NewLoginHistoryRepository(o.DB)
	tokenRepo := repository.NewTokenRepository(o.DB)
	eventRepo := repository.NewEventRepository(o.DB)

	gate := authz.NewGate(roleRepo, teamRoleRepo)
	ownership := middleware.NewOwnershipChecker(eventRepo, gate)

	var transitions admin.TransitionRecorder
	if o.Metrics != nil {
		transitions = o.Metrics
	}

	authHandler := auth.NewHandler(auth.NewService(userRepo, historyRepo, tokenRepo, teamRoleRepo, o.JWT, gate))
	adminHandler := admin.NewHandler(admin.NewService(userRepo, historyRepo, o.Audit, transitions), gate)
	roleHandler := role.NewHandler(role.NewService(roleRepo, permissionRepo, userRepo))
	teamHandler := team.NewHandler(team.NewService(userRepo, roleRepo, teamRoleRepo, gate))
	eventHandler := event.NewHandler(event.NewService(eventRepo, gate), ownership)

	r := gin.New()
	r.Use(middleware.RequestLogger(o.Logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(o.CORSOrigins))
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(o.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group(APIPrefix)

	var limit gin.HandlerFunc
	if o.Limiter != nil {
		limit = o.Limiter.Middleware()
	}
	authHandler.RegisterPublicRoutes(v1, limit)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(o.JWT, userRepo, tokenRepo))
	{
		authHandler.RegisterProtectedRoutes(protected)
		teamHandler.RegisterRoutes(protected)
		eventHandler.RegisterRoutes(protected)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup, gate)
			roleHandler.RegisterRoutes(adminGroup, gate)
		}
	}

	return r
}
