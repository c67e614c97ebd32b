package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/controllers"
	"github.com/pontualapp/pontual/middleware"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/store"
	"github.com/pontualapp/pontual/upstream"
	"github.com/pontualapp/pontual/utils"
)

// SetupRouter wires middleware, controllers and routes into a Gin engine.
func SetupRouter(api upstream.CheckAPI, sess *session.Manager, st *store.Store, mon *upstream.Monitor) *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	r := gin.New()

	accessLogger, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel,
		cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(accessLogger, "2006-01-02 15:04:05", false))
		r.Use(utils.RecoveryWithZap(accessLogger, true))
	} else {
		r.Use(gin.Logger(), gin.Recovery())
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	auth := controllers.NewAuthController(api, sess)
	checkin := controllers.NewCheckinController(api, sess, st)
	ranking := controllers.NewRankingController(api, sess, st)
	profile := controllers.NewProfileController(sess, st)

	r.GET("/health", func(ctx *gin.Context) {
		status := "online"
		if !mon.Online() {
			status = "offline"
		}
		utils.Success(ctx, gin.H{"status": "ok", "upstream": status})
	})

	public := r.Group("/", middleware.RateLimitMiddleware())
	{
		public.POST(config.RouteLogin, auth.Login)
		public.POST(config.RouteCreateUser, auth.CreateUser)
		public.POST(config.RouteResetPassword, auth.ResetPassword)
	}

	protected := r.Group("/", middleware.SessionRequired(sess))
	{
		protected.POST("/logout", auth.Logout)
		protected.GET(config.RouteCheckin, checkin.Status)
		protected.POST(config.RouteCheckin, checkin.Do)
		protected.POST(config.RouteCheckin+"/reset", checkin.Reset)
		protected.GET(config.RouteRanking, ranking.Get)
		protected.GET(config.RouteProfile, profile.Get)
		protected.PUT(config.RouteProfile, profile.Update)
	}

	// Root and unknown paths always land on the login route.
	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, config.RouteLogin)
	})
	r.NoRoute(func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, config.RouteLogin)
	})

	return r
}
