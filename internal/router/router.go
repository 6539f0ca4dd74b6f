package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appointmenth "github.com/Juniorkpabitey/virtra/internal/handler/appointment"
	authh "github.com/Juniorkpabitey/virtra/internal/handler/auth"
	chath "github.com/Juniorkpabitey/virtra/internal/handler/chat"
	doctorh "github.com/Juniorkpabitey/virtra/internal/handler/doctor"
	healthh "github.com/Juniorkpabitey/virtra/internal/handler/health"
	profileh "github.com/Juniorkpabitey/virtra/internal/handler/profile"
	prometheush "github.com/Juniorkpabitey/virtra/internal/handler/prometheus"
	"github.com/Juniorkpabitey/virtra/internal/middleware"
	"github.com/Juniorkpabitey/virtra/internal/model"
)

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	// StaticDir, when set, is served under /static for avatar URLs.
	StaticDir string
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authh.Handler
	profileH     *profileh.Handler
	doctorH      *doctorh.Handler
	appointmentH *appointmenth.Handler
	chatH        *chath.Handler
	healthH      *healthh.Handler
	metricsH     *prometheush.Handler
	config       Config
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authh.Handler,
	profileH *profileh.Handler,
	doctorH *doctorh.Handler,
	appointmentH *appointmenth.Handler,
	chatH *chath.Handler,
	healthH *healthh.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		profileH:     profileH,
		doctorH:      doctorH,
		appointmentH: appointmentH,
		chatH:        chatH,
		healthH:      healthH,
		metricsH:     prometheush.New(),
		config:       config,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsH.Middleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: 30 * time.Second}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	if r.config.StaticDir != "" {
		r.engine.Static("/static", r.config.StaticDir)
	}

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	r.healthH.RegisterRoutes(rg)
	rg.GET("/health/metrics", r.metricsH.Handler())
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterProtectedRoutes(rg)
	r.profileH.RegisterRoutes(rg)
	r.doctorH.RegisterRoutes(rg)
	r.appointmentH.RegisterRoutes(rg)
	r.chatH.RegisterRoutes(rg)

	// Doctor portal routes, restricted to doctor accounts.
	doctor := rg.Group("/doctor")
	doctor.Use(r.auth.RequireUserType(model.UserTypeDoctor))
	r.doctorH.RegisterDoctorRoutes(doctor)
	r.appointmentH.RegisterDoctorRoutes(doctor)
	r.chatH.RegisterDoctorRoutes(doctor)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
