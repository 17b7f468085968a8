package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unitree-app/unitree-server/internal/config"
	"github.com/unitree-app/unitree-server/internal/handler"
	appmw "github.com/unitree-app/unitree-server/internal/middleware"
	"github.com/unitree-app/unitree-server/internal/repository"
	"github.com/unitree-app/unitree-server/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e            *echo.Echo
	userRepo     repository.UserRepository
	sessionRepo  repository.WifiSessionRepository
	treeRepo     repository.TreeRepository
	pointRepo    repository.PointRepository
	treeTypeRepo repository.TreeTypeRepository
	sha          string
	build        string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-User-UID"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			return strings.HasSuffix(u.Hostname(), "unitree.app"), nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewWifiSessionRepository(db)
	treeRepo := repository.NewTreeRepository(db)
	pointRepo := repository.NewPointRepository(db)
	treeTypeRepo := repository.NewTreeTypeRepository(db)

	treeSvc := service.NewTreeService(treeRepo, treeTypeRepo, userRepo)
	wifiSvc := service.NewWifiService(sessionRepo, userRepo, pointRepo, treeSvc, cfg.PointsPerHour, cfg.CampusBSSID)
	pointsSvc := service.NewPointsService(userRepo, pointRepo)

	wifiHandler := handler.NewWifiHandler(wifiSvc)
	treeHandler := handler.NewTreeHandler(treeSvc)
	pointsHandler := handler.NewPointsHandler(pointsSvc)

	authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID)
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", authMw.RequireAuth)

	api.POST("/wifi/start", wifiHandler.Start)
	api.POST("/wifi/end", wifiHandler.End)
	api.GET("/wifi/active", wifiHandler.Active)
	api.GET("/wifi/stats", wifiHandler.Stats)
	api.GET("/wifi/time-tracking", wifiHandler.TimeTracking)
	api.GET("/wifi/history", wifiHandler.History)

	api.GET("/trees", treeHandler.List)
	api.GET("/trees/types", treeHandler.Types)
	api.GET("/trees/:id", treeHandler.Get)
	api.POST("/trees/redeem", treeHandler.Redeem)
	api.POST("/trees/add-wifi-hours", treeHandler.AddWifiHours)
	api.POST("/trees/:id/water", treeHandler.Water)
	api.DELETE("/trees/:id", treeHandler.Delete)

	api.GET("/points", pointsHandler.Balance)
	api.GET("/points/history", pointsHandler.History)

	return &Server{
		e:            e,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		treeRepo:     treeRepo,
		pointRepo:    pointRepo,
		treeTypeRepo: treeTypeRepo,
		sha:          sha,
		build:        buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	s.userRepo.SetDB(db)
	s.sessionRepo.SetDB(db)
	s.treeRepo.SetDB(db)
	s.pointRepo.SetDB(db)
	s.treeTypeRepo.SetDB(db)
}
