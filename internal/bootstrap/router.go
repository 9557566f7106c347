package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/tsereda/SiliconToPhonopy/internal/api/http"
	"github.com/tsereda/SiliconToPhonopy/internal/api/http/routes"
	"github.com/tsereda/SiliconToPhonopy/internal/matproj"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	MatProj     *matproj.Client
	Cache       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Cache)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{MatProj: dep.MatProj})

	return r
}
