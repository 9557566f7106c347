package routes

import (
	"github.com/gin-gonic/gin"

	httpapi "github.com/tsereda/SiliconToPhonopy/internal/api/http"
	"github.com/tsereda/SiliconToPhonopy/internal/api/http/middleware"
	"github.com/tsereda/SiliconToPhonopy/internal/matproj"
)

type V1Deps struct {
	MatProj *matproj.Client
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	httpapi.NewStructureHandler().RegisterRoutes(api)
	httpapi.NewWorkflowHandler().RegisterRoutes(api)
	httpapi.NewMaterialsHandler(dep.MatProj).RegisterRoutes(api)
}
