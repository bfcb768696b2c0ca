package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/handlers"
	"github.com/charlesng35/orgdesk/internal/services"
)

func registerPermissionRoutes(api *gin.RouterGroup, svc *services.PermissionService) error {
	handler, err := handlers.NewPermissionHandler(svc)
	if err != nil {
		return err
	}

	perms := api.Group("/permissions")
	{
		perms.GET("/catalog", handler.Catalog)
		perms.GET("/me", handler.Me)
		perms.GET("/:userId", handler.Get)
		perms.PUT("/:userId", handler.Update)
		perms.DELETE("/:userId", handler.Reset)
		perms.POST("/:userId/template/:templateId", handler.ApplyTemplate)
	}
	return nil
}

func registerPermissionTemplateRoutes(api *gin.RouterGroup, svc *services.TemplateService) error {
	handler, err := handlers.NewPermissionTemplateHandler(svc)
	if err != nil {
		return err
	}

	templates := api.Group("/permission-templates")
	{
		templates.GET("", handler.List)
		templates.POST("", handler.Create)
		templates.GET("/:id", handler.Get)
		templates.PUT("/:id", handler.Update)
		templates.DELETE("/:id", handler.Delete)
	}
	return nil
}
