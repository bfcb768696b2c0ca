package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/handlers"
	"github.com/charlesng35/orgdesk/internal/middleware"
	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/internal/services"
)

func registerAuditRoutes(api *gin.RouterGroup, audit *services.AuditService, perms *services.PermissionService) error {
	handler, err := handlers.NewAuditHandler(audit, perms)
	if err != nil {
		return err
	}

	gate := middleware.RequirePermission(perms, permissions.ManageTeam)
	api.GET("/audit", gate, handler.List)
	api.GET("/audit/export", gate, handler.Export)
	return nil
}
