package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, db *gorm.DB, pingers map[string]handlers.Pinger) {
	health := handlers.Health(db, pingers)
	r.GET("/health", health)
	r.GET("/api/health", health)
}
