package handler

import (
	"github.com/gin-gonic/gin"

	"settle-core/internal/handler/response"
)

// HealthCheck reports liveness for the ops router.
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
