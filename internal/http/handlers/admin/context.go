package admin

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "id")
}
