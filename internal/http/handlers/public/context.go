package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	return handlershared.ParseUintParam(c, name)
}

// ownedPath 读取当前用户与路径中的请柬 ID
func ownedPath(c *gin.Context) (userID, invitationID uint, ok bool) {
	if userID, ok = getUserID(c); !ok {
		return 0, 0, false
	}
	if invitationID, ok = parseID(c, "id"); !ok {
		return 0, 0, false
	}
	return userID, invitationID, true
}

// ownedItemPath 在 ownedPath 基础上读取子资源 ID
func ownedItemPath(c *gin.Context, itemParam string) (userID, invitationID, itemID uint, ok bool) {
	if userID, invitationID, ok = ownedPath(c); !ok {
		return 0, 0, 0, false
	}
	if itemID, ok = parseID(c, itemParam); !ok {
		return 0, 0, 0, false
	}
	return userID, invitationID, itemID, true
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}
