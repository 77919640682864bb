package admin

import (
	"net/http"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

var catalogAdminErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrPackageNotFound, Code: http.StatusNotFound, Message: "Package not found."},
	{Target: service.ErrThemeNotFound, Code: http.StatusNotFound, Message: "Theme not found."},
	{Target: service.ErrCategoryNotFound, Code: http.StatusNotFound, Message: "Theme category not found."},
	{Target: service.ErrMusicNotFound, Code: http.StatusNotFound, Message: "Music not found."},
	{Target: service.ErrPackageInUse, Code: http.StatusConflict, Message: "Package is referenced by existing orders."},
	{Target: service.ErrCategoryInUse, Code: http.StatusConflict, Message: "Theme category still has themes."},
}

func respondCatalogError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, catalogAdminErrorRules, "Failed to update catalog.")
}
