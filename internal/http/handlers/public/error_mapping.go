package public

import (
	"net/http"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.ErrorRule

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackMsg string) {
	handlershared.RespondMappedError(c, err, rules, fallbackMsg)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredential, Code: http.StatusUnauthorized, Message: "Invalid email or password."},
	{Target: service.ErrEmailExists, Code: http.StatusConflict, Message: "Email is already registered."},
}

var orderErrorRules = []mappedHandlerError{
	{Target: service.ErrPackageNotFound, Code: http.StatusNotFound, Message: "Package not found."},
	{Target: service.ErrOrderNotFound, Code: http.StatusNotFound, Message: "Order not found."},
	{Target: service.ErrForbidden, Code: http.StatusForbidden, Message: "You do not own this order."},
	{Target: service.ErrInvalidOrderState, Code: http.StatusBadRequest, Message: "Only pending orders can be changed."},
	{Target: service.ErrExternalService, Code: http.StatusBadGateway, Message: "Failed to create payment session."},
	{Target: service.ErrOrderCodeExhausted, Code: http.StatusInternalServerError, Message: "Unable to allocate an order code."},
}

var webhookErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidSignature, Code: http.StatusForbidden, Message: "Invalid signature."},
	{Target: service.ErrOrderNotFound, Code: http.StatusNotFound, Message: "Order not found."},
}

var invitationErrorRules = []mappedHandlerError{
	{Target: service.ErrInvitationExists, Code: http.StatusConflict, Message: "An invitation already exists for this order."},
	{Target: service.ErrInvitationNotFound, Code: http.StatusNotFound, Message: "Invitation not found."},
	{Target: service.ErrOrderNotFound, Code: http.StatusNotFound, Message: "Order not found."},
	{Target: service.ErrInvitationExpired, Code: http.StatusBadRequest, Message: "Invitation has expired and can no longer be edited."},
	{Target: service.ErrInvalidPackage, Code: http.StatusBadRequest, Message: "Order package tier is not recognized."},
}

var sectionErrorRules = handlershared.ConcatErrorRules(invitationErrorRules, []mappedHandlerError{
	{Target: service.ErrSectionExists, Code: http.StatusConflict, Message: "This section already exists for the invitation."},
	{Target: service.ErrGuestNotFound, Code: http.StatusNotFound, Message: "Guest not found."},
	{Target: service.ErrSectionNotFound, Code: http.StatusNotFound, Message: "Item not found."},
	{Target: service.ErrVideoNotAllowed, Code: http.StatusForbidden, Message: "Video upload is not available for your package."},
	{Target: service.ErrBacksoundNotAllowed, Code: http.StatusForbidden, Message: "Custom backsound is not available for your package."},
	{Target: service.ErrInvitationNotPublished, Code: http.StatusBadRequest, Message: "Publish the invitation before sharing guest links."},
})

var catalogErrorRules = []mappedHandlerError{
	{Target: service.ErrPackageNotFound, Code: http.StatusNotFound, Message: "Package not found."},
	{Target: service.ErrThemeNotFound, Code: http.StatusNotFound, Message: "Theme not found."},
	{Target: service.ErrCategoryNotFound, Code: http.StatusNotFound, Message: "Theme category not found."},
	{Target: service.ErrMusicNotFound, Code: http.StatusNotFound, Message: "Music not found."},
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, "Failed to process order.")
}

func respondInvitationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, invitationErrorRules, "Failed to process invitation.")
}

func respondSectionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, sectionErrorRules, "Failed to process invitation content.")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, "Failed to load catalog.")
}
