package admin

import (
	"net/http"
	"net/url"
	"strings"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		handlershared.RespondError(c, http.StatusInternalServerError, handlershared.MsgInternalError, err)
		return
	}
	response.Success(c, "Roles retrieved successfully.", roles)
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "Invalid role.", err)
		return
	}
	response.Success(c, "Role policies retrieved successfully.", policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "Invalid policy.", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_granted",
		"operator_user_id", c.GetUint("user_id"),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, "Policy granted successfully.", nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "Invalid policy.", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_revoked",
		"operator_user_id", c.GetUint("user_id"),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, "Policy revoked successfully.", nil)
}

// GetAuthzUserRoles 获取用户绑定的角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		handlershared.RespondError(c, http.StatusInternalServerError, handlershared.MsgInternalError, err)
		return
	}
	response.Success(c, "User roles retrieved successfully.", gin.H{"user_id": userID, "roles": roles})
}

// SetAuthzUserRoles 覆盖用户绑定的角色
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	user, err := h.UserRepo.GetByID(userID)
	if err != nil {
		handlershared.RespondError(c, http.StatusInternalServerError, handlershared.MsgInternalError, err)
		return
	}
	if user == nil {
		response.NotFound(c, "User not found.")
		return
	}
	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		handlershared.RespondError(c, http.StatusBadRequest, "Invalid role.", err)
		return
	}
	requestLog(c).Infow("admin_authz_user_roles_set",
		"operator_user_id", c.GetUint("user_id"),
		"target_user_id", userID,
		"roles", req.Roles,
	)
	response.Success(c, "User roles updated successfully.", gin.H{"user_id": userID, "roles": req.Roles})
}

func decodeRoleParam(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(decoded)
}
