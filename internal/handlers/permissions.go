package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/internal/services"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// PermissionHandler serves effective permissions and per-user overrides.
type PermissionHandler struct {
	svc *services.PermissionService
}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler(svc *services.PermissionService) (*PermissionHandler, error) {
	if svc == nil {
		return nil, errors.New("permission handler: service is required")
	}
	return &PermissionHandler{svc: svc}, nil
}

type overrideRequest struct {
	Permissions map[string]bool `json:"permissions" validate:"required"`
}

type catalogResponse struct {
	Groups       []permissions.GroupDefinition `json:"groups"`
	RoleDefaults map[string]permissions.Vector `json:"role_defaults"`
}

// GET /api/permissions/catalog
func (h *PermissionHandler) Catalog(c *gin.Context) {
	defaults := permissions.DefaultsByRole()
	byRole := make(map[string]permissions.Vector, len(defaults))
	for role, vector := range defaults {
		byRole[string(role)] = vector
	}
	response.Success(c, http.StatusOK, catalogResponse{
		Groups:       permissions.Groups(),
		RoleDefaults: byRole,
	})
}

// GET /api/permissions/me
func (h *PermissionHandler) Me(c *gin.Context) {
	caller := callerID(c)
	result, err := h.svc.ResolveFor(requestContext(c), caller, caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GET /api/permissions/:userId
func (h *PermissionHandler) Get(c *gin.Context) {
	result, err := h.svc.ResolveFor(requestContext(c), callerID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// PUT /api/permissions/:userId
func (h *PermissionHandler) Update(c *gin.Context) {
	var body overrideRequest
	if !bindAndValidate(c, &body) {
		return
	}

	result, err := h.svc.ApplyOverride(requestContext(c), callerID(c), c.Param("userId"), permissions.PatchFromMap(body.Permissions))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// DELETE /api/permissions/:userId
func (h *PermissionHandler) Reset(c *gin.Context) {
	result, err := h.svc.ResetOverride(requestContext(c), callerID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// POST /api/permissions/:userId/template/:templateId
func (h *PermissionHandler) ApplyTemplate(c *gin.Context) {
	result, err := h.svc.ApplyTemplate(requestContext(c), callerID(c), c.Param("userId"), c.Param("templateId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
