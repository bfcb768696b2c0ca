package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
	"github.com/charlesng35/orgdesk/internal/services"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// PermissionTemplateHandler exposes template CRUD.
type PermissionTemplateHandler struct {
	svc *services.TemplateService
}

// NewPermissionTemplateHandler constructs a PermissionTemplateHandler.
func NewPermissionTemplateHandler(svc *services.TemplateService) (*PermissionTemplateHandler, error) {
	if svc == nil {
		return nil, errors.New("permission template handler: service is required")
	}
	return &PermissionTemplateHandler{svc: svc}, nil
}

type createTemplateRequest struct {
	Name        string              `json:"name" validate:"max=120"`
	Description string              `json:"description" validate:"max=500"`
	Icon        string              `json:"icon" validate:"max=64"`
	Permissions *permissions.Vector `json:"permissions"`
}

type updateTemplateRequest struct {
	Name        *string             `json:"name" validate:"omitempty,notblank,max=120"`
	Description *string             `json:"description" validate:"omitempty,max=500"`
	Icon        *string             `json:"icon" validate:"omitempty,max=64"`
	SortOrder   *int                `json:"sort_order" validate:"omitempty,min=0"`
	Permissions *permissions.Vector `json:"permissions"`
}

type templateResponse struct {
	ID             string             `json:"id"`
	OrganizationID *string            `json:"organization_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Icon           string             `json:"icon"`
	Permissions    permissions.Vector `json:"permissions"`
	SortOrder      int                `json:"sort_order"`
	IsDefault      bool               `json:"is_default"`
	IsGlobal       bool               `json:"is_global"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func toTemplateResponse(t *models.PermissionTemplate) templateResponse {
	return templateResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		Name:           t.Name,
		Description:    t.Description,
		Icon:           t.Icon,
		Permissions:    t.Vector(),
		SortOrder:      t.SortOrder,
		IsDefault:      t.IsDefault,
		IsGlobal:       t.IsGlobal(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// GET /api/permission-templates
func (h *PermissionTemplateHandler) List(c *gin.Context) {
	templates, err := h.svc.List(requestContext(c), callerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, toTemplateResponse(&templates[i]))
	}
	response.Success(c, http.StatusOK, out)
}

// GET /api/permission-templates/:id
func (h *PermissionTemplateHandler) Get(c *gin.Context) {
	tmpl, err := h.svc.Get(requestContext(c), callerID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTemplateResponse(tmpl))
}

// POST /api/permission-templates
func (h *PermissionTemplateHandler) Create(c *gin.Context) {
	var body createTemplateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	tmpl, err := h.svc.Create(requestContext(c), callerID(c), services.CreateTemplateInput{
		Name:        body.Name,
		Description: body.Description,
		Icon:        body.Icon,
		Permissions: body.Permissions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toTemplateResponse(tmpl))
}

// PUT /api/permission-templates/:id
func (h *PermissionTemplateHandler) Update(c *gin.Context) {
	var body updateTemplateRequest
	if !bindAndValidate(c, &body) {
		return
	}

	tmpl, err := h.svc.Update(requestContext(c), callerID(c), c.Param("id"), services.UpdateTemplateInput{
		Name:        body.Name,
		Description: body.Description,
		Icon:        body.Icon,
		SortOrder:   body.SortOrder,
		Permissions: body.Permissions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTemplateResponse(tmpl))
}

// DELETE /api/permission-templates/:id
func (h *PermissionTemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), callerID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
