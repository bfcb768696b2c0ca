package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/orgdesk/internal/services"
	"github.com/charlesng35/orgdesk/pkg/response"
)

// OrganizationScoper resolves which organization a caller may read audit data for.
type OrganizationScoper interface {
	OrganizationScope(ctx context.Context, userID string) (organizationID string, all bool, err error)
}

type AuditHandler struct {
	svc   *services.AuditService
	scope OrganizationScoper
}

func NewAuditHandler(svc *services.AuditService, scope OrganizationScoper) (*AuditHandler, error) {
	if svc == nil || scope == nil {
		return nil, errors.New("audit handler: service and scope are required")
	}
	return &AuditHandler{svc: svc, scope: scope}, nil
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	filters, ok := h.filters(c)
	if !ok {
		return
	}

	page, per := pagination(c)

	logs, total, err := h.svc.List(requestContext(c), services.AuditListOptions{Page: page, PageSize: per, Filters: filters})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, logs, response.Page{Page: page, PerPage: per, Total: int(total)})
}

// GET /api/audit/export
func (h *AuditHandler) Export(c *gin.Context) {
	filters, ok := h.filters(c)
	if !ok {
		return
	}

	logs, err := h.svc.Export(requestContext(c), filters)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, logs)
}

// filters builds the query filters. Callers other than superadmins only see
// their own organization regardless of the organization_id parameter.
func (h *AuditHandler) filters(c *gin.Context) (services.AuditFilters, bool) {
	orgID, all, err := h.scope.OrganizationScope(requestContext(c), callerID(c))
	if err != nil {
		response.Error(c, err)
		return services.AuditFilters{}, false
	}

	filters := services.AuditFilters{
		UserID:         c.Query("user_id"),
		OrganizationID: orgID,
		Action:         c.Query("action"),
		Result:         c.Query("result"),
		Resource:       c.Query("resource"),
	}
	if all {
		filters.OrganizationID = c.Query("organization_id")
	}

	if filters.Since, err = timeQuery(c, "since"); err != nil {
		response.Error(c, err)
		return services.AuditFilters{}, false
	}
	if filters.Until, err = timeQuery(c, "until"); err != nil {
		response.Error(c, err)
		return services.AuditFilters{}, false
	}
	return filters, true
}
