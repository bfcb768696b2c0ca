package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/charlesng35/orgdesk/pkg/errors"
)

var (
	// ErrMembershipNotFound indicates the user belongs to no organization.
	ErrMembershipNotFound = apperrors.New("MEMBERSHIP_NOT_FOUND", "User does not belong to any organization", http.StatusNotFound)
	// ErrTemplateNotFound indicates the template does not exist or is not visible to the caller.
	ErrTemplateNotFound = apperrors.New("TEMPLATE_NOT_FOUND", "Permission template not found", http.StatusNotFound)
	// ErrTemplateNameRequired rejects templates without a name.
	ErrTemplateNameRequired = apperrors.New("TEMPLATE_NAME_REQUIRED", "Name is required", http.StatusBadRequest)
	// ErrTemplateNameTaken rejects a second template with the same name in one scope.
	ErrTemplateNameTaken = apperrors.New("TEMPLATE_NAME_TAKEN", "A template with this name already exists", http.StatusBadRequest)
	// ErrPermissionsRequired rejects writes carrying no recognised permission key.
	ErrPermissionsRequired = apperrors.New("PERMISSIONS_REQUIRED", "Permissions are required", http.StatusBadRequest)
	// ErrTemplateForbidden is returned when the caller may not manage templates.
	ErrTemplateForbidden = apperrors.New("TEMPLATE_FORBIDDEN", "Only the organization owner or a superadmin can manage templates", http.StatusForbidden)
	// ErrOverrideForbidden is returned when the caller may not change a user's permissions.
	ErrOverrideForbidden = apperrors.New("OVERRIDE_FORBIDDEN", "Only owners and admins can change permissions", http.StatusForbidden)
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate")
}
