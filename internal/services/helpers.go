package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/orgdesk/internal/models"
	"github.com/charlesng35/orgdesk/internal/permissions"
	apperrors "github.com/charlesng35/orgdesk/pkg/errors"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// actor is the authenticated caller together with its primary membership.
type actor struct {
	user       models.User
	membership *models.OrganizationMember
}

func (a *actor) superadmin() bool {
	return a.user.IsSuperadmin
}

func (a *actor) organizationID() string {
	if a.membership == nil {
		return ""
	}
	return a.membership.OrganizationID
}

func (a *actor) role() permissions.Role {
	if a.membership == nil {
		return ""
	}
	return permissions.ParseRole(a.membership.Role)
}

func loadActor(ctx context.Context, db *gorm.DB, userID string) (*actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := db.WithContext(ctx).Take(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load actor: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	member, err := primaryMembership(ctx, db, userID)
	if err != nil && !errors.Is(err, ErrMembershipNotFound) {
		return nil, err
	}
	return &actor{user: user, membership: member}, nil
}

// primaryMembership returns the user's earliest membership row.
func primaryMembership(ctx context.Context, db *gorm.DB, userID string) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	err := db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at ASC").
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load membership: %w", err)
	}
	return &member, nil
}

// roleIn reports whether the user holds one of roles in organizationID.
func roleIn(ctx context.Context, db *gorm.DB, userID, organizationID string, roles ...permissions.Role) (bool, error) {
	var member models.OrganizationMember
	err := db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, organizationID).
		Take(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load membership: %w", err)
	}

	role := permissions.ParseRole(member.Role)
	for _, allowed := range roles {
		if role == allowed {
			return true, nil
		}
	}
	return false, nil
}
