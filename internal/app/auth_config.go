package app

import (
	"strings"

	"github.com/charlesng35/orgdesk/internal/auth"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	leeway := c.JWT.Leeway
	if leeway < 0 {
		leeway = 0
	}

	return auth.JWTConfig{
		Secret:   c.JWT.Secret,
		Issuer:   strings.TrimSpace(c.JWT.Issuer),
		Audience: strings.TrimSpace(c.JWT.Audience),
		Leeway:   leeway,
	}
}
