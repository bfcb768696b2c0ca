// Package i18n resolves user-facing error messages for the locales the
// product ships with. Portuguese (Brazil) is the default.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	// PortugueseBR is the default product locale.
	PortugueseBR = language.BrazilianPortuguese
	// English is the secondary locale.
	English = language.English

	supported = []language.Tag{PortugueseBR, English}
	matcher   = language.NewMatcher(supported)
)

var catalogs = map[language.Tag]map[string]string{
	PortugueseBR: {
		"UNAUTHORIZED":          "Autenticação necessária",
		"FORBIDDEN":             "Permissão negada",
		"NOT_FOUND":             "Recurso não encontrado",
		"BAD_REQUEST":           "Requisição inválida",
		"INTERNAL_SERVER_ERROR": "Erro interno do servidor",
		"RATE_LIMIT_EXCEEDED":   "Muitas requisições, aguarde um momento",

		"MEMBERSHIP_NOT_FOUND":    "Usuário não pertence a nenhuma organização",
		"TEMPLATE_NOT_FOUND":      "Modelo de permissão não encontrado",
		"TEMPLATE_NAME_REQUIRED":  "Nome é obrigatório",
		"TEMPLATE_NAME_TAKEN":     "Já existe um modelo com este nome",
		"PERMISSIONS_REQUIRED":    "Permissões são obrigatórias",
		"TEMPLATE_FORBIDDEN":      "Apenas o proprietário da organização ou superadmin pode gerenciar modelos",
		"OVERRIDE_FORBIDDEN":      "Apenas proprietários e administradores podem alterar permissões",
		"PERMISSION_FLAG_MISSING": "Você não tem permissão para acessar este recurso",
	},
	English: {
		"UNAUTHORIZED":          "Authentication required",
		"FORBIDDEN":             "Permission denied",
		"NOT_FOUND":             "Resource not found",
		"BAD_REQUEST":           "Invalid request",
		"INTERNAL_SERVER_ERROR": "Internal server error",
		"RATE_LIMIT_EXCEEDED":   "Too many requests, please slow down",

		"MEMBERSHIP_NOT_FOUND":    "User does not belong to any organization",
		"TEMPLATE_NOT_FOUND":      "Permission template not found",
		"TEMPLATE_NAME_REQUIRED":  "Name is required",
		"TEMPLATE_NAME_TAKEN":     "A template with this name already exists",
		"PERMISSIONS_REQUIRED":    "Permissions are required",
		"TEMPLATE_FORBIDDEN":      "Only the organization owner or a superadmin can manage templates",
		"OVERRIDE_FORBIDDEN":      "Only owners and admins can change permissions",
		"PERMISSION_FLAG_MISSING": "You do not have access to this resource",
	},
}

// Negotiate picks the best supported locale for an Accept-Language header value.
func Negotiate(acceptLanguage string) language.Tag {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return PortugueseBR
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return PortugueseBR
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return PortugueseBR
	}
	return supported[index]
}

// Message returns the localized message for code, or fallback when the locale has none.
func Message(tag language.Tag, code, fallback string) string {
	if catalog, ok := catalogs[tag]; ok {
		if msg, ok := catalog[code]; ok {
			return msg
		}
	}
	return fallback
}
