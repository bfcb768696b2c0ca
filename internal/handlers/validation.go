package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/orgdesk/pkg/errors"
	"github.com/charlesng35/orgdesk/pkg/response"
	appValidator "github.com/charlesng35/orgdesk/pkg/validator"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// bindAndValidate decodes the JSON body into dest and runs its validate tags.
// On failure it writes a VALIDATION_FAILED response and returns false.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(describeDecodeError(err)))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(formatValidationError(err)))
		return false
	}

	return true
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String())
	}
	return "invalid JSON payload"
}

func formatValidationError(err error) string {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return "invalid request payload"
	}

	messages := make([]string, 0, len(failures))
	for _, f := range failures {
		field := strings.ReplaceAll(f.Field, "_", " ")
		switch f.Tag {
		case "required":
			messages = append(messages, field+" is required")
		case "notblank":
			messages = append(messages, field+" must not be blank")
		case "min":
			messages = append(messages, field+" must be at least "+f.Param)
		case "max":
			messages = append(messages, field+" must be at most "+f.Param+" characters")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

// pagination reads page and per_page, clamping them to usable values.
func pagination(c *gin.Context) (page, perPage int) {
	page = intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage = intQuery(c, "per_page", defaultPerPage)
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return page, perPage
}

func intQuery(c *gin.Context, key string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return fallback
	}
	return parsed
}

// timeQuery parses an optional RFC 3339 query parameter.
func timeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, appErrors.NewBadRequest(key + " must be an RFC 3339 timestamp")
	}
	return &t, nil
}
