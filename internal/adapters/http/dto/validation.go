package dto

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/bytestream/account-service/internal/domain"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
// The first part is the field name, subsequent parts are options like "omitempty".
const jsonTagParts = 2

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use JSON tag names in field paths
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
			if name == "-" {
				return ""
			}

			return name
		})

		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		_ = validate.RegisterValidation("notempty", validateNotEmpty)
	})

	return validate
}

// constraintTemplates maps validator tags to message templates resolved
// against the validation catalog.
var constraintTemplates = map[string]string{
	"required": "{constraints.NotNull.message}",
	"notblank": "{constraints.NotBlank.message}",
	"notempty": "{constraints.NotEmpty.message}",
	"min":      "{constraints.Min.message}",
	"gte":      "{constraints.Min.message}",
	"max":      "{constraints.Max.message}",
	"lte":      "{constraints.Max.message}",
	"email":    "{constraints.Email.message}",
}

const invalidTemplate = "{constraints.Invalid.message}"

// Validate validates v as the argument param of operation. It returns nil,
// domain.ValidationFailures, or the validator's own error when v cannot be
// validated at all.
func Validate(operation, param string, v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	return Failures(operation, param, validationErrs)
}

// BindAndValidate decodes the JSON body into v and validates it.
// A body that cannot be decoded is a 400 carrying the decoder message, and
// one cut off by the server's size limit is a 413.
func BindAndValidate(c *gin.Context, operation, param string, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.WrapStatusError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body too large: limit is %d bytes", tooLarge.Limit), err)
		}

		return domain.WrapStatusError(http.StatusBadRequest, bindingMessage(err), err)
	}

	return Validate(operation, param, v)
}

// PathID parses a numeric path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.WrapStatusError(http.StatusBadRequest,
			"failed to convert argument ["+name+"] for value ["+raw+"]", err)
	}

	return id, nil
}

// Failures converts validator field errors into domain failures whose path
// starts with the operation and its argument name.
func Failures(operation, param string, errs validator.ValidationErrors) domain.ValidationFailures {
	failures := make(domain.ValidationFailures, 0, len(errs))

	for _, fe := range errs {
		path := []domain.PathNode{
			{Name: operation, Kind: domain.NodeMethod},
			{Name: param, Kind: domain.NodeParameter},
		}
		path = append(path, propertyNodes(fe.Namespace())...)

		failures = append(failures, domain.ValidationFailure{
			Path:            path,
			MessageTemplate: constraintTemplate(fe.Tag()),
		})
	}

	return failures
}

func constraintTemplate(tag string) string {
	if t, ok := constraintTemplates[tag]; ok {
		return t
	}

	return invalidTemplate
}

// propertyNodes splits a validator namespace such as
// "AccountCreateRequest.items[2].name" into property nodes. The leading
// segment is the struct type and is dropped.
func propertyNodes(namespace string) []domain.PathNode {
	segments := strings.Split(namespace, ".")
	if len(segments) <= 1 {
		return nil
	}

	nodes := make([]domain.PathNode, 0, len(segments)-1)

	for _, seg := range segments[1:] {
		node := domain.PathNode{Name: seg, Kind: domain.NodeProperty}

		if name, rest, ok := strings.Cut(seg, "["); ok && strings.HasSuffix(rest, "]") {
			if idx, err := strconv.Atoi(strings.TrimSuffix(rest, "]")); err == nil {
				node.Name = name
				node.Index = &idx
			}
		}

		nodes = append(nodes, node)
	}

	return nodes
}

func bindingMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "request body must not be empty"
	}

	return err.Error()
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
