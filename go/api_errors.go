package shopserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	addressapp "github.com/finprodb/shop-api/internal/domains/addresses/application"
	addressports "github.com/finprodb/shop-api/internal/domains/addresses/ports"
	cartapp "github.com/finprodb/shop-api/internal/domains/carts/application"
	cartports "github.com/finprodb/shop-api/internal/domains/carts/ports"
	categoryapp "github.com/finprodb/shop-api/internal/domains/categories/application"
	categoryports "github.com/finprodb/shop-api/internal/domains/categories/ports"
	orderapp "github.com/finprodb/shop-api/internal/domains/orders/application"
	orderports "github.com/finprodb/shop-api/internal/domains/orders/ports"
	paymentapp "github.com/finprodb/shop-api/internal/domains/payments/application"
	paymentports "github.com/finprodb/shop-api/internal/domains/payments/ports"
	productapp "github.com/finprodb/shop-api/internal/domains/products/application"
	productports "github.com/finprodb/shop-api/internal/domains/products/ports"
	userapp "github.com/finprodb/shop-api/internal/domains/users/application"
	apierrors "github.com/finprodb/shop-api/internal/shared/errors"
)

var errAuthentication = userapp.ErrAuthentication

// businessErrors are rule violations reported as 400 with the innermost message.
var businessErrors = []error{
	userapp.ErrInvalidInput,
	userapp.ErrNotFound,
	categoryapp.ErrInvalidInput,
	categoryports.ErrNotFound,
	productapp.ErrInvalidInput,
	productports.ErrNotFound,
	productports.ErrCategoryNotFound,
	cartapp.ErrInvalidInput,
	cartports.ErrNotFound,
	cartports.ErrForbidden,
	cartports.ErrProductNotFound,
	cartports.ErrProductInactive,
	addressapp.ErrInvalidInput,
	addressports.ErrNotFound,
	orderapp.ErrInvalidInput,
	orderports.ErrNotFound,
	paymentapp.ErrInvalidInput,
	paymentports.ErrNotFound,
}

var responder = apierrors.NewChainedResponder("", authenticationMapper, gatewayMapper, businessMapper)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondServiceError maps application errors to problem documents.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondLookupError reports a missing catalog entry as 404 and defers the
// rest to respondServiceError.
func respondLookupError(c *gin.Context, err error, resourceType string, notFound error) {
	if errors.Is(err, notFound) {
		respondProblem(c, apierrors.NewNotFoundProblem(resourceType, notFound.Error()))
		return
	}
	respondServiceError(c, err)
}

// respondBindError turns a binding failure into "<field> <message>".
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = validationMessage(fe)
			}
		}
		first := fieldErrs[0]
		respondProblem(c, apierrors.NewValidationProblem(first.Field(), validationMessage(first), fields))
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		respondProblem(c, apierrors.NewValidationProblem(typeErr.Field, "has an invalid type", nil))
		return
	}
	if errors.Is(err, io.EOF) {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("Invalid request"))
		return
	}
	respondProblem(c, apierrors.ErrBadRequest.WithDetail("Malformed request body"))
}

func authenticationMapper(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, userapp.ErrAuthentication) {
		return apierrors.ErrUnauthorized, true
	}
	return apierrors.ProblemDetail{}, false
}

func gatewayMapper(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, paymentports.ErrGatewayUnavailable) {
		return apierrors.ErrServiceUnavailable.WithDetail("Payment gateway is unavailable, please retry shortly"), true
	}
	return apierrors.ProblemDetail{}, false
}

func businessMapper(err error) (apierrors.ProblemDetail, bool) {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return apierrors.ErrBadRequest.WithDetail(innermostMessage(err)), true
		}
	}
	return apierrors.ProblemDetail{}, false
}

// innermostMessage follows the last branch of joined errors down to the
// sentinel so "invalid cart input: Forbidden" reports as "Forbidden".
func innermostMessage(err error) string {
	for {
		switch wrapped := err.(type) {
		case interface{ Unwrap() []error }:
			errs := wrapped.Unwrap()
			if len(errs) == 0 {
				return err.Error()
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			inner := wrapped.Unwrap()
			if inner == nil {
				return err.Error()
			}
			err = inner
		default:
			return err.Error()
		}
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return "must not be blank"
		}
		return "must not be null"
	case "email":
		return "must be a well-formed email address"
	case "min", "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return "is invalid"
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
