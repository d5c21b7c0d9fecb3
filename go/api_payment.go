package shopserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentmapper "github.com/finprodb/shop-api/internal/domains/payments/adapters/http/mapper"
	paymentdomain "github.com/finprodb/shop-api/internal/domains/payments/domain"
	paymentports "github.com/finprodb/shop-api/internal/domains/payments/ports"
	apierrors "github.com/finprodb/shop-api/internal/shared/errors"
)

// maxNotificationBytes bounds gateway callbacks.
const maxNotificationBytes = 64 << 10

// PaymentAPI serves Midtrans Snap checkout and its notification webhook.
type PaymentAPI struct {
	service paymentports.Service
}

// NewPaymentAPI creates a PaymentAPI backed by the payment service.
func NewPaymentAPI(service paymentports.Service) PaymentAPI {
	return PaymentAPI{service: service}
}

// Post /api/payments/midtrans/snap/:orderId
// Open or reuse a Snap payment page for a pending order
func (api *PaymentAPI) CreateSnap(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	result, err := api.service.CreateSnap(c.Request.Context(), principal.UserID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentmapper.FromSnapResult(result))
}

// Post /api/payments/midtrans/notification
// Gateway webhook; authenticated by signature_key rather than a token
func (api *PaymentAPI) Notification(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes))
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(paymentdomain.ErrMalformedBody.Error()))
		return
	}
	notification, err := paymentdomain.ParseNotification(body)
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(innermostMessage(err)))
		return
	}
	result, err := api.service.HandleNotification(c.Request.Context(), notification)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentmapper.FromNotificationResult(result))
}
