package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	orderdomain "github.com/finprodb/shop-api/internal/domains/orders/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/domain"
	"github.com/finprodb/shop-api/internal/domains/payments/ports"
	userdomain "github.com/finprodb/shop-api/internal/domains/users/domain"
	userports "github.com/finprodb/shop-api/internal/domains/users/ports"
)

// Config carries the Midtrans merchant settings.
type Config struct {
	ServerKey       string
	FrontendBaseURL string
}

// Service implements Snap checkout and notification handling.
type Service struct {
	repo      ports.Repository
	orders    ports.OrderGateway
	customers ports.CustomerDirectory
	snap      ports.SnapGateway
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, orders ports.OrderGateway, customers ports.CustomerDirectory, snap ports.SnapGateway, cfg Config, opts ...Option) *Service {
	if strings.TrimSpace(cfg.FrontendBaseURL) == "" {
		cfg.FrontendBaseURL = "http://localhost:3000"
	}
	s := &Service{
		repo:      repo,
		orders:    orders,
		customers: customers,
		snap:      snap,
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSnap opens a Snap checkout for a pending order owned by userID.
func (s *Service) CreateSnap(ctx context.Context, userID, orderID int64) (*ports.SnapResult, error) {
	if strings.TrimSpace(s.cfg.ServerKey) == "" {
		return nil, mapError(domain.ErrServerKeyMissing)
	}
	order, err := s.orders.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != orderdomain.StatusPendingPayment {
		return nil, mapError(domain.ErrOrderNotPending)
	}

	now := s.now()
	latest, err := s.latest(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if latest.Reusable(now) {
		return snapResult(latest, order), nil
	}

	customer, err := s.customers.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, userports.ErrNotFound) {
		return nil, err
	}
	tx, err := s.repo.Create(ctx, domain.NewTransaction(order.ID, order.TotalAmount, domain.StatusCreated, now))
	if err != nil {
		return nil, err
	}
	req := s.snapRequest(order, customer)
	resp, err := s.snap.CreateTransaction(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create snap transaction for %s: %w", order.Code, err)
	}
	tx.AttachSnap(resp.Token, resp.RedirectURL, s.now())
	if tx, err = s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}
	return snapResult(tx, order), nil
}

// HandleNotification applies a signed Midtrans notification to the order.
func (s *Service) HandleNotification(ctx context.Context, n domain.Notification) (*ports.NotificationResult, error) {
	if n.OrderID == nil {
		return nil, mapError(domain.ErrMissingOrderID)
	}
	if !n.VerifySignature(s.cfg.ServerKey) {
		return nil, mapError(domain.ErrInvalidSignature)
	}
	order, err := s.orders.FindByCode(ctx, *n.OrderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	tx, err := s.latest(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		if tx, err = s.repo.Create(ctx, domain.NewTransaction(order.ID, order.TotalAmount, domain.StatusPending, now)); err != nil {
			return nil, err
		}
	}
	tx.LastNotificationJSON = n.Raw

	outcome := n.Outcome()
	switch outcome {
	case domain.StatusSuccess:
		order, err = s.orders.ApplyPaymentSuccess(ctx, order.ID)
	case domain.StatusFailed:
		order, err = s.orders.ApplyPaymentFailure(ctx, order.ID)
	}
	if err != nil {
		return nil, err
	}
	tx.SetStatus(outcome, now)
	if tx, err = s.repo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "midtrans notification applied",
		slog.String("orderCode", order.Code),
		slog.String("paymentStatus", string(tx.Status)),
		slog.String("orderStatus", string(order.Status)),
	)
	return &ports.NotificationResult{
		OrderCode:     order.Code,
		OrderStatus:   string(order.Status),
		PaymentStatus: string(tx.Status),
	}, nil
}

// LatestStatus returns the newest transaction status of an order, or "".
func (s *Service) LatestStatus(ctx context.Context, orderID int64) (string, error) {
	tx, err := s.latest(ctx, orderID)
	if err != nil || tx == nil {
		return "", err
	}
	return string(tx.Status), nil
}

func (s *Service) latest(ctx context.Context, orderID int64) (*domain.Transaction, error) {
	tx, err := s.repo.Latest(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	return tx, err
}

func (s *Service) snapRequest(order *orderdomain.Order, customer *userdomain.User) ports.SnapRequest {
	req := ports.SnapRequest{
		TransactionDetails: ports.TransactionDetails{
			OrderID:     order.Code,
			GrossAmount: order.TotalAmount.IntPart(),
		},
		ItemDetails: make([]ports.ItemDetail, 0, len(order.Items)),
		CreditCard:  ports.CreditCard{Secure: true},
		Callbacks:   ports.Callbacks{Finish: strings.TrimRight(s.cfg.FrontendBaseURL, "/") + "/payment/finish"},
	}
	if customer != nil {
		req.CustomerDetails = ports.CustomerDetails{FirstName: customer.Name, Email: customer.Email}
	}
	for _, item := range order.Items {
		req.ItemDetails = append(req.ItemDetails, ports.ItemDetail{
			ID:       strconv.FormatInt(item.ProductID, 10),
			Price:    item.Price.IntPart(),
			Quantity: item.Quantity,
			Name:     item.ProductName,
		})
	}
	return req
}

func snapResult(tx *domain.Transaction, order *orderdomain.Order) *ports.SnapResult {
	return &ports.SnapResult{
		PaymentID:   tx.ID,
		OrderID:     order.ID,
		OrderCode:   order.Code,
		SnapToken:   tx.SnapToken,
		RedirectURL: tx.RedirectURL,
	}
}

var _ ports.Service = (*Service)(nil)
