package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cv-smart/internal/domain"
	"cv-smart/internal/logger"
)

// PaymentReader is the slice of the payment repository the gate needs.
type PaymentReader interface {
	Get(ctx context.Context, ownerKey string) (domain.PaymentRecord, error)
}

// ExportGate decides whether an owner may export. The gate fails closed:
// when payment state cannot be read the answer is no, never a guess.
type ExportGate struct {
	payments    PaymentReader
	checkoutURL string
	logger      *logger.Logger
}

func NewExportGate(payments PaymentReader, checkoutURL string, log *logger.Logger) *ExportGate {
	return &ExportGate{payments: payments, checkoutURL: checkoutURL, logger: log}
}

// Decision is the gate's answer. When export is locked, CheckoutURL carries
// the payment link tagged with the owner so the gateway webhook can match it.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Check looks up the owner's payment record. Administrators bypass the gate.
// A missing record means never paid, which is locked, not an error.
func (g *ExportGate) Check(ctx context.Context, identity domain.Identity) (Decision, error) {
	if identity.IsAdmin() {
		return Decision{Allowed: true}, nil
	}

	owner := identity.Key()
	rec, err := g.payments.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return Decision{CheckoutURL: g.checkoutFor(owner)}, nil
	}
	if err != nil {
		g.logger.Error("export gate: payment lookup failed", "owner", owner, "error", err)
		return Decision{}, fmt.Errorf("%w: %v", domain.ErrPaymentIndeterminate, err)
	}

	if rec.Unlocked() {
		return Decision{Allowed: true}, nil
	}
	return Decision{CheckoutURL: g.checkoutFor(owner)}, nil
}

func (g *ExportGate) checkoutFor(owner string) string {
	return g.checkoutURL + "?external_id=" + url.QueryEscape(owner)
}
