package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetShop/internal/apperr"
	"sweetShop/models"
	"sweetShop/repository"
)

const tracerName = "sweetShop/internal/inventory"

const (
	MsgPurchased = "Purchase successful"
	MsgRestocked = "Restock successful"
)

var (
	errSweetNotFound     = apperr.NotFound("Sweet not found")
	errInsufficientStock = apperr.New(apperr.KindInsufficientStock, "Insufficient stock available")
	errRestockOverflow   = apperr.Validation("Restock would exceed the maximum stock level")
)

// StockStore applies atomic stock adjustments. Decrement must refuse, without
// writing, to take a row below zero.
type StockStore interface {
	Decrement(ctx context.Context, id string, n int64) (*models.Sweet, error)
	Increment(ctx context.Context, id string, n int64) (*models.Sweet, error)
}

// Receipt is the sweet after a stock movement plus a human-readable outcome.
type Receipt struct {
	models.Sweet
	Message string `json:"message"`
}

// Ledger moves stock in and out. Every movement is a single conditional
// store operation, so concurrent movements on one sweet are totally ordered.
type Ledger struct {
	store  StockStore
	log    *zap.Logger
	tracer trace.Tracer
}

// LedgerOption customizes a Ledger.
type LedgerOption func(*Ledger)

// WithTracerProvider traces through tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) LedgerOption {
	return func(l *Ledger) { l.tracer = tp.Tracer(tracerName) }
}

func NewLedger(store StockStore, log *zap.Logger, opts ...LedgerOption) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{store: store, log: log, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Purchase takes quantity units of the sweet out of stock.
func (l *Ledger) Purchase(ctx context.Context, id string, quantity int64) (*Receipt, error) {
	ctx, span := l.tracer.Start(ctx, "inventory.purchase")
	defer span.End()
	span.SetAttributes(attribute.String("sweet.id", id), attribute.Int64("inventory.quantity", quantity))

	if err := validQuantity(quantity); err != nil {
		return nil, fail(span, err)
	}
	s, err := l.store.Decrement(ctx, id, quantity)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fail(span, errSweetNotFound)
	case errors.Is(err, repository.ErrInsufficientStock):
		l.log.Info("purchase rejected: insufficient stock", zap.String("sweet_id", id), zap.Int64("requested", quantity))
		return nil, fail(span, errInsufficientStock)
	case err != nil:
		return nil, fail(span, fmt.Errorf("decrement stock: %w", err))
	}

	span.SetAttributes(attribute.Int64("inventory.remaining", s.Quantity))
	span.SetStatus(codes.Ok, MsgPurchased)
	l.log.Info("sweet purchased",
		zap.String("sweet_id", id), zap.Int64("quantity", quantity), zap.Int64("remaining", s.Quantity))
	return &Receipt{Sweet: *s, Message: MsgPurchased}, nil
}

// Restock adds quantity units of the sweet to stock.
func (l *Ledger) Restock(ctx context.Context, id string, quantity int64) (*Receipt, error) {
	ctx, span := l.tracer.Start(ctx, "inventory.restock")
	defer span.End()
	span.SetAttributes(attribute.String("sweet.id", id), attribute.Int64("inventory.quantity", quantity))

	if err := validQuantity(quantity); err != nil {
		return nil, fail(span, err)
	}
	s, err := l.store.Increment(ctx, id, quantity)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fail(span, errSweetNotFound)
	case errors.Is(err, repository.ErrQuantityOverflow):
		return nil, fail(span, errRestockOverflow)
	case err != nil:
		return nil, fail(span, fmt.Errorf("increment stock: %w", err))
	}

	span.SetAttributes(attribute.Int64("inventory.remaining", s.Quantity))
	span.SetStatus(codes.Ok, MsgRestocked)
	l.log.Info("sweet restocked",
		zap.String("sweet_id", id), zap.Int64("quantity", quantity), zap.Int64("stock", s.Quantity))
	return &Receipt{Sweet: *s, Message: MsgRestocked}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
