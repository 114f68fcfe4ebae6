package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

// FingerprintPlaceOrder hashes the requested lines in request order; the key itself is excluded.
func FingerprintPlaceOrder(input types.PlaceOrderInput) (string, error) {
	payload, err := json.Marshal(input.Lines)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// replay returns the order previously placed under the input's key, or nil when the key is new.
func (s *Service) replay(ctx context.Context, input types.PlaceOrderInput) (key, hash string, order *domain.Order, err error) {
	key = strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return "", "", nil, nil
	}
	hash, err = FingerprintPlaceOrder(input)
	if err != nil {
		return "", "", nil, err
	}
	record, err := s.idempotency.Get(ctx, key)
	if err != nil || record == nil {
		return key, hash, nil, err
	}
	if record.RequestHash != hash {
		return key, hash, nil, ports.ErrIdempotencyConflict
	}
	order, err = s.GetOrder(ctx, record.OrderID)
	return key, hash, order, err
}

func (s *Service) remember(ctx context.Context, key, hash string, order *domain.Order) {
	if key == "" || s.idempotency == nil {
		return
	}
	_, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: order.ID})
	switch {
	case errors.Is(err, ports.ErrIdempotencyConflict):
		s.logger.WarnContext(ctx, "idempotency key claimed by a concurrent order", slog.Int64("order.id", order.ID))
	case err != nil:
		s.logger.WarnContext(ctx, "failed to record idempotency key", slog.Int64("order.id", order.ID), slog.String("error", err.Error()))
	}
}
