package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyRecord maps an idempotency key to the pedido_idempotency_keys table.
type IdempotencyRecord struct {
	Key         string       `gorm:"primaryKey;column:key;size:255"`
	RequestHash string       `gorm:"column:request_hash;size:128"`
	OrderID     int64        `gorm:"column:pedido_id;index"`
	Order       *OrderRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
}

func (IdempotencyRecord) TableName() string { return "pedido_idempotency_keys" }

// IdempotencyStore persists idempotency keys in PostgreSQL.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record IdempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toPort(), nil
}

// Save relies on the primary key to detect a concurrent writer of the same key.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	row := IdempotencyRecord{Key: record.Key, RequestHash: record.RequestHash, OrderID: record.OrderID}
	err := s.db.WithContext(ctx).Omit("Order").Create(&row).Error
	if err == nil {
		return row.toPort(), nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	existing, getErr := s.Get(ctx, record.Key)
	if getErr != nil || existing == nil {
		return nil, errors.Join(err, getErr)
	}
	if existing.RequestHash != record.RequestHash || existing.OrderID != record.OrderID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func (r IdempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{Key: r.Key, RequestHash: r.RequestHash, OrderID: r.OrderID, CreatedAt: r.CreatedAt}
}
