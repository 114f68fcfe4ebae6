package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/instrumentos-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// OrderRecord maps an order to the pedidos table.
type OrderRecord struct {
	ID        int64            `gorm:"primaryKey;column:id"`
	PlacedAt  time.Time        `gorm:"column:fecha;index"`
	Total     decimal.Decimal  `gorm:"column:total;type:numeric(14,2)"`
	Lines     []LineItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at"`
}

func (OrderRecord) TableName() string { return "pedidos" }

// LineItemRecord maps a line item to the pedido_detalles table.
type LineItemRecord struct {
	ID           int64                             `gorm:"primaryKey;column:id"`
	OrderID      int64                             `gorm:"column:pedido_id;index"`
	Position     int                               `gorm:"column:posicion"`
	InstrumentID int64                             `gorm:"column:instrumento_id;index"`
	Instrument   *catalogpostgres.InstrumentRecord `gorm:"foreignKey:InstrumentID;constraint:OnDelete:RESTRICT"`
	Quantity     int32                             `gorm:"column:cantidad"`
	UnitPrice    decimal.Decimal                   `gorm:"column:precio_unitario;type:numeric(14,2)"`
}

func (LineItemRecord) TableName() string { return "pedido_detalles" }

// Store persists orders in PostgreSQL using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed order store. Caller manages DB lifecycle and schema.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transact runs fn inside a database transaction.
func (s *Store) Transact(ctx context.Context, fn func(tx ports.TxStore) error) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record OrderRecord
	if err := hydrated(s.db.WithContext(ctx)).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *Store) List(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.find(hydrated(s.db.WithContext(ctx)))
}

func (s *Store) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.find(hydrated(s.db.WithContext(ctx)).Where("fecha BETWEEN ? AND ?", from, to))
}

func (s *Store) find(query *gorm.DB) ([]*domain.Order, error) {
	var records []OrderRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

// hydrated eagerly loads lines in placement order with their instruments.
func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("posicion") }).
		Preload("Lines.Instrument").
		Preload("Lines.Instrument.Category")
}

type txStore struct {
	db *gorm.DB
}

func (t *txStore) FindInstrument(ctx context.Context, id int64) (*catalogdomain.Instrument, error) {
	instrument, err := catalogpostgres.NewInstrumentRepository(t.db).GetByID(ctx, id)
	if errors.Is(err, catalogports.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ports.ErrInstrumentNotFound, id)
	}
	return instrument, err
}

func (t *txStore) Create(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	// line records carry only the instrument id, so the catalog rows are never rewritten
	record := toRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return ports.ErrInstrumentNotFound
		}
		return err
	}
	order.ID = record.ID
	for i := range order.Lines {
		order.Lines[i].ID = record.Lines[i].ID
	}
	return nil
}

func toRecord(order *domain.Order) OrderRecord {
	record := OrderRecord{
		ID:       order.ID,
		PlacedAt: order.PlacedAt,
		Total:    order.Total,
		Lines:    make([]LineItemRecord, 0, len(order.Lines)),
	}
	for i, line := range order.Lines {
		record.Lines = append(record.Lines, LineItemRecord{
			Position:     i,
			InstrumentID: line.InstrumentID(),
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
		})
	}
	return record
}

func (r OrderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:       r.ID,
		PlacedAt: r.PlacedAt,
		Total:    r.Total,
		Lines:    make([]domain.LineItem, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		item := domain.LineItem{ID: line.ID, Quantity: line.Quantity, UnitPrice: line.UnitPrice}
		if line.Instrument != nil {
			item.Instrument = line.Instrument.ToDomain()
		} else {
			item.Instrument = &catalogdomain.Instrument{ID: line.InstrumentID}
		}
		order.Lines = append(order.Lines, item)
	}
	return order
}
