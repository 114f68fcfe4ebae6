package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

var (
	_ ports.InstrumentRepository = (*InstrumentRepository)(nil)
	_ ports.CategoryRepository   = (*CategoryRepository)(nil)
)

// CategoryRecord maps a category to the categorias table.
type CategoryRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Denomination string    `gorm:"column:denominacion;size:255;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (CategoryRecord) TableName() string { return "categorias" }

// InstrumentRecord maps an instrument to the instrumentos table. Exported so
// the orders adapter can preload line item instruments.
type InstrumentRecord struct {
	ID           int64           `gorm:"primaryKey;column:id"`
	Name         string          `gorm:"column:instrumento;size:255"`
	Brand        string          `gorm:"column:marca;size:255"`
	Model        string          `gorm:"column:modelo;size:255"`
	Price        decimal.Decimal `gorm:"column:precio;type:numeric(14,2)"`
	ShippingCost string          `gorm:"column:costo_envio;size:32"`
	Image        string          `gorm:"column:imagen;size:512"`
	Description  string          `gorm:"column:descripcion;type:text"`
	UnitsSold    int64           `gorm:"column:cantidad_vendida"`
	CategoryID   *int64          `gorm:"column:categoria_id;index"`
	Category     *CategoryRecord `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (InstrumentRecord) TableName() string { return "instrumentos" }

// InstrumentRepository persists instruments in PostgreSQL using GORM.
type InstrumentRepository struct {
	db *gorm.DB
}

// NewInstrumentRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and schema.
func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// Save inserts a new instrument or updates every column of an existing one.
func (r *InstrumentRepository) Save(ctx context.Context, instrument *domain.Instrument) (*domain.Instrument, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if instrument == nil {
		return nil, errors.New("instrument is nil")
	}
	record := NewInstrumentRecord(instrument)
	db := r.db.WithContext(ctx)
	if record.ID == 0 {
		if err := db.Omit(clause.Associations).Create(&record).Error; err != nil {
			return nil, translateWriteError(err)
		}
		return r.GetByID(ctx, record.ID)
	}
	result := db.Model(&InstrumentRecord{}).
		Where("id = ?", record.ID).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&record)
	if result.Error != nil {
		return nil, translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an instrument with its category.
func (r *InstrumentRepository) GetByID(ctx context.Context, id int64) (*domain.Instrument, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record InstrumentRecord
	if err := r.db.WithContext(ctx).Preload("Category").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.ToDomain(), nil
}

// Delete removes an instrument. Referenced instruments yield ports.ErrInUse.
func (r *InstrumentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&InstrumentRecord{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all instruments ordered by id.
func (r *InstrumentRepository) List(ctx context.Context) ([]*domain.Instrument, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []InstrumentRecord
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	instruments := make([]*domain.Instrument, 0, len(records))
	for i := range records {
		instruments = append(instruments, records[i].ToDomain())
	}
	return instruments, nil
}

func (r *InstrumentRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres instrument repository not configured")
	}
	return nil
}

// the only foreign key an instrument write can violate is its category
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ports.ErrCategoryNotFound
	}
	return err
}

// NewInstrumentRecord converts a domain instrument to its relational shape.
func NewInstrumentRecord(instrument *domain.Instrument) InstrumentRecord {
	rec := InstrumentRecord{
		ID:           instrument.ID,
		Name:         instrument.Name,
		Brand:        instrument.Brand,
		Model:        instrument.Model,
		Price:        instrument.Price,
		ShippingCost: instrument.ShippingCost,
		Image:        instrument.Image,
		Description:  instrument.Description,
		UnitsSold:    instrument.UnitsSold,
	}
	if id := instrument.CategoryID(); id != 0 {
		rec.CategoryID = &id
	}
	return rec
}

// ToDomain converts the record (and a preloaded category, if any) to the domain model.
func (r InstrumentRecord) ToDomain() *domain.Instrument {
	instrument := &domain.Instrument{
		ID:           r.ID,
		Name:         r.Name,
		Brand:        r.Brand,
		Model:        r.Model,
		Price:        r.Price,
		ShippingCost: r.ShippingCost,
		Image:        r.Image,
		Description:  r.Description,
		UnitsSold:    r.UnitsSold,
	}
	switch {
	case r.Category != nil:
		instrument.Category = r.Category.toDomain()
	case r.CategoryID != nil:
		instrument.Category = &domain.Category{ID: *r.CategoryID}
	}
	return instrument
}

func (r CategoryRecord) toDomain() *domain.Category {
	return &domain.Category{ID: r.ID, Denomination: r.Denomination}
}

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Save inserts or updates a category; denominations are unique.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := CategoryRecord{ID: category.ID, Denomination: category.Denomination}
	db := r.db.WithContext(ctx)
	if record.ID == 0 {
		if err := db.Create(&record).Error; err != nil {
			return nil, translateCategoryError(err)
		}
		return record.toDomain(), nil
	}
	result := db.Model(&CategoryRecord{}).Where("id = ?", record.ID).Update("denominacion", record.Denomination)
	if result.Error != nil {
		return nil, translateCategoryError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrCategoryNotFound
	}
	return r.GetByID(ctx, record.ID)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record CategoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&CategoryRecord{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []CategoryRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for i := range records {
		categories = append(categories, records[i].toDomain())
	}
	return categories, nil
}

func (r *CategoryRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres category repository not configured")
	}
	return nil
}

func translateCategoryError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateCategory
	}
	return err
}
