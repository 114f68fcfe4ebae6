package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/instrumentos-api/internal/domains/catalog/domain"
	"github.com/Apurer/instrumentos-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyBrand) ||
		errors.Is(err, domain.ErrEmptyModel) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrPricePrecision) ||
		errors.Is(err, domain.ErrInvalidShipping) ||
		errors.Is(err, domain.ErrNegativeUnitsSold) ||
		errors.Is(err, domain.ErrEmptyDenomination) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// an instrument pointing at a category that does not exist is a client error
func mapCategoryReference(err error) error {
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
