package application

import (
	"context"
	"sort"

	"github.com/Apurer/instrumentos-api/internal/domains/orders/application/types"
)

// CountByMonth groups orders by placement month in the order zone, oldest month first.
func (s *Service) CountByMonth(ctx context.Context) ([]types.MonthCount, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, order := range orders {
		counts[order.PlacedAt.In(s.location).Format("2006-01")]++
	}
	result := make([]types.MonthCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, types.MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

// QuantityByInstrument sums ordered quantities per instrument name, largest first.
func (s *Service) QuantityByInstrument(ctx context.Context) ([]types.InstrumentQuantity, error) {
	orders, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	totals := map[string]int64{}
	for _, order := range orders {
		for _, line := range order.Lines {
			if line.Instrument == nil {
				continue
			}
			totals[line.Instrument.Name] += int64(line.Quantity)
		}
	}
	result := make([]types.InstrumentQuantity, 0, len(totals))
	for name, quantity := range totals {
		result = append(result, types.InstrumentQuantity{Instrument: name, Quantity: quantity})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		return result[i].Instrument < result[j].Instrument
	})
	return result, nil
}
