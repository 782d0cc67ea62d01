package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
)

// GormPriceSource reads option prices from the catalog tables.
type GormPriceSource struct {
	db *gorm.DB
}

func NewGormPriceSource(db *gorm.DB) *GormPriceSource {
	return &GormPriceSource{db: db}
}

func (s *GormPriceSource) VariationOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := map[uuid.UUID]decimal.Decimal{}
	if len(ids) == 0 {
		return out, nil
	}
	var options []models.VariationOption
	if err := s.db.Where("id IN ?", ids).Find(&options).Error; err != nil {
		return nil, err
	}
	for _, o := range options {
		out[o.ID] = o.PriceModifier
	}
	return out, nil
}

func (s *GormPriceSource) AddOnOptionPrices(ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	out := map[uuid.UUID]decimal.Decimal{}
	if len(ids) == 0 {
		return out, nil
	}
	var options []models.AddOnOption
	if err := s.db.Where("id IN ?", ids).Find(&options).Error; err != nil {
		return nil, err
	}
	for _, o := range options {
		out[o.ID] = o.Price
	}
	return out, nil
}
