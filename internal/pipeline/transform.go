package pipeline

import (
	"catalog-export/internal/model"
	"catalog-export/internal/obs"
)

// BuildRows keeps the products whose first stock entry has a positive
// quantity and turns them into export rows, preserving input order.
func BuildRows(products []model.Product, baseURL string) []model.Row {
	rows := make([]model.Row, 0, len(products))
	skipped := 0
	for _, p := range products {
		if !p.InStock() {
			skipped++
			continue
		}
		rows = append(rows, ToRow(p, baseURL))
	}
	obs.Logger.Info("products transformed", "stage", "transform", "in_stock", len(rows), "skipped", skipped)
	return rows
}

// ToRow maps a product to its export row. The stock filter is not applied.
func ToRow(p model.Product, baseURL string) model.Row {
	stock, _ := p.FirstStock()
	return model.Row{
		ProductID:    string(p.ID),
		Name:         p.Name,
		URL:          baseURL + p.URL,
		RegularPrice: model.FormatPrice(stock.Prices.Regular()),
		PromoPrice:   model.FormatPrice(stock.Prices.Promo()),
		Brand:        p.Brand(),
	}
}
