package product

import "time"

type Product struct {
	ID            string
	Name          string
	NameAr        string
	Description   *string
	DescriptionAr *string
	Category      string
	Price         float64
	ImageURL      *string
	IsActive      bool
	StockCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
