package resource

import "time"

const (
	ProductActive   Status = "active"
	ProductInactive Status = "inactive"
	ProductArchived Status = "archived"
)

// Stone describes one gemstone (or a group of identical stones) set in a product.
type Stone struct {
	Type    string  `json:"type"`              // diamond, sapphire, emerald...
	Shape   string  `json:"shape,omitempty"`   // round, oval, princess...
	Cut     string  `json:"cut,omitempty"`     // excellent, very good...
	Clarity string  `json:"clarity,omitempty"` // IF, VVS1, VS2...
	Color   string  `json:"color,omitempty"`   // D-Z for diamonds, free text otherwise
	Carat   float64 `json:"carat,omitempty"`
	Count   int     `json:"count,omitempty"`
	Origin  string  `json:"origin,omitempty"` // natural or lab-grown
}

// Metal describes one metal of a product.
type Metal struct {
	Type   string  `json:"type"`             // gold, platinum, silver
	Purity string  `json:"purity,omitempty"` // 14k, 18k, 950...
	Color  string  `json:"color,omitempty"`  // yellow, white, rose
	Weight float64 `json:"weight,omitempty"` // grams
}

type RingDetails struct {
	Sizes     []float64 `json:"sizes,omitempty"`
	BandWidth float64   `json:"bandWidth,omitempty"` // millimeters
	Setting   string    `json:"setting,omitempty"`   // prong, bezel, pave...
	Resizable bool      `json:"resizable"`
}

type Product struct {
	ID          ID           `json:"id"`
	Name        string       `json:"name"`
	SKU         string       `json:"sku,omitempty"`
	Category    string       `json:"category,omitempty"`
	Price       float64      `json:"price"`
	SalePrice   *float64     `json:"salePrice,omitempty"`
	Description string       `json:"description,omitempty"`
	Images      []string     `json:"images,omitempty"`
	Stones      []Stone      `json:"stones,omitempty"`
	Metals      []Metal      `json:"metals,omitempty"`
	Ring        *RingDetails `json:"ringDetails,omitempty"`
	Stock       int          `json:"stock"`
	Status      Status       `json:"status"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty"`
}

func (p Product) ResourceID() ID {
	return p.ID
}

func (p Product) ResourceStatus() Status {
	return p.Status
}

// TotalCarat sums the carat weight of every stone.
func (p Product) TotalCarat() float64 {
	var total float64
	for _, s := range p.Stones {
		count := s.Count
		if count == 0 {
			count = 1
		}
		total += s.Carat * float64(count)
	}
	return total
}
