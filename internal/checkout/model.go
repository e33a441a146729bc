package checkout

// CartItem is one client-submitted cart line. Prices are advisory:
// the server recomputes every total before any money moves.
type CartItem struct {
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	ProductName     string  `json:"product_name"`
	ProductImageURL *string `json:"product_image_url,omitempty"`
}

type CreateIntentInput struct {
	Amount        float64
	Currency      string
	CartItems     []CartItem
	CustomerEmail string
}

type CreateIntentResult struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
