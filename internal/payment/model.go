package payment

// CreateIntentRequest carries everything the provider needs to
// authorize a charge. Amount is in minor currency units.
type CreateIntentRequest struct {
	AmountCents   int64
	Currency      string
	CustomerEmail string
	UserID        string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)
