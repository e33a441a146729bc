package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"digistore-be/internal/logger"

	"go.uber.org/zap"
)

const stripeBaseURL = "https://api.stripe.com"

type stripeGateway struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	webhookToken string
}

// ----------------- Constructor -----------------

func NewStripeGateway(apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("Stripe API key is empty")
	}

	return &stripeGateway{
		apiKey:  apiKey,
		baseURL: stripeBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		webhookToken: os.Getenv("STRIPE_WEBHOOK_TOKEN"),
	}
}

// NewStripeGatewayWithBaseURL is used by tests to point at a fake server.
func NewStripeGatewayWithBaseURL(apiKey, baseURL string) Gateway {
	g := NewStripeGateway(apiKey).(*stripeGateway)
	g.baseURL = baseURL
	return g
}

// ----------------- CreatePaymentIntent -----------------

func (g *stripeGateway) CreatePaymentIntent(ctx context.Context, in CreateIntentRequest) (*PaymentIntent, error) {
	log := logger.L().With(
		zap.Int64("amount_cents", in.AmountCents),
		zap.String("currency", in.Currency),
	)

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(in.AmountCents, 10))
	form.Set("currency", in.Currency)
	form.Add("payment_method_types[]", "card")
	form.Set("metadata[customer_email]", in.CustomerEmail)
	form.Set("metadata[user_id]", in.UserID)

	req, err := http.NewRequestWithContext(ctx, "POST",
		g.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	log.Info("Sending payment intent request to Stripe")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Stripe request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Stripe returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("stripe error: %s", string(bodyBytes))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(bodyBytes, &intent); err != nil {
		log.Error("Failed decoding Stripe response", zap.Error(err))
		return nil, err
	}

	log.Info("Stripe payment intent created",
		zap.String("payment_intent_id", intent.ID),
		zap.String("status", intent.Status),
	)

	return &intent, nil
}

// ----------------- GetPaymentIntent -----------------

func (g *stripeGateway) GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	log := logger.L().With(zap.String("payment_intent_id", paymentIntentID))

	req, err := http.NewRequestWithContext(ctx, "GET",
		g.baseURL+"/v1/payment_intents/"+paymentIntentID, nil)
	if err != nil {
		log.Error("Failed building request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Request to Stripe failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Stripe returned error",
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("stripe error: %s", string(bodyBytes))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(bodyBytes, &intent); err != nil {
		log.Error("Failed decoding payment intent", zap.Error(err))
		return nil, err
	}

	return &intent, nil
}

// ----------------- Verify Signature -----------------

func (g *stripeGateway) VerifyWebhookSignature(r *http.Request) error {
	sig := r.Header.Get("x-webhook-token")
	expected := g.webhookToken

	if expected == "" {
		return nil // skip in dev
	}

	if sig != expected {
		return errors.New("invalid webhook signature")
	}
	return nil
}
