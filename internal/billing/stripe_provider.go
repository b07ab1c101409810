package billing

import (
	"context"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/hitoshi/deskmate/internal/model"
)

// StripeProvider はStripeによるPaymentProviderとWebhookVerifierの実装。
type StripeProvider struct {
	api           *client.API
	priceID       string
	webhookSecret string
}

// NewStripeProvider はStripeProviderを生成する。
func NewStripeProvider(secretKey, priceID, webhookSecret string) *StripeProvider {
	return &StripeProvider{
		api:           client.New(secretKey, nil),
		priceID:       priceID,
		webhookSecret: webhookSecret,
	}
}

// CreateCustomer はStripe顧客を作成して顧客IDを返す。
func (p *StripeProvider) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	c, err := p.api.Customers.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// CreateCheckoutSession はサブスクリプションモードのチェックアウトセッションを
// 作成し、リダイレクト先URLを返す。
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, customerID, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

// VerifyAndParse はStripeのWebhook署名を共有シークレットで検証し、
// 正規化したイベントを返す。検証に失敗した場合は認証エラーを返し、
// ペイロードの内容は一切信頼しない。
func (p *StripeProvider) VerifyAndParse(payload []byte, sigHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return nil, model.NewInvalidSignatureError()
	}

	ev := &Event{Type: string(stripeEvent.Type)}
	object := stripeEvent.Data.Object

	if customer, ok := object["customer"].(string); ok {
		ev.CustomerID = customer
	}

	switch ev.Type {
	case EventCheckoutCompleted:
		if sub, ok := object["subscription"].(string); ok {
			ev.SubscriptionID = sub
		}
	case EventSubscriptionDeleted:
		// 対象オブジェクトがサブスクリプションそのもの
		if id, ok := object["id"].(string); ok {
			ev.SubscriptionID = id
		}
	}

	return ev, nil
}
