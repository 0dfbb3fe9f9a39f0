package stripe

import (
	"context"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/namnguyen191/Natours-API/internal/services"
)

type Client struct{}

func New(apiKey string) *Client {
	stripeapi.Key = apiKey
	return &Client{}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, p services.CheckoutParams) (*services.CheckoutSession, error) {
	product := &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripeapi.String(p.TourName),
	}
	if p.TourSummary != "" {
		product.Description = stripeapi.String(p.TourSummary)
	}
	if p.ImageURL != "" {
		product.Images = stripeapi.StringSlice([]string{p.ImageURL})
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:               stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		SuccessURL:         stripeapi.String(p.SuccessURL),
		CancelURL:          stripeapi.String(p.CancelURL),
		CustomerEmail:      stripeapi.String(p.CustomerEmail),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Quantity: stripeapi.Int64(1),
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripeapi.String(string(stripeapi.CurrencyUSD)),
					UnitAmount:  stripeapi.Int64(p.AmountCents),
					ProductData: product,
				},
			},
		},
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &services.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}
