package services

import (
	"context"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Muhammad-Huzaifa24/backend-PMS/logging"
	"github.com/Muhammad-Huzaifa24/backend-PMS/models"
)

// paymentIntentCreator is the slice of the stripe client this service needs;
// tests substitute a stub.
type paymentIntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// PaymentService creates payment intents with the provider. The outbound
// call sits behind a circuit breaker so a degraded provider fails fast.
type PaymentService struct {
	intents paymentIntentCreator
	breaker *gobreaker.CircuitBreaker
}

func NewPaymentService(apiKey string) *PaymentService {
	sc := client.New(apiKey, nil)
	return newPaymentService(sc.PaymentIntents)
}

func newPaymentService(intents paymentIntentCreator) *PaymentService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "stripe-cb",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Circuit breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &PaymentService{intents: intents, breaker: breaker}
}

// CreateIntent returns the client secret of a new payment intent.
func (s *PaymentService) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 || currency == "" {
		return "", models.NewError(models.ErrCodeInvalid, "amount and currency are required")
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(amount),
			Currency: stripe.String(currency),
			AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
				Enabled: stripe.Bool(true),
			},
		}
		params.Context = ctx
		return s.intents.New(params)
	})
	if err != nil {
		return "", models.WrapError(models.ErrCodeStorage, "error while creating payment intent", err)
	}

	return result.(*stripe.PaymentIntent).ClientSecret, nil
}
