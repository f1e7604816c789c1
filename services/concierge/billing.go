package concierge

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
)

// StripeBillingChecker treats a credential as billable when the Stripe
// customer tagged with its reference has an active subscription. Customers are
// tagged with metadata key "concierge_ref" at checkout.
type StripeBillingChecker struct{}

func (StripeBillingChecker) BillingEnabled(ctx context.Context, credentialRef string) (bool, error) {
	search := &stripe.CustomerSearchParams{}
	search.Query = fmt.Sprintf("metadata['concierge_ref']:'%s'", credentialRef)
	search.Context = ctx

	customers := customer.Search(search)
	for customers.Next() {
		c := customers.Customer()
		params := &stripe.SubscriptionListParams{
			Customer: stripe.String(c.ID),
			Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
		}
		params.Context = ctx
		subs := subscription.List(params)
		if subs.Next() {
			return true, nil
		}
		if err := subs.Err(); err != nil {
			return false, fmt.Errorf("failed to list subscriptions: %w", err)
		}
	}
	if err := customers.Err(); err != nil {
		return false, fmt.Errorf("failed to search customers: %w", err)
	}
	return false, nil
}
