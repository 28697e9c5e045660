package payment

// CheckoutRequest starts a checkout for one plan
type CheckoutRequest struct {
	Plan string `json:"plan" validate:"required,oneof=monthly yearly lifetime"`
}

// RedirectResponse carries a hosted Stripe page URL
type RedirectResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
