package agent

// Request is everything the operator supplies for one agent run. It is
// immutable once handed to the supervisor.
type Request struct {
	Requirements string
	Budget       string
	Domain       string
	Instructions string
	Headless     bool
}

// Validation decisions produced by the agent's cart validator.
const (
	DecisionAccept      = "ACCEPT"
	DecisionReject      = "REJECT"
	DecisionNeedsReview = "NEEDS_REVIEW"
)

// Output mirrors agent_output.json as written by the external workflow.
// All monetary fields are integer cents.
type Output struct {
	Success      bool         `json:"success"`
	Error        string       `json:"error,omitempty"`
	ShoppingPlan ShoppingPlan `json:"shopping_plan"`
	Cart         Cart         `json:"cart"`
	Validation   Validation   `json:"validation"`
}

type ShoppingPlan struct {
	Items  []PlanItem `json:"items"`
	Budget PlanBudget `json:"budget"`
}

type PlanItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type PlanBudget struct {
	MaxTotalCents int64  `json:"max_total_cents"`
	Currency      string `json:"currency"`
}

type Cart struct {
	Items         []CartItem     `json:"items"`
	Totals        CartTotals     `json:"totals"`
	PaymentResult *PaymentResult `json:"payment_result,omitempty"`
}

type CartItem struct {
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Seller     string `json:"seller,omitempty"`
}

// CartTotals is the producer's breakdown. Tax and shipping may be absent;
// total consistency is checked consumer-side, see TotalsConsistent.
type CartTotals struct {
	SubtotalCents int64  `json:"subtotal_cents"`
	TaxCents      *int64 `json:"tax_cents"`
	ShippingCents *int64 `json:"shipping_cents"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency,omitempty"`
}

type PaymentResult struct {
	Success            bool   `json:"success"`
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	ReceiptURL         string `json:"receipt_url,omitempty"`
	ErrorMessage       string `json:"error_message,omitempty"`
}

type Validation struct {
	Decision  string   `json:"decision"`
	Flags     []string `json:"flags"`
	Reasoning string   `json:"reasoning"`
}
