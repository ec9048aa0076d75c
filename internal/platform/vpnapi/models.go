package vpnapi

// PlanCode is a subscription period code.
type PlanCode string

const (
	Plan1M PlanCode = "1m"
	Plan3M PlanCode = "3m"
	Plan6M PlanCode = "6m"
	Plan1Y PlanCode = "1y"
)

// Months returns the length of the plan in months, 0 for unknown codes.
func (p PlanCode) Months() int {
	switch p {
	case Plan1M:
		return 1
	case Plan3M:
		return 3
	case Plan6M:
		return 6
	case Plan1Y:
		return 12
	}
	return 0
}

type Subscription struct {
	Plan       PlanCode `json:"plan"`
	MaxDevices int      `json:"max_devices"`
	PricePaid  int      `json:"price_paid"`
	StartedAt  string   `json:"started_at"`
	ExpiresAt  string   `json:"expires_at"`
	DaysLeft   int      `json:"days_left"`
}

type Device struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name"`
	LastIP     *string `json:"last_ip"`
	LastSeenAt *string `json:"last_seen_at"`
}

type Purchase struct {
	ID         int64    `json:"id"`
	Plan       PlanCode `json:"plan"`
	MaxDevices int      `json:"max_devices"`
	PricePaid  int      `json:"price_paid"`
	PaymentID  *string  `json:"payment_id"`
	CreatedAt  string   `json:"created_at"`
	StartedAt  string   `json:"started_at"`
	ExpiresAt  string   `json:"expires_at"`
}

// UserStatus is the account view returned by GET /api/user/{tg_chat_id}.
type UserStatus struct {
	TgChatID        int64         `json:"tg_chat_id"`
	TgUsername      *string       `json:"tg_username"`
	IsBlocked       bool          `json:"is_blocked"`
	HasSubscription bool          `json:"has_subscription"`
	Subscription    *Subscription `json:"subscription"`
	SubURL          string        `json:"sub_url"`
	DevicesCount    int           `json:"devices_count"`
	Devices         []Device      `json:"devices"`
	ReferralsCount  int           `json:"referrals_count"`
	BonusDays       int           `json:"bonus_days"`
	Purchases       []Purchase    `json:"purchases"`
}

// ActiveSubURL returns the subscription URL only while a subscription exists.
func (u *UserStatus) ActiveSubURL() string {
	if u == nil || u.Subscription == nil {
		return ""
	}
	return u.SubURL
}

type Plan struct {
	Plan   PlanCode       `json:"plan"`
	Days   int            `json:"days"`
	Prices map[string]int `json:"prices"`
}

type PlansResponse struct {
	Plans []Plan `json:"plans"`
}

type RegisterRequest struct {
	TgChatID   int64   `json:"tg_chat_id"`
	TgUsername *string `json:"tg_username"`
}

// PaymentMethod is the platega payment rail.
type PaymentMethod string

const (
	MethodSBP  PaymentMethod = "sbp"
	MethodCard PaymentMethod = "card"
)

type PlategaRequest struct {
	TgChatID int64         `json:"tg_chat_id"`
	Plan     PlanCode      `json:"plan"`
	Devices  int           `json:"devices"`
	Method   PaymentMethod `json:"method"`
}

// PlategaResponse carries the redirect URL under one of several names.
type PlategaResponse struct {
	Redirect    string `json:"redirect,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	PaymentURL  string `json:"paymentUrl,omitempty"`
	URL         string `json:"url,omitempty"`
	Link        string `json:"link,omitempty"`
}

// redirectAccessors lists the redirect fields in priority order.
var redirectAccessors = []func(*PlategaResponse) string{
	func(r *PlategaResponse) string { return r.Redirect },
	func(r *PlategaResponse) string { return r.RedirectURL },
	func(r *PlategaResponse) string { return r.PaymentURL },
	func(r *PlategaResponse) string { return r.URL },
	func(r *PlategaResponse) string { return r.Link },
}

// RedirectTarget returns the first non-empty redirect field.
func (r *PlategaResponse) RedirectTarget() string {
	if r == nil {
		return ""
	}
	for _, get := range redirectAccessors {
		if v := get(r); v != "" {
			return v
		}
	}
	return ""
}

type InvoiceRequest struct {
	TgChatID int64    `json:"tg_chat_id"`
	Plan     PlanCode `json:"plan"`
	Devices  int      `json:"devices"`
}

type StarsInvoice struct {
	InvoiceLink string `json:"invoice_link"`
	StarsAmount int    `json:"stars_amount"`
	PaymentID   string `json:"payment_id"`
	PriceRub    int    `json:"price_rub"`
}

type CryptoInvoice struct {
	InvoiceID  int64   `json:"invoice_id"`
	PayURL     string  `json:"pay_url"`
	AmountUSDT float64 `json:"amount_usdt"`
	PriceRub   int     `json:"price_rub"`
}

type CryptoCheckRequest struct {
	InvoiceID int64    `json:"invoice_id"`
	TgChatID  int64    `json:"tg_chat_id"`
	Plan      PlanCode `json:"plan"`
	Devices   int      `json:"devices"`
}

type CryptoCheckResponse struct {
	Paid   bool   `json:"paid"`
	Status string `json:"status"`
}

type SubscribeRequest struct {
	TgChatID      int64    `json:"tg_chat_id"`
	Plan          PlanCode `json:"plan"`
	MaxDevices    int      `json:"max_devices"`
	PaymentID     string   `json:"payment_id"`
	PaymentMethod string   `json:"payment_method"`
}

type SubscribeResponse struct {
	Success   bool   `json:"success"`
	ExpiresAt string `json:"expires_at"`
}
