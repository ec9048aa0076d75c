package models

import (
	"strconv"
	"time"

	"vpn-storefront/internal/identity"
	"vpn-storefront/internal/platform/vpnapi"
)

const (
	BotInviteLink = "https://t.me/psychowarevpnxbot"
	ChannelLink   = "https://t.me/psychowarevpn"
	SupportLink   = "https://t.me/psychowaresupportxbot"

	// SubsLinkGate opens custom URL schemes from inside Telegram.
	SubsLinkGate = "https://subs.psychoware.ru/url?url="

	dateLabelLayout = "02.01.2006"
)

type AppLink struct {
	ID    string `json:"id" example:"happ-mobile"`
	Label string `json:"label" example:"Happ (iOS/Android)"`
	URL   string `json:"url" example:"https://subs.psychoware.ru/url?url=happ://add/https://sub.example/abc"`
}

var appLinks = []struct {
	id, label string
	build     func(subURL string) string
}{
	{"happ-mobile", "Happ (iOS/Android)", func(s string) string { return "happ://add/" + s }},
	{"happ-desktop", "Happ (Windows/Mac)", func(s string) string { return "happ://add/" + s }},
	{"v2raytun", "v2rayTun (iOS/Android/PC)", func(s string) string { return "v2raytun://import/" + s }},
	{"v2rayn", "v2rayN (Windows)", func(s string) string { return "v2rayn://install-sub?url=" + s }},
}

// BuildAppLinks returns the client deep links behind the default gate.
func BuildAppLinks(subURL string) []AppLink {
	return BuildGatedAppLinks(SubsLinkGate, subURL)
}

// BuildGatedAppLinks returns the client deep links for a subscription URL,
// nil when there is none.
func BuildGatedAppLinks(gate, subURL string) []AppLink {
	if subURL == "" {
		return nil
	}
	links := make([]AppLink, 0, len(appLinks))
	for _, l := range appLinks {
		links = append(links, AppLink{
			ID:    l.id,
			Label: l.label,
			URL:   gate + l.build(subURL),
		})
	}
	return links
}

type SubscriptionView struct {
	Plan         vpnapi.PlanCode `json:"plan" example:"3m"`
	MaxDevices   int             `json:"max_devices" example:"3"`
	ExpiresAt    string          `json:"expires_at" example:"2026-02-15T00:00:00Z"`
	ExpiresLabel string          `json:"expires_label" example:"15.02.2026"`
	DaysLeft     int             `json:"days_left" example:"30"`
}

// NewSubscriptionView returns nil when the account has no subscription.
func NewSubscriptionView(status *vpnapi.UserStatus) *SubscriptionView {
	if status == nil || status.Subscription == nil {
		return nil
	}
	sub := status.Subscription
	return &SubscriptionView{
		Plan:         sub.Plan,
		MaxDevices:   sub.MaxDevices,
		ExpiresAt:    sub.ExpiresAt,
		ExpiresLabel: DateLabel(sub.ExpiresAt),
		DaysLeft:     sub.DaysLeft,
	}
}

type HomeResponse struct {
	Profile identity.Profile `json:"profile"`
	// ID is the identity as text for copying.
	ID           string            `json:"id" example:"660741573"`
	Blocked      bool              `json:"blocked"`
	Subscription *SubscriptionView `json:"subscription"`
	StatusError  string            `json:"status_error,omitempty"`
	InviteLink   string            `json:"invite_link" example:"https://t.me/psychowarevpnxbot"`
	ChannelLink  string            `json:"channel_link"`
	SupportLink  string            `json:"support_link"`
	// Watching is set while a redirect payment is being confirmed.
	Watching bool `json:"watching"`
}

type ConnectResponse struct {
	HasSubscription bool      `json:"has_subscription"`
	SubURL          string    `json:"sub_url,omitempty"`
	Links           []AppLink `json:"links"`
}

type PurchaseView struct {
	ID         int64           `json:"id" example:"3123432143"`
	Plan       vpnapi.PlanCode `json:"plan" example:"1m"`
	MaxDevices int             `json:"max_devices" example:"3"`
	PricePaid  int             `json:"price_paid" example:"100"`
	PaymentID  *string         `json:"payment_id"`
	DateLabel  string          `json:"date_label" example:"21.01.2026"`
	Days       int             `json:"days" example:"30"`
}

type DeviceView struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name" example:"iPhone"`
	LastIP     *string `json:"last_ip"`
	LastSeenAt *string `json:"last_seen_at"`
}

type CabinetResponse struct {
	Profile        identity.Profile  `json:"profile"`
	ID             string            `json:"id" example:"660741573"`
	ReferralsCount int               `json:"referrals_count"`
	BonusDays      int               `json:"bonus_days"`
	DevicesCount   int               `json:"devices_count"`
	Devices        []DeviceView      `json:"devices"`
	Purchases      []PurchaseView    `json:"purchases"`
	Subscription   *SubscriptionView `json:"subscription"`
	InviteLink     string            `json:"invite_link"`
}

func NewPurchaseView(p vpnapi.Purchase) PurchaseView {
	view := PurchaseView{
		ID:         p.ID,
		Plan:       p.Plan,
		MaxDevices: p.MaxDevices,
		PricePaid:  p.PricePaid,
		PaymentID:  p.PaymentID,
		DateLabel:  DateLabel(p.CreatedAt),
	}
	started, ok1 := ParseTime(p.StartedAt)
	expires, ok2 := ParseTime(p.ExpiresAt)
	if ok1 && ok2 && expires.After(started) {
		view.Days = int(expires.Sub(started).Round(time.Hour).Hours() / 24)
	}
	return view
}

func NewDeviceView(d vpnapi.Device) DeviceView {
	name := "Устройство " + strconv.FormatInt(d.ID, 10)
	if d.Name != nil && *d.Name != "" {
		name = *d.Name
	}
	return DeviceView{
		ID:         d.ID,
		Name:       name,
		LastIP:     d.LastIP,
		LastSeenAt: d.LastSeenAt,
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp formats the VPN API emits.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateLabel formats a timestamp as dd.mm.yyyy, returning the input
// unchanged when it cannot be parsed.
func DateLabel(s string) string {
	if t, ok := ParseTime(s); ok {
		return t.Format(dateLabelLayout)
	}
	return s
}
