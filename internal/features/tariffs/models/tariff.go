package models

import (
	"math"
	"sort"
	"strconv"

	"vpn-storefront/internal/platform/vpnapi"
)

// Source tells where the catalog came from.
type Source string

const (
	SourceBackend Source = "backend"
	SourceDefault Source = "default"
)

// ExtraDevicePrice is added to the base price for every device above three.
const ExtraDevicePrice = 50

var periodLabels = map[vpnapi.PlanCode]string{
	vpnapi.Plan1M: "1 месяц",
	vpnapi.Plan3M: "3 месяца",
	vpnapi.Plan6M: "6 месяцев",
	vpnapi.Plan1Y: "12 месяцев",
}

// PeriodLabel returns the human period of a plan.
func PeriodLabel(plan vpnapi.PlanCode) string {
	if label, ok := periodLabels[plan]; ok {
		return label
	}
	return string(plan)
}

// BuildPrices returns the price table for 3..7 devices.
func BuildPrices(base int) map[string]int {
	prices := make(map[string]int, 5)
	for devices := 3; devices <= 7; devices++ {
		prices[strconv.Itoa(devices)] = base + (devices-3)*ExtraDevicePrice
	}
	return prices
}

// DefaultCatalog is shown when neither the backend nor the cache has plans.
func DefaultCatalog() []vpnapi.Plan {
	return []vpnapi.Plan{
		{Plan: vpnapi.Plan1M, Days: 30, Prices: BuildPrices(99)},
		{Plan: vpnapi.Plan3M, Days: 90, Prices: BuildPrices(269)},
		{Plan: vpnapi.Plan6M, Days: 180, Prices: BuildPrices(516)},
		{Plan: vpnapi.Plan1Y, Days: 365, Prices: BuildPrices(999)},
	}
}

// SortPlans returns a copy ordered by plan length.
func SortPlans(plans []vpnapi.Plan) []vpnapi.Plan {
	sorted := make([]vpnapi.Plan, len(plans))
	copy(sorted, plans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Plan.Months() < sorted[j].Plan.Months()
	})
	return sorted
}

// DefaultSelection picks the second option, else the first.
func DefaultSelection(plans []vpnapi.Plan) *vpnapi.Plan {
	switch {
	case len(plans) > 1:
		return &plans[1]
	case len(plans) == 1:
		return &plans[0]
	}
	return nil
}

// PriceFor returns the plan price for a device count, 0 when unknown.
func PriceFor(plan vpnapi.Plan, devices int) int {
	return plan.Prices[strconv.Itoa(devices)]
}

// MonthlyPrice is the price spread over the plan months, rounded.
func MonthlyPrice(plan vpnapi.Plan, devices int) int {
	months := plan.Plan.Months()
	if months == 0 {
		months = 1
	}
	return int(math.Round(float64(PriceFor(plan, devices)) / float64(months)))
}

type TariffOption struct {
	Plan         vpnapi.PlanCode `json:"plan" example:"3m"`
	Days         int             `json:"days" example:"90"`
	Period       string          `json:"period" example:"3 месяца"`
	Price        int             `json:"price" example:"269"`
	MonthlyPrice int             `json:"monthly_price" example:"90"`
	Prices       map[string]int  `json:"prices"`
	Selected     bool            `json:"selected"`
}

type CatalogResponse struct {
	Source     Source          `json:"source" example:"backend"`
	Devices    int             `json:"devices" example:"3"`
	MinDevices int             `json:"min_devices" example:"3"`
	MaxDevices int             `json:"max_devices" example:"7"`
	Selected   vpnapi.PlanCode `json:"selected,omitempty" example:"3m"`
	Total      int             `json:"total" example:"269"`
	Options    []TariffOption  `json:"options"`
	// CryptoPolling is set when a saved crypto invoice is being watched.
	CryptoPolling bool `json:"crypto_polling"`
}
