package models

// Storage keys inside the identity namespace.
const (
	ThemeKey      = "app-theme"
	OnboardingKey = "swipe-onboarding-complete"

	// OnboardingDone is the stored value of a completed onboarding.
	OnboardingDone = "1"
)

type Theme string

const (
	ThemeSpace Theme = "space"
	ThemePink  Theme = "pink"
)

// ParseTheme reads a stored theme; anything but pink is space.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemePink {
		return ThemePink
	}
	return ThemeSpace
}

// Tab is one of the three pages of the bottom bar.
type Tab string

const (
	TabCabinet Tab = "cabinet"
	TabHome    Tab = "home"
	TabTariffs Tab = "tariffs"
)

type Direction string

const (
	SwipeLeft  Direction = "left"
	SwipeRight Direction = "right"
)

// Next returns the tab a swipe leads to. Swipes past the edge stay put.
func Next(from Tab, dir Direction) Tab {
	switch dir {
	case SwipeLeft:
		switch from {
		case TabCabinet:
			return TabHome
		case TabHome:
			return TabTariffs
		}
	case SwipeRight:
		switch from {
		case TabTariffs:
			return TabHome
		case TabHome:
			return TabCabinet
		}
	}
	return from
}

type Preferences struct {
	Theme              Theme `json:"theme" example:"space"`
	OnboardingComplete bool  `json:"onboarding_complete"`
}

type UpdatePreferencesRequest struct {
	Theme              *string `json:"theme" validate:"omitempty,oneof=space pink" example:"pink" enums:"space,pink"`
	OnboardingComplete *bool   `json:"onboarding_complete"`
}

type SwipeRequest struct {
	From      Tab       `json:"from" validate:"required,oneof=cabinet home tariffs" example:"home" enums:"cabinet,home,tariffs"`
	Direction Direction `json:"direction" validate:"required,oneof=left right" example:"left" enums:"left,right"`
}

type SwipeResponse struct {
	Tab                Tab  `json:"tab" example:"tariffs"`
	Changed            bool `json:"changed"`
	OnboardingComplete bool `json:"onboarding_complete"`
}
