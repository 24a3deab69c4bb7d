package session

import (
	"context"
	"log"
)

// Screen names a top-level screen of the app
type Screen string

const (
	ScreenOnboarding Screen = "onboarding"
	ScreenMap        Screen = "map"
)

// Decision is the outcome of a gate check
type Decision struct {
	Screen     Screen `json:"screen"`
	Redirect   bool   `json:"redirect"`
	HasSession bool   `json:"has_session"`
}

// Check decides where a device belongs given the screen it is on.
// Read failures count as "no session" so the device lands on
// onboarding instead of getting stuck.
func Check(ctx context.Context, store *Store, current Screen) Decision {
	sess, err := store.Load(ctx)
	if err != nil {
		log.Printf("❌ Failed to check user session: %v", err)
		sess = nil
	}

	hasSession := sess != nil
	switch {
	case !hasSession && current != ScreenOnboarding:
		return Decision{Screen: ScreenOnboarding, Redirect: true}
	case hasSession && current == ScreenOnboarding:
		return Decision{Screen: ScreenMap, Redirect: true, HasSession: true}
	}
	return Decision{Screen: current, HasSession: hasSession}
}
