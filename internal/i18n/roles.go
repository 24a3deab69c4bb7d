package i18n

import "pitfinder-backend/internal/models"

// Icon names the glyph drawn on a role card
type Icon string

const (
	IconTruck   Icon = "truck"
	IconPickaxe Icon = "pickaxe"
	IconHardHat Icon = "hard-hat"
)

// RoleCard is everything the onboarding screen draws for one role
type RoleCard struct {
	Role        models.Role `json:"role"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Icon        Icon        `json:"icon"`
}

// RoleCards returns one card per role, in onboarding order
func RoleCards(lang models.Language) []RoleCard {
	t := OnboardingText(lang)
	cards := make([]RoleCard, 0, len(models.Roles))
	for _, role := range models.Roles {
		card := RoleCard{Role: role}
		switch role {
		case models.RoleDriver:
			card.Label, card.Description, card.Icon = t.Driver, t.DriverDesc, IconTruck
		case models.RolePit:
			card.Label, card.Description, card.Icon = t.Pit, t.PitDesc, IconPickaxe
		case models.RoleBuyer:
			card.Label, card.Description, card.Icon = t.Buyer, t.BuyerDesc, IconHardHat
		}
		cards = append(cards, card)
	}
	return cards
}
