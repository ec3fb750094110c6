package commission

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/store"
)

// KeySettings is the store key for the admin-editable commission plan.
const KeySettings = "commission_settings"

// Settings is the compensation plan. Flat amounts are rupees, percent
// fields are whole percentages of an order amount.
type Settings struct {
	DirectReferralBonus decimal.Decimal `json:"direct_referral_bonus"`
	MatchingBonus       decimal.Decimal `json:"matching_bonus"`
	RoyaltyPercent      decimal.Decimal `json:"royalty_percent"`
	RepurchasePercent   decimal.Decimal `json:"repurchase_percent"`
}

// DefaultSettings mirrors the portal's stock plan.
func DefaultSettings() Settings {
	return Settings{
		DirectReferralBonus: decimal.NewFromInt(3000),
		MatchingBonus:       decimal.NewFromInt(2500),
		RoyaltyPercent:      decimal.NewFromInt(2),
		RepurchasePercent:   decimal.NewFromInt(3),
	}
}

// LoadSettings returns the stored plan, falling back to the defaults when
// none has been saved.
func LoadSettings(ctx context.Context, s store.Store) (Settings, error) {
	cfg, _, ok, err := store.GetJSON[Settings](ctx, s, KeySettings)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return DefaultSettings(), nil
	}
	return cfg, nil
}

// SaveSettings replaces the stored plan.
func SaveSettings(ctx context.Context, s store.Store, cfg Settings) error {
	_, version, _, err := store.GetJSON[Settings](ctx, s, KeySettings)
	if err != nil {
		return err
	}
	return store.PutJSON(ctx, s, KeySettings, cfg, version)
}
