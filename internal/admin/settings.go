package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/commission"
)

// GET /admin/settings/commission
func (h *Handler) GetCommissionSettings(c echo.Context) error {
	cfg, err := commission.LoadSettings(c.Request().Context(), h.Store)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": cfg})
}

// UpdateSettingsRequest is the body for the plan update.
type UpdateSettingsRequest struct {
	DirectReferralBonus decimal.Decimal `json:"direct_referral_bonus"`
	MatchingBonus       decimal.Decimal `json:"matching_bonus"`
	RoyaltyPercent      decimal.Decimal `json:"royalty_percent"`
	RepurchasePercent   decimal.Decimal `json:"repurchase_percent"`
}

// PUT /admin/settings/commission
func (h *Handler) UpdateCommissionSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	for _, v := range []decimal.Decimal{req.DirectReferralBonus, req.MatchingBonus, req.RoyaltyPercent, req.RepurchasePercent} {
		if v.Sign() < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "commission values must not be negative"})
		}
	}

	cfg := commission.Settings{
		DirectReferralBonus: req.DirectReferralBonus,
		MatchingBonus:       req.MatchingBonus,
		RoyaltyPercent:      req.RoyaltyPercent,
		RepurchasePercent:   req.RepurchasePercent,
	}
	if err := commission.SaveSettings(c.Request().Context(), h.Store, cfg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": cfg})
}
