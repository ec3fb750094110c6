package commission

import (
	"context"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard summary for one member.
type Stats struct {
	UserID             string                     `json:"user_id"`
	TeamSize           int                        `json:"team_size"`
	DirectReferrals    int                        `json:"direct_referrals"`
	Balance            decimal.Decimal            `json:"balance"`
	PendingWithdrawals decimal.Decimal            `json:"pending_withdrawals"`
	EarningsByType     map[string]decimal.Decimal `json:"earnings_by_type"`
	TotalEarnings      decimal.Decimal            `json:"total_earnings"`
}

// StatsForUser derives the dashboard numbers: downline size over the
// sponsor tree and earnings grouped by transaction type.
func (e *Engine) StatsForUser(ctx context.Context, userID string) (Stats, error) {
	u, ok, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	if !ok {
		return Stats{}, &UnknownUserError{ID: userID}
	}

	stats := Stats{
		UserID:         userID,
		EarningsByType: make(map[string]decimal.Decimal),
		Balance:        decimal.Zero,
		TotalEarnings:  decimal.Zero,
	}

	// Breadth-first walk of the sponsor tree.
	frontier := []string{u.ReferralCode}
	for len(frontier) > 0 {
		code := frontier[0]
		frontier = frontier[1:]
		directs, err := e.users.Directs(ctx, code)
		if err != nil {
			return Stats{}, err
		}
		if code == u.ReferralCode {
			stats.DirectReferrals = len(directs)
		}
		for _, d := range directs {
			stats.TeamSize++
			frontier = append(frontier, d.ReferralCode)
		}
	}

	acct, err := e.ledger.Balance(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	stats.Balance = acct.Balance
	stats.PendingWithdrawals = acct.PendingWithdrawals

	txns, err := e.ledger.Transactions(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	for _, t := range txns {
		if t.Direction != "credit" {
			continue
		}
		cur, ok := stats.EarningsByType[t.Type]
		if !ok {
			cur = decimal.Zero
		}
		stats.EarningsByType[t.Type] = cur.Add(t.Amount)
		stats.TotalEarnings = stats.TotalEarnings.Add(t.Amount)
	}
	return stats, nil
}

// UnknownUserError reports a stats request for a user the directory does
// not know.
type UnknownUserError struct{ ID string }

func (e *UnknownUserError) Error() string { return "user not found: " + e.ID }
