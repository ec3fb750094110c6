package commission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/valuelife/portal/internal/orders"
	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
	"github.com/valuelife/portal/internal/wallet"
)

var oneHundred = decimal.NewFromInt(100)

// BonusNotifier is told about each credited bonus. It runs off the money
// path: a failed notification never rolls a credit back.
type BonusNotifier interface {
	BonusCredited(userID, email, bonusType, amount string)
}

// Engine computes and credits bonuses. All money movement goes through
// the wallet ledger; the engine itself never touches a wallet key.
//
// Plan semantics:
//   - direct referral: flat bonus to the sponsor when a referred member
//     registers.
//   - team matching (1:1): a sponsor's directs alternate into left and
//     right legs by join order; each completed pair pays the matching
//     bonus once, tracked by a per-user watermark.
//   - royalty: percentage of a member's first paid order, to the sponsor.
//   - repurchase: percentage cashback to the buyer on second and later
//     paid orders.
type Engine struct {
	store    store.Store
	users    *user.Directory
	ledger   *wallet.Ledger
	orders   *orders.Service
	notifier BonusNotifier
	logger   *slog.Logger
}

func NewEngine(s store.Store, users *user.Directory, ledger *wallet.Ledger, ord *orders.Service, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, users: users, ledger: ledger, orders: ord, logger: logger}
}

// SetNotifier attaches the bonus notification hook.
func (e *Engine) SetNotifier(n BonusNotifier) { e.notifier = n }

func (e *Engine) notifyBonus(u user.User, bonusType string, amount decimal.Decimal) {
	if e.notifier == nil {
		return
	}
	e.notifier.BonusCredited(u.ID, u.Email, bonusType, amount.StringFixed(2))
}

// MemberJoined runs the registration-driven bonuses for a new member:
// the sponsor's direct referral bonus plus any newly completed matching
// pair.
func (e *Engine) MemberJoined(ctx context.Context, joined user.User) error {
	if joined.SponsorCode == "" {
		return nil
	}
	sponsor, ok, err := e.users.FindByReferralCode(ctx, joined.SponsorCode)
	if err != nil {
		return err
	}
	if !ok {
		// The directory validated the code at registration; a miss here
		// means the sponsor was removed in between. Nothing to pay.
		e.logger.Warn("sponsor vanished before bonus run", "code", joined.SponsorCode)
		return nil
	}

	cfg, err := LoadSettings(ctx, e.store)
	if err != nil {
		return err
	}

	if err := e.ledger.Credit(ctx, sponsor.ID, cfg.DirectReferralBonus,
		wallet.TxnReferralBonus,
		fmt.Sprintf("direct referral bonus for %s", joined.Name)); err != nil {
		return err
	}
	e.notifyBonus(sponsor, wallet.TxnReferralBonus, cfg.DirectReferralBonus)

	return e.runMatching(ctx, sponsor, cfg)
}

// runMatching pays the sponsor for each newly completed 1:1 pair in their
// front line.
func (e *Engine) runMatching(ctx context.Context, sponsor user.User, cfg Settings) error {
	directs, err := e.users.Directs(ctx, sponsor.ReferralCode)
	if err != nil {
		return err
	}

	// Directs alternate left, right, left, ... by join order, so the
	// number of completed pairs is half the front line.
	left := (len(directs) + 1) / 2
	right := len(directs) / 2
	pairs := min(left, right)

	newPairs := pairs - sponsor.PairsMatched
	if newPairs <= 0 {
		return nil
	}

	total := cfg.MatchingBonus.Mul(decimal.NewFromInt(int64(newPairs)))
	if err := e.ledger.Credit(ctx, sponsor.ID, total,
		wallet.TxnTeamMatching,
		fmt.Sprintf("team matching bonus for %d pair(s)", newPairs)); err != nil {
		return err
	}
	e.notifyBonus(sponsor, wallet.TxnTeamMatching, total)
	return e.users.SetPairsMatched(ctx, sponsor.ID, pairs)
}

// OrderPaid implements orders.Listener: royalty on a member's first paid
// order, repurchase cashback afterwards.
func (e *Engine) OrderPaid(ctx context.Context, o orders.Order) error {
	cfg, err := LoadSettings(ctx, e.store)
	if err != nil {
		return err
	}
	paid, err := e.orders.PaidCountForUser(ctx, o.UserID)
	if err != nil {
		return err
	}

	buyer, ok, err := e.users.FindByID(ctx, o.UserID)
	if err != nil || !ok {
		return err
	}

	// The settled order is already counted, so paid == 1 means this is
	// the buyer's first purchase.
	if paid <= 1 {
		if buyer.SponsorCode == "" {
			return nil
		}
		sponsor, ok, err := e.users.FindByReferralCode(ctx, buyer.SponsorCode)
		if err != nil || !ok {
			return err
		}
		royalty := o.Amount.Mul(cfg.RoyaltyPercent).Div(oneHundred)
		if royalty.Sign() <= 0 {
			return nil
		}
		if err := e.ledger.Credit(ctx, sponsor.ID, royalty,
			wallet.TxnRoyaltyBonus,
			fmt.Sprintf("royalty on order %s", o.ID)); err != nil {
			return err
		}
		e.notifyBonus(sponsor, wallet.TxnRoyaltyBonus, royalty)
		return nil
	}

	cashback := o.Amount.Mul(cfg.RepurchasePercent).Div(oneHundred)
	if cashback.Sign() <= 0 {
		return nil
	}
	if err := e.ledger.Credit(ctx, o.UserID, cashback,
		wallet.TxnRepurchaseBonus,
		fmt.Sprintf("repurchase cashback on order %s", o.ID)); err != nil {
		return err
	}
	e.notifyBonus(buyer, wallet.TxnRepurchaseBonus, cashback)
	return nil
}
