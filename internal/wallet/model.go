package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store keys. Collections are JSON maps keyed by record id; per-user keys
// carry the user id suffix.
const (
	KeyWithdrawals = "withdrawal_requests"
	keyWalletFmt   = "wallet_%s"
	keyTxnsFmt     = "wallet_txns_%s"
)

// Account is a user's wallet: the spendable balance plus the sum of
// approved-but-unpaid withdrawal amounts.
type Account struct {
	UserID             string          `json:"user_id"`
	Balance            decimal.Decimal `json:"balance"`
	PendingWithdrawals decimal.Decimal `json:"pending_withdrawals"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Transaction types recorded against a wallet.
const (
	TxnReferralBonus   = "referral_bonus"
	TxnTeamMatching    = "team_matching"
	TxnRoyaltyBonus    = "royalty_bonus"
	TxnRepurchaseBonus = "repurchase_bonus"
	TxnWithdrawal      = "withdrawal"
)

// Transaction is one credit or debit entry in a user's wallet history.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        string          `json:"type"`
	Direction   string          `json:"direction"` // credit | debit
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Status of a withdrawal request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

// transitions is the canonical state machine: pending can be approved or
// rejected, approved can be paid, rejected and paid are terminal.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPaid},
	StatusRejected: {},
	StatusPaid:     {},
}

func (s Status) valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// AccountDetails is the payout destination snapshot on a withdrawal
// request. Fields are opaque strings; format checking is deferred to the
// admin reviewing the request.
type AccountDetails struct {
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	AccountHolderName string `json:"account_holder_name"`
}

// Request is a user's ask to convert wallet balance into an external
// payout. Created by the user, processed only by admin actions.
type Request struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	Amount         decimal.Decimal `json:"amount"`
	Status         Status          `json:"status"`
	AccountDetails AccountDetails  `json:"account_details"`
	RequestDate    time.Time       `json:"request_date"`
	ProcessedDate  *time.Time      `json:"processed_date,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
}
