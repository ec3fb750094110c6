package user

import "time"

// KeyUsers is the store key holding the user collection as a map keyed by
// user id.
const KeyUsers = "value_life_users"

// KYC states mirrored onto the user record by the kyc package.
const (
	KycNone     = "none"
	KycPending  = "pending"
	KycApproved = "approved"
	KycRejected = "rejected"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ReferralCode string    `json:"referral_code"`
	SponsorCode  string    `json:"sponsor_code,omitempty"`
	KycStatus    string    `json:"kyc_status"`
	// PairsMatched is the matching-bonus watermark: the number of 1:1
	// pairs in this user's front line already paid out.
	PairsMatched int       `json:"pairs_matched"`
	JoinedAt     time.Time `json:"joined_at"`
}
