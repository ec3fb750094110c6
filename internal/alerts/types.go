package alerts

import "time"

// Task type constants
const (
	TaskWithdrawalProcessed = "email:withdrawal_processed"
	TaskBonusCredited       = "email:bonus_credited"
	TaskKycReviewed         = "email:kyc_reviewed"
	TaskAdminAlert          = "email:admin_alert"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Withdrawal processed payload (sent to the requesting member)
type WithdrawalProcessedPayload struct {
	RequestID string        `json:"request_id"`
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Amount    string        `json:"amount"`
	Status    string        `json:"status"` // approved|rejected|paid
	Remarks   string        `json:"remarks,omitempty"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Bonus credited payload (sent to the earning member)
type BonusCreditedPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	BonusType string        `json:"bonus_type"`
	Amount    string        `json:"amount"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// KYC reviewed payload (sent to the member)
type KycReviewedPayload struct {
	RequestID string        `json:"request_id"`
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	Status    string        `json:"status"` // approved|rejected
	Notes     string        `json:"notes,omitempty"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Admin alert payload
type AdminAlertPayload struct {
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
