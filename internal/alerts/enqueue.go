package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueueWithdrawalProcessed notifies the member after an admin decision
// on their withdrawal request.
func EnqueueWithdrawalProcessed(requestID, userID, email, amount, status, remarks string) error {
	body := fmt.Sprintf("Your withdrawal request for ₹%s is now %s.", amount, status)
	if remarks != "" {
		body += "\n\nRemarks: " + remarks
	}
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Withdrawal request %s", status),
		Body:    body,
	}
	payload := WithdrawalProcessedPayload{
		RequestID: requestID, UserID: userID, Email: email,
		Amount: amount, Status: status, Remarks: remarks,
		Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWithdrawalProcessed, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueBonusCredited notifies a member about a new bonus credit.
func EnqueueBonusCredited(userID, email, bonusType, amount string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "You earned a bonus",
		Body:    fmt.Sprintf("A %s of ₹%s has been credited to your wallet.", bonusType, amount),
	}
	payload := BonusCreditedPayload{
		UserID: userID, Email: email, BonusType: bonusType, Amount: amount,
		Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskBonusCredited, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueKycReviewed notifies the member of a KYC decision.
func EnqueueKycReviewed(requestID, userID, email, status, notes string) error {
	body := fmt.Sprintf("Your KYC submission has been %s.", status)
	if notes != "" {
		body += "\n\nNotes: " + notes
	}
	env := EmailEnvelope{To: email, Subject: "KYC review complete", Body: body}
	payload := KycReviewedPayload{
		RequestID: requestID, UserID: userID, Email: email,
		Status: status, Notes: notes, Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskKycReviewed, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueAdminAlert sends an alert to admins (currently logs)
func EnqueueAdminAlert(severity, message string) error {
	env := EmailEnvelope{To: "admin@valuelife.local", Subject: "Admin Alert", Body: message}
	payload := AdminAlertPayload{Severity: severity, Message: message, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskAdminAlert, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("alerts"))
	return err
}
