package alerts

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/hibiken/asynq"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// Init starts the Asynq server and initializes a shared client.
func Init() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		if host := os.Getenv("REDIS_HOST"); host != "" {
			port := os.Getenv("REDIS_PORT")
			if port == "" {
				port = "6379"
			}
			redisAddr = host + ":" + port
		} else {
			redisAddr = "redis:6379"
			if os.Getenv("RUN_LOCAL") == "true" {
				redisAddr = "127.0.0.1:6379"
			}
		}
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWithdrawalProcessed, handleWithdrawalProcessed)
	mux.HandleFunc(TaskBonusCredited, handleBonusCredited)
	mux.HandleFunc(TaskKycReviewed, handleKycReviewed)
	mux.HandleFunc(TaskAdminAlert, handleAdminAlert)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
			"alerts": 5,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

func handleWithdrawalProcessed(_ context.Context, t *asynq.Task) error {
	var p WithdrawalProcessedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	log.Printf("withdrawal %s for user %s is %s", p.RequestID, p.UserID, p.Status)
	return deliver(p.Envelope)
}

func handleBonusCredited(_ context.Context, t *asynq.Task) error {
	var p BonusCreditedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	log.Printf("bonus %s of %s credited to user %s", p.BonusType, p.Amount, p.UserID)
	return deliver(p.Envelope)
}

func handleKycReviewed(_ context.Context, t *asynq.Task) error {
	var p KycReviewedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	log.Printf("kyc request %s for user %s is %s", p.RequestID, p.UserID, p.Status)
	return deliver(p.Envelope)
}

func handleAdminAlert(_ context.Context, t *asynq.Task) error {
	var p AdminAlertPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	log.Printf("ADMIN ALERT [%s]: %s", p.Severity, p.Message)
	return deliver(p.Envelope)
}

// deliver sends the envelope by SMTP when configured, otherwise logs it.
func deliver(env EmailEnvelope) error {
	if env.To == "" {
		return nil
	}
	if err := SendEmail(env.To, env.Subject, env.Body); err != nil {
		log.Printf("email delivery skipped (%v): to=%s subject=%q", err, env.To, env.Subject)
	}
	return nil
}
