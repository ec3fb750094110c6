package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
	"github.com/valuelife/portal/internal/wallet"
)

func main() {
	id := flag.String("id", "", "Withdrawal request id to process")
	action := flag.String("action", "", "One of: approve, reject, pay")
	remarks := flag.String("remarks", "", "Optional remarks stored on the request")
	txn := flag.String("txn", "", "Gateway transaction id (required for pay)")
	flag.Parse()

	if *id == "" || *action == "" {
		log.Fatalf("usage: go run cmd/adminutil/process_withdrawal/main.go -id <request-id> -action approve|reject|pay [-remarks ...] [-txn ...]")
	}

	var status wallet.Status
	switch *action {
	case "approve":
		status = wallet.StatusApproved
	case "reject":
		status = wallet.StatusRejected
	case "pay":
		status = wallet.StatusPaid
		if *txn == "" {
			log.Fatalf("-txn is required when action is pay")
		}
	default:
		log.Fatalf("unknown action %q, want approve, reject or pay", *action)
	}

	_ = godotenv.Load()

	ctx := context.Background()
	st, err := store.NewPostgres(ctx)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer st.Close()

	logger := slog.Default()
	directory := user.NewDirectory(st, logger)
	ledger := wallet.NewLedger(st, logger)
	withdrawals := wallet.NewWithdrawals(st, ledger, wallet.DirectoryAdapter{Directory: directory}, logger)

	processed, err := withdrawals.Transition(ctx, *id, status, *remarks, *txn)
	if err != nil {
		log.Fatalf("transition failed: %v", err)
	}
	log.Printf("withdrawal %s for %s (%s) is now %s",
		processed.ID, processed.UserName, processed.Amount.StringFixed(2), processed.Status)
}
