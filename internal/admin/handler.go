package admin

import (
	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
	"github.com/valuelife/portal/internal/wallet"
)

// Handler bundles the admin monitoring and configuration routes.
type Handler struct {
	Store       store.Store
	Directory   *user.Directory
	Ledger      *wallet.Ledger
	Withdrawals *wallet.Withdrawals
}

func NewHandler(s store.Store, d *user.Directory, l *wallet.Ledger, w *wallet.Withdrawals) *Handler {
	return &Handler{Store: s, Directory: d, Ledger: l, Withdrawals: w}
}
