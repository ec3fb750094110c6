package user

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valuelife/portal/internal/store"
)

// JoinListener is notified after a member registers. The commission
// engine hangs off this hook for referral and matching bonuses.
type JoinListener interface {
	MemberJoined(ctx context.Context, joined User) error
}

// Directory is the identity collaborator: registration plus read-only
// lookups consumed by the wallet and commission packages.
type Directory struct {
	store    store.Store
	listener JoinListener
	logger   *slog.Logger
}

func NewDirectory(s store.Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{store: s, logger: logger}
}

// SetListener attaches the post-registration hook. Wired after
// construction because the commission engine needs the directory itself.
func (d *Directory) SetListener(l JoinListener) { d.listener = l }

// ErrUnknownSponsor is returned by Register when the given sponsor code
// matches no user.
type ErrUnknownSponsor struct{ Code string }

func (e *ErrUnknownSponsor) Error() string {
	return fmt.Sprintf("no user found for referral code %s", e.Code)
}

// Register creates a user. Joining is free; a sponsor code is optional but
// must resolve when given. The referral code follows the portal's format:
// first four letters of the name plus four digits.
func (d *Directory) Register(ctx context.Context, name, email, sponsorCode string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, fmt.Errorf("name must not be blank")
	}
	if strings.TrimSpace(email) == "" {
		return User{}, fmt.Errorf("email must not be blank")
	}

	users, version, _, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return User{}, err
	}
	if users == nil {
		users = make(map[string]User)
	}

	sponsorCode = strings.ToUpper(strings.TrimSpace(sponsorCode))
	if sponsorCode != "" {
		if _, ok := findByCode(users, sponsorCode); !ok {
			return User{}, &ErrUnknownSponsor{Code: sponsorCode}
		}
	}

	u := User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		ReferralCode: generateReferralCode(name, users),
		SponsorCode:  sponsorCode,
		KycStatus:    KycNone,
		JoinedAt:     time.Now().UTC(),
	}
	users[u.ID] = u
	if err := store.PutJSON(ctx, d.store, KeyUsers, users, version); err != nil {
		return User{}, err
	}

	d.logger.Info("user registered",
		"user_id", u.ID, "referral_code", u.ReferralCode, "sponsor", sponsorCode)

	if d.listener != nil {
		if err := d.listener.MemberJoined(ctx, u); err != nil {
			// The member exists either way; a failed bonus run is logged,
			// not rolled back.
			d.logger.Error("join bonus run failed", "user_id", u.ID, "error", err)
		}
	}
	return u, nil
}

// FindByID returns the user with the given id.
func (d *Directory) FindByID(ctx context.Context, id string) (User, bool, error) {
	users, _, _, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return User{}, false, err
	}
	u, ok := users[id]
	return u, ok, nil
}

// FindByReferralCode returns the user owning a referral code. Matching is
// case-insensitive, as on the registration page.
func (d *Directory) FindByReferralCode(ctx context.Context, code string) (User, bool, error) {
	users, _, _, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return User{}, false, err
	}
	u, ok := findByCode(users, strings.ToUpper(strings.TrimSpace(code)))
	return u, ok, nil
}

// List returns all users ordered by join date.
func (d *Directory) List(ctx context.Context) ([]User, error) {
	users, _, _, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sortByJoin(out)
	return out, nil
}

// Directs returns the users directly sponsored by the owner of code, in
// join order. Join order decides left/right leg placement for the
// matching bonus, so the ordering here is load-bearing.
func (d *Directory) Directs(ctx context.Context, code string) ([]User, error) {
	users, _, _, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	var out []User
	for _, u := range users {
		if u.SponsorCode == code {
			out = append(out, u)
		}
	}
	sortByJoin(out)
	return out, nil
}

// SetKycStatus mirrors a KYC decision onto the user record.
func (d *Directory) SetKycStatus(ctx context.Context, userID, status string) error {
	users, version, ok, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return err
	}
	u, found := users[userID]
	if !ok || !found {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.KycStatus = status
	users[userID] = u
	return store.PutJSON(ctx, d.store, KeyUsers, users, version)
}

// SetPairsMatched advances the matching-bonus watermark.
func (d *Directory) SetPairsMatched(ctx context.Context, userID string, pairs int) error {
	users, version, ok, err := store.GetJSON[map[string]User](ctx, d.store, KeyUsers)
	if err != nil {
		return err
	}
	u, found := users[userID]
	if !ok || !found {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.PairsMatched = pairs
	users[userID] = u
	return store.PutJSON(ctx, d.store, KeyUsers, users, version)
}

func findByCode(users map[string]User, code string) (User, bool) {
	if code == "" {
		return User{}, false
	}
	for _, u := range users {
		if strings.EqualFold(u.ReferralCode, code) {
			return u, true
		}
	}
	return User{}, false
}

func generateReferralCode(name string, users map[string]User) string {
	prefix := strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	for {
		code := fmt.Sprintf("%s%04d", prefix, rand.Intn(10000))
		if _, taken := findByCode(users, code); !taken {
			return code
		}
	}
}

func sortByJoin(us []User) {
	sort.Slice(us, func(i, j int) bool {
		if us[i].JoinedAt.Equal(us[j].JoinedAt) {
			return us[i].ID < us[j].ID
		}
		return us[i].JoinedAt.Before(us[j].JoinedAt)
	})
}
