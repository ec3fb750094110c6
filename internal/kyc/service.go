package kyc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/valuelife/portal/internal/store"
	"github.com/valuelife/portal/internal/user"
)

// KeyRequests is the store key for the KYC request collection.
const KeyRequests = "kyc_requests"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a member's identity-verification submission. Documents are
// opaque references to uploaded files; the upload pipeline itself lives
// elsewhere.
type Request struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	UserName       string     `json:"user_name"`
	Documents      []string   `json:"documents"`
	Status         Status     `json:"status"`
	SubmissionDate time.Time  `json:"submission_date"`
	ReviewDate     *time.Time `json:"review_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Service owns the KYC request lifecycle and mirrors decisions onto the
// user record.
type Service struct {
	store  store.Store
	users  *user.Directory
	logger *slog.Logger
}

func NewService(s store.Store, users *user.Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, users: users, logger: logger}
}

// Submit files a new KYC request and flips the user's status to pending.
func (s *Service) Submit(ctx context.Context, userID string, documents []string) (Request, error) {
	if len(documents) == 0 {
		return Request{}, fmt.Errorf("at least one document reference is required")
	}
	u, ok, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Request{}, err
	}
	if !ok {
		return Request{}, fmt.Errorf("user not found: %s", userID)
	}

	req := Request{
		ID:             uuid.New().String(),
		UserID:         u.ID,
		UserName:       u.Name,
		Documents:      documents,
		Status:         StatusPending,
		SubmissionDate: time.Now().UTC(),
	}

	all, version, _, err := store.GetJSON[map[string]Request](ctx, s.store, KeyRequests)
	if err != nil {
		return Request{}, err
	}
	if all == nil {
		all = make(map[string]Request)
	}
	all[req.ID] = req
	if err := store.PutJSON(ctx, s.store, KeyRequests, all, version); err != nil {
		return Request{}, err
	}

	if err := s.users.SetKycStatus(ctx, u.ID, user.KycPending); err != nil {
		return Request{}, err
	}
	s.logger.Info("kyc request submitted", "request_id", req.ID, "user_id", u.ID)
	return req, nil
}

// Review decides a pending request and mirrors the outcome to the user.
func (s *Service) Review(ctx context.Context, requestID string, approve bool, notes string) (Request, error) {
	all, version, ok, err := store.GetJSON[map[string]Request](ctx, s.store, KeyRequests)
	if err != nil {
		return Request{}, err
	}
	req, found := all[requestID]
	if !ok || !found {
		return Request{}, fmt.Errorf("kyc request not found: %s", requestID)
	}
	if req.Status != StatusPending {
		return Request{}, fmt.Errorf("kyc request %s already reviewed as %s", requestID, req.Status)
	}

	now := time.Now().UTC()
	userStatus := user.KycRejected
	req.Status = StatusRejected
	if approve {
		req.Status = StatusApproved
		userStatus = user.KycApproved
	}
	req.ReviewDate = &now
	req.Notes = notes
	all[requestID] = req
	if err := store.PutJSON(ctx, s.store, KeyRequests, all, version); err != nil {
		return Request{}, err
	}

	if err := s.users.SetKycStatus(ctx, req.UserID, userStatus); err != nil {
		return Request{}, err
	}
	s.logger.Info("kyc request reviewed",
		"request_id", requestID, "status", string(req.Status))
	return req, nil
}

// Get returns a request by id.
func (s *Service) Get(ctx context.Context, requestID string) (Request, bool, error) {
	all, _, _, err := store.GetJSON[map[string]Request](ctx, s.store, KeyRequests)
	if err != nil {
		return Request{}, false, err
	}
	req, ok := all[requestID]
	return req, ok, nil
}

// List returns all requests, newest first, as the admin review queue.
func (s *Service) List(ctx context.Context) ([]Request, error) {
	all, _, _, err := store.GetJSON[map[string]Request](ctx, s.store, KeyRequests)
	if err != nil {
		return nil, err
	}
	out := make([]Request, 0, len(all))
	for _, r := range all {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmissionDate.Equal(out[j].SubmissionDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})
	return out, nil
}

// ListForUser returns a member's own submissions, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Request, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Request
	for _, r := range all {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}
