package upload

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"deployhub/internal/domain"
)

const (
	// Messages surfaced on the attempt's terminal status.
	MsgValidation = "Operational conflict: Missing media assets or relay targets."
	MsgRelayFault = "System Relay Fault: Deployment interrupted."
	MsgSuccess    = "Deployment Success! You will receive an approval link via email shortly. Kindly go through it to finalize the blast."

	recentLogLimit     = 20
	defaultResetDelay  = time.Second
	progressValidated  = 10
	progressRelaying   = 40
	progressPersisting = 80
	progressDone       = 100
)

// Service orchestrates one submission cycle: validate, resolve identity,
// relay to the webhook, persist the record. The record is written only
// after the relay accepted the asset; a persistence failure afterwards is
// reported as a relay fault and deliberately not compensated.
type Service struct {
	records    RecordRepository
	users      UserReader
	relay      Relay
	resetDelay time.Duration
}

func NewService(records RecordRepository, users UserReader, relay Relay) *Service {
	return &Service{
		records:    records,
		users:      users,
		relay:      relay,
		resetDelay: defaultResetDelay,
	}
}

// WithResetDelay overrides the post-completion progress reset delay.
func (s *Service) WithResetDelay(d time.Duration) *Service {
	s.resetDelay = d
	return s
}

// Submit runs the full workflow for the attempt. Phases are strictly
// sequential and never retried; the caller resubmits manually after a
// failure. Attempt fields are cleared only on success.
func (s *Service) Submit(ctx context.Context, userID int64, att *Attempt) (*domain.UserUpload, error) {
	if err := att.begin(); err != nil {
		if err != ErrSubmissionInFlight {
			att.finishError(MsgValidation)
		}
		return nil, err
	}
	defer att.scheduleProgressReset(s.resetDelay)

	att.advance(progressValidated)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("upload submit phase=identity user_id=%d error=%q", userID, err)
		att.finishError(MsgRelayFault)
		return nil, ErrAuthorizationLost
	}

	asset := att.Asset()
	sub := Submission{
		Filename:     asset.Filename,
		Content:      asset.Content,
		UserID:       strconv.FormatInt(user.ID, 10),
		Notes:        att.Notes(),
		CaptionIdeas: att.CaptionIdeas(),
		Platforms:    att.Targets(),
	}

	att.advance(progressRelaying)
	if err := s.relay.Send(ctx, sub); err != nil {
		log.Printf("upload submit phase=relay user_id=%d error=%q", userID, err)
		att.finishError(MsgRelayFault)
		return nil, fmt.Errorf("%w: %v", ErrRelayFault, err)
	}

	att.advance(progressPersisting)
	record := &domain.UserUpload{
		UserID:       user.ID,
		Filename:     asset.Filename,
		Platforms:    att.Targets(),
		Notes:        att.Notes(),
		CaptionIdeas: att.CaptionIdeas(),
		Status:       domain.UploadPending,
	}
	if err := s.records.Create(ctx, record); err != nil {
		// The webhook already took the asset. There is no compensating
		// delete and no retry; the mismatch is accepted and logged.
		log.Printf("upload submit phase=persist user_id=%d orphaned_relay=true error=%q", userID, err)
		att.finishError(MsgRelayFault)
		return nil, fmt.Errorf("%w: saving record: %v", ErrRelayFault, err)
	}

	att.advance(progressDone)
	att.finishSuccess(MsgSuccess)
	return record, nil
}

// Recent returns the user's latest deployment records, newest first.
func (s *Service) Recent(ctx context.Context, userID int64) ([]*domain.UserUpload, error) {
	return s.records.ListRecentByUser(ctx, userID, recentLogLimit)
}
