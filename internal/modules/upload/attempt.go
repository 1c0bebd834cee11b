package upload

import (
	"io"
	"sync"
	"time"

	"deployhub/internal/platform"
)

// Asset is the single media file attached to an attempt.
type Asset struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.Reader
}

type StatusKind string

const (
	StatusNone    StatusKind = "none"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Attempt is the transient state of one submission cycle: the selected
// asset, the edited fields, the target set, and the progress/terminal
// status of the in-flight or just-finished submission.
type Attempt struct {
	mu            sync.Mutex
	asset         *Asset
	notes         string
	captionIdeas  string
	targets       map[string]struct{}
	progress      int
	inFlight      bool
	status        StatusKind
	statusMessage string
}

func NewAttempt() *Attempt {
	return &Attempt{
		targets: make(map[string]struct{}),
		status:  StatusNone,
	}
}

func (a *Attempt) SelectAsset(asset *Asset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.asset = asset
}

func (a *Attempt) SetNotes(notes string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notes = notes
}

func (a *Attempt) SetCaptionIdeas(ideas string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.captionIdeas = ideas
}

// ToggleTarget adds the platform to the target set, or removes it when
// already present. Toggling twice restores the original set.
func (a *Attempt) ToggleTarget(platformID string) error {
	if !platform.IsValid(platformID) {
		return ErrUnknownPlatform
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.targets[platformID]; ok {
		delete(a.targets, platformID)
	} else {
		a.targets[platformID] = struct{}{}
	}
	return nil
}

// Targets returns the selected platform ids in catalog order.
func (a *Attempt) Targets() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.targets))
	for _, p := range platform.Catalog() {
		if _, ok := a.targets[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (a *Attempt) Asset() *Asset {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.asset
}

func (a *Attempt) Notes() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notes
}

func (a *Attempt) CaptionIdeas() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.captionIdeas
}

func (a *Attempt) Progress() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

func (a *Attempt) Status() (StatusKind, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status, a.statusMessage
}

// begin moves the attempt into the in-flight state. Submitting requires an
// asset and at least one target; the checks never touch the network.
func (a *Attempt) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inFlight {
		return ErrSubmissionInFlight
	}
	if a.asset == nil {
		return ErrMissingAsset
	}
	if len(a.targets) == 0 {
		return ErrNoTargets
	}

	a.inFlight = true
	a.status = StatusNone
	a.statusMessage = ""
	return nil
}

// advance raises progress to p. Progress never moves backwards within a
// submission; only the post-completion reset returns it to zero.
func (a *Attempt) advance(p int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p > a.progress {
		a.progress = p
	}
}

// finishSuccess records the terminal success state and clears every
// editable field so the attempt is ready for reuse.
func (a *Attempt) finishSuccess(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inFlight = false
	a.status = StatusSuccess
	a.statusMessage = message
	a.asset = nil
	a.notes = ""
	a.captionIdeas = ""
	a.targets = make(map[string]struct{})
}

// finishError records the terminal error state. Edited fields are kept so
// the user can resubmit without re-entering everything.
func (a *Attempt) finishError(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inFlight = false
	a.status = StatusError
	a.statusMessage = message
}

// scheduleProgressReset hides the progress indicator a moment after the
// submission ends, whatever the outcome.
func (a *Attempt) scheduleProgressReset(delay time.Duration) {
	time.AfterFunc(delay, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.inFlight {
			a.progress = 0
		}
	})
}
