package upload

import "errors"

var (
	ErrMissingAsset       = errors.New("no media asset selected")
	ErrNoTargets          = errors.New("no target platforms selected")
	ErrUnknownPlatform    = errors.New("platform is not in the catalog")
	ErrAuthorizationLost  = errors.New("authorization lost")
	ErrRelayFault         = errors.New("relay fault")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)
