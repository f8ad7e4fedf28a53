package license

import "time"

// resolveFallback decides which fallback tier to emit after a failed (or
// skipped) verification attempt. Pure function; the caller stamps
// LastChecked and handles persistence.
//
// A previous result inside the grace window is honored exactly as recorded,
// including a previously-inactive license — the engine preserves the last
// confirmed answer rather than inventing leniency or extra strictness.
func resolveFallback(previous *PreviousResult, gracePeriod time.Duration, now time.Time) State {
	if previous == nil || previous.Version != previousResultVersion {
		features := DefaultFeatures()
		return State{
			Active:        false,
			Features:      &features,
			FallbackLevel: FallbackDefault,
			Status:        StatusUnreachable,
		}
	}

	if now.Sub(previous.LastChecked) <= gracePeriod {
		features := previous.Features
		status := StatusInactive
		if previous.Active {
			status = StatusActive
		}
		return State{
			Active:             previous.Active,
			Features:           &features,
			IsPendingDowngrade: true,
			FallbackLevel:      FallbackGrace,
			Status:             status,
		}
	}

	features := DefaultFeatures()
	return State{
		Active:        false,
		Features:      &features,
		FallbackLevel: FallbackDefault,
		Status:        StatusUnreachable,
	}
}
