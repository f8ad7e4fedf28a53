// Package license implements Fieldnote's enterprise entitlement verification
// engine: a cached, lock-coordinated check against the remote licensing
// server that always resolves to a usable answer, even when the server is
// unreachable.
package license

import "time"

// Status describes what the engine knows about the license.
type Status string

const (
	// StatusActive means the licensing server confirmed an active license.
	StatusActive Status = "active"
	// StatusInactive means the licensing server confirmed the license is not active.
	StatusInactive Status = "inactive"
	// StatusNoLicense means no license key is configured on this instance.
	StatusNoLicense Status = "no-license"
	// StatusUnreachable means verification failed and no usable previous
	// result exists (or it aged out of the grace window).
	StatusUnreachable Status = "unreachable"
)

// FallbackLevel describes how fresh the returned entitlement data is.
type FallbackLevel string

const (
	// FallbackLive means the data comes from a confirmed, unexpired check.
	FallbackLive FallbackLevel = "live"
	// FallbackGrace means the data is stale but within the grace window.
	FallbackGrace FallbackLevel = "grace"
	// FallbackDefault means no trustworthy data is available; the minimal
	// feature set applies.
	FallbackDefault FallbackLevel = "default"
)

// Features is the fixed set of entitlements a license can unlock.
// Numeric fields are caps; zero is never a valid cap, so the default set
// carries the free-tier limits.
type Features struct {
	Projects   int64 `json:"projects"`
	Contacts   int64 `json:"contacts"`
	SSO        bool  `json:"sso"`
	SAML       bool  `json:"saml"`
	Whitelabel bool  `json:"whitelabel"`
	AuditLogs  bool  `json:"auditLogs"`
	MultiOrg   bool  `json:"multiOrg"`
}

// DefaultFeatures returns the minimal feature set granted without an active
// license: free-tier caps, all paid booleans off.
func DefaultFeatures() Features {
	return Features{
		Projects: 3,
		Contacts: 1000,
	}
}

// State is the public result of an entitlement check. It is produced fresh on
// every call and never persisted as-is.
type State struct {
	// Active reports whether enterprise features are currently unlocked.
	Active bool `json:"active"`

	// Features is nil exactly when Status is StatusNoLicense.
	Features *Features `json:"features"`

	// LastChecked is when this read happened, not when the licensing server
	// was last reached. The confirmation time lives in the persisted
	// previous-result record.
	LastChecked time.Time `json:"lastChecked"`

	// IsPendingDowngrade is set when the engine is coasting on stale data
	// inside the grace window.
	IsPendingDowngrade bool `json:"isPendingDowngrade"`

	FallbackLevel FallbackLevel `json:"fallbackLevel"`
	Status        Status        `json:"status"`
}

// previousResultVersion guards persisted previous-result records against
// schema-incompatible readers. Bump when PreviousResult changes shape.
const previousResultVersion = 1

// PreviousResult is the last resolved outcome persisted for grace-period
// fallback. It is overwritten on every successful verification and on every
// failure resolution, so repeated failures keep a monotonically updated clock
// without flapping the active flag.
type PreviousResult struct {
	Active      bool      `json:"active"`
	Features    Features  `json:"features"`
	LastChecked time.Time `json:"lastChecked"`
	Version     int       `json:"version"`
}

// statusSnapshot is the raw status+features as last confirmed by the
// licensing server, cached under the status key for the revalidation
// interval.
type statusSnapshot struct {
	Status   Status   `json:"status"`
	Features Features `json:"features"`
}
