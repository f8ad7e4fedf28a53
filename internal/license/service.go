package license

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldnote/fieldnote/internal/cache"
	"github.com/fieldnote/fieldnote/internal/config"
	"github.com/fieldnote/fieldnote/internal/instance"
)

// Verifier performs a single remote verification call.
// *Client is the production implementation.
type Verifier interface {
	FetchLicense(ctx context.Context) (*RawLicense, error)
}

// Service coordinates cache, lock, remote verification and fallback
// resolution into the single public entitlement read. Every code path
// returns a well-formed State; nothing here is fatal to the caller.
type Service struct {
	cfg      *config.Config
	store    cache.Store
	verifier Verifier
	identity instance.Identity

	// now is swappable for tests.
	now func() time.Time
}

// NewService wires the entitlement verification engine together.
func NewService(cfg *config.Config, store cache.Store, verifier Verifier, identity instance.Identity) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		verifier: verifier,
		identity: identity,
		now:      time.Now,
	}
}

// GetEnterpriseLicense resolves the current license state. It is safe to
// call from concurrent request handlers: at most one caller per instance
// performs the remote verification, everyone else is answered from cache or
// fallback without blocking.
func (s *Service) GetEnterpriseLicense(ctx context.Context) State {
	now := s.now()

	// Static configuration check. No cache, lock or network access happens
	// on this path.
	if !s.cfg.HasLicenseKey() {
		return State{
			Active:        false,
			Features:      nil,
			LastChecked:   now,
			FallbackLevel: FallbackDefault,
			Status:        StatusNoLicense,
		}
	}

	statusKey := StatusKey(s.identity.ID)

	if state, ok := s.readCachedStatus(ctx, statusKey); ok {
		state.LastChecked = now
		recordCheck(state.FallbackLevel)
		return state
	}

	// Cache miss: at most one caller fetches, bounded by the advisory lock.
	lockKey := FetchLockKey(s.identity.ID)
	lock := s.store.TryLock(ctx, lockKey, s.cfg.FetchLockTTL)
	switch {
	case !lock.Ok:
		// Store failure on the lock attempt: without the lock we must not
		// add outbound load, so degrade the same way as contention.
		log.Warn().Err(lock.Err).Msg("Fetch lock attempt failed; falling back to previous result")
	case !lock.Data:
		recordLockContention()
		log.Debug().Msg("Fetch lock held by a peer; answering from previous result")
	default:
		// Unlock is promptness only; the TTL is the correctness backstop if
		// we crash mid-fetch.
		defer func() {
			if err := s.store.Unlock(ctx, lockKey); err != nil {
				log.Debug().Err(err).Msg("Fetch lock release failed; TTL will reclaim it")
			}
		}()

		raw, err := s.verifier.FetchLicense(ctx)
		if err == nil {
			recordFetch("success")
			state := s.storeVerified(ctx, raw, now)
			state.LastChecked = now
			recordCheck(state.FallbackLevel)
			return state
		}

		recordFetch("failure")
		log.Warn().Err(err).Msg("License verification failed; resolving fallback")
		state := s.resolveAndPersist(ctx, now)
		state.LastChecked = now
		recordCheck(state.FallbackLevel)
		return state
	}

	// Contention (or lock-attempt failure) path: answer from whatever
	// previous result exists, without writing anything.
	state := resolveFallback(s.readPreviousResult(ctx), s.cfg.GracePeriod, now)
	state.LastChecked = now
	recordCheck(state.FallbackLevel)
	return state
}

// GetLicenseFeatures resolves the license state and projects the effective
// feature set. The result is always usable; call sites never see nil.
func (s *Service) GetLicenseFeatures(ctx context.Context) Features {
	return ProjectFeatures(s.GetEnterpriseLicense(ctx))
}

// readCachedStatus maps the status cache entry to a live State.
// The second return is false when the caller should proceed to a fetch.
func (s *Service) readCachedStatus(ctx context.Context, statusKey string) (State, bool) {
	exists := s.store.Exists(ctx, statusKey)
	if !exists.Ok {
		recordCacheLookup("error")
		log.Warn().Err(exists.Err).Msg("Status cache existence check failed; treating as miss")
		return State{}, false
	}
	if !exists.Data {
		recordCacheLookup("miss")
		return State{}, false
	}

	res := s.store.Get(ctx, statusKey)
	if !res.Ok {
		recordCacheLookup("error")
		log.Warn().Err(res.Err).Msg("Status cache read failed; treating as miss")
		return State{}, false
	}

	// The key exists but holds no snapshot: a previous check confirmed there
	// is no active license. Distinct from an expired/absent key.
	if !res.Found || len(res.Data) == 0 || bytes.Equal(bytes.TrimSpace(res.Data), []byte("null")) {
		recordCacheLookup("hit")
		features := DefaultFeatures()
		return State{
			Active:        false,
			Features:      &features,
			FallbackLevel: FallbackLive,
			Status:        StatusInactive,
		}, true
	}

	var snapshot statusSnapshot
	if err := json.Unmarshal(res.Data, &snapshot); err != nil {
		recordCacheLookup("error")
		log.Warn().Err(err).Msg("Status cache entry corrupt; treating as miss")
		return State{}, false
	}

	recordCacheLookup("hit")
	features := snapshot.Features
	return State{
		Active:        snapshot.Status == StatusActive,
		Features:      &features,
		FallbackLevel: FallbackLive,
		Status:        snapshot.Status,
	}, true
}

// storeVerified persists a successful verification (status cache entry with
// the revalidation TTL, previous result for later fallback) and returns the
// live state. Write failures degrade to logs; the fresh answer is still
// returned.
func (s *Service) storeVerified(ctx context.Context, raw *RawLicense, now time.Time) State {
	snapshot := statusSnapshot{Status: raw.Status, Features: raw.Features}
	if data, err := json.Marshal(snapshot); err == nil {
		if err := s.store.Set(ctx, StatusKey(s.identity.ID), data, s.cfg.RevalidationInterval); err != nil {
			log.Warn().Err(err).Msg("Failed to write status cache entry")
		}
	}

	s.writePreviousResult(ctx, PreviousResult{
		Active:      raw.Status == StatusActive,
		Features:    raw.Features,
		LastChecked: now,
		Version:     previousResultVersion,
	})

	features := raw.Features
	return State{
		Active:        raw.Status == StatusActive,
		Features:      &features,
		FallbackLevel: FallbackLive,
		Status:        raw.Status,
	}
}

// resolveAndPersist runs the fallback resolver against the persisted
// previous result and writes the decision back. The record's clock is only
// advanced when no previous result existed; otherwise the original
// confirmation time is preserved so the grace window actually lapses under a
// continued outage.
func (s *Service) resolveAndPersist(ctx context.Context, now time.Time) State {
	previous := s.readPreviousResult(ctx)
	state := resolveFallback(previous, s.cfg.GracePeriod, now)

	record := PreviousResult{
		Active:      state.Active,
		Features:    *state.Features,
		LastChecked: now,
		Version:     previousResultVersion,
	}
	if previous != nil && previous.Version == previousResultVersion {
		record.LastChecked = previous.LastChecked
	}
	s.writePreviousResult(ctx, record)

	if state.FallbackLevel == FallbackDefault {
		log.Warn().Msg("No previous result within grace period; enterprise features fall back to defaults")
	}
	return state
}

func (s *Service) readPreviousResult(ctx context.Context) *PreviousResult {
	res := s.store.Get(ctx, PreviousResultKey(s.identity.ID))
	if !res.Ok {
		log.Warn().Err(res.Err).Msg("Previous result read failed")
		return nil
	}
	if !res.Found {
		return nil
	}

	var previous PreviousResult
	if err := json.Unmarshal(res.Data, &previous); err != nil {
		log.Warn().Err(err).Msg("Previous result record corrupt; ignoring")
		return nil
	}
	if previous.Version != previousResultVersion {
		log.Warn().Int("version", previous.Version).Msg("Previous result schema version mismatch; ignoring")
		return nil
	}
	return &previous
}

// writePreviousResult keeps the grace-period record fresh. The record has no
// TTL of its own; staleness is judged against the grace period at read time.
func (s *Service) writePreviousResult(ctx context.Context, record PreviousResult) {
	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := s.store.Set(ctx, PreviousResultKey(s.identity.ID), data, 0); err != nil {
		log.Warn().Err(err).Msg("Failed to write previous result record")
	}
}
