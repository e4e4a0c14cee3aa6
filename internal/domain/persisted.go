package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Persisted keys. They match the browser storage keys of the console so an
// exported session can be moved between front ends.
const (
	KeyUser               = "auth_user"
	KeyAccessToken        = "auth_access_token"
	KeyRefreshToken       = "auth_refresh_token"
	KeyTokenExpiry        = "auth_token_expiry"
	KeyLastActivity       = "auth_last_activity"
	KeyImpersonation      = "auth_impersonation"
	KeyRedirectAfterLogin = "redirectAfterLogin"
)

// PersistedKeys lists every key owned by the session engine. Logout
// removes all of them together.
var PersistedKeys = []string{
	KeyUser,
	KeyAccessToken,
	KeyRefreshToken,
	KeyTokenExpiry,
	KeyLastActivity,
	KeyImpersonation,
	KeyRedirectAfterLogin,
}

// PersistedState is everything the engine keeps across process restarts.
type PersistedState struct {
	Session            *Session
	Impersonation      ImpersonationSnapshot
	RedirectAfterLogin string

	// Incomplete is set by DecodePersistedState when some session keys
	// were present but did not form a complete session.
	Incomplete bool
}

// Entries encodes the state as a flat key-value record. Absent values are
// omitted; stores replace the whole record on save.
func (p *PersistedState) Entries() (map[string]string, error) {
	out := make(map[string]string, len(PersistedKeys))
	if p == nil {
		return out, nil
	}

	if p.Session != nil {
		user, err := json.Marshal(p.Session.Identity)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", KeyUser, err)
		}
		out[KeyUser] = string(user)
		out[KeyAccessToken] = p.Session.AccessToken
		out[KeyRefreshToken] = p.Session.RefreshToken
		out[KeyTokenExpiry] = formatEpochMillis(p.Session.TokenExpiry)
		out[KeyLastActivity] = formatEpochMillis(p.Session.LastActivity)
	}

	if p.Impersonation.Active {
		snap, err := json.Marshal(p.Impersonation)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", KeyImpersonation, err)
		}
		out[KeyImpersonation] = string(snap)
	}

	if p.RedirectAfterLogin != "" {
		out[KeyRedirectAfterLogin] = p.RedirectAfterLogin
	}

	return out, nil
}

// DecodePersistedState rebuilds the state from a key-value record. A
// session missing any field decodes as absent; malformed values are an
// error so the caller can wipe the record.
func DecodePersistedState(entries map[string]string) (*PersistedState, error) {
	state := &PersistedState{RedirectAfterLogin: entries[KeyRedirectAfterLogin]}

	if raw := entries[KeyImpersonation]; raw != "" {
		var snap ImpersonationSnapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			return nil, fmt.Errorf("decode %s: %w", KeyImpersonation, err)
		}
		if !snap.Valid() {
			return nil, fmt.Errorf("decode %s: active snapshot without original identity", KeyImpersonation)
		}
		state.Impersonation = snap
	}

	rawUser := entries[KeyUser]
	access := entries[KeyAccessToken]
	refresh := entries[KeyRefreshToken]
	if rawUser == "" || access == "" || refresh == "" {
		state.Incomplete = rawUser != "" || access != "" || refresh != "" ||
			entries[KeyTokenExpiry] != "" || entries[KeyLastActivity] != "" ||
			state.Impersonation.Active
		state.Impersonation = ImpersonationSnapshot{}
		return state, nil
	}

	var identity Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyUser, err)
	}

	expiry, err := parseEpochMillis(entries[KeyTokenExpiry])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyTokenExpiry, err)
	}
	activity, err := parseEpochMillis(entries[KeyLastActivity])
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyLastActivity, err)
	}

	session := &Session{
		Identity:     identity.Normalized(),
		AccessToken:  access,
		RefreshToken: refresh,
		TokenExpiry:  expiry,
		LastActivity: activity,
	}
	if session.Complete() {
		state.Session = session
	} else {
		state.Incomplete = true
		state.Impersonation = ImpersonationSnapshot{}
	}

	return state, nil
}

func formatEpochMillis(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseEpochMillis(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
