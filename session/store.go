package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/virtualpet/storefront/storage"
)

const (
	authRecordKey = "auth"
	roleMarkerKey = "session_role"
)

// Store holds the session state for the current run and mirrors it to
// storage: the auth record goes to the durable scope, the role marker to
// the session scope.
//
// Mutations notify subscribers synchronously, after the full change has
// been applied. Login applies the user/token/role tuple as one group so
// dependent effects (the checkout resume) never observe a partial update.
type Store struct {
	mu       sync.RWMutex
	user     *User
	token    oauth2.Token
	role     Role
	clientID *int64 // from the auth record or the user, for order payloads

	durable storage.KV
	scoped  storage.KV

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	log zerolog.Logger
}

// NewStore creates an empty, unauthenticated store. durable backs the
// auth record, scoped backs the role marker.
func NewStore(durable, scoped storage.KV, log zerolog.Logger) *Store {
	return &Store{
		durable: durable,
		scoped:  scoped,
		subs:    make(map[int]func(Snapshot)),
		log:     log.With().Str("component", "session").Logger(),
	}
}

// Hydrate loads the persisted auth record and role marker into memory.
// No network validation of token freshness happens here; a stale token
// surfaces as an authorization error on the next API call.
func (s *Store) Hydrate() error {
	raw, ok, err := s.durable.Get(authRecordKey)
	if err != nil {
		return errors.Wrap(err, "[Hydrate] read auth record")
	}

	s.mu.Lock()
	if ok {
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			// A corrupt record is treated as "not authenticated".
			s.log.Warn().Err(err).Msg("discarding unreadable auth record")
		} else if rec.AccessToken != "" {
			s.token = oauth2.Token{AccessToken: rec.AccessToken, RefreshToken: rec.RefreshToken}
			s.clientID = rec.ClientID
			s.warnIfExpired(rec.AccessToken)
		}
	}

	role, ok, err := s.scoped.Get(roleMarkerKey)
	if err != nil {
		s.mu.Unlock()
		return errors.Wrap(err, "[Hydrate] read role marker")
	}
	if ok {
		s.role = Role(role)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// warnIfExpired decodes the token claims without verifying the signature,
// purely to log when a restored credential is already past its expiry.
// Verification is the server's job.
func (s *Store) warnIfExpired(accessToken string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		s.log.Warn().Time("expired_at", exp.Time).Msg("restored access token is already expired")
	}
}

// SetUser sets the current user. Callers performing a login should prefer
// Login, which applies the whole tuple atomically.
func (s *Store) SetUser(u *User) {
	s.mu.Lock()
	s.user = u
	if u != nil && u.ID != nil {
		s.clientID = u.ID
	}
	s.mu.Unlock()
	s.notify()
}

// SetAccessToken sets the bearer credential.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.token.AccessToken = token
	s.mu.Unlock()
	s.notify()
}

// SetRole sets the role and persists the session-scoped role marker, so
// the role survives the login redirect round trip even before the full
// user object is set.
func (s *Store) SetRole(role Role) error {
	s.mu.Lock()
	s.role = role
	s.mu.Unlock()

	if err := s.scoped.Set(roleMarkerKey, string(role)); err != nil {
		return errors.Wrap(err, "[SetRole] persist role marker")
	}
	s.notify()
	return nil
}

// Login applies the user/token/role tuple as one group, persists the
// durable auth record and the role marker, and then notifies subscribers
// exactly once.
func (s *Store) Login(user User, token oauth2.Token) error {
	rec := record{
		ClientID:     user.ID,
		Username:     user.Username,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "[Login] encode auth record")
	}
	if err := s.durable.Set(authRecordKey, string(raw)); err != nil {
		return errors.Wrap(err, "[Login] persist auth record")
	}
	if err := s.scoped.Set(roleMarkerKey, string(user.Role)); err != nil {
		return errors.Wrap(err, "[Login] persist role marker")
	}

	s.mu.Lock()
	u := user
	s.user = &u
	s.token = token
	s.role = user.Role
	s.clientID = user.ID
	s.mu.Unlock()

	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("logged in")
	s.notify()
	return nil
}

// Logout clears the in-memory session and removes both the auth record
// and the role marker from storage. The change is visible to all
// subscribers synchronously.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = oauth2.Token{}
	s.role = ""
	s.clientID = nil
	s.mu.Unlock()

	if err := s.durable.Delete(authRecordKey); err != nil {
		return errors.Wrap(err, "[Logout] clear auth record")
	}
	if err := s.scoped.Delete(roleMarkerKey); err != nil {
		return errors.Wrap(err, "[Logout] clear role marker")
	}

	s.log.Info().Msg("logged out")
	s.notify()
	return nil
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Token: s.token, Role: s.role}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.AccessToken != ""
}

// AccessToken returns the bearer credential, empty when logged out.
// Satisfies api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.AccessToken
}

// ClientID returns the client id for order payloads. It is available
// after login and after hydration from a persisted record.
func (s *Store) ClientID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clientID == nil {
		return 0, false
	}
	return *s.clientID, true
}

// Role returns the current role.
func (s *Store) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Subscribe registers fn to run synchronously after every mutation,
// receiving the post-mutation snapshot. The returned function removes
// the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
