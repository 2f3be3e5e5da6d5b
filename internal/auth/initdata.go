// Package auth validates Telegram Mini App init-data.
//
// Init-data is a signed, URL-encoded assertion produced by the Telegram
// web-view bridge. The backend recomputes the HMAC over a canonical
// serialization of the fields and accepts the embedded user claim only
// when the signature matches the bot token.
// See https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrAuthenticationFailed is the single outcome reported for every rejected
// payload. Callers must not expose the wrapped reason to clients; it exists
// for logs only.
var ErrAuthenticationFailed = errors.New("authentication failed")

var (
	errMalformedPayload  = errors.New("malformed init-data payload")
	errMissingHash       = errors.New("missing hash field")
	errSignatureMismatch = errors.New("signature mismatch")
	errExpired           = errors.New("init-data expired")
	errMalformedClaim    = errors.New("malformed user claim")
)

// User is the identity claim embedded in valid init-data. Raw carries the
// claim verbatim so fields Telegram adds later survive a round trip.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	IsPremium    bool   `json:"is_premium"`
	PhotoURL     string `json:"photo_url"`

	Raw json.RawMessage `json:"-"`
}

// Verifier checks init-data signatures for a single bot token.
// It is safe for concurrent use: the derived signing key is computed once
// and read-only afterwards, everything else is pure computation.
type Verifier struct {
	token       string
	maxAge      time.Duration
	debugSecret string

	once       sync.Once
	signingKey []byte

	now func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithMaxAge bounds the accepted age of the auth_date field.
// Zero disables the check.
func WithMaxAge(d time.Duration) Option {
	return func(v *Verifier) { v.maxAge = d }
}

// WithDebugSecret enables the local-development bypass: the literal payload
// "secret;user_id" authenticates as user_id without a signature. An empty
// secret keeps the bypass unreachable.
func WithDebugSecret(secret string) Option {
	return func(v *Verifier) { v.debugSecret = secret }
}

func withClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier for the given bot token.
func NewVerifier(botToken string, opts ...Option) *Verifier {
	v := &Verifier{token: botToken, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the raw init-data string and returns the authenticated user.
// Every rejection wraps ErrAuthenticationFailed.
func (v *Verifier) Verify(initData string) (*User, error) {
	if u, ok := v.tryDebugBypass(initData); ok {
		return u, nil
	}

	user, err := v.verify(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}
	return user, nil
}

func (v *Verifier) verify(initData string) (*User, error) {
	pairs, err := url.ParseQuery(initData)
	if err != nil {
		return nil, errMalformedPayload
	}

	received := pairs.Get("hash")
	if received == "" {
		return nil, errMissingHash
	}
	pairs.Del("hash")

	receivedMAC, err := hex.DecodeString(received)
	if err != nil {
		return nil, errSignatureMismatch
	}

	mac := hmac.New(sha256.New, v.secret())
	mac.Write([]byte(dataCheckString(pairs)))
	if !hmac.Equal(mac.Sum(nil), receivedMAC) {
		return nil, errSignatureMismatch
	}

	if v.maxAge > 0 {
		authDate, err := strconv.ParseInt(pairs.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, errExpired
		}
		if v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
			return nil, errExpired
		}
	}

	rawUser := pairs.Get("user")
	if rawUser == "" {
		return nil, errMalformedClaim
	}
	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, errMalformedClaim
	}
	if user.ID == 0 {
		return nil, errMalformedClaim
	}
	user.Raw = json.RawMessage(rawUser)

	return &user, nil
}

// tryDebugBypass matches the exact "secret;digits" form. It never fires when
// no debug secret is configured.
func (v *Verifier) tryDebugBypass(payload string) (*User, bool) {
	if v.debugSecret == "" {
		return nil, false
	}
	rest, ok := strings.CutPrefix(payload, v.debugSecret+";")
	if !ok || rest == "" {
		return nil, false
	}
	// ParseInt tolerates a leading sign, the bypass does not.
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return nil, false
		}
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &User{ID: id}, true
}

// secret derives the signing key HMAC-SHA256("WebAppData", token) once per
// verifier and reuses it afterwards.
func (v *Verifier) secret() []byte {
	v.once.Do(func() {
		mac := hmac.New(sha256.New, []byte("WebAppData"))
		mac.Write([]byte(v.token))
		v.signingKey = mac.Sum(nil)
	})
	return v.signingKey
}

// dataCheckString serializes the fields as sorted "key=value" lines, the
// canonical form Telegram signs.
func dataCheckString(pairs url.Values) string {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(pairs.Get(k))
	}
	return sb.String()
}
