// Package store persists per-visitor storefront state in a gorilla session.
//
// Values are JSON blobs under fixed keys, mirroring what the pages would keep
// in browser storage. The values live in a file per visitor; the cookie only
// carries the signed session id. Decoding fails closed: anything malformed
// reads as an empty cart or an absent booking.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"micasa-storefront/internal/logging"
	"micasa-storefront/internal/models"

	"github.com/gorilla/sessions"
)

// Keys under which state is persisted
const (
	CartKey           = "cart"
	BookingKey        = "bookingDetails"
	PendingBookingKey = "pendingBooking"
	CSRFKey           = "csrf_token"
)

// State opens visitor sessions from a gorilla store
type State struct {
	store sessions.Store
	name  string
}

// New wraps store; name is the cookie name
func New(store sessions.Store, name string) *State {
	return &State{store: store, name: name}
}

// maxSessionBytes caps one visitor's encoded state
const maxSessionBytes = 64 << 10

// sessionFilePrefix is the name prefix gorilla gives session files
const sessionFilePrefix = "session_"

// NewFilesystemStore keeps session values in files under dir, creating it if
// needed. Cookies hold only the signed session id, so the browser's 4 KB
// cookie limit does not bound the cart or booking.
func NewFilesystemStore(dir, secret string, maxAge int, secure bool) (*sessions.FilesystemStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	fs := sessions.NewFilesystemStore(dir, []byte(secret))
	fs.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	fs.MaxAge(maxAge)
	fs.MaxLength(maxSessionBytes)
	return fs, nil
}

// SweepExpired removes session files under dir that have not been written
// for maxAge, every interval until ctx is done
func SweepExpired(ctx context.Context, dir string, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := sweepDir(dir, now.Add(-maxAge))
			if err != nil {
				logging.FromContext(ctx).WithError(err).Warn("session sweep failed")
				continue
			}
			if removed > 0 {
				logging.FromContext(ctx).WithField("removed", removed).Debug("expired sessions swept")
			}
		}
	}
}

// sweepDir deletes session files last modified before cutoff
func sweepDir(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}

// Session is one visitor's persisted state for the duration of a request
type Session struct {
	sess *sessions.Session
	r    *http.Request
}

// Open loads the visitor's session. A cookie that fails to decode, or whose
// file is gone, is replaced by a fresh session rather than surfacing an error.
func (s *State) Open(r *http.Request) (*Session, error) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		logging.FromContext(r.Context()).WithError(err).Warn("discarding unreadable session cookie")
		if sess == nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
	}
	return &Session{sess: sess, r: r}, nil
}

// Save writes the session values and the id cookie
func (s *Session) Save(w http.ResponseWriter) error {
	return s.sess.Save(s.r, w)
}

// Cart returns the persisted cart. Missing or corrupt data yields an empty cart.
func (s *Session) Cart() *models.Cart {
	raw, ok := s.sess.Values[CartKey].(string)
	if !ok || raw == "" {
		return &models.Cart{}
	}
	items, err := DecodeCart([]byte(raw))
	if err != nil {
		logging.FromContext(s.r.Context()).WithError(err).Warn("persisted cart is corrupt, starting empty")
		return &models.Cart{}
	}
	return &models.Cart{Items: items}
}

// SetCart persists the full cart. An empty cart removes the key.
func (s *Session) SetCart(cart *models.Cart) error {
	if cart.IsEmpty() {
		delete(s.sess.Values, CartKey)
		return nil
	}
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	s.sess.Values[CartKey] = string(data)
	return nil
}

// Booking returns the confirmed booking snapshot awaiting checkout
func (s *Session) Booking() (*models.BookingDetails, bool) {
	return s.booking(BookingKey)
}

// SetBooking persists the confirmed snapshot
func (s *Session) SetBooking(b *models.BookingDetails) error {
	return s.setBooking(BookingKey, b)
}

// ClearBooking removes the confirmed snapshot
func (s *Session) ClearBooking() {
	delete(s.sess.Values, BookingKey)
}

// PendingBooking returns the snapshot shown in the confirmation modal
func (s *Session) PendingBooking() (*models.BookingDetails, bool) {
	return s.booking(PendingBookingKey)
}

// SetPendingBooking stores a snapshot awaiting confirmation
func (s *Session) SetPendingBooking(b *models.BookingDetails) error {
	return s.setBooking(PendingBookingKey, b)
}

// ClearPendingBooking drops an unconfirmed snapshot
func (s *Session) ClearPendingBooking() {
	delete(s.sess.Values, PendingBookingKey)
}

// ClearOrder removes cart and booking state after a completed payment
func (s *Session) ClearOrder() {
	delete(s.sess.Values, CartKey)
	delete(s.sess.Values, BookingKey)
	delete(s.sess.Values, PendingBookingKey)
}

// CSRFToken returns the session's token, creating one if needed
func (s *Session) CSRFToken() string {
	if token, ok := s.sess.Values[CSRFKey].(string); ok && token != "" {
		return token
	}
	token := GenerateCSRFToken()
	s.sess.Values[CSRFKey] = token
	return token
}

// HasCSRFToken reports whether the session already holds a token
func (s *Session) HasCSRFToken() bool {
	token, ok := s.sess.Values[CSRFKey].(string)
	return ok && token != ""
}

func (s *Session) booking(key string) (*models.BookingDetails, bool) {
	raw, ok := s.sess.Values[key].(string)
	if !ok || raw == "" {
		return nil, false
	}
	b, err := DecodeBooking([]byte(raw))
	if err != nil {
		logging.FromContext(s.r.Context()).WithError(err).WithField("key", key).Warn("persisted booking is corrupt, ignoring")
		delete(s.sess.Values, key)
		return nil, false
	}
	return b, true
}

func (s *Session) setBooking(key string, b *models.BookingDetails) error {
	if b == nil {
		delete(s.sess.Values, key)
		return nil
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}
	s.sess.Values[key] = string(data)
	return nil
}

// DecodeCart validates a persisted cart blob
func DecodeCart(data []byte) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptState, err)
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		switch {
		case item.ID == "":
			return nil, fmt.Errorf("%w: cart item without id", models.ErrCorruptState)
		case seen[item.ID]:
			return nil, fmt.Errorf("%w: duplicate cart item %q", models.ErrCorruptState, item.ID)
		case item.Quantity < 1:
			return nil, fmt.Errorf("%w: cart item %q has quantity %d", models.ErrCorruptState, item.ID, item.Quantity)
		case item.Price < 0:
			return nil, fmt.Errorf("%w: cart item %q has negative price", models.ErrCorruptState, item.ID)
		}
		seen[item.ID] = true
	}
	return items, nil
}

// DecodeBooking validates a persisted booking snapshot
func DecodeBooking(data []byte) (*models.BookingDetails, error) {
	var b models.BookingDetails
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptState, err)
	}
	if !b.Valid() {
		return nil, fmt.Errorf("%w: booking snapshot is incomplete", models.ErrCorruptState)
	}
	return &b, nil
}

// GenerateCSRFToken returns 32 random bytes, hex encoded
func GenerateCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("csrf token: %v", err))
	}
	return hex.EncodeToString(b)
}
