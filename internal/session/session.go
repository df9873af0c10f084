// Package session owns the per-visitor state: one cart, one wishlist, one
// checkout service and a buffer of notifications the client has not read
// yet.
package session

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/wishlist"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	ID            string
	Cart          *cart.Store
	Wishlist      *wishlist.Store
	Checkout      *checkout.Service
	Notifications *events.Buffer

	mu          sync.Mutex
	lastSeen    time.Time
	unsubscribe []func()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// A checkout in flight keeps the session alive regardless of idle time.
func (s *Session) busy() bool {
	return s.Checkout.InProgress()
}

func (s *Session) close() {
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil
}

type Options struct {
	Processor       checkout.Processor
	Sink            checkout.Sink
	Logger          *log.Logger
	IdleTimeout     time.Duration
	NotificationCap int
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
}

func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.NotificationCap < 1 {
		opts.NotificationCap = 50
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts an empty session with a fresh id.
func (m *Manager) Create() *Session {
	c := cart.New()
	sess := &Session{
		ID:            uuid.NewString(),
		Cart:          c,
		Wishlist:      wishlist.New(),
		Checkout:      checkout.NewService(c, m.opts.Processor, m.opts.Sink, m.opts.Logger),
		Notifications: events.NewBuffer(m.opts.NotificationCap),
		lastSeen:      m.now(),
	}

	push := sess.Notifications.Push
	sess.unsubscribe = []func(){
		sess.Cart.Subscribe(push),
		sess.Wishlist.Subscribe(push),
		sess.Checkout.Subscribe(push),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return sess
}

// Get looks a session up and marks it as active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(m.now())
	return sess, nil
}

// End removes a session and detaches its notification buffer.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	return nil
}

// Reap ends every session idle for longer than the configured timeout and
// reports how many were removed. A zero timeout disables reaping.
func (m *Manager) Reap(now time.Time) int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	var expired []*Session
	for id, sess := range m.sessions {
		if sess.busy() || sess.idleSince(now) <= m.opts.IdleTimeout {
			continue
		}
		expired = append(expired, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		m.opts.Logger.Printf("reaped %d idle session(s)", len(expired))
	}
	return len(expired)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
