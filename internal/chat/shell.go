package chat

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/cabin-booking-backend/internal/pkg/apperror"
)

var ErrRateLimited = apperror.New(http.StatusTooManyRequests, "too many messages, please wait a moment")

// BotPolicy is decided per request by the caller. When the bot is disabled a
// human answers and messages are left untouched.
type BotPolicy struct {
	Enabled bool
}

// Shell runs one guest message through rate limiting, topic answers and the
// resolver, keeping the guest's session in the store. Messages from the same
// user are handled one at a time.
type Shell struct {
	resolver *Resolver
	store    SessionStore
	topics   TopicResponder
	limiter  *userLimiter
	locks    *keyedMutex
	logger   *zap.Logger
}

// NewShell builds a shell allowing perMinute messages per user.
func NewShell(resolver *Resolver, store SessionStore, topics TopicResponder, perMinute int, logger *zap.Logger) *Shell {
	return &Shell{
		resolver: resolver,
		store:    store,
		topics:   topics,
		limiter:  newUserLimiter(perMinute),
		locks:    newKeyedMutex(),
		logger:   logger,
	}
}

// Handle answers one message. The returned session is the one persisted.
func (s *Shell) Handle(ctx context.Context, policy BotPolicy, userID, text string) (Session, Reply, error) {
	if !policy.Enabled {
		return Session{UserID: userID}, Reply{Kind: ReplyDisabled}, nil
	}
	if !s.limiter.allow(userID) {
		s.logger.Warn("chat rate limit exceeded", zap.String("user_id", userID))
		return Session{}, Reply{}, ErrRateLimited
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	sess, ok, err := s.store.Get(ctx, userID)
	if err != nil {
		return Session{}, Reply{}, err
	}
	if !ok {
		sess = NewSession(userID)
	}

	var reply Reply
	if answer, ok := s.topicAnswer(sess, text); ok {
		reply = Reply{Kind: ReplyTopic, Text: answer}
	} else {
		sess, reply, err = s.resolver.Advance(ctx, sess, text)
		if err != nil {
			return Session{}, Reply{}, err
		}
	}

	if !sess.Greeted {
		reply.Text = msgGreeting + " " + reply.Text
		sess.Greeted = true
	}

	if err := s.store.Set(ctx, sess); err != nil {
		return Session{}, Reply{}, err
	}

	s.logger.Debug("chat message handled",
		zap.String("user_id", userID),
		zap.String("state", string(sess.State)),
		zap.String("reply", string(reply.Kind)),
	)
	return sess, reply, nil
}

// Reset forgets the user's session.
func (s *Shell) Reset(ctx context.Context, userID string) error {
	unlock := s.locks.lock(userID)
	defer unlock()
	return s.store.Delete(ctx, userID)
}

// topicAnswer only answers outside an active search, and never when the text
// carries dates or a party size.
func (s *Shell) topicAnswer(sess Session, text string) (string, bool) {
	if s.topics == nil || sess.State == StateAvailabilityShown {
		return "", false
	}
	if s.resolver.Understands(text) {
		return "", false
	}
	return s.topics.Respond(text)
}

// userLimiter holds one token bucket per user.
type userLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// maxTrackedUsers bounds the limiter map; idle users are dropped past it.
const maxTrackedUsers = 10000

func newUserLimiter(perMinute int) *userLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &userLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *userLimiter) allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.limiters[userID]
	if !ok {
		if len(l.limiters) >= maxTrackedUsers {
			for id, e := range l.limiters {
				if now.Sub(e.lastSeen) > time.Minute {
					delete(l.limiters, id)
				}
			}
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// keyedMutex serializes work per key and frees a key's lock once nobody waits on it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
