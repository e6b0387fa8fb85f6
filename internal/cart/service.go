package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/driveline-labs/storefront-api/pkg/errors"
	"github.com/driveline-labs/storefront-api/pkg/logger"
)

// Service exposes the cart mutation and read operations for one session.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, item LineItem) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, variantID string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type service struct {
	store Store
	logg  *logger.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// NewService builds a cart service over the provided store.
func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{
		store: store,
		logg:  logg,
		locks: map[string]*sessionLock{},
	}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, item LineItem) (*Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		return cart.addItem(item)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(variantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		cart.updateQuantity(variantID, quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, variantID string) (*Cart, error) {
	if strings.TrimSpace(variantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	return s.mutate(ctx, sessionID, func(cart *Cart) error {
		cart.removeItem(variantID)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	lock := s.acquire(sessionID)
	defer s.release(sessionID, lock)

	return s.store.Delete(ctx, sessionID)
}

// mutate serializes read-modify-write cycles per session so that two requests
// for the same cart cannot interleave their updates.
func (s *service) mutate(ctx context.Context, sessionID string, fn func(*Cart) error) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	lock := s.acquire(sessionID)
	defer s.release(sessionID, lock)

	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(&cart); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"lines":      len(cart.Lines),
			"item_count": cart.ItemCount(),
		})
		s.logg.Debug(ctx, "cart.updated")
	}
	return &cart, nil
}

// acquire serializes callers on one session. Entries are reference-counted and
// removed once the last holder releases, so the lock map only ever tracks
// sessions with requests in flight.
func (s *service) acquire(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *service) release(sessionID string, lock *sessionLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
