package mock

import (
	"context"

	"github.com/fwojciec/briefly"
)

// Compile-time interface verification.
var (
	_ briefly.PageStore     = (*PageStore)(nil)
	_ briefly.DomainLimiter = (*DomainLimiter)(nil)
)

// PageStore is a mock implementation of briefly.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *briefly.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *briefly.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}

// DomainLimiter is a mock implementation of briefly.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
