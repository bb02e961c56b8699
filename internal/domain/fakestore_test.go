package domain

import (
	"context"
	"sync"
)

// fakeStore is an in-memory LinkStore for flow tests.
type fakeStore struct {
	mu     sync.Mutex
	links  map[string]*Link
	clicks []Click
	nextID int64

	// createErr, when set, is returned once by CreateLink.
	createErr error
	// afterFind runs after FindLinkByCode has read the row.
	afterFind func(ctx context.Context, code string)
}

func newFakeStore(links ...*Link) *fakeStore {
	s := &fakeStore{links: map[string]*Link{}}
	for _, l := range links {
		s.nextID++
		l.ID = s.nextID
		if l.Status == "" {
			l.Status = StatusActive
		}
		s.links[l.Code] = l
	}
	return s
}

func (s *fakeStore) FindLinkByCode(ctx context.Context, code string) (*Link, error) {
	s.mu.Lock()
	l, ok := s.links[code]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := *l
	hook := s.afterFind
	s.mu.Unlock()
	if hook != nil {
		hook(ctx, code)
	}
	return &cp, nil
}

func (s *fakeStore) deactivate(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[code].Status = StatusInactive
}

func (s *fakeStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[code]
	return ok, nil
}

func (s *fakeStore) CreateLink(_ context.Context, link *Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr; err != nil {
		s.createErr = nil
		return err
	}
	if _, ok := s.links[link.Code]; ok {
		return ErrCodeConflict
	}
	s.nextID++
	link.ID = s.nextID
	cp := *link
	s.links[link.Code] = &cp
	return nil
}

func (s *fakeStore) RecordClick(_ context.Context, click Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.ID == click.LinkID && l.IsActive() {
			l.Clicks++
			s.clicks = append(s.clicks, click)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeStore) clicksFor(code string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links[code].Clicks
}
