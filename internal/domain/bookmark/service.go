package bookmark

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier receives change events after a mutation has been committed.
// The realtime feed fans these out to the owner's open subscriptions.
type Notifier interface {
	BookmarkInserted(ownerID string, b Bookmark)
	BookmarkDeleted(ownerID, id string)
}

type Servicer interface {
	Create(ctx context.Context, ownerID string, in Insert) (*Bookmark, error)
	List(ctx context.Context, ownerID string) ([]Bookmark, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

func NewService(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log.With(slog.String("component", "bookmark_service")),
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, in Insert) (*Bookmark, error) {
	in, err := ValidateInsert(in)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.Create(ctx, ownerID, in)
	if err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}

	s.notifier.BookmarkInserted(ownerID, *b)
	return b, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Bookmark, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return list, nil
}

// Delete removes the owner's bookmark with the given id. Deleting a row
// that does not exist, or that belongs to another owner, is a no-op: no
// event is emitted and no error is returned.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	if deleted {
		s.notifier.BookmarkDeleted(ownerID, id)
	}
	return nil
}
