package subscription

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/repourl"
	"github.com/matzehuels/depwatch/pkg/resolver"
)

// Resolver computes the outdated dependencies of a repository URL.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) ([]resolver.OutdatedDependency, error)
}

// CreateRequest is the input of [Service.Create].
type CreateRequest struct {
	RepositoryURL string   `json:"repositoryUrl"`
	Emails        []string `json:"emails"`
}

// Service manages subscriptions.
type Service struct {
	store    Store
	resolver Resolver
	logger   *log.Logger
}

// NewService creates a Service. A nil logger uses the default logger.
func NewService(store Store, r Resolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: store, resolver: r, logger: logger}
}

// Create validates req and stores a new subscription. Validation happens
// before anything is persisted and never touches the network.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	rawURL := strings.TrimSpace(req.RepositoryURL)
	if _, err := repourl.Parse(rawURL); err != nil {
		return nil, err
	}
	if err := errors.ValidateEmails(req.Emails); err != nil {
		return nil, err
	}

	sub := New(rawURL, req.Emails)
	if err := s.store.Put(ctx, sub); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store subscription")
	}
	s.logger.Info("subscription created", "id", sub.ID, "repo", sub.RepositoryURL, "emails", len(sub.Emails))
	return sub, nil
}

// Get returns the subscription with the given ID.
func (s *Service) Get(ctx context.Context, id string) (*Subscription, error) {
	key, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	sub, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load subscription")
	}
	if sub == nil {
		return nil, notFound(id)
	}
	return sub, nil
}

// Delete removes the subscription with the given ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sub.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete subscription")
	}
	s.logger.Info("subscription deleted", "id", sub.ID)
	return nil
}

// OutdatedDependencies resolves the subscription's repository.
func (s *Service) OutdatedDependencies(ctx context.Context, id string) ([]resolver.OutdatedDependency, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, sub.RepositoryURL)
}
