// Package subscription stores repository subscriptions and resolves their
// outdated dependencies on demand.
//
// A [Subscription] pairs a repository URL with the email addresses that
// watch it. Subscriptions are persisted through a [Store]; several backends
// are provided:
//   - memory: in-process map for development and tests
//   - file: JSON files in a directory, for the CLI and single-node servers
//   - redis: shared storage for multi-instance deployments
//   - mongo: document storage for multi-instance deployments
//
// The [Service] validates input, persists subscriptions, and delegates
// resolution to the dependency resolver.
package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/depwatch/pkg/errors"
)

// Subscription is a repository watched by a list of email addresses.
type Subscription struct {
	ID            string    `json:"id" bson:"_id"`
	RepositoryURL string    `json:"repositoryUrl" bson:"repositoryUrl"`
	Emails        []string  `json:"emails" bson:"emails"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// New creates a subscription with a random ID.
func New(repositoryURL string, emails []string) *Subscription {
	return &Subscription{
		ID:            uuid.NewString(),
		RepositoryURL: repositoryURL,
		Emails:        append([]string(nil), emails...),
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
}

// ParseID validates a subscription ID and returns its canonical form.
// Malformed IDs are reported as unknown subscriptions.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", notFound(id)
	}
	return u.String(), nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSubscriptionNotFound, "subscription %q not found", id)
}

func (s *Subscription) clone() *Subscription {
	c := *s
	c.Emails = append([]string(nil), s.Emails...)
	return &c
}
