// Package cleanup prunes stale credentials from the session vault.
package cleanup

import (
	"fmt"
	"time"

	"github.com/trace-bio/trace/internal/session"
)

// Store is the part of the vault pruning needs.
type Store interface {
	List() ([]session.Credential, error)
	Delete(baseURL string) error
}

// PruneByAge removes credentials last saved more than maxAge before now.
// If dryRun is true, nothing is deleted; the function only returns the
// backends that would be removed. A non-positive maxAge prunes nothing.
func PruneByAge(s Store, maxAge time.Duration, now time.Time, dryRun bool) ([]string, error) {
	if maxAge <= 0 {
		return nil, nil
	}
	creds, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}

	cutoff := now.Add(-maxAge)
	var pruned []string

	for _, c := range creds {
		if !c.UpdatedAt.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := s.Delete(c.BaseURL); err != nil {
				return pruned, fmt.Errorf("removing %s: %w", c.BaseURL, err)
			}
		}
		pruned = append(pruned, c.BaseURL)
	}

	return pruned, nil
}

// PruneKeepRecent removes all credentials except the keep most recently
// used. If dryRun is true, nothing is deleted. Returns the pruned backends.
func PruneKeepRecent(s Store, keep int, dryRun bool) ([]string, error) {
	creds, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}

	// List is newest first.
	if keep < 0 {
		keep = 0
	}
	if len(creds) <= keep {
		return nil, nil
	}

	var pruned []string
	for _, c := range creds[keep:] {
		if !dryRun {
			if err := s.Delete(c.BaseURL); err != nil {
				return pruned, fmt.Errorf("removing %s: %w", c.BaseURL, err)
			}
		}
		pruned = append(pruned, c.BaseURL)
	}

	return pruned, nil
}
