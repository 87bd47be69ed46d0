package github

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidName is returned for owner or repository names GitHub would not accept.
var ErrInvalidName = errors.New("invalid github name")

var (
	// 1-39 characters, letters, digits or '-', not starting with '-'.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// 1-100 characters, letters, digits, '.', '_' or '-'.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner checks a user or organization login.
func ValidateOwner(owner string) error {
	if !validOwner.MatchString(owner) {
		return fmt.Errorf("%w: owner %q", ErrInvalidName, owner)
	}
	return nil
}

// ValidateRepo checks a repository name. "." and ".." are reserved.
func ValidateRepo(repo string) error {
	if !validRepo.MatchString(repo) || repo == "." || repo == ".." {
		return fmt.Errorf("%w: repository %q", ErrInvalidName, repo)
	}
	return nil
}

// ValidateRepoRef checks both halves of owner/repo.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}
