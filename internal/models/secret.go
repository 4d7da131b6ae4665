package models

import (
	"fmt"
	"strings"
)

type SecretRecord struct {
	Name   string
	Value  string
	Secret bool
}

// Repository is a GitHub owner/name pair.
type Repository struct {
	Owner string
	Name  string
}

func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("repository must be owner/name, got %q", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// PublishResult partitions secret upserts by outcome.
type PublishResult struct {
	Published []string
	Failed    map[string]error
}

func NewPublishResult() *PublishResult {
	return &PublishResult{Failed: make(map[string]error)}
}
