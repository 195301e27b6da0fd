package identity

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/stoik/email-guard/internal/domain"
)

// StaticResolver maps bearer tokens to user IDs from a fixed table
type StaticResolver struct {
	tokens map[string]string // token -> user ID
}

// NewStaticResolver creates a resolver from a user ID -> token map, as found in configuration
//
// A token shared by two users is rejected: it could not identify either.
func NewStaticResolver(userTokens map[string]string) (*StaticResolver, error) {
	tokens := make(map[string]string, len(userTokens))
	for user, token := range userTokens {
		token = strings.TrimSpace(token)
		if user == "" || token == "" {
			continue
		}
		if other, ok := tokens[token]; ok {
			first, second := other, user
			if second < first {
				first, second = second, first
			}
			return nil, fmt.Errorf("users %q and %q share the same token", first, second)
		}
		tokens[token] = user
	}
	return &StaticResolver{tokens: tokens}, nil
}

// Resolve returns the user owning token
func (r *StaticResolver) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}

	// Constant-time comparison to prevent timing attacks
	var userID string
	for known, user := range r.tokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(known)) == 1 {
			userID = user
		}
	}
	if userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}

// Len returns the number of known tokens
func (r *StaticResolver) Len() int {
	return len(r.tokens)
}
