package sdk

import (
	"time"
)

// Token is a precondition value derived from a resource's last-modification
// timestamp. Every resource type shares the identical derivation, so the
// optimistic-concurrency protocol stays uniform across profiles, families,
// users, documents and notifications.
type Token string

// tokenLayout renders an instant at whole-second precision, the granularity
// the backend reports. 2024-01-20T10:30:00Z encodes to 20240120T103000Z.
const tokenLayout = "20060102T150405Z"

// EncodeToken derives the precondition token for a resource last modified at
// the given RFC 3339 timestamp. It fails closed: an unparseable timestamp
// yields an error rather than a best-effort token, and callers must treat the
// missing token as "cannot safely mutate".
func EncodeToken(updatedAt string) (Token, error) {
	ts, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return "", WrapError(KindProgramming, "no concurrency token available: unparseable timestamp", err)
	}
	return EncodeTokenAt(ts), nil
}

// EncodeTokenAt derives the precondition token from an already-parsed
// timestamp. Two calls for the same instant produce the same token; instants
// one second apart produce different tokens.
func EncodeTokenAt(updatedAt time.Time) Token {
	return Token(updatedAt.UTC().Truncate(time.Second).Format(tokenLayout))
}
