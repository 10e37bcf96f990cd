package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// JournalCursor positions a journal listing ordered by transaction date, then
// creation time, then id, all descending.
type JournalCursor struct {
	TransactionDate time.Time
	CreatedAt       time.Time
	JournalID       string
}

// EncodeToken creates a base64 encoded token from a journal cursor.
func EncodeToken(c JournalCursor) string {
	tokenStr := strings.Join([]string{c.TransactionDate.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.JournalID}, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (JournalCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return JournalCursor{}, err
	}
	if len(parts) != 3 {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return JournalCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return JournalCursor{TransactionDate: date, CreatedAt: createdAt, JournalID: parts[2]}, nil
}

// Before reports whether a journal at (date, createdAt, id) sorts after the
// cursor in descending order, i.e. belongs to the next page.
func (c JournalCursor) Before(date, createdAt time.Time, id string) bool {
	if !date.Equal(c.TransactionDate) {
		return date.Before(c.TransactionDate)
	}
	if !createdAt.Equal(c.CreatedAt) {
		return createdAt.Before(c.CreatedAt)
	}
	return id < c.JournalID
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
