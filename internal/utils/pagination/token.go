package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor is a keyset position in a listing ordered by (Date DESC, Key DESC).
type Cursor struct {
	Date time.Time
	Key  string
}

// EncodeCursor renders a cursor as an opaque base64 token.
func EncodeCursor(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%s", c.Date.UTC().Format(timeFormat), c.Key)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	datePart, key, ok := strings.Cut(string(decodedBytes), "|")
	if !ok || key == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	date, err := time.Parse(timeFormat, datePart)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return Cursor{Date: date, Key: key}, nil
}

// After reports whether a row at (date, key) comes after the cursor in
// (date DESC, key DESC) order, i.e. belongs on a later page.
func (c Cursor) After(date time.Time, key string) bool {
	if date.Equal(c.Date) {
		return key < c.Key
	}
	return date.Before(c.Date)
}

