// Package externalid derives the public identifiers exposed by the API from
// internal keys, so that raw numeric source IDs are never visible or
// enumerable. The encoding is deterministic and obfuscating, not
// cryptographic.
package externalid

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sqids/sqids-go"
)

// DefaultMinLength matches the shortest external ID the API hands out.
const DefaultMinLength = 12

// Codec encodes (raw numeric id, owner) pairs into opaque public strings.
type Codec struct {
	s *sqids.Sqids
}

// New creates a codec with the given minimum output length.
func New(minLength uint8) (*Codec, error) {
	s, err := sqids.New(sqids.Options{MinLength: minLength})
	if err != nil {
		return nil, fmt.Errorf("failed to build sqids encoder: %w", err)
	}
	return &Codec{s: s}, nil
}

// Encode maps a raw numeric source ID plus its owner to a public identifier.
//
// Source IDs can exceed 19 digits, past what an int64 holds, so the digit
// string is split into three chunks which are parsed independently and
// encoded alongside the owner's UUID bytes. A non-digit or empty rawID is a
// caller bug and is reported as an error rather than absorbed.
func (c *Codec) Encode(rawID string, ownerID uuid.UUID) (string, error) {
	parts, err := splitRawID(rawID)
	if err != nil {
		return "", err
	}

	numbers := make([]uint64, 0, 3+len(ownerID))
	numbers = append(numbers, parts[:]...)
	for _, b := range ownerID {
		numbers = append(numbers, uint64(b))
	}

	encoded, err := c.s.Encode(numbers)
	if err != nil {
		return "", fmt.Errorf("failed to encode external id: %w", err)
	}
	return encoded, nil
}

// splitRawID cuts the digit string into three contiguous chunks of
// ceil(len/3); the last chunk may be shorter or empty, and an empty chunk
// parses to zero.
func splitRawID(rawID string) ([3]uint64, error) {
	var parts [3]uint64

	if rawID == "" {
		return parts, fmt.Errorf("raw id must be a non-empty digit string")
	}

	chunkSize := (len(rawID) + 2) / 3
	for i := 0; i < 3; i++ {
		start := min(i*chunkSize, len(rawID))
		end := min(start+chunkSize, len(rawID))
		chunk := rawID[start:end]
		if chunk == "" {
			continue
		}

		n, err := strconv.ParseUint(chunk, 10, 64)
		if err != nil {
			return parts, fmt.Errorf("invalid raw id %q: %w", rawID, err)
		}
		parts[i] = n
	}

	return parts, nil
}
