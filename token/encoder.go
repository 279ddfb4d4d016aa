package token

import (
	"encoding/binary"
	"fmt"
)

// Binary record layout, version 1:
//
//	[0]      schema version
//	[1]      username length (bytes)
//	[...]    username
//	[8]      user id, big-endian int64
//	[8]      issued-at, big-endian unix seconds
//	[8]      expires-at, big-endian unix seconds
//	[2]      token length, big-endian uint16
//	[...]    token
const (
	schemaVersion = 1

	maxUsernameLen = 255
	maxTokenLen    = 65535
)

// Encode serializes rec into the compact binary form stored by the Redis
// backend.
func Encode(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrCorrupt)
	}
	if len(rec.Username) == 0 || len(rec.Username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username length %d", ErrCorrupt, len(rec.Username))
	}
	if len(rec.Token) == 0 || len(rec.Token) > maxTokenLen {
		return nil, fmt.Errorf("%w: token length %d", ErrCorrupt, len(rec.Token))
	}

	buf := make([]byte, 0, 2+len(rec.Username)+24+2+len(rec.Token))
	buf = append(buf, schemaVersion)
	buf = append(buf, byte(len(rec.Username)))
	buf = append(buf, rec.Username...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(rec.UserID))
	buf = binary.BigEndian.AppendUint64(buf, uint64(rec.IssuedAt))
	buf = binary.BigEndian.AppendUint64(buf, uint64(rec.ExpiresAt))
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(rec.Token)))
	buf = append(buf, rec.Token...)

	return buf, nil
}

// Decode parses a blob produced by Encode. Any structural violation returns
// ErrCorrupt.
func Decode(data []byte) (*Record, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: short blob", ErrCorrupt)
	}
	if data[0] != schemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", ErrCorrupt, data[0])
	}

	idx := 1
	usernameLen := int(data[idx])
	idx++
	if usernameLen == 0 || len(data) < idx+usernameLen+24+2 {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	username := string(data[idx : idx+usernameLen])
	idx += usernameLen

	userID := int64(binary.BigEndian.Uint64(data[idx:]))
	idx += 8
	issuedAt := int64(binary.BigEndian.Uint64(data[idx:]))
	idx += 8
	expiresAt := int64(binary.BigEndian.Uint64(data[idx:]))
	idx += 8

	tokenLen := int(binary.BigEndian.Uint16(data[idx:]))
	idx += 2
	if tokenLen == 0 || len(data) != idx+tokenLen {
		return nil, fmt.Errorf("%w: truncated token", ErrCorrupt)
	}

	return &Record{
		Token:     string(data[idx : idx+tokenLen]),
		UserID:    userID,
		Username:  username,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
