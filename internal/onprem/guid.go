package onprem

import (
	"github.com/google/uuid"
)

// GUIDFromBytes converts a raw objectGUID, stored with its first three groups little endian,
// to the canonical string form.
func GUIDFromBytes(raw []byte) (string, error) {
	if len(raw) != 16 { //nolint:mnd
		return "", ErrInvalidGUID
	}

	b := []byte{
		raw[3], raw[2], raw[1], raw[0],
		raw[5], raw[4],
		raw[7], raw[6],
	}
	b = append(b, raw[8:]...)

	id, err := uuid.FromBytes(b)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
