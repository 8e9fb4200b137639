package onprem

import "github.com/google/uuid"

// GUIDBytes is the inverse of GUIDFromBytes, used to build directory fixtures.
func GUIDBytes(guid string) ([]byte, error) {
	id, err := uuid.Parse(guid)
	if err != nil {
		return nil, err
	}

	return []byte{
		id[3], id[2], id[1], id[0],
		id[5], id[4],
		id[7], id[6],
		id[8], id[9], id[10], id[11], id[12], id[13], id[14], id[15],
	}, nil
}
