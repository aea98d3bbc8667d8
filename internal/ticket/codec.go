package ticket

import (
	"encoding/json"
	"fmt"
)

// codecVersion is bumped whenever the payload shape changes in a way
// old readers cannot handle. A mismatched version is rejected as a
// deserialization failure instead of being silently misread.
const codecVersion = 1

type envelope struct {
	Version int             `json:"v"`
	Payload json.RawMessage `json:"payload"`
}

func encodePayload(p Payload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	data, err := json.Marshal(envelope{
		Version: codecVersion,
		Payload: raw,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return data, nil
}

func decodePayload(data []byte) (*Payload, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	if env.Version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrDeserialization, env.Version)
	}

	var p Payload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}

	return &p, nil
}
