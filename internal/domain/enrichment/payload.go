package enrichment

import (
	"bytes"
	"encoding/json"
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// Payload is a compact JSON document returned by the provider or derived from it.
type Payload []byte

// NewPayload validates raw JSON and returns its compact form.
func NewPayload(raw []byte) (Payload, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	var buf bytes.Buffer
	buf.Grow(len(raw))
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Payload(buf.Bytes()), nil
}

// EncodePayload marshals v into a Payload.
func EncodePayload(v any) (Payload, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Payload(raw), nil
}

func (p Payload) IsZero() bool {
	return len(p) == 0 || bytes.Equal(p, []byte("null"))
}

func (p Payload) Decode(v any) error {
	if p.IsZero() {
		return ErrPayloadUnavailable
	}
	return sonic.Unmarshal(p, v)
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return fmt.Errorf("%w: nil receiver", ErrInvalidPayload)
	}
	*p = append((*p)[:0], data...)
	return nil
}

// Record is one stored enrichment entry.
type Record struct {
	Bucket  DateBucket
	Kind    Kind
	MatchID int64
	Payload Payload
}
