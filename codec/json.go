package codec

import (
	"encoding/json"

	"github.com/catbits/catbits"
)

// JSON encodes records with encoding/json. Membership columns serialize as
// sparse row-id lists, so the payload stays readable and proportional to
// the number of set bits.
type JSON struct{}

// Name implements Codec.
func (JSON) Name() string { return "json" }

// Marshal implements Codec.
func (JSON) Marshal(r *catbits.Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

// Unmarshal implements Codec. The decoded record is validated before it is
// returned.
func (JSON) Unmarshal(data []byte) (*catbits.Record, error) {
	var r catbits.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
