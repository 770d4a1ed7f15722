// Package api defines the wire messages of the mealledger.v1 RPC services.
//
// Money is carried as decimal strings with two fractional digits ("18.75"),
// dates as "YYYY-MM-DD" and months as "YYYY-MM".
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONCodec is the Connect codec for the plain Go messages in this package.
// It registers under the name "json", so clients send application/json.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
