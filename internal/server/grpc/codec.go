package grpc

import (
	"encoding/json"
)

// CodecName is the content subtype clients send ("application/grpc+json").
const CodecName = "json"

// Codec marshals StockKeeper messages as JSON. The server forces it for
// every call, so clients must use it as well (grpc.ForceCodec).
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string { return CodecName }
