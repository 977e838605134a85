package resource

import (
	json "github.com/goccy/go-json"
)

// Codec turns records into request bodies and response bodies into records.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSONCodec is the default codec for the configuration service.
type JSONCodec struct{}

// Marshal implements Codec
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType implements Codec
func (JSONCodec) ContentType() string {
	return "application/json"
}
