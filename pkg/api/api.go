// Package api holds the request and response messages of the MyCESE RPC
// services and the JSON codec they travel in.
package api

import "encoding/json"

// Codec is the Connect codec for the messages in this package. It is
// registered under the name "json" so it replaces Connect's protobuf-only
// JSON codec on both handlers and clients.
type Codec struct{}

// Name returns the codec name used in Content-Type negotiation.
func (Codec) Name() string { return "json" }

// Marshal encodes v as JSON.
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes JSON data into v.
func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// ErrorCodeHeader carries the stable failure code (for example
// ALREADY_SETTLED) of an error response.
const ErrorCodeHeader = "Mycese-Error-Code"
