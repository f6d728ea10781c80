package libcommon

import (
	"encoding/json"
	"strings"
)

// Envelope is the {code, message, data} wrapper around every response.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// decodedEnvelope keeps the raw members so a missing or non-numeric code can
// be told apart from a literal 0.
type decodedEnvelope struct {
	fields map[string]json.RawMessage
}

// decodeEnvelope parses body as JSON. Malformed input returns the decoder's
// error untouched. Valid JSON that is not an object decodes to an envelope
// without members, which reads as a failure.
func decodeEnvelope(body []byte) (decodedEnvelope, error) {
	var fields map[string]json.RawMessage
	if err := jsonCodec.Unmarshal(body, &fields); err != nil {
		if !jsonCodec.Valid(body) {
			return decodedEnvelope{}, err
		}
		fields = nil
	}
	return decodedEnvelope{fields: fields}, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// ok reports whether code is present and exactly the number 0.
func (e decodedEnvelope) ok() bool {
	raw, found := e.fields["code"]
	if !found || isNull(raw) {
		return false
	}
	var code float64
	if err := jsonCodec.Unmarshal(raw, &code); err != nil {
		return false
	}
	return code == 0
}

func (e decodedEnvelope) code() int {
	var code int
	if raw, found := e.fields["code"]; found && !isNull(raw) {
		_ = jsonCodec.Unmarshal(raw, &code)
	}
	return code
}

func (e decodedEnvelope) messageOr(fallback string) string {
	raw, found := e.fields["message"]
	if !found || isNull(raw) {
		return fallback
	}
	var msg string
	if err := jsonCodec.Unmarshal(raw, &msg); err != nil || msg == "" {
		return fallback
	}
	return msg
}

func (e decodedEnvelope) hasData() bool {
	return !isNull(e.fields["data"])
}
