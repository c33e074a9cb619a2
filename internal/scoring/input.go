package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ScanInput is the normalized scan observation handed to the engine. Every
// field is optional; an absent field is its zero value and never an error.
type ScanInput struct {
	IP              string            `json:"ip,omitempty"`
	OpenPorts       []int             `json:"openPorts,omitempty"`
	TLS             *TLSInfo          `json:"tls,omitempty"`
	Vulnerabilities map[string]string `json:"vulnerabilities,omitempty"`
}

// TLSInfo describes the certificate presented by the target, as reported by
// the upstream scanner. Expiry is a date string, typically "2006-01-02".
type TLSInfo struct {
	Issuer string `json:"issuer,omitempty"`
	Expiry string `json:"expiry,omitempty"`
}

// HasPort reports whether port is in the open set.
func (in *ScanInput) HasPort(port int) bool {
	for _, p := range in.OpenPorts {
		if p == port {
			return true
		}
	}
	return false
}

func (in *ScanInput) hasAnyPort(ports ...int) bool {
	for _, p := range ports {
		if in.HasPort(p) {
			return true
		}
	}
	return false
}

// ValidationError reports a scan input whose shape does not match the
// expected structure. It is the only error kind the engine returns.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scan input: field %q: %s", e.Field, e.Reason)
}

// DecodeScanInput parses raw JSON into a ScanInput. Structural problems (a
// non-object payload, a field holding the wrong shape) are reported as a
// *ValidationError. Missing fields are not errors.
func DecodeScanInput(data []byte) (*ScanInput, error) {
	var in ScanInput
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "(root)"
			}
			return nil, &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return nil, &ValidationError{Field: "(root)", Reason: err.Error()}
	}
	return &in, nil
}
