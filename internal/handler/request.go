package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"

	"github.com/google/uuid"
	"github.com/sakif/pastebin/internal/apperror"
)

// payload is a decoded JSON body with field-presence information.
//
// Decoding into a raw-message map instead of a struct is what makes partial
// updates possible: a field that is absent from the body is not in the map
// at all, while a field explicitly set to null is present with the value
// "null". The two cases must behave differently — absent means "leave the
// stored value alone", null on a non-nullable field is a validation error.
//
// Every accessor records failures on the aggregator instead of returning an
// error, so one pass over the fields collects every problem in the body
// before the handler responds.
type payload struct {
	raw map[string]json.RawMessage
	agg *apperror.Aggregator
}

// decodePayload reads the request body. An empty body decodes as an empty
// payload; a body that is not a JSON object is a single validation error.
func decodePayload(r *http.Request) (*payload, error) {
	p := &payload{raw: map[string]json.RawMessage{}, agg: &apperror.Aggregator{}}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&p.raw); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, apperror.Validation(apperror.FieldError{
			Loc:  []string{"body"},
			Msg:  "value is not a valid dict",
			Type: "type_error.dict",
		})
	}

	return p, nil
}

// err returns the collected validation error, or nil if every accessed
// field was valid.
func (p *payload) err() error {
	return p.agg.Err()
}

// requiredString reads a mandatory string field. minLen > 0 additionally
// enforces a minimum length. Returns "" after recording an error.
func (p *payload) requiredString(name string, minLen int) string {
	raw, ok := p.raw[name]
	if !ok {
		p.agg.Add(apperror.MissingField(name))
		return ""
	}
	s, ok := p.parseString(name, raw)
	if !ok {
		return ""
	}
	return p.checkMinLen(name, s, minLen)
}

// optionalString reads a string field that may be absent. Absent fields
// return nil; present fields go through the same checks as requiredString.
func (p *payload) optionalString(name string, minLen int) *string {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	s, ok := p.parseString(name, raw)
	if !ok {
		return nil
	}
	s = p.checkMinLen(name, s, minLen)
	return &s
}

// requiredEmail reads a mandatory string field that must parse as an email
// address. An empty string is not an address.
func (p *payload) requiredEmail(name string) string {
	raw, ok := p.raw[name]
	if !ok {
		p.agg.Add(apperror.MissingField(name))
		return ""
	}
	s, ok := p.parseString(name, raw)
	if !ok {
		return ""
	}
	return p.checkEmail(name, s)
}

// optionalEmail reads an optional email field. Absent fields return nil;
// present fields, empty string included, must parse as an address.
func (p *payload) optionalEmail(name string) *string {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	s, ok := p.parseString(name, raw)
	if !ok {
		return nil
	}
	checked := p.checkEmail(name, s)
	return &checked
}

// optionalBool reads a bool field that may be absent. Only JSON true/false
// are accepted; numbers and strings are a type error.
func (p *payload) optionalBool(name string) *bool {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	if string(raw) == "null" {
		p.addNull(name)
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		p.agg.Add(apperror.FieldError{
			Loc:  []string{"body", name},
			Msg:  "value could not be parsed to a boolean",
			Type: "type_error.bool",
		})
		return nil
	}
	return &b
}

// boolOrDefault reads an optional bool field, returning def when absent.
func (p *payload) boolOrDefault(name string, def bool) bool {
	if b := p.optionalBool(name); b != nil {
		return *b
	}
	return def
}

func (p *payload) parseString(name string, raw json.RawMessage) (string, bool) {
	if string(raw) == "null" {
		p.addNull(name)
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.agg.Add(apperror.FieldError{
			Loc:  []string{"body", name},
			Msg:  "str type expected",
			Type: "type_error.str",
		})
		return "", false
	}
	return s, true
}

func (p *payload) checkMinLen(name, s string, minLen int) string {
	if minLen > 0 && len(s) < minLen {
		p.agg.Add(apperror.FieldError{
			Loc:  []string{"body", name},
			Msg:  fmt.Sprintf("ensure this value has at least %d characters", minLen),
			Type: "value_error.any_str.min_length",
		})
		return ""
	}
	return s
}

func (p *payload) checkEmail(name, s string) string {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		p.agg.Add(apperror.FieldError{
			Loc:  []string{"body", name},
			Msg:  "value is not a valid email address",
			Type: "value_error.email",
		})
		return ""
	}
	return s
}

func (p *payload) addNull(name string) {
	p.agg.Add(apperror.FieldError{
		Loc:  []string{"body", name},
		Msg:  "none is not an allowed value",
		Type: "type_error.none.not_allowed",
	})
}

// parsePathID validates the {id} path segment as a UUID. name is the
// parameter's place in the error location, e.g. "user_id" or "snippet_id".
// A malformed identifier is a 422 field error, not a 404: the route matched,
// the value didn't.
func parsePathID(value, name string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", apperror.Validation(apperror.FieldError{
			Loc:  []string{"path", name},
			Msg:  "value is not a valid uuid",
			Type: "type_error.uuid",
		})
	}
	return id.String(), nil
}
