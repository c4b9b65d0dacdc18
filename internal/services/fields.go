package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/localnerve/usersdb/internal/validation"
)

// Fields is a decoded JSON object body keyed by property name. Only the keys
// present in the request are applied to an entity.
type Fields map[string]json.RawMessage

// ParseFields decodes body as a JSON object.
func ParseFields(body []byte) (Fields, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, types.BadRequest("Request body is empty", "request.body")
	}

	var fields Fields
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, types.BadRequest("Invalid JSON body", "request.body")
	}
	return fields, nil
}

// patch applies present fields onto an entity and collects type violations.
type patch struct {
	fields     Fields
	violations validation.Violations
}

func newPatch(fields Fields) *patch {
	if fields == nil {
		fields = Fields{}
	}
	return &patch{fields: fields}
}

func (p *patch) typeMismatch(key, typeName string) {
	p.violations.Add(key, fmt.Sprintf(validation.MessageType, typeName))
}

// String sets dst when key is present. A null clears it to "". It reports
// whether dst was written.
func (p *patch) String(key string, dst *string) bool {
	raw, ok := p.fields[key]
	if !ok {
		return false
	}
	if isNull(raw) {
		*dst = ""
		return true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.typeMismatch(key, "string")
		return false
	}
	*dst = s
	return true
}

// NullableString sets dst when key is present. A null sets it to nil.
func (p *patch) NullableString(key string, dst **string) {
	raw, ok := p.fields[key]
	if !ok {
		return
	}
	if isNull(raw) {
		*dst = nil
		return
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.typeMismatch(key, "string")
		return
	}
	*dst = &s
}

// Secret is String for write-only values kept behind a pointer. A string or
// null yields a non-nil pointer so the value gets validated; a mismatched type
// leaves dst untouched.
func (p *patch) Secret(key string, dst **string) {
	var s string
	if p.String(key, &s) {
		*dst = &s
	}
}

// Bool sets dst when key is present. Null is rejected.
func (p *patch) Bool(key string, dst *bool) {
	raw, ok := p.fields[key]
	if !ok {
		return
	}
	if isNull(raw) {
		p.violations.Add(key, validation.MessageNotNull)
		return
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		p.typeMismatch(key, "bool")
		return
	}
	*dst = b
}

// StringSet accepts a single string or a list of strings. Null empties the set.
func (p *patch) StringSet(key string, dst *models.StringSet) {
	raw, ok := p.fields[key]
	if !ok {
		return
	}
	var list types.FlexList[string]
	if err := json.Unmarshal(raw, &list); err != nil {
		p.typeMismatch(key, "array")
		return
	}
	*dst = models.NewStringSet(list.Slice()...)
}

// IDs accepts a single id or a list of ids, as numbers or numeric strings.
// The second result reports whether key was present and well formed.
func (p *patch) IDs(key string) ([]uint64, bool) {
	raw, ok := p.fields[key]
	if !ok {
		return nil, false
	}
	var list types.FlexList[types.FlexUint64]
	if err := json.Unmarshal(raw, &list); err != nil {
		p.typeMismatch(key, "array")
		return nil, false
	}
	ids := make([]uint64, 0, len(list))
	for _, id := range list {
		ids = append(ids, id.Uint64())
	}
	return ids, true
}

// ID reads a single id. Null reads as 0.
func (p *patch) ID(key string) (uint64, bool) {
	raw, ok := p.fields[key]
	if !ok {
		return 0, false
	}
	if isNull(raw) {
		return 0, true
	}
	var id types.FlexUint64
	if err := json.Unmarshal(raw, &id); err != nil {
		p.typeMismatch(key, "integer")
		return 0, false
	}
	return id.Uint64(), true
}

// report returns the decode violations followed by the schema violations on
// paths that decoded cleanly, so a wrongly typed value is reported once.
func (p *patch) report(schema validation.Violations) validation.Violations {
	failed := make(map[string]struct{}, len(p.violations))
	for _, v := range p.violations {
		failed[v.Path] = struct{}{}
	}

	violations := append(validation.Violations{}, p.violations...)
	var decoded validation.Violations
	for _, v := range schema {
		if _, ok := failed[v.Path]; !ok {
			decoded = append(decoded, v)
		}
	}
	violations.Merge(decoded)
	return violations
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
