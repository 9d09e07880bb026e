package learning

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidRelationRef = errors.New("invalid relation reference")

// RelationRef is a foreign key as clients send it. Accepted shapes:
//
//	"<uuid>"
//	{"id": "<uuid>"}
//	{"connect": "<uuid>"} | {"connect": ["<uuid>"]} | {"connect": [{"id": "<uuid>"}]}
//	null
type RelationRef struct {
	ID    uuid.UUID
	Set   bool
	Clear bool
}

func (r *RelationRef) UnmarshalJSON(data []byte) error {
	*r = RelationRef{Set: true}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		r.Clear = true
		return nil
	}
	id, err := parseRelationValue(trimmed)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func parseRelationValue(raw json.RawMessage) (uuid.UUID, error) {
	if len(raw) == 0 {
		return uuid.Nil, ErrInvalidRelationRef
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidRelationRef, err)
		}
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil || id == uuid.Nil {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidRelationRef, s)
		}
		return id, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return uuid.Nil, ErrInvalidRelationRef
		}
		return parseRelationValue(bytes.TrimSpace(items[0]))
	case '{':
		var obj struct {
			ID      json.RawMessage `json:"id"`
			Connect json.RawMessage `json:"connect"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidRelationRef, err)
		}
		if len(obj.ID) > 0 {
			return parseRelationValue(bytes.TrimSpace(obj.ID))
		}
		if len(obj.Connect) > 0 {
			return parseRelationValue(bytes.TrimSpace(obj.Connect))
		}
	}
	return uuid.Nil, ErrInvalidRelationRef
}
