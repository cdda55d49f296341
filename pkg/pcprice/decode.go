package pcprice

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// requireFields checks that data is a JSON object carrying every field in
// required with a non-null value. encoding/json has no notion of required
// fields, so each model runs this before the regular decode.
func requireFields(data []byte, object string, required ...string) error {
	d := jx.DecodeBytes(data)
	if typ := d.Next(); typ != jx.Object {
		return errors.Errorf("%s: expected object, got %s", object, typ)
	}

	present := make(map[string]struct{}, len(required))
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() != jx.Null {
			present[string(key)] = struct{}{}
		}
		return d.Skip()
	}); err != nil {
		return errors.Wrap(err, object)
	}

	for _, field := range required {
		if _, ok := present[field]; !ok {
			return &MissingFieldError{Object: object, Field: field}
		}
	}
	return nil
}

// decodeStrict decodes body into a fresh T. On failure the zero T is
// discarded; callers never see a partially populated value.
func decodeStrict[T any](body []byte) (*T, error) {
	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeLoose decodes a free-form object. Empty bodies, null and non-object
// values yield an empty map.
func decodeLoose(body []byte) (map[string]any, error) {
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return map[string]any{}, nil
	}
	return obj, nil
}
