package csfle

import (
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/inkleaf/internal/crypto/domain"
)

// encryptFilter rewrites filter so that conditions on deterministic fields
// compare ciphertexts. Conditions on random fields are rejected.
func (c *collection) encryptFilter(filter bson.D) (bson.D, error) {
	if len(c.schema.Fields) == 0 || len(filter) == 0 {
		return filter, nil
	}

	out := make(bson.D, 0, len(filter))
	for _, e := range filter {
		switch e.Key {
		case "$and", "$or", "$nor":
			clauses, err := c.encryptClauses(e.Key, e.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: e.Key, Value: clauses})
			continue
		}

		name, _, dotted := strings.Cut(e.Key, ".")
		spec, ok := c.schema.Field(name)
		if !ok {
			out = append(out, e)
			continue
		}
		if dotted || spec.Algorithm != cryptoDomain.Deterministic {
			return nil, fmt.Errorf("%w: %s", cryptoDomain.ErrFieldNotQueryable, e.Key)
		}

		value, err := c.encryptCondition(e.Key, e.Value, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, bson.E{Key: e.Key, Value: value})
	}
	return out, nil
}

func (c *collection) encryptClauses(op string, v any) (bson.A, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s requires an array", cryptoDomain.ErrFieldNotQueryable, op)
	}

	out := make(bson.A, 0, len(items))
	for _, item := range items {
		clause, ok := item.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%w: %s clause must be a document", cryptoDomain.ErrFieldNotQueryable, op)
		}
		encrypted, err := c.encryptFilter(clause)
		if err != nil {
			return nil, err
		}
		out = append(out, encrypted)
	}
	return out, nil
}

// encryptCondition handles a literal value or an operator document on a
// deterministic field. Only $eq, $ne, $in, $nin and $exists are meaningful on
// ciphertext.
func (c *collection) encryptCondition(field string, v any, spec cryptoDomain.FieldSpec) (any, error) {
	ops, isOperator := v.(bson.D)
	if !isOperator || len(ops) == 0 || !strings.HasPrefix(ops[0].Key, "$") {
		return c.encrypter.EncryptValue(v, spec)
	}

	out := make(bson.D, 0, len(ops))
	for _, op := range ops {
		switch op.Key {
		case "$eq", "$ne":
			bin, err := c.encrypter.EncryptValue(op.Value, spec)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.E{Key: op.Key, Value: bin})
		case "$in", "$nin":
			items, ok := toSlice(op.Value)
			if !ok {
				return nil, fmt.Errorf("%w: %s on %s requires an array", cryptoDomain.ErrFieldNotQueryable, op.Key, field)
			}
			encrypted := make(bson.A, 0, len(items))
			for _, item := range items {
				bin, err := c.encrypter.EncryptValue(item, spec)
				if err != nil {
					return nil, err
				}
				encrypted = append(encrypted, bin)
			}
			out = append(out, bson.E{Key: op.Key, Value: encrypted})
		case "$exists":
			out = append(out, op)
		default:
			return nil, fmt.Errorf("%w: %s on %s", cryptoDomain.ErrFieldNotQueryable, op.Key, field)
		}
	}
	return out, nil
}

func toSlice(v any) ([]any, bool) {
	switch items := v.(type) {
	case bson.A:
		return items, true
	case []any:
		return items, true
	case []bson.D:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
