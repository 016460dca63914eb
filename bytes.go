package transformer

import (
	"github.com/KrtNinja/kr-transformer/codec"
)

// FromBytes unmarshals data with c and decodes the result into T.
func FromBytes[T any](c codec.Codec, data []byte, opts ...DecodeOpt) (T, error) {
	var raw any
	if err := c.Unmarshal(data, &raw); err != nil {
		var zero T
		return zero, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Cause: ErrInvalidSource})
	}
	return FromJSON[T](raw, opts...)
}

// FromJSONBytes decodes a JSON document into T.
func FromJSONBytes[T any](data []byte, opts ...DecodeOpt) (T, error) {
	return FromBytes[T](codec.JSON{}, data, opts...)
}

// FromYAMLBytes decodes a YAML document into T.
func FromYAMLBytes[T any](data []byte, opts ...DecodeOpt) (T, error) {
	return FromBytes[T](codec.YAML{}, data, opts...)
}

// FromMsgpackBytes decodes a MessagePack payload into T.
func FromMsgpackBytes[T any](data []byte, opts ...DecodeOpt) (T, error) {
	return FromBytes[T](codec.Msgpack{}, data, opts...)
}

// MarshalWith flattens v via ToJSON and marshals the plain value with c.
func MarshalWith(c codec.Codec, v any) ([]byte, error) {
	plain, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return c.Marshal(plain)
}

// ToJSONBytes renders v as a JSON document.
func ToJSONBytes(v any) ([]byte, error) { return MarshalWith(codec.JSON{}, v) }

// ToYAMLBytes renders v as a YAML document.
func ToYAMLBytes(v any) ([]byte, error) { return MarshalWith(codec.YAML{}, v) }

// ToMsgpackBytes renders v as a MessagePack payload.
func ToMsgpackBytes(v any) ([]byte, error) { return MarshalWith(codec.Msgpack{}, v) }

// Normalize round-trips v through the default codec, guaranteeing the result
// holds only plain maps, sequences and primitives with no trace of the
// original constructors.
func Normalize(v any) (any, error) {
	b, err := MarshalWith(codec.Default(), v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := codec.Default().Unmarshal(b, &out); err != nil {
		return nil, AppendIssues(nil, Issue{Code: CodeParseError, Path: "/", Message: err.Error(), Cause: ErrInvalidSource})
	}
	return out, nil
}
