// Package transformer provides:
//
//   - Type-directed decoding of JSON-shaped data into Go structs (FromJSON/Decode)
//   - The symmetric flattening of typed instances back to plain data (ToJSON)
//   - A stable error model via Issues (JSON Pointer, code, message)
//   - Optional per-type Schema declarations (element types, interface targets,
//     per-field strictness)
//   - Codec-backed entry points for JSON, YAML and MessagePack documents
//
// Design policy:
//
//   - Keep only public APIs in the root package; the plan compiler and the
//     decode/encode engines live under internal/.
//   - Codecs live under codec/ and message dictionaries under i18n/.
//   - Black-box tests against public APIs.
//
// Typical usage:
//
//	u, err := transformer.FromJSON[User](raw)
//	u, err := transformer.FromJSONBytes[User](data)
//	u, err := transformer.FromJSON[User](raw, transformer.DecodeOpt{Lenient: true})
//
//	plain, err := transformer.ToJSON(u)
//	data, err := transformer.ToJSONBytes(u)
package transformer
