package util

import "github.com/vmihailenco/msgpack"

// EncodeBody marshals obj with msgpack. Used by btree to serialize a
// node's variable-width payload (keys/values/children) into the tail
// of a page, after the page's small fixed-layout header.
func EncodeBody(obj any) ([]byte, error) {
	data, err := msgpack.Marshal(obj)
	if err != nil {
		return nil, NewIOError("marshal node payload", err)
	}
	return data, nil
}

// DecodeBody unmarshals a msgpack payload previously produced by
// EncodeBody into T.
func DecodeBody[T any](data []byte) (T, error) {
	var res T
	if err := msgpack.Unmarshal(data, &res); err != nil {
		return res, NewIOError("unmarshal node payload", err)
	}
	return res, nil
}
