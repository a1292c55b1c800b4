// Package json is the JSON codec used across campusgpt. It encodes with
// bytedance/sonic on amd64 and arm64 and with encoding/json elsewhere; both
// follow encoding/json semantics.
package json

import (
	stdjson "encoding/json"
	"io"
	"runtime"

	"github.com/bytedance/sonic"
)

// Decoder reads successive JSON values from a stream.
type Decoder interface {
	Decode(v any) error
}

// sonic 仅支持 amd64 与 arm64
var fast = runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64"

func Marshal(v any) ([]byte, error) {
	if fast {
		return sonic.ConfigStd.Marshal(v)
	}
	return stdjson.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	if fast {
		return sonic.ConfigStd.Unmarshal(data, v)
	}
	return stdjson.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) Decoder {
	if fast {
		return sonic.ConfigStd.NewDecoder(r)
	}
	return stdjson.NewDecoder(r)
}
