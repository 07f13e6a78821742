// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode accepts any well-formed CBOR. Trailing bytes after the
// first data item are an error (Unmarshal is strict about extraneous
// data), but non-canonical heads are not.
var decMode cbor.DecMode

// inspectMode decodes into generic values for canonical checks and
// diagnostics. It keeps the default map[any]any type so integer map
// keys (keyasint payloads) survive.
var inspectMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Timestamps in container payloads are written as RFC 3339 text
	// with sub-second precision so they read naturally in diag output.
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// A serial body is a handful of small integers and short
		// strings, and a container holds at most a few thousand
		// slots. Anything larger is a corrupt length header.
		MaxArrayElements: 65536,
		MaxMapPairs:      1024,
		MaxNestedLevels:  16,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	inspectMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR inspection decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. The data must contain exactly
// one data item.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value. Type alias so consumers
// import only lib/codec, not fxamacker/cbor directly.
type RawMessage = cbor.RawMessage

// IsCanonical reports whether data is byte-identical to the
// deterministic encoding of the value it decodes to. Returns an error
// only when data is not a single well-formed CBOR item.
func IsCanonical(data []byte) (bool, error) {
	var value any
	if err := inspectMode.Unmarshal(data, &value); err != nil {
		return false, fmt.Errorf("decoding for canonical check: %w", err)
	}
	encoded, err := encMode.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("re-encoding for canonical check: %w", err)
	}
	return bytes.Equal(encoded, data), nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
