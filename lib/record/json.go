// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSON objects carry a "kind" member alongside the variant's fields:
//
//	{"kind": "weapon", "unique_id": 17, "weapon_type": "...", ...}

type itemJSON struct {
	Kind string `json:"kind"`
	*Item
}

type weaponJSON struct {
	Kind string `json:"kind"`
	*Weapon
}

// MarshalJSON renders r as a JSON object with a "kind" member.
func MarshalJSON(r Record) ([]byte, error) {
	return Match(r,
		func(item *Item) ([]byte, error) {
			return json.Marshal(itemJSON{Kind: KindItem.String(), Item: item})
		},
		func(weapon *Weapon) ([]byte, error) {
			return json.Marshal(weaponJSON{Kind: KindWeapon.String(), Weapon: weapon})
		},
	)
}

// UnmarshalJSON parses the output of [MarshalJSON]. The "kind" member
// is required and unknown members are rejected, so a typo in a
// hand-written record fails loudly instead of leaving a part empty.
func UnmarshalJSON(data []byte) (Record, error) {
	var envelope struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	if envelope.Kind == "" {
		return nil, fmt.Errorf("parsing record: missing \"kind\" member")
	}
	kind, err := ParseKind(envelope.Kind)
	if err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}

	var target any
	var result Record
	switch kind {
	case KindItem:
		item := &Item{}
		target, result = &itemJSON{Item: item}, item
	case KindWeapon:
		weapon := &Weapon{}
		target, result = &weaponJSON{Weapon: weapon}, weapon
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return nil, fmt.Errorf("parsing %s record: %w", kind, err)
	}
	return result, nil
}
