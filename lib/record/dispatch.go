// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import "fmt"

// Classify returns the kind of r. A nil interface, a nil *Item or a nil
// *Weapon fails with ErrUnsupportedVariant.
func Classify(r Record) (Kind, error) {
	switch variant := r.(type) {
	case *Item:
		if variant != nil {
			return KindItem, nil
		}
	case *Weapon:
		if variant != nil {
			return KindWeapon, nil
		}
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedVariant, r)
}

// Match routes r to onItem or onWeapon and returns that function's
// result. Exactly one of the two is called for a valid record; neither
// is called when r fails [Classify].
//
//	name, err := record.Match(slot,
//	    func(item *record.Item) (string, error) { return item.ItemType, nil },
//	    func(weapon *record.Weapon) (string, error) { return weapon.WeaponType, nil },
//	)
func Match[T any](r Record, onItem func(*Item) (T, error), onWeapon func(*Weapon) (T, error)) (T, error) {
	kind, err := Classify(r)
	if err != nil {
		var zero T
		return zero, err
	}
	if kind == KindWeapon {
		return onWeapon(r.(*Weapon))
	}
	return onItem(r.(*Item))
}

// Visitor handles each record variant. Adding a variant to this package
// adds a method here.
type Visitor interface {
	VisitItem(item *Item) error
	VisitWeapon(weapon *Weapon) error
}

// Visit dispatches r to the matching Visitor method.
func Visit(r Record, visitor Visitor) error {
	_, err := Match(r,
		func(item *Item) (struct{}, error) { return struct{}{}, visitor.VisitItem(item) },
		func(weapon *Weapon) (struct{}, error) { return struct{}{}, visitor.VisitWeapon(weapon) },
	)
	return err
}
