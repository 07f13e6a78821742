// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVariant is returned when a value claiming to be a
// Record is neither an *Item nor a *Weapon. Within this module the only
// way to produce one is a nil interface or a nil pointer.
var ErrUnsupportedVariant = errors.New("unsupported record variant")

// Kind identifies a record variant.
type Kind uint8

const (
	// KindItem is a non-weapon item: shields, grenade mods, class mods,
	// relics and the like.
	KindItem Kind = iota + 1

	// KindWeapon is a weapon.
	KindWeapon
)

// String returns "item" or "weapon".
func (kind Kind) String() string {
	switch kind {
	case KindItem:
		return "item"
	case KindWeapon:
		return "weapon"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(kind))
	}
}

// ParseKind parses the output of [Kind.String].
func ParseKind(name string) (Kind, error) {
	switch name {
	case "item":
		return KindItem, nil
	case "weapon":
		return KindWeapon, nil
	default:
		return 0, fmt.Errorf("unknown record kind %q (want item or weapon)", name)
	}
}

// Record is a decoded bank slot. The only implementations are *Item and
// *Weapon.
type Record interface {
	// Kind returns the variant tag.
	Kind() Kind

	// UniqueID returns the slot identifier.
	UniqueID() int32

	// SetUniqueID replaces the slot identifier.
	SetUniqueID(id int32)

	// AssetLibrarySetID returns the asset library set the part names
	// resolve against.
	AssetLibrarySetID() int

	// Clone returns a deep copy.
	Clone() Record

	isRecord()
}

// Item is a non-weapon record. Field order matches the serial body.
type Item struct {
	ID                     int32  `json:"unique_id"`
	AssetLibrarySet        int    `json:"asset_library_set_id"`
	ItemType               string `json:"item_type"`
	Balance                string `json:"balance"`
	Manufacturer           string `json:"manufacturer"`
	ManufacturerGradeIndex int    `json:"manufacturer_grade_index"`
	GameStage              int    `json:"game_stage"`
	AlphaPart              string `json:"alpha_part"`
	BetaPart               string `json:"beta_part"`
	GammaPart              string `json:"gamma_part"`
	DeltaPart              string `json:"delta_part"`
	EpsilonPart            string `json:"epsilon_part"`
	ZetaPart               string `json:"zeta_part"`
	EtaPart                string `json:"eta_part"`
	ThetaPart              string `json:"theta_part"`
	MaterialPart           string `json:"material_part"`
	PrefixPart             string `json:"prefix_part"`
	TitlePart              string `json:"title_part"`
}

// Weapon is a weapon record. Field order matches the serial body.
type Weapon struct {
	ID                     int32  `json:"unique_id"`
	AssetLibrarySet        int    `json:"asset_library_set_id"`
	WeaponType             string `json:"weapon_type"`
	Balance                string `json:"balance"`
	Manufacturer           string `json:"manufacturer"`
	ManufacturerGradeIndex int    `json:"manufacturer_grade_index"`
	GameStage              int    `json:"game_stage"`
	BodyPart               string `json:"body_part"`
	GripPart               string `json:"grip_part"`
	BarrelPart             string `json:"barrel_part"`
	SightPart              string `json:"sight_part"`
	StockPart              string `json:"stock_part"`
	ElementalPart          string `json:"elemental_part"`
	Accessory1Part         string `json:"accessory1_part"`
	Accessory2Part         string `json:"accessory2_part"`
	MaterialPart           string `json:"material_part"`
	PrefixPart             string `json:"prefix_part"`
	TitlePart              string `json:"title_part"`
}

// Kind returns KindItem.
func (*Item) Kind() Kind { return KindItem }

// UniqueID returns the slot identifier.
func (item *Item) UniqueID() int32 { return item.ID }

// SetUniqueID replaces the slot identifier.
func (item *Item) SetUniqueID(id int32) { item.ID = id }

// AssetLibrarySetID returns the asset library set.
func (item *Item) AssetLibrarySetID() int { return item.AssetLibrarySet }

func (*Item) isRecord() {}

// Kind returns KindWeapon.
func (*Weapon) Kind() Kind { return KindWeapon }

// UniqueID returns the slot identifier.
func (weapon *Weapon) UniqueID() int32 { return weapon.ID }

// SetUniqueID replaces the slot identifier.
func (weapon *Weapon) SetUniqueID(id int32) { weapon.ID = id }

// AssetLibrarySetID returns the asset library set.
func (weapon *Weapon) AssetLibrarySetID() int { return weapon.AssetLibrarySet }

func (*Weapon) isRecord() {}

// Clone returns a copy of the item. Item holds only value fields, so a
// struct copy is a deep copy.
func (item *Item) Clone() Record {
	clone := *item
	return &clone
}

// Clone returns a copy of the weapon.
func (weapon *Weapon) Clone() Record {
	clone := *weapon
	return &clone
}

// New returns a fresh record of the given kind with the given UniqueID
// and every other field zero, including AssetLibrarySetID.
func New(kind Kind, uniqueID int32) (Record, error) {
	switch kind {
	case KindItem:
		return &Item{ID: uniqueID}, nil
	case KindWeapon:
		return &Weapon{ID: uniqueID}, nil
	default:
		return nil, fmt.Errorf("new record: %w: kind %s", ErrUnsupportedVariant, kind)
	}
}

// Equal reports whether a and b are the same variant with identical
// fields. Two invalid records are never equal.
func Equal(a, b Record) bool {
	switch left := a.(type) {
	case *Item:
		right, ok := b.(*Item)
		return ok && left != nil && right != nil && *left == *right
	case *Weapon:
		right, ok := b.(*Weapon)
		return ok && left != nil && right != nil && *left == *right
	default:
		return false
	}
}

// EqualIgnoringID reports whether a and b are equal apart from their
// UniqueIDs.
func EqualIgnoringID(a, b Record) bool {
	if _, err := Classify(a); err != nil {
		return false
	}
	if _, err := Classify(b); err != nil {
		return false
	}
	left, right := a.Clone(), b.Clone()
	left.SetUniqueID(0)
	right.SetUniqueID(0)
	return Equal(left, right)
}
