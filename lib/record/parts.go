// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package record

// Part is one named asset attribute of a record.
type Part struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parts returns the asset attributes of r in serial order: the type
// definition, balance and manufacturer, followed by the variant's part
// slots. Empty values are included so the result has a fixed length
// per kind. Returns nil for an invalid record.
func Parts(r Record) []Part {
	parts, _ := Match(r,
		func(item *Item) ([]Part, error) {
			return []Part{
				{"item_type", item.ItemType},
				{"balance", item.Balance},
				{"manufacturer", item.Manufacturer},
				{"alpha", item.AlphaPart},
				{"beta", item.BetaPart},
				{"gamma", item.GammaPart},
				{"delta", item.DeltaPart},
				{"epsilon", item.EpsilonPart},
				{"zeta", item.ZetaPart},
				{"eta", item.EtaPart},
				{"theta", item.ThetaPart},
				{"material", item.MaterialPart},
				{"prefix", item.PrefixPart},
				{"title", item.TitlePart},
			}, nil
		},
		func(weapon *Weapon) ([]Part, error) {
			return []Part{
				{"weapon_type", weapon.WeaponType},
				{"balance", weapon.Balance},
				{"manufacturer", weapon.Manufacturer},
				{"body", weapon.BodyPart},
				{"grip", weapon.GripPart},
				{"barrel", weapon.BarrelPart},
				{"sight", weapon.SightPart},
				{"stock", weapon.StockPart},
				{"elemental", weapon.ElementalPart},
				{"accessory1", weapon.Accessory1Part},
				{"accessory2", weapon.Accessory2Part},
				{"material", weapon.MaterialPart},
				{"prefix", weapon.PrefixPart},
				{"title", weapon.TitlePart},
			}, nil
		},
	)
	return parts
}

// Stats holds the two numeric attributes shared by both variants.
type Stats struct {
	ManufacturerGradeIndex int
	GameStage              int
}

// StatsOf returns the grade and game stage of r.
func StatsOf(r Record) (Stats, error) {
	return Match(r,
		func(item *Item) (Stats, error) {
			return Stats{item.ManufacturerGradeIndex, item.GameStage}, nil
		},
		func(weapon *Weapon) (Stats, error) {
			return Stats{weapon.ManufacturerGradeIndex, weapon.GameStage}, nil
		},
	)
}

// Balance returns the balance definition of r, the attribute that
// names what the record is. Empty for an invalid record.
func Balance(r Record) string {
	balance, _ := Match(r,
		func(item *Item) (string, error) { return item.Balance, nil },
		func(weapon *Weapon) (string, error) { return weapon.Balance, nil },
	)
	return balance
}
