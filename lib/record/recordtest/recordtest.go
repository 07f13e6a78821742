// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recordtest provides populated record fixtures for tests.
package recordtest

import "github.com/bureau-foundation/bl2bank/lib/record"

// Item returns a fully populated shield with the given UniqueID.
func Item(uniqueID int32) *record.Item {
	return &record.Item{
		ID:                     uniqueID,
		AssetLibrarySet:        0,
		ItemType:               "GD_Shields.A_Item.Item_Shield",
		Balance:                "GD_Itempools.BalanceDefs.ItemGrades.Shields.ItemGrade_Gear_Shield_Nova_Singularity",
		Manufacturer:           "GD_Manufacturers.Manufacturers.Pangolin",
		ManufacturerGradeIndex: 50,
		GameStage:              50,
		AlphaPart:              "GD_Shields.Body.Body3_Pangolin",
		BetaPart:               "GD_Shields.Battery.Battery5_Pangolin",
		GammaPart:              "GD_Shields.Capacitor.Capacitor1_Tediore",
		DeltaPart:              "GD_Shields.Accessory.Accessory4_Singularity",
		EpsilonPart:            "GD_Shields.Material.Material_Nova_Singularity",
		MaterialPart:           "GD_Shields.Material.Material_Nova_Singularity",
		PrefixPart:             "GD_Shields.Prefix.Prefix_Nova_Singularity",
		TitlePart:              "GD_Shields.Title.Title_Nova_Singularity",
	}
}

// Weapon returns a fully populated pistol with the given UniqueID.
func Weapon(uniqueID int32) *record.Weapon {
	return &record.Weapon{
		ID:                     uniqueID,
		AssetLibrarySet:        0,
		WeaponType:             "GD_Weap_Pistol.A_Weapons.WT_Jakobs_Pistol",
		Balance:                "GD_Weap_Pistol.A_Weapons_Legendary.Pistol_Jakobs_5_Maggie",
		Manufacturer:           "GD_Manufacturers.Manufacturers.Jakobs",
		ManufacturerGradeIndex: 72,
		GameStage:              72,
		BodyPart:               "GD_Weap_Pistol.Body.Pistol_Body_Jakobs",
		GripPart:               "GD_Weap_Pistol.Grip.Pistol_Grip_Jakobs",
		BarrelPart:             "GD_Weap_Pistol.Barrel.Pistol_Barrel_Jakobs_Maggie",
		SightPart:              "GD_Weap_Pistol.Sight.Pistol_Sight_Jakobs",
		StockPart:              "",
		ElementalPart:          "",
		Accessory1Part:         "GD_Weap_Pistol.Accessory.Pistol_Accessory_Body3_Damage",
		Accessory2Part:         "",
		MaterialPart:           "GD_Weap_Pistol.ManufacturerMaterials.Material_Jakobs_5_Maggie",
		PrefixPart:             "GD_Weap_Pistol.Prefix.Prefix_Maggie",
		TitlePart:              "GD_Weap_Pistol.Title.Title_Maggie",
	}
}

// Mixed returns alternating items and weapons with UniqueIDs starting
// at firstID.
func Mixed(count int, firstID int32) []record.Record {
	records := make([]record.Record, 0, count)
	for index := range count {
		id := firstID + int32(index)
		if index%2 == 0 {
			records = append(records, Item(id))
		} else {
			records = append(records, Weapon(id))
		}
	}
	return records
}
