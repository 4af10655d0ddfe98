package protocol

import (
	"bytes"

	"github.com/pickaxe/pickaxe-server/pkg/nbt"
)

// InitialRegistries returns the set of Configuration-state RegistryData
// packets a 767 client needs before Play can begin. Vanilla ships far
// larger registries; each one here carries the minimum entry set a
// vanilla client accepts without rejecting the connection (one overworld
// dimension type, one plains biome, and empty-but-present lists for the
// rest).
func InitialRegistries() []RegistryData {
	return []RegistryData{
		dimensionTypeRegistry(),
		biomeRegistry(),
		simpleRegistry("minecraft:chat_type"),
		simpleRegistry("minecraft:trim_pattern"),
		simpleRegistry("minecraft:trim_material"),
		simpleRegistry("minecraft:wolf_variant"),
		simpleRegistry("minecraft:painting_variant"),
		simpleRegistry("minecraft:damage_type"),
		simpleRegistry("minecraft:banner_pattern"),
		simpleRegistry("minecraft:enchantment"),
		simpleRegistry("minecraft:jukebox_song"),
	}
}

func encode(t nbt.Tag) []byte {
	var buf bytes.Buffer
	if err := nbt.WriteNetworkRoot(&buf, t); err != nil {
		panic("protocol: encode static registry entry: " + err.Error())
	}
	return buf.Bytes()
}

func dimensionTypeRegistry() RegistryData {
	overworld := nbt.Compound(
		nbt.F("fixed_time", nbt.Long(6000)),
		nbt.F("has_skylight", nbt.Byte(1)),
		nbt.F("has_ceiling", nbt.Byte(0)),
		nbt.F("ultrawarm", nbt.Byte(0)),
		nbt.F("natural", nbt.Byte(1)),
		nbt.F("coordinate_scale", nbt.Double(1.0)),
		nbt.F("bed_works", nbt.Byte(1)),
		nbt.F("respawn_anchor_works", nbt.Byte(0)),
		nbt.F("min_y", nbt.Int(-64)),
		nbt.F("height", nbt.Int(384)),
		nbt.F("logical_height", nbt.Int(384)),
		nbt.F("infiniburn", nbt.String("#minecraft:infiniburn_overworld")),
		nbt.F("effects", nbt.String("minecraft:overworld")),
		nbt.F("ambient_light", nbt.Float(0.0)),
		nbt.F("piglin_safe", nbt.Byte(0)),
		nbt.F("has_raids", nbt.Byte(1)),
		nbt.F("monster_spawn_light_level", nbt.Int(0)),
		nbt.F("monster_spawn_block_light_limit", nbt.Int(0)),
	)
	return RegistryData{
		RegistryID: "minecraft:dimension_type",
		Entries: []RegistryEntry{
			{ID: "minecraft:overworld", Data: encode(overworld)},
		},
	}
}

func biomeRegistry() RegistryData {
	plains := nbt.Compound(
		nbt.F("has_precipitation", nbt.Byte(1)),
		nbt.F("temperature", nbt.Float(0.8)),
		nbt.F("downfall", nbt.Float(0.4)),
		nbt.F("effects", nbt.Compound(
			nbt.F("fog_color", nbt.Int(12638463)),
			nbt.F("water_color", nbt.Int(4159204)),
			nbt.F("water_fog_color", nbt.Int(329011)),
			nbt.F("sky_color", nbt.Int(7907327)),
		)),
	)
	return RegistryData{
		RegistryID: "minecraft:worldgen/biome",
		Entries: []RegistryEntry{
			{ID: "minecraft:plains", Data: encode(plains)},
		},
	}
}

// simpleRegistry returns an empty-entry registry: present (so the client
// does not block waiting for it) but carrying no concrete rows.
func simpleRegistry(id string) RegistryData {
	return RegistryData{RegistryID: id}
}
