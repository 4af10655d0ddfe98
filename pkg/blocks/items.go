package blocks

// ItemDef is one entry of the baked item registry.
type ItemDef struct {
	Name         string
	MaxStack     int32
	BlockName    string // "" if this item has no corresponding block
}

// items is indexed by ItemID directly: ItemID == index into this slice.
var items = []ItemDef{
	{Name: "minecraft:air", MaxStack: 64},
	{Name: "minecraft:stone", MaxStack: 64, BlockName: "minecraft:stone"},
	{Name: "minecraft:dirt", MaxStack: 64, BlockName: "minecraft:dirt"},
	{Name: "minecraft:grass_block", MaxStack: 64, BlockName: "minecraft:grass_block"},
	{Name: "minecraft:cobblestone", MaxStack: 64, BlockName: "minecraft:cobblestone"},
	{Name: "minecraft:oak_planks", MaxStack: 64, BlockName: "minecraft:oak_planks"},
	{Name: "minecraft:glass", MaxStack: 64, BlockName: "minecraft:glass"},
	{Name: "minecraft:oak_door", MaxStack: 64, BlockName: "minecraft:oak_door"},
	{Name: "minecraft:oak_trapdoor", MaxStack: 64, BlockName: "minecraft:oak_trapdoor"},
	{Name: "minecraft:oak_fence_gate", MaxStack: 64, BlockName: "minecraft:oak_fence_gate"},
	{Name: "minecraft:oak_button", MaxStack: 64, BlockName: "minecraft:oak_button"},
	{Name: "minecraft:stone_button", MaxStack: 64, BlockName: "minecraft:stone_button"},
	{Name: "minecraft:polished_blackstone_button", MaxStack: 64, BlockName: "minecraft:polished_blackstone_button"},
	{Name: "minecraft:lever", MaxStack: 64, BlockName: "minecraft:lever"},
	{Name: "minecraft:stick", MaxStack: 64},
	{Name: "minecraft:diamond_pickaxe", MaxStack: 1},
}

var itemByName = func() map[string]int32 {
	m := make(map[string]int32, len(items))
	for i, it := range items {
		m[it.Name] = int32(i)
	}
	return m
}()

// ItemName returns the registry name for an item id.
func ItemName(id int32) (string, bool) {
	if id < 0 || int(id) >= len(items) {
		return "", false
	}
	return items[id].Name, true
}

// ItemID returns the item id for a registry name.
func ItemID(name string) (int32, bool) {
	id, ok := itemByName[name]
	return id, ok
}

// ItemMaxStack returns the max stack size for an item id, or 0 if unknown.
func ItemMaxStack(id int32) int32 {
	if id < 0 || int(id) >= len(items) {
		return 0
	}
	return items[id].MaxStack
}

// ItemDefaultBlockState returns the default block state placed by a
// block item, or (0, false) if the item has no corresponding block.
func ItemDefaultBlockState(id int32) (StateID, bool) {
	if id < 0 || int(id) >= len(items) {
		return 0, false
	}
	if items[id].BlockName == "" {
		return 0, false
	}
	return DefaultState(items[id].BlockName)
}
