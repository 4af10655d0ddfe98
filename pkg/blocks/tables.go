// Package blocks provides constant-time lookups over a baked block-state
// and item registry.
//
// The full vanilla registry is normally produced by a build step that
// ingests Mojang's block/item JSON manifests; that manifest is not
// available in this environment, so the tables below are hand-authored
// to cover the block and item families this server actually drives: the
// superflat layer stack, and the toggle/door/button families used by
// interactive block behavior. Name and item lookups are map lookups or
// direct slice indexes; resolving a state id to its block scans the
// registry's contiguous state ranges linearly (see blockForState), so
// that lookup is not constant-time. Every lookup returns the documented
// sentinel for any ID outside the table — see DESIGN.md for the scope
// note.
package blocks

// StateID identifies one concrete block state (a block name plus a
// specific assignment of its properties).
type StateID int32

// PropertyDef names one block-state property and its ordered value set.
// Ordering matters: stride computation walks properties in the order
// they are declared here.
type PropertyDef struct {
	Name   string
	Values []string
}

// BlockDef is one block's entry in the registry.
type BlockDef struct {
	Name         string
	Base         StateID // first state id belonging to this block
	Properties   []PropertyDef
	DefaultValue []string // default value per property, same order as Properties
	Hardness     float64
	Diggable     bool
	Resistance   float64
	Drops        []string
	HarvestTools []string
}

// stateCount returns the number of distinct states this block has.
func (b BlockDef) stateCount() int {
	n := 1
	for _, p := range b.Properties {
		n *= len(p.Values)
	}
	return n
}

// stride returns, for property index i, the product of the value counts
// of every property declared after i. Used by ToggleInteractive to flip
// a single property while holding the others fixed.
func (b BlockDef) stride(i int) int {
	n := 1
	for j := i + 1; j < len(b.Properties); j++ {
		n *= len(b.Properties[j].Values)
	}
	return n
}

// valueIndex returns the index of value within property i's value list,
// or -1 if absent.
func (b BlockDef) valueIndex(i int, value string) int {
	for idx, v := range b.Properties[i].Values {
		if v == value {
			return idx
		}
	}
	return -1
}

// propertyIndex returns the declaration index of a named property, or -1.
func (b BlockDef) propertyIndex(name string) int {
	for i, p := range b.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// offsetOf decodes a state id (relative to Base) into per-property value
// indices.
func (b BlockDef) offsetOf(state StateID) []int {
	rem := int(state - b.Base)
	idx := make([]int, len(b.Properties))
	for i := range b.Properties {
		s := b.stride(i)
		idx[i] = rem / s
		rem %= s
	}
	return idx
}

// composeState recombines per-property value indices into a state id.
func (b BlockDef) composeState(idx []int) StateID {
	total := 0
	for i, v := range idx {
		total += v * b.stride(i)
	}
	return b.Base + StateID(total)
}

// defaultOffset returns the state id offset of the block's default state.
func (b BlockDef) defaultOffset() int {
	total := 0
	for i := range b.Properties {
		v := 0
		if i < len(b.DefaultValue) {
			if found := b.valueIndex(i, b.DefaultValue[i]); found >= 0 {
				v = found
			}
		}
		total += v * b.stride(i)
	}
	return total
}

var facingNSWE = []string{"north", "south", "west", "east"}
var boolValues = []string{"true", "false"}

// registry is the baked table, indexed by declaration order. Base offsets
// are assigned sequentially by registerAll at package init.
var registry = []BlockDef{
	{Name: "minecraft:air", Hardness: 0, Diggable: false},
	{Name: "minecraft:bedrock", Hardness: -1, Diggable: false, Resistance: 3600000},
	{Name: "minecraft:stone", Hardness: 1.5, Diggable: true, Resistance: 6,
		Drops: []string{"minecraft:cobblestone"}, HarvestTools: []string{"minecraft:pickaxe"}},
	{Name: "minecraft:dirt", Hardness: 0.5, Diggable: true, Resistance: 0.5,
		Drops: []string{"minecraft:dirt"}, HarvestTools: []string{"minecraft:shovel"}},
	{Name: "minecraft:grass_block",
		Properties:   []PropertyDef{{Name: "snowy", Values: boolValues}},
		DefaultValue: []string{"false"},
		Hardness:     0.6, Diggable: true, Resistance: 0.6,
		Drops: []string{"minecraft:dirt"}, HarvestTools: []string{"minecraft:shovel"}},
	{Name: "minecraft:cobblestone", Hardness: 2, Diggable: true, Resistance: 6,
		Drops: []string{"minecraft:cobblestone"}, HarvestTools: []string{"minecraft:pickaxe"}},
	{Name: "minecraft:oak_planks", Hardness: 2, Diggable: true, Resistance: 3,
		Drops: []string{"minecraft:oak_planks"}, HarvestTools: []string{"minecraft:axe"}},
	{Name: "minecraft:glass", Hardness: 0.3, Diggable: true, Resistance: 0.3},
	{Name: "minecraft:oak_door",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "half", Values: []string{"upper", "lower"}},
			{Name: "hinge", Values: []string{"left", "right"}},
			{Name: "open", Values: boolValues},
			{Name: "powered", Values: boolValues},
		},
		DefaultValue: []string{"north", "lower", "left", "false", "false"},
		Hardness:     3, Diggable: true, Resistance: 3,
		Drops: []string{"minecraft:oak_door"}, HarvestTools: []string{"minecraft:axe"}},
	{Name: "minecraft:oak_trapdoor",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "half", Values: []string{"top", "bottom"}},
			{Name: "open", Values: boolValues},
			{Name: "powered", Values: boolValues},
			{Name: "waterlogged", Values: boolValues},
		},
		DefaultValue: []string{"north", "bottom", "false", "false", "false"},
		Hardness:     3, Diggable: true, Resistance: 3,
		Drops: []string{"minecraft:oak_trapdoor"}, HarvestTools: []string{"minecraft:axe"}},
	{Name: "minecraft:oak_fence_gate",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "open", Values: boolValues},
			{Name: "powered", Values: boolValues},
			{Name: "in_wall", Values: boolValues},
		},
		DefaultValue: []string{"north", "false", "false", "false"},
		Hardness:     2, Diggable: true, Resistance: 2,
		Drops: []string{"minecraft:oak_fence_gate"}, HarvestTools: []string{"minecraft:axe"}},
	{Name: "minecraft:oak_button",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "face", Values: []string{"floor", "wall", "ceiling"}},
			{Name: "powered", Values: boolValues},
		},
		DefaultValue: []string{"north", "wall", "false"},
		Hardness:     0.5, Diggable: true, Resistance: 0.5,
		Drops: []string{"minecraft:oak_button"}, HarvestTools: []string{"minecraft:axe"}},
	{Name: "minecraft:stone_button",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "face", Values: []string{"floor", "wall", "ceiling"}},
			{Name: "powered", Values: boolValues},
		},
		DefaultValue: []string{"north", "wall", "false"},
		Hardness:     0.5, Diggable: true, Resistance: 0.5,
		Drops: []string{"minecraft:stone_button"}, HarvestTools: []string{"minecraft:pickaxe"}},
	{Name: "minecraft:polished_blackstone_button",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "face", Values: []string{"floor", "wall", "ceiling"}},
			{Name: "powered", Values: boolValues},
		},
		DefaultValue: []string{"north", "wall", "false"},
		Hardness:     0.5, Diggable: true, Resistance: 0.5,
		Drops: []string{"minecraft:polished_blackstone_button"}, HarvestTools: []string{"minecraft:pickaxe"}},
	{Name: "minecraft:lever",
		Properties: []PropertyDef{
			{Name: "facing", Values: facingNSWE},
			{Name: "face", Values: []string{"floor", "wall", "ceiling"}},
			{Name: "powered", Values: boolValues},
		},
		DefaultValue: []string{"north", "wall", "false"},
		Hardness:     0.5, Diggable: true, Resistance: 0.5,
		Drops: []string{"minecraft:lever"}, HarvestTools: nil},
}

var (
	byName        = map[string]int{} // block name -> registry index
	byDefaultName = map[string]StateID{}
)

func init() {
	base := StateID(0)
	for i := range registry {
		registry[i].Base = base
		byName[registry[i].Name] = i
		byDefaultName[registry[i].Name] = registry[i].Base + StateID(registry[i].defaultOffset())
		base += StateID(registry[i].stateCount())
	}
}

// blockForState returns the BlockDef owning state, or (-1, false).
func blockForState(state StateID) (int, bool) {
	// registry is small and append-only at init time; a linear scan over
	// contiguous ranges is fine at this scale and keeps the table a plain
	// literal slice rather than an interval tree.
	for i, b := range registry {
		if state >= b.Base && int(state-b.Base) < b.stateCount() {
			return i, true
		}
	}
	return -1, false
}
