package blocks

// Air is the state id considered "air" for block_count purposes (spec
// §3: "only state IDs equal to 0 are considered air").
const Air StateID = 0

// DefaultState returns the default state id for a block name, or (0,
// false) if the name is unknown.
func DefaultState(name string) (StateID, bool) {
	s, ok := byDefaultName[name]
	return s, ok
}

// Properties holds a decoded block state's name and property assignment.
type Properties struct {
	Name   string
	Values map[string]string
}

// StateInfo returns the name and property assignment for a state id.
func StateInfo(state StateID) (Properties, bool) {
	i, ok := blockForState(state)
	if !ok {
		return Properties{}, false
	}
	b := registry[i]
	idx := b.offsetOf(state)
	values := make(map[string]string, len(b.Properties))
	for pi, p := range b.Properties {
		values[p.Name] = p.Values[idx[pi]]
	}
	return Properties{Name: b.Name, Values: values}, true
}

// StateForProperties is the inverse of StateInfo: given a block name and
// a full property assignment, returns its state id.
func StateForProperties(name string, values map[string]string) (StateID, bool) {
	i, ok := byName[name]
	if !ok {
		return 0, false
	}
	b := registry[i]
	idx := make([]int, len(b.Properties))
	for pi, p := range b.Properties {
		v, ok := values[p.Name]
		if !ok {
			v = b.DefaultValue[pi]
		}
		vi := b.valueIndex(pi, v)
		if vi < 0 {
			return 0, false
		}
		idx[pi] = vi
	}
	return b.composeState(idx), true
}

// Attributes is the static per-state mining data.
type Attributes struct {
	Hardness     float64
	Diggable     bool
	Resistance   float64
	Drops        []string
	HarvestTools []string
}

// StateAttributes returns mining attributes for a state, or the zero
// value (not diggable, no drops) for an unknown state.
func StateAttributes(state StateID) Attributes {
	i, ok := blockForState(state)
	if !ok {
		return Attributes{}
	}
	b := registry[i]
	return Attributes{
		Hardness:     b.Hardness,
		Diggable:     b.Diggable,
		Resistance:   b.Resistance,
		Drops:        b.Drops,
		HarvestTools: b.HarvestTools,
	}
}

// toggleProperty finds the named boolean-ish two-value property on
// state's block and returns the state id with that property's value
// flipped. ok is false if the state or property is unknown or the
// property does not have exactly two values.
func toggleProperty(state StateID, propName string) (StateID, bool) {
	i, ok := blockForState(state)
	if !ok {
		return 0, false
	}
	b := registry[i]
	pi := b.propertyIndex(propName)
	if pi < 0 || len(b.Properties[pi].Values) != 2 {
		return 0, false
	}
	idx := b.offsetOf(state)
	idx[pi] = 1 - idx[pi]
	return b.composeState(idx), true
}

// ToggleInteractive flips the open/powered sub-property of door,
// trapdoor, fence_gate, button and lever states. Returns the input state
// unchanged if it is not one of those families.
func ToggleInteractive(state StateID) StateID {
	for _, prop := range []string{"open", "powered"} {
		if next, ok := toggleProperty(state, prop); ok {
			return next
		}
	}
	return state
}

// DoorOtherHalfOffset returns the signed delta to add to state to reach
// the door's other half (toggling the "half" property), or 0 if state is
// not a door half.
func DoorOtherHalfOffset(state StateID) int32 {
	next, ok := toggleProperty(state, "half")
	if !ok {
		return 0
	}
	return int32(next - state)
}

// ButtonResetTicks returns the number of ticks before a pressed button
// pops back up: 20 for stone/polished_blackstone buttons, 30 otherwise.
func ButtonResetTicks(state StateID) int {
	i, ok := blockForState(state)
	if !ok {
		return 30
	}
	switch registry[i].Name {
	case "minecraft:stone_button", "minecraft:polished_blackstone_button":
		return 20
	default:
		return 30
	}
}
