package blocks

import "testing"

func TestDefaultStateKnownBlocks(t *testing.T) {
	for _, name := range []string{"minecraft:air", "minecraft:stone", "minecraft:grass_block", "minecraft:oak_door"} {
		if _, ok := DefaultState(name); !ok {
			t.Errorf("DefaultState(%q) not found", name)
		}
	}
}

func TestDefaultStateUnknownBlock(t *testing.T) {
	if _, ok := DefaultState("minecraft:does_not_exist"); ok {
		t.Error("expected unknown block to report not-found")
	}
}

func TestStateInfoRoundTrip(t *testing.T) {
	state, ok := StateForProperties("minecraft:oak_door", map[string]string{
		"facing": "east", "half": "upper", "hinge": "right", "open": "true", "powered": "false",
	})
	if !ok {
		t.Fatal("StateForProperties failed")
	}
	info, ok := StateInfo(state)
	if !ok {
		t.Fatal("StateInfo failed")
	}
	if info.Name != "minecraft:oak_door" || info.Values["facing"] != "east" || info.Values["open"] != "true" {
		t.Errorf("got %+v", info)
	}
}

func TestToggleInteractiveDoor(t *testing.T) {
	state, _ := StateForProperties("minecraft:oak_door", map[string]string{
		"facing": "north", "half": "lower", "hinge": "left", "open": "false", "powered": "false",
	})
	toggled := ToggleInteractive(state)
	info, _ := StateInfo(toggled)
	if info.Values["open"] != "true" {
		t.Errorf("expected open=true after toggle, got %+v", info)
	}
	back := ToggleInteractive(toggled)
	if back != state {
		t.Errorf("toggling twice should return to original state: %d != %d", back, state)
	}
}

func TestToggleInteractiveButton(t *testing.T) {
	state, _ := StateForProperties("minecraft:stone_button", map[string]string{
		"facing": "north", "face": "wall", "powered": "false",
	})
	toggled := ToggleInteractive(state)
	info, _ := StateInfo(toggled)
	if info.Values["powered"] != "true" {
		t.Errorf("expected powered=true, got %+v", info)
	}
}

func TestDoorOtherHalfOffset(t *testing.T) {
	lower, _ := StateForProperties("minecraft:oak_door", map[string]string{
		"facing": "north", "half": "lower", "hinge": "left", "open": "false", "powered": "false",
	})
	upper, _ := StateForProperties("minecraft:oak_door", map[string]string{
		"facing": "north", "half": "upper", "hinge": "left", "open": "false", "powered": "false",
	})
	offset := DoorOtherHalfOffset(lower)
	if lower+StateID(offset) != upper {
		t.Errorf("DoorOtherHalfOffset(lower)=%d, lower+offset=%d want upper=%d", offset, lower+StateID(offset), upper)
	}
}

func TestButtonResetTicks(t *testing.T) {
	stone, _ := StateForProperties("minecraft:stone_button", map[string]string{"facing": "north", "face": "wall", "powered": "false"})
	blackstone, _ := StateForProperties("minecraft:polished_blackstone_button", map[string]string{"facing": "north", "face": "wall", "powered": "false"})
	oak, _ := StateForProperties("minecraft:oak_button", map[string]string{"facing": "north", "face": "wall", "powered": "false"})

	if got := ButtonResetTicks(stone); got != 20 {
		t.Errorf("stone_button reset ticks = %d, want 20", got)
	}
	if got := ButtonResetTicks(blackstone); got != 20 {
		t.Errorf("polished_blackstone_button reset ticks = %d, want 20", got)
	}
	if got := ButtonResetTicks(oak); got != 30 {
		t.Errorf("oak_button reset ticks = %d, want 30", got)
	}
}

func TestItemRoundTrip(t *testing.T) {
	id, ok := ItemID("minecraft:oak_door")
	if !ok {
		t.Fatal("ItemID lookup failed")
	}
	name, ok := ItemName(id)
	if !ok || name != "minecraft:oak_door" {
		t.Errorf("ItemName(%d) = %q, %v", id, name, ok)
	}
	if ItemMaxStack(id) != 64 {
		t.Errorf("max stack = %d, want 64", ItemMaxStack(id))
	}
	state, ok := ItemDefaultBlockState(id)
	if !ok {
		t.Fatal("ItemDefaultBlockState failed")
	}
	want, _ := DefaultState("minecraft:oak_door")
	if state != want {
		t.Errorf("default block state = %d, want %d", state, want)
	}
}

func TestUnknownStateSentinels(t *testing.T) {
	if _, ok := StateInfo(StateID(1 << 20)); ok {
		t.Error("expected unknown state to report not-found")
	}
	attrs := StateAttributes(StateID(1 << 20))
	if attrs.Diggable || attrs.Hardness != 0 {
		t.Errorf("expected zero-value attributes for unknown state, got %+v", attrs)
	}
}
