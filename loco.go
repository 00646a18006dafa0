package dcclight

// functionBackupLen is the size of the store region following the CVs that
// holds the raw function group bytes when function persistence is enabled.
const functionBackupLen = numFunctionGroups

// functionState caches the on/off state of functions F0..F28. It is rebuilt
// wholesale from the raw group bytes on every group update, never patched
// one flag at a time.
type functionState struct {
	groups [numFunctionGroups]uint8
	on     [NumFunctions]bool
}

// setGroup records a freshly reported group bitfield and rebuilds all flags.
// Unknown group identifiers are dropped.
func (fs *functionState) setGroup(g FunctionGroup, bits uint8) {
	if int(g) >= numFunctionGroups {
		return
	}
	fs.groups[g] = bits
	fs.rebuild()
}

func (fs *functionState) rebuild() {
	f0f4 := fs.groups[GroupF0F4]
	// F0 sits in bit 4 of the F0-F4 group while F1..F4 occupy bits 0..3.
	// This asymmetry comes from the DCC function group one packet layout.
	fs.on[0] = f0f4&0b0001_0000 != 0
	for i := 0; i < 4; i++ {
		fs.on[1+i] = f0f4&(1<<i) != 0
	}
	for i := 0; i < 4; i++ {
		fs.on[5+i] = fs.groups[GroupF5F8]&(1<<i) != 0
		fs.on[9+i] = fs.groups[GroupF9F12]&(1<<i) != 0
	}
	for i := 0; i < 8; i++ {
		fs.on[13+i] = fs.groups[GroupF13F20]&(1<<i) != 0
		fs.on[21+i] = fs.groups[GroupF21F28]&(1<<i) != 0
	}
}

// get reports whether function idx is on. Out-of-range indices read as off.
func (fs *functionState) get(idx uint8) bool {
	if int(idx) >= NumFunctions {
		return false
	}
	return fs.on[idx]
}

func (fs *functionState) reset() {
	*fs = functionState{}
}

// locomotiveState is the most recently commanded speed and direction. Both
// fields are always assigned together so they reflect the same command.
type locomotiveState struct {
	speed   uint
	forward bool
}
