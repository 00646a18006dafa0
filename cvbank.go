package dcclight

// cvBank is the RAM mirror of the CV bank. During normal operation it is the
// source of truth for every other component; the backing Store is only read
// at startup and written through on mutation, one byte at a time.
type cvBank struct {
	store Store
	cache [NumCVs]byte
}

// load fills the cache from the store. The caller is responsible for the boot
// sentinel check; load itself does not validate the image.
func (b *cvBank) load() {
	for i := range b.cache {
		b.cache[i] = b.store.ReadByte(uint8(i))
	}
}

// storeAll mirrors the entire cache to the store.
func (b *cvBank) storeAll() {
	for i := range b.cache {
		b.store.WriteByte(uint8(i), b.cache[i])
	}
}

// resetToDefaults zeroes the bank, applies the factory default table and
// mirrors the result to the store.
func (b *cvBank) resetToDefaults() {
	for i := range b.cache {
		b.cache[i] = 0
	}
	for _, d := range factoryDefaults {
		b.cache[d.cv] = d.value
	}
	b.storeAll()
}

func (b *cvBank) read(cv uint8) (uint8, Exception) {
	if int(cv) >= NumCVs {
		return 0, ExceptionIllegalAddr
	}
	return b.cache[cv], ExceptionNone
}

// write stores value at cv and immediately persists that single byte.
// CVManufacturerVersion is rejected here so that no write path, byte or bit,
// can corrupt version reporting.
func (b *cvBank) write(cv, value uint8) Exception {
	if int(cv) >= NumCVs {
		return ExceptionIllegalAddr
	}
	if cv == CVManufacturerVersion {
		return ExceptionReadOnlyCV
	}
	b.cache[cv] = value
	b.store.WriteByte(cv, value)
	return ExceptionNone
}

// LightConfig is the typed view of one light's 5-CV block. The
// base+stride*light address arithmetic lives only here, at the persistence
// boundary.
type LightConfig struct {
	Brightness      uint8
	ControlFunction uint8
	Direction       uint8
	Speed           uint8
	Effect          uint8
}

func (b *cvBank) lightConfig(light int) LightConfig {
	base := CVLightBase + light*CVLightStride
	return LightConfig{
		Brightness:      b.cache[base+cvOffsetBrightness],
		ControlFunction: b.cache[base+cvOffsetControlFunction],
		Direction:       b.cache[base+cvOffsetDirection],
		Speed:           b.cache[base+cvOffsetSpeed],
		Effect:          b.cache[base+cvOffsetEffect],
	}
}
