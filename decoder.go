package dcclight

import "time"

// PWMOutput is the sink for rendered brightness values, typically the PWM
// peripheral driver. The decoder calls it once per channel on every render.
type PWMOutput interface {
	// SetChannelBrightness sets the PWM duty for channel 0..NumLights-1.
	SetChannelBrightness(channel int, value uint8)
}

// DecoderConfig provides configuration parameters to NewDecoder.
type DecoderConfig struct {
	// Store is the non-volatile memory backing the CV bank. If nil an
	// in-memory MemStore is used.
	Store Store

	// Ack generates the basic acknowledgment current pulse (order of 6 ms).
	// It is called synchronously from CVAccess on success in service mode.
	// If nil, service mode acknowledgments are dropped.
	Ack func()

	// Now returns a monotonic millisecond timestamp used to phase the light
	// effects. If nil, a wall-clock based source is used.
	Now func() uint32

	// PersistFunctions mirrors the function state to the store region
	// following the CVs so function settings survive a power cycle.
	PersistFunctions bool
}

// Decoder is the configuration and light-rendering core of the mobile
// decoder. The host firmware pushes decoded DCC commands in through
// SpeedAndDirection, FunctionGroup and CVAccess and pulls brightness out
// through Brightness or RenderTo every control-loop iteration.
//
// A Decoder is not safe for concurrent use: its methods must be called from
// the single control loop (or otherwise serialized by the host, see
// ConcurrencySafeStore for the store side).
type Decoder struct {
	bank       cvBank
	fns        functionState
	loco       locomotiveState
	active     [NumLights]bool
	ack        func()
	now        func() uint32
	persistFns bool
}

// NewDecoder returns a Decoder ready for Initialize.
func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.Store == nil {
		cfg.Store = &MemStore{}
	}
	if cfg.Now == nil {
		start := time.Now()
		cfg.Now = func() uint32 {
			return uint32(time.Since(start).Milliseconds())
		}
	}
	return &Decoder{
		bank:       cvBank{store: cfg.Store},
		ack:        cfg.Ack,
		now:        cfg.Now,
		persistFns: cfg.PersistFunctions,
	}
}

// Initialize performs the boot sequence: if the stored manufacturer ID
// matches the sentinel the CV image is loaded, otherwise the bank falls back
// to factory defaults and writes them through. A corrupt store is therefore
// recovered, never fatal.
func (d *Decoder) Initialize() {
	if d.bank.store.ReadByte(CVManufacturerID) == manufacturerID {
		d.bank.load()
	} else {
		d.bank.resetToDefaults()
	}
	if d.persistFns {
		d.loadFunctionBackup()
	}
	d.refreshActivation()
}

// Address returns the primary operating address from CV1.
func (d *Decoder) Address() uint8 {
	return d.bank.cache[CVPrimaryAddress]
}

// CV returns the cached value of a CV. Useful for hosts that report CV
// contents over a richer back channel.
func (d *Decoder) CV(cv uint8) (uint8, Exception) {
	return d.bank.read(cv)
}

// SpeedAndDirection records a speed command. Speed magnitude and direction
// always update together so both reflect the same, most recent command.
func (d *Decoder) SpeedAndDirection(speed uint, forward bool) {
	d.loco = locomotiveState{speed: speed, forward: forward}
	d.refreshActivation()
}

// FunctionGroup records a freshly reported function group bitfield, rebuilds
// the function state and re-derives light activation.
func (d *Decoder) FunctionGroup(group FunctionGroup, bits uint8) {
	d.fns.setGroup(group, bits)
	if d.persistFns {
		d.storeFunctionBackup()
	}
	d.refreshActivation()
}

// Brightness renders the current brightness of one channel using the
// configured time source. Out-of-range channels render dark.
func (d *Decoder) Brightness(channel int) uint8 {
	return d.brightnessAt(channel, d.now())
}

// RenderTo renders every channel at a single shared timestamp and writes the
// values to out. Call it once per control-loop iteration.
func (d *Decoder) RenderTo(out PWMOutput) {
	now := d.now()
	for ch := 0; ch < NumLights; ch++ {
		out.SetChannelBrightness(ch, d.brightnessAt(ch, now))
	}
}

func (d *Decoder) brightnessAt(channel int, now uint32) uint8 {
	if channel < 0 || channel >= NumLights || !d.active[channel] {
		return 0
	}
	return resolveEffect(d.bank.lightConfig(channel)).render(now)
}

// refreshActivation re-derives the cached activation flag of every light.
// Activation is event driven so that per-tick rendering never re-evaluates
// the function, direction and speed gates.
func (d *Decoder) refreshActivation() {
	for ch := range d.active {
		d.active[ch] = lightActive(d.bank.lightConfig(ch), &d.fns, d.loco)
	}
}

func (d *Decoder) storeFunctionBackup() {
	for i, g := range d.fns.groups {
		d.bank.store.WriteByte(uint8(NumCVs+i), g)
	}
}

func (d *Decoder) loadFunctionBackup() {
	for i := range d.fns.groups {
		d.fns.groups[i] = d.bank.store.ReadByte(uint8(NumCVs + i))
	}
	d.fns.rebuild()
}
