package dcclight

import "testing"

func TestGammaTable(t *testing.T) {
	if gammaCorrect(0) != 0 {
		t.Fatalf("gamma(0) = %d, want 0", gammaCorrect(0))
	}
	if gammaCorrect(255) != 255 {
		t.Fatalf("gamma(255) = %d, want 255", gammaCorrect(255))
	}
	for i := 1; i < 256; i++ {
		if gammaTable[i] < gammaTable[i-1] {
			t.Fatalf("gamma table decreases at %d: %d < %d", i, gammaTable[i], gammaTable[i-1])
		}
	}
}

func TestEffectRender(t *testing.T) {
	testCases := []struct {
		name string
		cfg  LightConfig
		now  uint32
		want uint8
	}{
		{name: "steady", cfg: LightConfig{Brightness: 200, Effect: EffectCodeSteady}, now: 12345, want: gammaCorrect(200)},
		{name: "strobe pulse start", cfg: LightConfig{Brightness: 255, Effect: EffectCodeStrobe}, now: 0, want: 255},
		{name: "strobe pulse end", cfg: LightConfig{Brightness: 255, Effect: EffectCodeStrobe}, now: strobePeriod/12 - 1, want: 255},
		{name: "strobe dark after pulse", cfg: LightConfig{Brightness: 255, Effect: EffectCodeStrobe}, now: strobePeriod / 12, want: 0},
		{name: "strobe dark at period end", cfg: LightConfig{Brightness: 255, Effect: EffectCodeStrobe}, now: strobePeriod - 1, want: 0},
		{name: "strobe next period", cfg: LightConfig{Brightness: 255, Effect: EffectCodeStrobe}, now: strobePeriod, want: 255},
		{name: "rotating start", cfg: LightConfig{Brightness: 200, Effect: EffectCodeRotating}, now: 0, want: 0},
		{name: "rotating quarter", cfg: LightConfig{Brightness: 200, Effect: EffectCodeRotating}, now: rotatingPeriod / 4, want: gammaCorrect(100)},
		{name: "rotating peak at midpoint", cfg: LightConfig{Brightness: 200, Effect: EffectCodeRotating}, now: rotatingPeriod / 2, want: gammaCorrect(200)},
		{name: "rotating falling", cfg: LightConfig{Brightness: 200, Effect: EffectCodeRotating}, now: 3 * rotatingPeriod / 4, want: gammaCorrect(100)},
		{name: "rotating full brightness peak", cfg: LightConfig{Brightness: 255, Effect: EffectCodeRotating}, now: rotatingPeriod / 2, want: 255},
		{name: "unknown effect renders dark", cfg: LightConfig{Brightness: 255, Effect: 7}, now: 0, want: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			if got := resolveEffect(tC.cfg).render(tC.now); got != tC.want {
				t.Fatalf("render(%d) = %d, want %d", tC.now, got, tC.want)
			}
		})
	}
}

func TestActivationPredicate(t *testing.T) {
	var fsAllOff functionState
	var fsF1 functionState
	fsF1.setGroup(GroupF0F4, 0b0000_0001) // F1 on

	testCases := []struct {
		name string
		cfg  LightConfig
		fs   *functionState
		loco locomotiveState
		want bool
	}{
		{name: "sentinel ignores functions", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn}, fs: &fsAllOff, want: true},
		{name: "gating function off", cfg: LightConfig{ControlFunction: 1}, fs: &fsAllOff, want: false},
		{name: "gating function on", cfg: LightConfig{ControlFunction: 1}, fs: &fsF1, want: true},
		{name: "invalid control index clamps to always on", cfg: LightConfig{ControlFunction: 30}, fs: &fsAllOff, want: true},
		{name: "invalid control index 255", cfg: LightConfig{ControlFunction: 255}, fs: &fsAllOff, want: true},
		{name: "forward only while forward", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn, Direction: DirForwardOnly}, fs: &fsAllOff, loco: locomotiveState{forward: true}, want: true},
		{name: "forward only while reverse", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn, Direction: DirForwardOnly}, fs: &fsAllOff, loco: locomotiveState{forward: false}, want: false},
		{name: "reverse only while reverse", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn, Direction: DirReverseOnly}, fs: &fsAllOff, loco: locomotiveState{forward: false}, want: true},
		{name: "moving only while stopped", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn, Speed: SpeedMovingOnly}, fs: &fsAllOff, loco: locomotiveState{speed: 0}, want: false},
		{name: "moving only while moving", cfg: LightConfig{ControlFunction: ControlFunctionAlwaysOn, Speed: SpeedMovingOnly}, fs: &fsAllOff, loco: locomotiveState{speed: 5}, want: true},
	}
	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			if got := lightActive(tC.cfg, tC.fs, tC.loco); got != tC.want {
				t.Fatalf("active = %v, want %v", got, tC.want)
			}
		})
	}
}

// setLight programs one light's CV block through the regular access path.
func setLight(t *testing.T, d *Decoder, light int, cfg LightConfig) {
	t.Helper()
	base := uint8(CVLightBase + light*CVLightStride)
	for off, v := range []uint8{cfg.Brightness, cfg.ControlFunction, cfg.Direction, cfg.Speed, cfg.Effect} {
		d.CVAccess(CVRequest{CV: base + uint8(off), Value: v, Op: OpWriteByte, Mode: ModeProgramOnMain})
	}
}

func TestSteadyAlwaysOnChannel(t *testing.T) {
	d, now, _ := newTestDecoder(t)
	setLight(t, d, 0, LightConfig{Brightness: 255, ControlFunction: ControlFunctionAlwaysOn, Direction: DirBoth, Speed: SpeedAlways, Effect: EffectCodeSteady})

	for _, tick := range []uint32{0, 17, 5000} {
		*now = tick
		if got := d.Brightness(0); got != 255 {
			t.Fatalf("t=%d: brightness=%d, want 255", tick, got)
		}
	}
	// No function is active and speed/direction change freely; the sentinel
	// keeps the light on regardless.
	d.SpeedAndDirection(20, false)
	if got := d.Brightness(0); got != 255 {
		t.Fatalf("brightness=%d after speed change, want 255", got)
	}
}

func TestRotatingChannelDarkWithFunctionOff(t *testing.T) {
	d, now, _ := newTestDecoder(t)
	// Light 1 factory defaults: control function 1, rotating flash.
	for _, tick := range []uint32{0, 100, 200, 399, 12345} {
		*now = tick
		if got := d.Brightness(1); got != 0 {
			t.Fatalf("t=%d: brightness=%d with F1 off, want 0", tick, got)
		}
	}

	d.FunctionGroup(GroupF0F4, 0b0000_0001) // F1 on
	*now = rotatingPeriod / 2
	if got := d.Brightness(1); got != gammaCorrect(150) {
		t.Fatalf("peak brightness=%d with F1 on, want %d", got, gammaCorrect(150))
	}
}

func TestStrobeChannelScenario(t *testing.T) {
	d, now, _ := newTestDecoder(t)
	// Light 0 factory defaults: control function 0 (headlight), strobe.
	d.FunctionGroup(GroupF0F4, 0b0001_0000) // F0 on

	*now = 0
	if got := d.Brightness(0); got != 255 {
		t.Fatalf("strobe at phase 0 = %d, want 255", got)
	}
	*now = strobePeriod - 1
	if got := d.Brightness(0); got != 0 {
		t.Fatalf("strobe at phase %d = %d, want 0", strobePeriod-1, got)
	}
}

func TestRenderTo(t *testing.T) {
	d, now, _ := newTestDecoder(t)
	d.FunctionGroup(GroupF0F4, 0b0001_0000) // F0 on: light 0 strobing
	*now = 0

	var sink channelSink
	d.RenderTo(&sink)
	if sink.values[0] != 255 {
		t.Fatalf("channel 0 = %d, want 255", sink.values[0])
	}
	for ch := 1; ch < NumLights; ch++ {
		if sink.values[ch] != 0 {
			t.Fatalf("channel %d = %d, want 0", ch, sink.values[ch])
		}
	}
	if sink.calls != NumLights {
		t.Fatalf("SetChannelBrightness called %d times, want %d", sink.calls, NumLights)
	}
}

type channelSink struct {
	values [NumLights]uint8
	calls  int
}

func (c *channelSink) SetChannelBrightness(channel int, value uint8) {
	c.calls++
	if channel >= 0 && channel < NumLights {
		c.values[channel] = value
	}
}

func TestBrightnessOutOfRangeChannel(t *testing.T) {
	d, _, _ := newTestDecoder(t)
	if d.Brightness(-1) != 0 || d.Brightness(NumLights) != 0 {
		t.Fatal("out-of-range channel rendered bright")
	}
}
