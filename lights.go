package dcclight

// Effect periods in milliseconds.
const (
	strobePeriod   = 150
	rotatingPeriod = 400
)

type effectKind uint8

const (
	effectOff effectKind = iota
	effectSteady
	effectStrobe
	effectRotating
)

// effect is the resolved form of a light's effect CV: the variant plus the
// parameters it renders with. It is derived from the raw CV bytes at the
// point of use and owns no persistent state.
type effect struct {
	kind    effectKind
	ceiling uint8
	period  uint32
}

// resolveEffect maps a light's configuration to its effect variant. Effect
// codes outside the known set resolve to off rather than an arbitrary level.
func resolveEffect(cfg LightConfig) effect {
	switch cfg.Effect {
	case EffectCodeSteady:
		return effect{kind: effectSteady, ceiling: cfg.Brightness}
	case EffectCodeStrobe:
		return effect{kind: effectStrobe, ceiling: cfg.Brightness, period: strobePeriod}
	case EffectCodeRotating:
		return effect{kind: effectRotating, ceiling: cfg.Brightness, period: rotatingPeriod}
	}
	return effect{kind: effectOff}
}

// render returns the gamma-corrected brightness of the effect at the given
// monotonic millisecond timestamp. It is a pure function and may be called
// far more often than activation changes.
func (e effect) render(now uint32) uint8 {
	switch e.kind {
	case effectSteady:
		return gammaCorrect(e.ceiling)

	case effectStrobe:
		// One short bright pulse per period, duty cycle 1/12.
		if now%e.period < e.period/12 {
			return gammaCorrect(e.ceiling)
		}
		return 0

	case effectRotating:
		// Triangular ramp: rise to the ceiling at half period, fall back to 0.
		phase := now % e.period
		var raw uint32
		if phase < e.period/2 {
			raw = 2 * uint32(e.ceiling) * phase / e.period
		} else {
			raw = 2 * uint32(e.ceiling) * (e.period - phase) / e.period
		}
		if raw > 255 {
			raw = 255
		}
		return gammaCorrect(uint8(raw))
	}
	return 0
}

// lightActive evaluates the activation predicate for one light against the
// current CV, function and locomotive state. It runs on every relevant state
// change (function, speed/direction or CV update), never on a time-only tick.
func lightActive(cfg LightConfig, fs *functionState, loco locomotiveState) bool {
	ctrl := cfg.ControlFunction
	if int(ctrl) >= NumFunctions {
		// A programmer may write any byte here. Out-of-range indices are
		// clamped to the always-on sentinel instead of indexing function state.
		ctrl = ControlFunctionAlwaysOn
	}
	functionOK := ctrl == ControlFunctionAlwaysOn || fs.get(ctrl)

	directionOK := cfg.Direction == DirBoth ||
		(cfg.Direction == DirForwardOnly && loco.forward) ||
		(cfg.Direction == DirReverseOnly && !loco.forward)

	speedOK := cfg.Speed == SpeedAlways ||
		(cfg.Speed == SpeedMovingOnly && loco.speed > 0)

	return functionOK && directionOK && speedOK
}
