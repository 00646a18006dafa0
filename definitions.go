package dcclight

// NumCVs is the size of the CV bank. Every CV access is bounds checked
// against it; out-of-range requests are dropped without side effects.
const NumCVs = 100

// Identity CVs.
const (
	CVPrimaryAddress      = 1
	CVManufacturerVersion = 7
	CVManufacturerID      = 8
	CVModeControl         = 29
)

// Light block CV layout. Each of the four lights owns a 5-CV block starting
// at CVLightBase + CVLightStride*light.
const (
	CVLightBase   = 50
	CVLightStride = 10

	cvOffsetBrightness      = 0
	cvOffsetControlFunction = 1
	cvOffsetDirection       = 2
	cvOffsetSpeed           = 3
	cvOffsetEffect          = 4
)

const (
	// NumLights is the number of lighting outputs.
	NumLights = 4
	// NumFunctions is the number of controllable functions, F0 through F28.
	NumFunctions = 29
	// ControlFunctionAlwaysOn is the control-function sentinel meaning the
	// light is not gated by any function. It must never index function state.
	ControlFunctionAlwaysOn = 31
)

// manufacturerID doubles as the boot sentinel: finding it in the stored CV8
// at startup means the store holds a valid CV image.
const manufacturerID = 13

// factoryResetValue written to CV8 restores the factory defaults instead of
// being stored. The value is reserved by the DCC standard for this purpose.
const factoryResetValue = 8

// Direction sensitivity values (CV52+10n).
const (
	DirBoth        = 0
	DirForwardOnly = 1
	DirReverseOnly = 2
)

// Speed sensitivity values (CV53+10n).
const (
	SpeedAlways     = 0
	SpeedMovingOnly = 1
)

// Effect codes (CV54+10n). Codes outside this set render dark.
const (
	EffectCodeSteady   = 0
	EffectCodeStrobe   = 1
	EffectCodeRotating = 2
)

// factoryDefaults is the fixed CV table applied by a factory reset after the
// whole bank is zeroed. It is the only path that re-establishes the CV8
// sentinel checked on the next boot.
var factoryDefaults = [...]struct{ cv, value uint8 }{
	{CVPrimaryAddress, 3},
	{CVManufacturerVersion, 1},
	{CVManufacturerID, manufacturerID},

	{50, 255}, {51, 0}, {52, DirBoth}, {53, SpeedAlways}, {54, EffectCodeStrobe},
	{60, 150}, {61, 1}, {62, DirBoth}, {63, SpeedAlways}, {64, EffectCodeRotating},
	{70, 150}, {71, 2}, {72, DirBoth}, {73, SpeedAlways}, {74, EffectCodeSteady},
	{80, 150}, {81, 3}, {82, DirBoth}, {83, SpeedAlways}, {84, EffectCodeSteady},
}

// Operation selects the kind of CV access requested by the programmer.
type Operation uint8

const (
	OpVerifyByte Operation = iota
	OpWriteByte
	OpBitManipulation
)

func (op Operation) String() (s string) {
	switch op {
	case OpVerifyByte:
		s = "verify byte"
	case OpWriteByte:
		s = "write byte"
	case OpBitManipulation:
		s = "bit manipulation"
	default:
		s = "unknown operation"
	}
	return s
}

// Mode is the programming mode a CV access arrives under.
type Mode uint8

const (
	// ModeService is service (direct) mode on a programming track. Successful
	// operations are answered with a basic acknowledgment pulse.
	ModeService Mode = iota
	// ModeProgramOnMain is CV access during normal operation. The reply
	// channel (RailCom) is owned by the command station side, so the decoder
	// never acknowledges locally.
	ModeProgramOnMain
)

func (m Mode) String() (s string) {
	switch m {
	case ModeService:
		s = "service mode"
	case ModeProgramOnMain:
		s = "program on main"
	default:
		s = "unknown mode"
	}
	return s
}

// FunctionGroup identifies which function bitfield a group update carries.
type FunctionGroup uint8

const (
	GroupF0F4 FunctionGroup = iota
	GroupF5F8
	GroupF9F12
	GroupF13F20
	GroupF21F28

	numFunctionGroups = 5
)

func (g FunctionGroup) String() (s string) {
	switch g {
	case GroupF0F4:
		s = "F0-F4"
	case GroupF5F8:
		s = "F5-F8"
	case GroupF9F12:
		s = "F9-F12"
	case GroupF13F20:
		s = "F13-F20"
	case GroupF21F28:
		s = "F21-F28"
	default:
		s = "unknown function group"
	}
	return s
}
