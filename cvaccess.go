package dcclight

// CVRequest is a decoded CV access command as delivered by the protocol
// front end. BitPosition, BitValue and BitWrite are only meaningful for
// OpBitManipulation.
type CVRequest struct {
	CV    uint8
	Value uint8
	Op    Operation

	BitPosition uint8
	BitValue    bool
	BitWrite    bool

	Mode Mode
}

// CVAccess applies a verify/write/bit-manipulation request against the CV
// bank. Malformed requests (out-of-range CV or bit position) are dropped
// silently: the decoder has no error channel back to the programmer, the
// absence of an acknowledgment already reads as failure there.
func (d *Decoder) CVAccess(req CVRequest) {
	if int(req.CV) >= NumCVs {
		return
	}
	switch req.Op {
	case OpVerifyByte:
		got, _ := d.bank.read(req.CV)
		if got == req.Value {
			d.acknowledge(req.Mode)
		}
	case OpWriteByte:
		d.writeCV(req)
	case OpBitManipulation:
		d.bitManipulate(req)
	}
	// A write may have retargeted a light onto another function or changed
	// its gating, so re-derive activation after every in-range request.
	d.fns.rebuild()
	d.refreshActivation()
}

func (d *Decoder) writeCV(req CVRequest) {
	switch {
	case req.CV == CVManufacturerVersion:
		// Read-only. The write is ignored and not acknowledged, so the
		// programmer sees it fail instead of silently corrupting version
		// reporting.
		return
	case req.CV == CVManufacturerID && req.Value == factoryResetValue:
		d.bank.resetToDefaults()
		d.fns.reset()
		if d.persistFns {
			d.storeFunctionBackup()
		}
	default:
		if d.bank.write(req.CV, req.Value) != ExceptionNone {
			return
		}
	}
	d.acknowledge(req.Mode)
}

func (d *Decoder) bitManipulate(req CVRequest) {
	if req.BitPosition > 7 {
		return
	}
	cur, exc := d.bank.read(req.CV)
	if exc != ExceptionNone {
		return
	}
	mask := uint8(1) << req.BitPosition
	if req.BitWrite {
		next := cur &^ mask
		if req.BitValue {
			next = cur | mask
		}
		if d.bank.write(req.CV, next) != ExceptionNone {
			return
		}
		d.acknowledge(req.Mode)
		return
	}
	if (cur&mask != 0) == req.BitValue {
		d.acknowledge(req.Mode)
	}
}

// acknowledge emits the basic acknowledgment pulse. Only service mode
// answers locally; in program-on-main mode the reply travels back over the
// rail and is the command station side's concern.
func (d *Decoder) acknowledge(mode Mode) {
	if mode == ModeService && d.ack != nil {
		d.ack()
	}
}
