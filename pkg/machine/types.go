package machine

// Machine is the full architectural state of the simulated processor: the
// register file, the program counter, the two fixed memory regions, and the
// loop-detection map the control unit uses to raise INFINITE_LOOP.
//
// Code is written once by a loader before execution begins and is not
// mutated thereafter. Data is read and written throughout execution.
// Nothing here is safe for concurrent use — the control unit drives a
// single cooperative loop and there is never more than one phase handler
// running at a time.
type Machine struct {
	Registers [RegisterCount]uint16
	PC        uint16

	Code [CodeSize]uint16
	Data [DataSize]uint16

	// loopCount is keyed by PC and counts how many times the control unit
	// has entered CALCULATE_EA/DETECT_LOOP at that address.
	loopCount map[uint16]int64
}

// New returns a Machine with registers at zero and both memory regions
// filled with FillWord, matching a freshly power-on machine before any
// image is loaded.
func New() *Machine {
	mc := &Machine{}
	mc.Reset()
	return mc
}

// Reset restores the machine to its initial state: every register zero,
// PC zero, both memory regions filled with FillWord, and the loop-detection
// map cleared.
func (mc *Machine) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0
	}

	mc.PC = 0

	for i := range mc.Code {
		mc.Code[i] = FillWord
	}

	for i := range mc.Data {
		mc.Data[i] = FillWord
	}

	mc.loopCount = make(map[uint16]int64)
}

// VisitPC records one more visit to pc in the loop-detection map and
// returns the updated count.
func (mc *Machine) VisitPC(pc uint16) int64 {
	if mc.loopCount == nil {
		mc.loopCount = make(map[uint16]int64)
	}

	mc.loopCount[pc]++
	return mc.loopCount[pc]
}

// ReadData returns the data word at addr and whether addr was in range.
// An out-of-range read does not mutate the machine.
func (mc *Machine) ReadData(addr uint16) (uint16, bool) {
	if int(addr) >= DataSize {
		return 0, false
	}

	return mc.Data[addr], true
}

// WriteData stores value at addr and reports whether addr was in range.
// An out-of-range write does not mutate the machine.
func (mc *Machine) WriteData(addr uint16, value uint16) bool {
	if int(addr) >= DataSize {
		return false
	}

	mc.Data[addr] = value
	return true
}
