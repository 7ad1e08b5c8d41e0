// Package bus implements the flat addressable byte space the CPU core
// executes against. All accesses are total over the 16-bit address range;
// two-byte accesses are little-endian. Single addresses may be overlaid
// with a Port device for memory-mapped I/O.
package bus

const (
	SIZE = 0x10000 // Full 16-bit address space.
)

// Port is a single-address memory-mapped device. Byte reads at a mapped
// address come from the device, byte writes go to it.
type Port interface {
	ReadByte() byte
	WriteByte(value byte)
}

// Bus is a fixed-size flat memory with optional port overlays.
type Bus struct {
	mem   []byte
	ports map[uint16]Port
}

// New creates a bus with all memory at its default (zero) value.
func New() (bus *Bus) {
	bus = &Bus{
		mem: make([]byte, SIZE),
	}

	return
}

// Map overlays a port device at a single address. A nil port removes the
// overlay.
func (bus *Bus) Map(addr uint16, port Port) {
	if bus.ports == nil {
		bus.ports = make(map[uint16]Port, 4)
	}

	if port == nil {
		delete(bus.ports, addr)
	} else {
		bus.ports[addr] = port
	}
}

// ReadByte reads a single byte.
func (bus *Bus) ReadByte(addr uint16) (value byte) {
	port, ok := bus.ports[addr]
	if ok {
		return port.ReadByte()
	}

	return bus.mem[addr]
}

// WriteByte writes a single byte.
func (bus *Bus) WriteByte(addr uint16, value byte) {
	port, ok := bus.ports[addr]
	if ok {
		port.WriteByte(value)
		return
	}

	bus.mem[addr] = value
}

// Read16 reads a little-endian 16-bit value spanning addr and addr+1.
func (bus *Bus) Read16(addr uint16) (value uint16) {
	lo := uint16(bus.ReadByte(addr))
	hi := uint16(bus.ReadByte(addr + 1))

	return (hi << 8) | lo
}

// Write16 writes a little-endian 16-bit value spanning addr and addr+1.
func (bus *Bus) Write16(addr uint16, value uint16) {
	bus.WriteByte(addr, byte(value))
	bus.WriteByte(addr+1, byte(value>>8))
}

// Load copies a byte sequence into memory starting at origin, leaving the
// rest of memory untouched. Data past the end of the address space is
// dropped.
func (bus *Bus) Load(origin uint16, data []byte) {
	copy(bus.mem[origin:], data)
}
