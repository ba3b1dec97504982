package examples

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/model"
)

// Base addresses of the example peripherals.
const (
	CanonicalBase = 0x0000
	UARTBase      = 0x1000
	GPIOBase      = 0x2000
	TimerBase     = 0x3000

	// WindowSize covers all example peripherals.
	WindowSize = 0x4000
)

// Factory builds a register map bound to a bus.
type Factory func(b bus.Bus) (*model.Group, error)

var factories = map[string]Factory{
	"canonical": Canonical,
	"uart":      UART,
	"gpio":      GPIO,
	"timer":     Timer,
}

// Names returns the available map names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory for a map name.
func Lookup(name string) (Factory, bool) {
	f, ok := factories[name]
	return f, ok
}

// Build builds the named map bound to b.
func Build(name string, b bus.Bus) (*model.Group, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown register map %q", name)
	}
	return f(b)
}

// Canonical is a group with one 32-bit register reg0 holding field0 [0],
// field1 [4:1] and field2 [7:5].
func Canonical(b bus.Bus) (*model.Group, error) {
	return model.NewGroup("canonical", b,
		model.NewRegister("reg0", CanonicalBase, 32,
			model.NewField("field0", 0, 0),
			model.NewField("field1", 4, 1),
			model.NewField("field2", 7, 5),
		),
		model.NewRegister("reg1", CanonicalBase+4, 32,
			model.NewField("field0", 0, 0),
			model.NewField("field3", 15, 8),
		),
	)
}

// UART parity modes.
const (
	ParityNone = 0
	ParityOdd  = 1
	ParityEven = 3
)

// UART is a 16550-style serial port.
func UART(b bus.Bus) (*model.Group, error) {
	reserved := model.ReadOnly(model.Ignore)
	w1c := model.ReadWrite(model.OneToClear)

	return model.NewGroup("uart", b,
		model.NewRegister("ctrl", UARTBase+0x00, 32,
			model.NewField("enable", 0, 0).WithEnum(map[string]uint64{
				"DISABLE": model.Disable,
				"ENABLE":  model.Enable,
			}),
			model.NewField("loopback", 1, 1),
			model.NewField("parity", 3, 2).WithEnum(map[string]uint64{
				"NONE": ParityNone,
				"ODD":  ParityOdd,
				"EVEN": ParityEven,
			}),
			model.NewField("stop_bits", 4, 4),
			model.NewField("baud_div", 31, 16),
		).WithPolicy(reserved),

		model.NewRegister("status", UARTBase+0x04, 32,
			model.NewField("tx_empty", 0, 0).WithPolicy(reserved),
			model.NewField("rx_ready", 1, 1).WithPolicy(reserved),
			model.NewField("errors", 7, 4,
				model.NewField("overrun", 4, 4),
				model.NewField("framing", 5, 5),
				model.NewField("parity", 6, 6),
			).WithPolicy(w1c),
		).WithPolicy(reserved),

		model.NewRegister("tx", UARTBase+0x08, 8).WithPolicy(model.WriteOnly(model.Replace)),
		model.NewRegister("rx", UARTBase+0x0c, 8).WithPolicy(model.ReadOnly(model.Ignore)),

		model.NewRegister("irq", UARTBase+0x10, 16,
			model.NewField("mask", 7, 0),
			model.NewField("pending", 15, 8).WithPolicy(w1c),
		),
	)
}

// GPIO pin modes.
const (
	ModeInput  = 0
	ModeOutput = 1
	ModeAlt    = 2
	ModeAnalog = 3
)

// GPIO is a 16-pin port. Output bits are changed through set and clear
// registers so that concurrent writers never need a read.
func GPIO(b bus.Bus) (*model.Group, error) {
	modes := map[string]uint64{
		"INPUT":  ModeInput,
		"OUTPUT": ModeOutput,
		"ALT":    ModeAlt,
		"ANALOG": ModeAnalog,
	}
	mode := make([]*model.Field, 16)
	for i := range mode {
		mode[i] = model.NewField(fmt.Sprintf("pin%d", i), 2*i+1, 2*i).WithEnum(modes)
	}
	pins := func(p model.Policy) []*model.Field {
		out := make([]*model.Field, 16)
		for i := range out {
			out[i] = model.NewField(fmt.Sprintf("pin%d", i), i, i).WithPolicy(p)
		}
		return out
	}

	return model.NewGroup("gpio", b,
		model.NewRegister("mode", GPIOBase+0x00, 32, mode...),
		model.NewRegister("in", GPIOBase+0x04, 16).WithPolicy(model.ReadOnly(model.Ignore)),
		model.NewRegister("out", GPIOBase+0x08, 16),
		model.NewRegister("set", GPIOBase+0x0c, 16, pins(model.ReadWrite(model.OneToSet))...),
		model.NewRegister("clr", GPIOBase+0x10, 16, pins(model.ReadWrite(model.OneToClear))...),
		model.NewRegister("pull", GPIOBase+0x14, 32,
			model.NewField("up", 15, 0),
			model.NewField("down", 31, 16).WithPolicy(model.ReadWrite(model.ZeroToSet)),
		),
	)
}

// Timer channel count.
const TimerChannels = 2

var timerChannel atomic.Int32

// SelectTimerChannel picks the compare channel the "compare" register
// addresses. Out of range channels are ignored.
func SelectTimerChannel(ch int) {
	if ch >= 0 && ch < TimerChannels {
		timerChannel.Store(int32(ch))
	}
}

// Timer is a 64-bit free-running counter with compare channels. The
// compare register's address follows the selected channel.
func Timer(b bus.Bus) (*model.Group, error) {
	// Writing 1 to an enable bit leaves it unchanged; the low bit of each
	// byte is a start strobe that must be written as 0 when untouched.
	strobes := model.CustomPolicy("strobe_low", func(msb, lsb int) uint64 {
		return 0xfefe_fefe_fefe_fefe
	})

	return model.NewGroup("timer", b,
		model.NewRegister("count", TimerBase+0x00, 64).WithPolicy(model.ReadOnly(model.Ignore)),
		model.NewRegister("ctrl", TimerBase+0x08, 32,
			model.NewField("run", 0, 0),
			model.NewField("prescale", 7, 4),
			model.NewField("reload", 15, 8).WithPolicy(strobes),
			model.NewField("reset", 16, 16).WithPolicy(model.ReadWrite(model.OneToSet)),
			model.NewField("irq_en", 23, 20),
			model.NewField("irq_clr", 31, 24).WithPolicy(model.ReadWrite(model.ZeroToClear)),
		),
		model.NewRegister("cmd", TimerBase+0x0c, 8).WithPolicy(model.WriteOnly(model.Replace)),
		model.NewRegister("compare", 0, 32).WithAddressFunc(func() uint64 {
			return TimerBase + 0x10 + uint64(timerChannel.Load())*4
		}),
	)
}
