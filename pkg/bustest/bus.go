// Package bustest provides an in-memory register bus for tests and
// simulation.
//
// The bus stores one value per register address and applies writes with
// the masked merge semantics every transport must provide. Per-address
// hooks replace the default storage to model registers with side effects,
// and every transaction is recorded.
package bustest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/regio-project/regio-go/pkg/bus"
	"github.com/regio-project/regio-go/pkg/model"
	"github.com/regio-project/regio-go/pkg/path"
)

// ErrUndefined is returned by reads of never-written registers under
// XError.
var ErrUndefined = errors.New("register value undefined")

// XPolicy decides what reading a never-written register returns.
type XPolicy uint8

const (
	// XZero reads undefined registers as 0.
	XZero XPolicy = iota

	// XOnes reads undefined registers as all ones.
	XOnes

	// XError fails reads of undefined registers with ErrUndefined.
	XError
)

// Op identifies a transaction type.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

// Transaction records one bus operation.
type Transaction struct {
	Op       Op
	Register string
	Address  uint64
	Mask     uint64    // read mask
	Write    bus.Write // write parameters
	Value    uint64    // value read, or value stored after a write
}

// ReadFunc produces the value of a register on read.
type ReadFunc func(addr uint64) uint64

// WriteFunc receives the merged value of a register on write.
type WriteFunc func(addr, value uint64)

type entry struct {
	value   uint64
	defined bool
	read    ReadFunc
	write   WriteFunc
}

// Bus is an in-memory bus.Bus. It is safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	regs    map[uint64]*entry
	x       XPolicy
	latency time.Duration
	async   bool
	log     []Transaction

	inFlight int
	peak     int
}

// Option configures a Bus.
type Option func(*Bus)

// WithXPolicy sets how undefined registers read.
func WithXPolicy(x XPolicy) Option {
	return func(b *Bus) { b.x = x }
}

// WithLatency delays every transaction by d and makes the bus
// asynchronous.
func WithLatency(d time.Duration) Option {
	return func(b *Bus) {
		b.latency = d
		b.async = true
	}
}

// WithBlocking makes the bus report that its operations may suspend.
func WithBlocking() Option {
	return func(b *Bus) { b.async = true }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{regs: make(map[uint64]*entry)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) entry(addr uint64) *entry {
	e, ok := b.regs[addr]
	if !ok {
		e = &entry{}
		b.regs[addr] = e
	}
	return e
}

// Reset clears all values, hooks and the transaction log.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs = make(map[uint64]*entry)
	b.log = nil
	b.peak = 0
}

// SetValue stores v at addr, going through the write hook if one is set.
// It is not recorded as a transaction.
func (b *Bus) SetValue(addr, v uint64) {
	b.mu.Lock()
	e := b.entry(addr)
	hook := e.write
	if hook == nil {
		e.value, e.defined = v, true
	}
	b.mu.Unlock()
	if hook != nil {
		hook(addr, v)
	}
}

// Value returns the value at addr, going through the read hook if one is
// set. ok is false for never-written registers without a hook.
func (b *Bus) Value(addr uint64) (v uint64, ok bool) {
	b.mu.Lock()
	e := b.entry(addr)
	hook := e.read
	v, ok = e.value, e.defined
	b.mu.Unlock()
	if hook != nil {
		return hook(addr), true
	}
	return v, ok
}

// SetReadFunc installs a read hook for addr.
func (b *Bus) SetReadFunc(addr uint64, fn ReadFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entry(addr).read = fn
}

// SetWriteFunc installs a write hook for addr.
func (b *Bus) SetWriteFunc(addr uint64, fn WriteFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entry(addr).write = fn
}

// Read returns the stored value of t.
func (b *Bus) Read(ctx context.Context, t bus.Target, mask uint64) (uint64, error) {
	if err := b.begin(ctx); err != nil {
		return 0, err
	}
	defer b.end()

	v, ok := b.Value(t.Address)
	if !ok {
		switch b.x {
		case XOnes:
			v = t.Mask()
		case XError:
			return 0, fmt.Errorf("%s at %#x: %w", t.Name, t.Address, ErrUndefined)
		}
	}
	v &= t.Mask()

	b.record(Transaction{Op: OpRead, Register: t.Name, Address: t.Address, Mask: mask, Value: v})
	return v, nil
}

// Write merges w into the stored value of t. Bits outside the write and
// identity masks keep their previous value; undefined registers start
// from 0.
func (b *Bus) Write(ctx context.Context, t bus.Target, w bus.Write) error {
	if err := b.begin(ctx); err != nil {
		return err
	}
	defer b.end()

	prev, _ := b.Value(t.Address)
	next := w.Apply(prev) & t.Mask()
	b.SetValue(t.Address, next)

	b.record(Transaction{Op: OpWrite, Register: t.Name, Address: t.Address, Write: w, Value: next})
	return nil
}

func (b *Bus) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	b.inFlight++
	if b.inFlight > b.peak {
		b.peak = b.inFlight
	}
	b.mu.Unlock()

	if b.latency > 0 {
		select {
		case <-ctx.Done():
			b.end()
			return ctx.Err()
		case <-time.After(b.latency):
		}
	}
	return nil
}

func (b *Bus) end() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
}

func (b *Bus) record(tx Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = append(b.log, tx)
}

// Synchronous reports false when the bus was configured to block.
func (b *Bus) Synchronous() bool { return !b.async }

// Transactions returns a copy of the transaction log.
func (b *Bus) Transactions() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transaction, len(b.log))
	copy(out, b.log)
	return out
}

// Count returns the number of transactions of op on the named register.
// An empty name counts all registers.
func (b *Bus) Count(op Op, register string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int
	for _, tx := range b.log {
		if tx.Op == op && (register == "" || tx.Register == register) {
			n++
		}
	}
	return n
}

// Reads returns the number of reads of the named register.
func (b *Bus) Reads(register string) int { return b.Count(OpRead, register) }

// Writes returns the number of writes of the named register.
func (b *Bus) Writes(register string) int { return b.Count(OpWrite, register) }

// ClearLog forgets recorded transactions but keeps register values.
func (b *Bus) ClearLog() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = nil
	b.peak = 0
}

// PeakConcurrency returns the largest number of transactions seen in
// progress at once.
func (b *Bus) PeakConcurrency() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.peak
}

// Set stores v in the register the path resolves to within g.
func (b *Bus) Set(g *model.Group, p string, v uint64) error {
	reg, err := register(g, p)
	if err != nil {
		return err
	}
	b.SetValue(reg.Address(), v&reg.Mask())
	return nil
}

// Get returns the stored value of the register the path resolves to
// within g.
func (b *Bus) Get(g *model.Group, p string) (uint64, bool, error) {
	reg, err := register(g, p)
	if err != nil {
		return 0, false, err
	}
	v, ok := b.Value(reg.Address())
	return v, ok, nil
}

func register(g *model.Group, p string) (*model.Register, error) {
	parsed, err := path.Parse(p)
	if err != nil {
		return nil, err
	}
	o := g.Resolve(parsed)
	if err := o.Err(); err != nil {
		return nil, err
	}
	reg := model.RegisterOf(o.Entity)
	if reg == nil {
		return nil, &model.ResolveError{From: g.Name(), Path: parsed, Result: path.Unresolved}
	}
	return reg, nil
}

var (
	_ bus.Bus         = (*Bus)(nil)
	_ bus.Synchronous = (*Bus)(nil)
)
