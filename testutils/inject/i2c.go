// Package inject provides bus implementations whose calls can be intercepted and recorded in
// tests.
package inject

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/saimusdev/bone-rt/components/board/buses"
)

// Transaction is one recorded bus call. Data holds the bytes written, or the bytes returned by
// a read.
type Transaction struct {
	Addr  byte
	Write bool
	Data  []byte
	Count int
	Err   error
}

// I2C is an injected I2C. Every write and read on its handles is recorded. The hooks run
// before the embedded bus: a hook returning an error fails the call, otherwise the call goes
// on to the embedded bus, or succeeds if there is none.
type I2C struct {
	buses.I2C
	OpenHandleFunc func(addr byte) (buses.I2CHandle, error)
	WriteFunc      func(ctx context.Context, addr byte, tx []byte) error
	ReadFunc       func(ctx context.Context, addr byte, count int) error

	mu      sync.Mutex
	journal []Transaction
}

// OpenHandle calls the injected OpenHandle or the real version, and wraps the handle so its
// traffic is recorded.
func (s *I2C) OpenHandle(addr byte) (buses.I2CHandle, error) {
	var inner buses.I2CHandle
	var err error
	switch {
	case s.OpenHandleFunc != nil:
		inner, err = s.OpenHandleFunc(addr)
	case s.I2C != nil:
		inner, err = s.I2C.OpenHandle(addr)
	}
	if err != nil {
		return nil, err
	}
	return &I2CHandle{parent: s, addr: addr, inner: inner}, nil
}

func (s *I2C) record(tr Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, tr)
}

// Transactions returns a copy of everything recorded so far.
func (s *I2C) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transaction(nil), s.journal...)
}

// Writes returns the data of every successful write to addr, in order.
func (s *I2C) Writes(addr byte) [][]byte {
	var out [][]byte
	for _, tr := range s.Transactions() {
		if tr.Write && tr.Addr == addr && tr.Err == nil {
			out = append(out, tr.Data)
		}
	}
	return out
}

// Reset forgets the recorded transactions.
func (s *I2C) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = nil
}

// I2CHandle is a recording handle returned by I2C.OpenHandle.
type I2CHandle struct {
	parent *I2C
	addr   byte
	inner  buses.I2CHandle
}

// Write calls the injected WriteFunc, then the real Write.
func (h *I2CHandle) Write(ctx context.Context, tx []byte) error {
	err := h.write(ctx, tx)
	h.parent.record(Transaction{Addr: h.addr, Write: true, Data: append([]byte(nil), tx...), Err: err})
	return err
}

func (h *I2CHandle) write(ctx context.Context, tx []byte) error {
	if h.parent.WriteFunc != nil {
		if err := h.parent.WriteFunc(ctx, h.addr, tx); err != nil {
			return err
		}
	}
	if h.inner == nil {
		return nil
	}
	return h.inner.Write(ctx, tx)
}

// Read calls the injected ReadFunc, then the real Read. Without a real handle it returns
// zeros.
func (h *I2CHandle) Read(ctx context.Context, count int) ([]byte, error) {
	data, err := h.read(ctx, count)
	h.parent.record(Transaction{Addr: h.addr, Data: append([]byte(nil), data...), Count: count, Err: err})
	return data, err
}

func (h *I2CHandle) read(ctx context.Context, count int) ([]byte, error) {
	if h.parent.ReadFunc != nil {
		if err := h.parent.ReadFunc(ctx, h.addr, count); err != nil {
			return nil, err
		}
	}
	if h.inner == nil {
		return make([]byte, count), nil
	}
	return h.inner.Read(ctx, count)
}

// Close closes the real handle.
func (h *I2CHandle) Close() error {
	if h.inner == nil {
		return nil
	}
	return errors.Wrapf(h.inner.Close(), "closing %#02x", h.addr)
}
