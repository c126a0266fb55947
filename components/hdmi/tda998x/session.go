package tda998x

import (
	"context"

	"github.com/saimusdev/bone-rt/components/board/buses"
	"github.com/saimusdev/bone-rt/logging"
)

// Diagnostics counts events on the register path that are not reported as errors.
type Diagnostics struct {
	// WriteErrors is the number of failed writes, page selects included.
	WriteErrors int
	// PageSelects is the number of page select transactions issued.
	PageSelects int
}

// session is the page-aware register access to one transmitter. It holds the page the device
// is assumed to have latched; callers must serialize access.
type session struct {
	handle buses.I2CHandle
	addr   byte
	page   byte
	logger logging.Logger

	diag Diagnostics
}

func newSession(handle buses.I2CHandle, addr byte, logger logging.Logger) *session {
	return &session{handle: handle, addr: addr, logger: logger}
}

func (s *session) transportError(op string, reg Reg, err error) error {
	return &TransportError{Op: op, Addr: s.addr, Reg: reg, Err: err}
}

// writeFailed logs and counts a failed write. The caller's sequence carries on, which can
// leave the device partially configured.
func (s *session) writeFailed(err error) {
	s.diag.WriteErrors++
	s.logger.Errorw("register write failed", "error", err)
}

func (s *session) setPage(ctx context.Context, reg Reg) {
	page := reg.Page()
	if page == s.page {
		return
	}
	s.diag.PageSelects++
	s.logger.Debugw("page select", "page", page)
	if err := s.handle.Write(ctx, []byte{regCurPage, page}); err != nil {
		s.writeFailed(s.transportError("page select", NewReg(page, regCurPage), err))
	}
	// The shadow follows the request even when the select failed, so later accesses may
	// target the wrong page until the next successful select.
	s.page = page
}

func (s *session) readRange(ctx context.Context, reg Reg, count int) ([]byte, error) {
	s.setPage(ctx, reg)
	if err := s.handle.Write(ctx, []byte{reg.Offset()}); err != nil {
		err = s.transportError("read", reg, err)
		s.logger.Errorw("register read failed", "error", err)
		return nil, err
	}
	data, err := s.handle.Read(ctx, count)
	if err != nil {
		err = s.transportError("read", reg, err)
		s.logger.Errorw("register read failed", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *session) read(ctx context.Context, reg Reg) (byte, error) {
	data, err := s.readRange(ctx, reg, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (s *session) writeRange(ctx context.Context, reg Reg, data []byte) {
	s.setPage(ctx, reg)
	tx := make([]byte, 0, len(data)+1)
	tx = append(tx, reg.Offset())
	tx = append(tx, data...)
	if err := s.handle.Write(ctx, tx); err != nil {
		s.writeFailed(s.transportError("write", reg, err))
	}
}

func (s *session) write(ctx context.Context, reg Reg, val byte) {
	s.writeRange(ctx, reg, []byte{val})
}

// write16 writes val big endian to reg and the register after it.
func (s *session) write16(ctx context.Context, reg Reg, val uint16) {
	s.writeRange(ctx, reg, []byte{byte(val >> 8), byte(val)})
}

// set and clear are read-modify-write. A failed read is treated as zero and the write still
// goes out.
func (s *session) set(ctx context.Context, reg Reg, mask byte) {
	val, _ := s.read(ctx, reg)
	s.write(ctx, reg, val|mask)
}

func (s *session) clear(ctx context.Context, reg Reg, mask byte) {
	val, _ := s.read(ctx, reg)
	s.write(ctx, reg, val&^mask)
}
