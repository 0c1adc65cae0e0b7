// Package serial models the DMG's serial port as a no-op link partner: it
// accepts the transfer protocol on SB/SC but has nothing on the other end,
// so it logs outgoing bytes instead of exchanging them with a peer. This is
// enough to drive test ROMs that report results over the serial link.
package serial

import (
	"log/slog"

	"dmgo/addr"
	"dmgo/bit"
)

// LogSink implements SB/SC by echoing written bytes out as log lines (and,
// for test tooling, keeping a history of completed lines) rather than
// transmitting to a real link partner.
type LogSink struct {
	irqHandler     func()
	sb, sc         byte
	transferActive bool
	countdown      int
	logger         *slog.Logger

	immediate bool
	defaultRX byte

	line  []byte
	lines []string
}

type LogSinkOption func(*LogSink)

// WithFixedTiming makes transfers complete after the real DMG-accurate
// ~4096-cycle-per-byte countdown instead of instantly.
func WithFixedTiming() LogSinkOption { return func(s *LogSink) { s.immediate = false } }

// NewLogSink creates a serial device that calls irq when a transfer
// completes (wired to request the Serial interrupt).
func NewLogSink(irq func(), opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		immediate:  true,
		defaultRX:  0xFF,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

func (s *LogSink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStartTransfer()
	}
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *LogSink) Tick(cycles int) {
	if s.immediate || !s.transferActive {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.completeTransfer()
		s.countdown = 0
	}
}

func (s *LogSink) Reset() {
	s.sb = 0x00
	s.sc = 0x00
	s.transferActive = false
	s.countdown = 0
	s.line = s.line[:0]
}

// Lines returns the newline-terminated output captured so far, in order.
// Intended for test tooling (e.g. detecting "Passed all tests" from a
// Blargg-style cpu_instrs ROM) rather than normal emulation use.
func (s *LogSink) Lines() []string {
	return s.lines
}

func (s *LogSink) maybeStartTransfer() {
	if s.transferActive {
		return
	}
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.lines = append(s.lines, string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.completeTransfer()
		return
	}

	s.transferActive = true
	s.countdown = 4096
}

func (s *LogSink) completeTransfer() {
	s.sb = s.defaultRX
	s.sc = bit.Reset(7, s.sc)
	s.transferActive = false
	if s.irqHandler != nil {
		s.irqHandler()
	}
}
