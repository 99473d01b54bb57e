package memory

import (
	"context"
	"fmt"
	"sync"

	"memlayout/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Session owns the attachment to one target process and publishes the
// Memory context once the attachment is complete.
type Session struct {
	finder process.Finder
	opener process.Opener
	opts   []Option
	log    *logger.Logger

	mu     sync.Mutex
	driver process.Driver
	mem    *Memory
	info   process.ProcessInfo
}

func NewSession(finder process.Finder, opener process.Opener, opts ...Option) *Session {
	return &Session{
		finder: finder,
		opener: opener,
		opts:   opts,
		log:    logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "session")),
	}
}

// Init finds processName, attaches, then discovers the guard and the process
// base. After the first success further calls return the same Memory.
// A failed Init leaves the session uninitialized and may be retried.
func (s *Session) Init(ctx context.Context, processName string) (*Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mem != nil {
		return s.mem, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := process.FindFirst(s.finder, processName)
	if err != nil {
		s.log.Warn("Unable to find process ", processName, ", is it running?")
		return nil, fmt.Errorf("find %s: %v: %w", processName, err, process.InvalidArgument)
	}

	driver, err := s.opener(info.PID)
	if err != nil {
		return nil, fmt.Errorf("attach %d: %w", info.PID, err)
	}

	guard, err := driver.FindGuard()
	if err != nil {
		s.detach(driver)
		return nil, err
	}

	base, err := driver.ProcessBase()
	if err != nil {
		s.detach(driver)
		return nil, err
	}

	s.driver = driver
	s.info = info
	s.mem = New(driver, guard, base, s.opts...)

	s.log.Infoln("Attached to", info.Name, "pid", info.PID, "base", base, "guard", guard)
	return s.mem, nil
}

// detach releases a driver that never became part of the session
func (s *Session) detach(driver process.Driver) {
	if err := driver.Close(); err != nil {
		s.log.Warn("Failed to close driver after failed init: ", err)
	}
}

// Memory returns the published context, or nil before a successful Init
func (s *Session) Memory() *Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem
}

func (s *Session) Process() process.ProcessInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Close detaches. The session can be initialized again afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver == nil {
		return nil
	}

	err := s.driver.Close()
	s.driver = nil
	s.mem = nil
	s.info = process.ProcessInfo{}
	return err
}
