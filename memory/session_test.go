package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"memlayout/process"
	"memlayout/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDump() *process_blob.Dump {
	d := process_blob.NewBlob(testBase, make([]byte, 16))
	d.Name = "game.exe"
	d.PID = 1234
	d.Base = 0x140000000
	d.Guard = 0x7FF600000000
	return d
}

func TestSessionInitOnce(t *testing.T) {
	d := newTestDump()
	attaches := 0
	opener := func(pid process.ProcessID) (process.Driver, error) {
		attaches++
		assert.Equal(t, process.ProcessID(1234), pid)
		return d, nil
	}

	s := NewSession(d, opener)
	m, err := s.Init(context.Background(), "game.exe")
	require.NoError(t, err)
	assert.Equal(t, Address(0x140000000), m.Base())
	assert.Equal(t, Address(0x7FF600000000), m.Guard())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := s.Init(context.Background(), "game.exe")
			assert.NoError(t, err)
			assert.Same(t, m, again)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, attaches)
	assert.Same(t, m, s.Memory())
	assert.Equal(t, "game.exe", s.Process().Name)

	require.NoError(t, s.Close())
	assert.Nil(t, s.Memory())
}

func TestSessionProcessNotFound(t *testing.T) {
	d := newTestDump()
	s := NewSession(d, d.Opener())

	_, err := s.Init(context.Background(), "other.exe")
	assert.ErrorIs(t, err, process.InvalidArgument)
	assert.Nil(t, s.Memory())
}

func TestSessionGuardFailure(t *testing.T) {
	d := newTestDump()
	d.Guard = 0
	s := NewSession(d, d.Opener())

	_, err := s.Init(context.Background(), "game.exe")
	assert.ErrorIs(t, err, process.BadGuard)

	// retry succeeds once the guard is discoverable
	d.Guard = 0x7FF600000000
	_, err = s.Init(context.Background(), "game.exe")
	assert.NoError(t, err)
}

func TestSessionAttachFailure(t *testing.T) {
	d := newTestDump()
	boom := errors.New("access denied")
	s := NewSession(d, func(process.ProcessID) (process.Driver, error) { return nil, boom })

	_, err := s.Init(context.Background(), "game.exe")
	assert.ErrorIs(t, err, boom)
}

func TestSessionCancelled(t *testing.T) {
	d := newTestDump()
	s := NewSession(d, d.Opener())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Init(ctx, "game.exe")
	assert.ErrorIs(t, err, context.Canceled)
}

type closeFailDriver struct {
	process.Driver
	closed bool
}

func (d *closeFailDriver) FindGuard() (process.Address, error) {
	return 0, fmt.Errorf("no guard: %w", process.BadGuard)
}

func (d *closeFailDriver) Close() error {
	d.closed = true
	return errors.New("handle already released")
}

func TestSessionFailedInitClosesDriver(t *testing.T) {
	d := newTestDump()
	drv := &closeFailDriver{Driver: d}
	s := NewSession(d, func(process.ProcessID) (process.Driver, error) { return drv, nil })

	_, err := s.Init(context.Background(), "game.exe")
	assert.ErrorIs(t, err, process.BadGuard)
	assert.True(t, drv.closed)
	assert.Nil(t, s.Memory())
	assert.NoError(t, s.Close())
}
