package attach

import (
	"testing"

	"memlayout/process"
	"memlayout/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveDump(t *testing.T) string {
	t.Helper()
	d := process_blob.NewDump()
	d.Metadata = process_blob.Metadata{PID: 7, Name: "game", Base: 0x400000}
	d.AddRegion(0x400000, []byte{0x4D, 0x5A, 0x90, 0x00})
	d.AddRegion(0x7F0000000000, []byte{0x00, 0x00, 0xDE, 0xAD, 0xBE, 0xEF})

	dir := t.TempDir()
	require.NoError(t, d.Save(dir))
	return dir
}

func TestBackendFromDump(t *testing.T) {
	dir := saveDump(t)

	finder, opener, err := Backend(Options{From: dir, Guard: 0x7F0000000000})
	require.NoError(t, err)

	info, err := process.FindFirst(finder, "game")
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(7), info.PID)

	d, err := opener(info.PID)
	require.NoError(t, err)
	guard, err := d.FindGuard()
	require.NoError(t, err)
	assert.Equal(t, process.Address(0x7F0000000000), guard)

	_, _, err = Backend(Options{From: t.TempDir()})
	assert.Error(t, err)
}

func TestBackendGuardPattern(t *testing.T) {
	dir := saveDump(t)

	aob, err := process.ParseAOB("de ad ?? ef")
	require.NoError(t, err)
	_, opener, err := Backend(Options{From: dir, GuardPattern: &aob})
	require.NoError(t, err)

	d, err := opener(0)
	require.NoError(t, err)
	guard, err := d.FindGuard()
	require.NoError(t, err)
	assert.Equal(t, process.Address(0x7F0000000000), guard)

	missing, err := process.ParseAOB("01 02 03")
	require.NoError(t, err)
	_, _, err = Backend(Options{From: dir, GuardPattern: &missing})
	assert.ErrorIs(t, err, process.BadGuard)
}

func TestScanDump(t *testing.T) {
	d := process_blob.NewBlob(0x400000, []byte{0x4D, 0x5A, 0x4D, 0x5A})

	aob, err := process.ParseAOB("4d 5a")
	require.NoError(t, err)
	matches, err := Scan(d, aob, 0)
	require.NoError(t, err)
	assert.Equal(t, []process.Address{0x400000, 0x400002}, matches)
}
