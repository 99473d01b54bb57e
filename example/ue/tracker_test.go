package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"testing"
	"time"

	"memlayout/compiler"
	"memlayout/memory"
	"memlayout/names"
	"memlayout/process"
	"memlayout/process_blob"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	base        = memory.Address(0x10000000)
	worldOffset = 0x100
	poolOffset  = 0x200
	nameBlock   = base + 0x3000

	world = base + 0x1000
	level = base + 0x1100
	array = base + 0x1200

	classObject = base + 0x1400
	classActor  = base + 0x1480
	classPawn   = base + 0x1500

	pawn      = base + 0x2000
	crate     = base + 0x2400
	ghost     = base + 0x2800
	component = base + 0x2C00
)

// name indexes, spaced so entries never overlap
const (
	nameObject = 8 * iota
	nameActor
	namePawn
	namePlayer
	nameCrate
	nameGhost
)

type image []byte

func (img image) u32(addr memory.Address, v uint32) {
	binary.LittleEndian.PutUint32(img[addr-base:], v)
}

func (img image) u64(addr memory.Address, v uint64) {
	binary.LittleEndian.PutUint64(img[addr-base:], v)
}

func (img image) f32(addr memory.Address, v float32) {
	img.u32(addr, math.Float32bits(v))
}

func (img image) name(idx int32, text string) {
	entry := nameBlock + memory.Address(idx)*names.DefaultStride
	binary.LittleEndian.PutUint16(img[entry+4-base:], uint16(len(text))<<1)
	copy(img[entry+6-base:], text)
}

func (img image) object(addr, class memory.Address, name int32) {
	img.u64(addr+names.DefaultClassOffset, uint64(class))
	img.u32(addr+names.DefaultNameOffset, uint32(name))
}

// level builds a persistent level holding a pawn, a hidden crate, an empty
// slot and an actor whose class pointer is garbage
func levelImage() image {
	img := make(image, 0x4000)

	img.u64(base+worldOffset, uint64(world))
	img.u64(base+poolOffset+0x10, uint64(nameBlock))
	for idx, text := range map[int32]string{
		nameObject: "Object",
		nameActor:  "Actor",
		namePawn:   "Pawn",
		namePlayer: "Player1",
		nameCrate:  "Crate",
		nameGhost:  "Ghost",
	} {
		img.name(idx, text)
	}

	img.u32(classObject+names.DefaultNameOffset, nameObject)
	img.u32(classActor+names.DefaultNameOffset, nameActor)
	img.u64(classActor+names.DefaultSuperOffset, uint64(classObject))
	img.u32(classPawn+names.DefaultNameOffset, namePawn)
	img.u64(classPawn+names.DefaultSuperOffset, uint64(classActor))

	img.u64(world+0x30, uint64(level))
	img.u64(level+0x98, uint64(array))
	img.u32(level+0x98+8, 4)
	img.u32(level+0x98+12, 4)
	img.u64(array, uint64(pawn))
	img.u64(array+8, uint64(crate))
	img.u64(array+24, uint64(ghost))

	img.object(pawn, classPawn, namePlayer)
	img.u64(pawn+0x130, uint64(component))
	img.f32(pawn+0x2C0, 75)
	img.f32(component+0x11C, 1)
	img.f32(component+0x120, 2)
	img.f32(component+0x124, 3)

	img.object(crate, classActor, nameCrate)
	img[crate+0x58-base] = 0x1

	img.object(ghost, 0, nameGhost)
	img.u64(ghost+names.DefaultClassOffset, 0xCCCCCCCCCCCCCCCC)

	return img
}

func newTestMemory(img image) (*memory.Memory, *names.ClassIdentity) {
	identity := names.NewClassIdentity(names.NewPool(base + poolOffset))
	d := process_blob.NewBlob(base, img)
	return memory.New(d, 0, base, memory.WithIdentity(identity)), identity
}

func TestFrame(t *testing.T) {
	m, identity := newTestMemory(levelImage())

	entities, err := NewTracker(worldOffset, identity).Frame(m)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	assert.Equal(t, Entity{
		Actor:    AActorPtr(pawn),
		Name:     "Player1",
		Class:    "Pawn",
		Location: FVector{X: 1, Y: 2, Z: 3},
		Pawn:     true,
		Health:   75,
	}, entities[0])

	assert.Equal(t, Entity{
		Actor:  AActorPtr(crate),
		Name:   "Crate",
		Class:  "Actor",
		Hidden: true,
	}, entities[1])
}

func TestFrameWithoutWorld(t *testing.T) {
	img := levelImage()
	img.u64(base+worldOffset, 0)
	m, identity := newTestMemory(img)

	_, err := NewTracker(worldOffset, identity).Frame(m)
	assert.ErrorIs(t, err, process.BadData)
}

func TestFrameBrokenActorArray(t *testing.T) {
	img := levelImage()
	// more elements than capacity is never read
	img.u32(level+0x98+8, 5)
	m, identity := newTestMemory(img)

	entities, err := NewTracker(worldOffset, identity).Frame(m)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestGeneratedAccessorsWrite(t *testing.T) {
	m, _ := newTestMemory(levelImage())
	actor := AActorPtr(crate)

	require.True(t, actor.WriteRemoteRole(m, 3))
	hidden, err := actor.ReadBHidden(m)
	require.NoError(t, err)
	assert.True(t, hidden)
	raw, err := actor.ReadRemoteRole(m)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7), raw)

	require.True(t, actor.WriteBHidden(m, false))
	raw, err = actor.ReadRemoteRole(m)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x6), raw)

	assert.False(t, AActorPtr(0x10).WriteBHidden(m, true))
}

func TestRunStopsWithContext(t *testing.T) {
	m, identity := newTestMemory(levelImage())
	tracker := NewTracker(worldOffset, identity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames [][]Entity
	err := tracker.Run(ctx, m, time.Millisecond, func(entities []Entity) {
		frames = append(frames, entities)
		if len(frames) == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, frames, 2)
	assert.Len(t, frames[1], 2)
}

func TestRender(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, render(buf, 3, []Entity{
		{Actor: AActorPtr(pawn), Name: "Player1", Class: "Pawn", Location: FVector{X: 1, Y: 2, Z: 3}, Pawn: true, Health: 75},
		{Actor: AActorPtr(crate), Name: "Crate", Class: "Actor", Hidden: true},
	}))

	assert.Equal(t, `frame 3: 2 actors
ACTOR      NAME    CLASS LOCATION    HEALTH HIDDEN
---------- ------- ----- ----------- ------ ------
0x10002000 Player1 Pawn  1.0 2.0 3.0   75.0 -
0x10002400 Crate   Actor 0.0 0.0 0.0      - yes
`, buf.String())
}

func TestRunFromDump(t *testing.T) {
	d := process_blob.NewBlob(base, levelImage())
	d.Metadata = process_blob.Metadata{PID: 9, Name: "game", Base: base, Guard: 0x7FF000000000}
	dir := t.TempDir()
	require.NoError(t, d.Save(dir))

	buf := &bytes.Buffer{}
	cmd := newCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--from", dir, "--process", "game", "--world", "0x100", "--names", "0x200", "--interval", "1ms", "--frames", "1"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "frame 1: 2 actors")
	assert.Contains(t, buf.String(), "Player1")
}

func TestGeneratedSourceIsCurrent(t *testing.T) {
	cfg, err := compiler.LoadConfig("layoutc.yaml")
	require.NoError(t, err)

	schema, src, err := compiler.Run(cfg)
	require.NoError(t, err)
	assert.Empty(t, schema.Diagnostics)

	current, err := os.ReadFile("offsets_gen.go")
	require.NoError(t, err)
	assert.Equal(t, string(src), string(current), "offsets_gen.go is stale, run go generate")
}

func TestFVector(t *testing.T) {
	d := FVector{X: 4, Y: 6, Z: 3}.Sub(FVector{X: 1, Y: 2, Z: 3})
	assert.Equal(t, FVector{X: 3, Y: 4}, d)
	assert.InDelta(t, 5, d.Len(), 1e-6)
}
