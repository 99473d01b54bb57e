package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memlayout/memory"
	"memlayout/names"
	"memlayout/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Entity is one actor as read in a single frame
type Entity struct {
	Actor    AActorPtr
	Name     string
	Class    string
	Location FVector
	Hidden   bool

	// Pawn is set when the actor is an APawn; Health is only read then
	Pawn   bool
	Health float32
}

// Tracker reads the actors of the persistent level once per frame
type Tracker struct {
	// WorldOffset locates the global world pointer relative to the process base
	WorldOffset uint64
	Identity    *names.ClassIdentity

	log *logger.Logger
}

func NewTracker(worldOffset uint64, identity *names.ClassIdentity) *Tracker {
	return &Tracker{
		WorldOffset: worldOffset,
		Identity:    identity,
		log:         logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "tracker")),
	}
}

// Frame walks world -> persistent level -> actors. An actor that fails to
// read is left out of this frame only.
func (t *Tracker) Frame(m *memory.Memory) ([]Entity, error) {
	world, err := memory.Read[UWorldPtr](m, m.Base()+memory.Address(t.WorldOffset))
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if !world.IsValid() {
		return nil, fmt.Errorf("world pointer %s: %w", world, process.BadData)
	}

	level, err := world.ReadPersistentLevel(m)
	if err != nil {
		return nil, fmt.Errorf("persistent level: %w", err)
	}
	actors, err := level.ReadActors(m)
	if err != nil {
		return nil, fmt.Errorf("actors of %s: %w", level, err)
	}

	var entities []Entity
	for _, actor := range actors.Slice(m) {
		if !actor.IsValid() {
			continue
		}
		e, err := t.entity(m, actor)
		if err != nil {
			t.log.Debugln("Skipping actor", actor, err)
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func (t *Tracker) entity(m *memory.Memory, actor AActorPtr) (Entity, error) {
	e := Entity{Actor: actor}

	var err error
	if e.Name, err = t.Identity.Name(m, actor.Addr()); err != nil {
		return e, err
	}
	if e.Class, err = t.Identity.ClassName(m, actor.Addr()); err != nil {
		return e, err
	}
	if e.Hidden, err = actor.ReadBHidden(m); err != nil {
		return e, err
	}

	root, err := actor.ReadRootComponent(m)
	if err != nil {
		return e, err
	}
	if root.IsValid() {
		if e.Location, err = root.ReadRelativeLocation(m); err != nil {
			return e, err
		}
	}

	pawn, err := memory.TryCast[APawnPtr](m, actor)
	switch {
	case err == nil:
		e.Pawn = true
		if e.Health, err = pawn.ReadHealth(m); err != nil {
			return e, err
		}
	case !errors.Is(err, process.BadData):
		return e, err
	}

	return e, nil
}

// Run calls Frame every interval and hands each successful frame to report
// until ctx is done. Failed frames are logged and skipped.
func (t *Tracker) Run(ctx context.Context, m *memory.Memory, interval time.Duration, report func([]Entity)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			entities, err := t.Frame(m)
			if err != nil {
				t.log.Warn("Frame failed: ", err)
				continue
			}
			report(entities)
		}
	}
}
