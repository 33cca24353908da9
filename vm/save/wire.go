// Package save provides the durable form of machine snapshots: a canonical
// CBOR wire encoding and a sqlite-backed slot store.
//
// The machine itself never touches persistence; the front-end feeds these
// helpers from its Save/Restore callbacks.
package save

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/grue/vm"
)

// FormatVersion is bumped whenever the envelope layout changes.
const FormatVersion = 1

// cborEncMode holds CBOR encoding options with canonical mode for
// deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("save: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Identity ties a snapshot to the story that produced it.
type Identity struct {
	Release  uint16
	Serial   string
	Checksum uint16
}

// Header offsets for identity extraction.
const (
	releaseOffset  = 0x02
	serialOffset   = 0x12
	serialLength   = 6
	checksumOffset = 0x1C
)

// IdentityFromStory reads the release/serial/checksum triple out of a story
// image.
func IdentityFromStory(image []byte) (Identity, error) {
	if len(image) < checksumOffset+2 {
		return Identity{}, fmt.Errorf("save: image too short for an identity")
	}
	return Identity{
		Release:  uint16(image[releaseOffset])<<8 | uint16(image[releaseOffset+1]),
		Serial:   string(image[serialOffset : serialOffset+serialLength]),
		Checksum: uint16(image[checksumOffset])<<8 | uint16(image[checksumOffset+1]),
	}, nil
}

// Key renders the identity as a stable string, used as the story key in the
// slot store.
func (id Identity) Key() string {
	return fmt.Sprintf("%d-%s-%04x", id.Release, id.Serial, id.Checksum)
}

// envelope is the on-wire shape of a saved game.
type envelope struct {
	Format   int      `cbor:"format"`
	Identity Identity `cbor:"identity"`

	PC           int      `cbor:"pc"`
	DynamicLimit int      `cbor:"dynamic_limit"`
	Dynamic      []byte   `cbor:"dynamic"`
	Stack        []uint16 `cbor:"stack"`
	FramePtr     int      `cbor:"frame_ptr"`
	FrameCount   int      `cbor:"frame_count"`
}

// Marshal serializes a snapshot with its story identity to CBOR bytes.
func Marshal(id Identity, snap *vm.Snapshot) ([]byte, error) {
	env := envelope{
		Format:       FormatVersion,
		Identity:     id,
		PC:           snap.PC,
		DynamicLimit: snap.DynamicLimit,
		Dynamic:      snap.Dynamic,
		Stack:        snap.Cells,
		FramePtr:     snap.FramePtr,
		FrameCount:   snap.FrameCount,
	}
	return cborEncMode.Marshal(&env)
}

// Unmarshal deserializes a saved game, returning the story identity it was
// taken from and the snapshot. The caller is responsible for checking the
// identity against the running story.
func Unmarshal(data []byte) (Identity, *vm.Snapshot, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Identity{}, nil, fmt.Errorf("save: unmarshal envelope: %w", err)
	}
	if env.Format != FormatVersion {
		return Identity{}, nil, fmt.Errorf("save: unsupported format %d", env.Format)
	}
	snap := &vm.Snapshot{
		PC:           env.PC,
		DynamicLimit: env.DynamicLimit,
		Dynamic:      env.Dynamic,
		Cells:        env.Stack,
		FramePtr:     env.FramePtr,
		FrameCount:   env.FrameCount,
	}
	return env.Identity, snap, nil
}
