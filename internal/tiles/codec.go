package tiles

import (
	"encoding/binary"
	"errors"
	"fmt"

	"mapvault.dev/internal/grid"
)

// BinaryFormat is the single supported map.bin format version byte.
const BinaryFormat = 1

const headerLen = 5 // version byte + uint16 width + uint16 height

// ErrInvalidData marks a malformed or mismatched binary tile payload.
var ErrInvalidData = errors.New("tiles: invalid data")

// PickAnyIndex is the sub-tile sentinel meaning "pick by position". It is
// resolved on decode and never written back by Encode.
const PickAnyIndex = 0xFF

// encodedLen is the exact payload size for a width x height map:
// header, then 3 bytes per terrain record, then 2 per resource record.
func encodedLen(width, height int) int {
	return headerLen + width*height*3 + width*height*2
}

// ValidateHeader checks the version byte and that the encoded dimensions
// and total length agree with the declared map size. It reads only the
// header, so callers can fail fast before deferring the full decode.
func ValidateHeader(b []byte, width, height int) error {
	if len(b) < headerLen {
		return fmt.Errorf("%w: truncated header (%d bytes)", ErrInvalidData, len(b))
	}
	if b[0] != BinaryFormat {
		return fmt.Errorf("%w: unsupported binary format %d", ErrInvalidData, b[0])
	}
	w := int(binary.LittleEndian.Uint16(b[1:3]))
	h := int(binary.LittleEndian.Uint16(b[3:5]))
	if w != width || h != height {
		return fmt.Errorf("%w: size %dx%d does not match declared %dx%d", ErrInvalidData, w, h, width, height)
	}
	if len(b) != encodedLen(width, height) {
		return fmt.Errorf("%w: payload is %d bytes, want %d", ErrInvalidData, len(b), encodedLen(width, height))
	}
	return nil
}

// Decode parses a map.bin payload into terrain and resource layers.
// Records are read x-outer, y-inner. A terrain sub-tile index of
// PickAnyIndex decodes to (x%4 + (y%4)*4).
func Decode(b []byte, width, height int) (*grid.Layer[TerrainTile], *grid.Layer[ResourceTile], error) {
	if err := ValidateHeader(b, width, height); err != nil {
		return nil, nil, err
	}

	terrain := grid.NewLayer[TerrainTile](width, height)
	resources := grid.NewLayer[ResourceTile](width, height)

	off := headerLen
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			tt := binary.LittleEndian.Uint16(b[off : off+2])
			idx := b[off+2]
			if idx == PickAnyIndex {
				idx = byte(x%4 + (y%4)*4)
			}
			terrain.Set(x, y, TerrainTile{Type: tt, Index: idx})
			off += 3
		}
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			resources.Set(x, y, ResourceTile{Type: b[off], Index: b[off+1]})
			off += 2
		}
	}
	return terrain, resources, nil
}

// Encode serializes the layers into the map.bin layout. The two layers
// must share dimensions.
func Encode(terrain *grid.Layer[TerrainTile], resources *grid.Layer[ResourceTile]) []byte {
	width, height := terrain.Width(), terrain.Height()
	if resources.Width() != width || resources.Height() != height {
		panic(fmt.Sprintf("tiles: layer size mismatch %dx%d vs %dx%d",
			width, height, resources.Width(), resources.Height()))
	}

	b := make([]byte, 0, encodedLen(width, height))
	b = append(b, BinaryFormat)
	b = binary.LittleEndian.AppendUint16(b, uint16(width))
	b = binary.LittleEndian.AppendUint16(b, uint16(height))

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			t := terrain.At(x, y)
			b = binary.LittleEndian.AppendUint16(b, t.Type)
			b = append(b, t.Index)
		}
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			r := resources.At(x, y)
			b = append(b, r.Type, r.Index)
		}
	}
	return b
}
