package content

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Signature opens every content container.
var Signature = [4]byte{'G', 'C', 'N', 'T'}

// Platform is the target platform byte of a container.
type Platform byte

// Target platforms.
const (
	PlatformWindows       Platform = 'w'
	PlatformXbox360       Platform = 'x'
	PlatformWindowsPhone  Platform = 'm'
	PlatformIOS           Platform = 'i'
	PlatformAndroid       Platform = 'a'
	PlatformDesktopGL     Platform = 'd'
	PlatformMacOSX        Platform = 'X'
	PlatformWindowsStore  Platform = 'W'
	PlatformNativeClient  Platform = 'n'
	PlatformWindowsPhone8 Platform = 'M'
	PlatformRaspberryPi   Platform = 'r'
	PlatformPS4           Platform = 'P'
	PlatformPSVita        Platform = 'v'
	PlatformXboxOne       Platform = 'O'
	PlatformSwitch        Platform = 'S'
	PlatformStadia        Platform = 'G'
	PlatformWeb           Platform = 'b'
)

var platformNames = map[Platform]string{
	PlatformWindows:       "Windows",
	PlatformXbox360:       "Xbox360",
	PlatformWindowsPhone:  "WindowsPhone",
	PlatformIOS:           "iOS",
	PlatformAndroid:       "Android",
	PlatformDesktopGL:     "DesktopGL",
	PlatformMacOSX:        "MacOSX",
	PlatformWindowsStore:  "WindowsStore",
	PlatformNativeClient:  "NativeClient",
	PlatformWindowsPhone8: "WindowsPhone8",
	PlatformRaspberryPi:   "RaspberryPi",
	PlatformPS4:           "PlayStation4",
	PlatformPSVita:        "PSVita",
	PlatformXboxOne:       "XboxOne",
	PlatformSwitch:        "Switch",
	PlatformStadia:        "Stadia",
	PlatformWeb:           "Web",
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	_, ok := platformNames[p]
	return ok
}

func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Platform(%q)", byte(p))
}

// Header flags.
const (
	FlagHiDef            byte = 0x01
	FlagCompressedLZ4    byte = 0x40
	FlagCompressedLZX    byte = 0x80
	compressionMask           = FlagCompressedLZ4 | FlagCompressedLZX
	headerSize                = 4 + 1 + 1 + 1 + 4
	compressedHeaderSize      = headerSize + 4

	// maxLZ4Ratio bounds how far one compressed byte can expand in an LZ4
	// block.
	maxLZ4Ratio = 255
)

// Container versions.
const (
	VersionMin     byte = 4
	VersionCurrent byte = 5
)

// Header is the fixed prefix of a content container.
type Header struct {
	Platform Platform
	Version  byte
	Flags    byte

	// Size is the total container length including the header.
	Size uint32

	// DecompressedSize is the payload length after decompression, or zero
	// for uncompressed containers.
	DecompressedSize uint32
}

// HiDef reports whether the content targets the HiDef graphics profile.
func (h *Header) HiDef() bool { return h.Flags&FlagHiDef != 0 }

// Compressed reports whether the payload is compressed.
func (h *Header) Compressed() bool { return h.Flags&compressionMask != 0 }

// ReadHeader validates the container header of data and returns it with
// the decompressed payload.
func ReadHeader(data []byte) (*Header, []byte, error) {
	if len(data) < headerSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if [4]byte(data[:4]) != Signature {
		return nil, nil, fmt.Errorf("%w: %q", ErrBadSignature, data[:4])
	}

	h := &Header{
		Platform: Platform(data[4]),
		Version:  data[5],
		Flags:    data[6],
		Size:     binary.LittleEndian.Uint32(data[7:]),
	}
	if !h.Platform.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, data[4])
	}
	if h.Version != VersionMin && h.Version != VersionCurrent {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if int64(h.Size) > int64(len(data)) || h.Size < headerSize {
		return nil, nil, fmt.Errorf("%w: header claims %d bytes, have %d", ErrTruncated, h.Size, len(data))
	}

	switch {
	case h.Flags&FlagCompressedLZX != 0:
		return nil, nil, fmt.Errorf("%w: LZX", ErrUnsupportedCompression)
	case h.Flags&FlagCompressedLZ4 != 0:
		if h.Size < compressedHeaderSize {
			return nil, nil, fmt.Errorf("%w: compressed header", ErrTruncated)
		}
		h.DecompressedSize = binary.LittleEndian.Uint32(data[headerSize:])
		if limit := uint64(h.Size-compressedHeaderSize) * maxLZ4Ratio; uint64(h.DecompressedSize) > limit {
			return nil, nil, fmt.Errorf("%w: lz4 payload claims %d bytes from %d compressed",
				ErrTruncated, h.DecompressedSize, h.Size-compressedHeaderSize)
		}
		payload := make([]byte, h.DecompressedSize)
		n, err := lz4.UncompressBlock(data[compressedHeaderSize:h.Size], payload)
		if err != nil {
			return nil, nil, fmt.Errorf("content: lz4: %w", err)
		}
		if n != len(payload) {
			return nil, nil, fmt.Errorf("%w: lz4 payload is %d bytes, header claims %d",
				ErrTruncated, n, h.DecompressedSize)
		}
		return h, payload, nil
	default:
		return h, data[headerSize:h.Size], nil
	}
}

// WriteHeader prepends a container header to payload. With FlagCompressedLZ4
// set the payload is block-compressed, falling back to an uncompressed
// container when it does not shrink.
func WriteHeader(platform Platform, flags byte, payload []byte) ([]byte, error) {
	if !platform.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, byte(platform))
	}
	if flags&FlagCompressedLZX != 0 {
		return nil, fmt.Errorf("%w: LZX", ErrUnsupportedCompression)
	}

	body := payload
	size := headerSize
	if flags&FlagCompressedLZ4 != 0 {
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("content: lz4: %w", err)
		}
		if n == 0 || n >= len(payload) {
			flags &^= FlagCompressedLZ4
		} else {
			body = buf[:n]
			size = compressedHeaderSize
		}
	}

	out := make([]byte, size, size+len(body))
	copy(out, Signature[:])
	out[4] = byte(platform)
	out[5] = VersionCurrent
	out[6] = flags
	binary.LittleEndian.PutUint32(out[7:], uint32(size+len(body)))
	if size == compressedHeaderSize {
		binary.LittleEndian.PutUint32(out[headerSize:], uint32(len(payload)))
	}
	return append(out, body...), nil
}
