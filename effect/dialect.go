package effect

// Format versions.
const (
	VersionLegacy  byte = 9
	VersionCurrent byte = 10
)

// Magic starts every bundle and, in the current dialect, ends it.
var Magic = [4]byte{'G', 'F', 'X', 'B'}

// Dialect captures the differences between format versions. The decoder
// and encoder consult it wherever the versions disagree.
type Dialect struct {
	Version byte

	// WideCounts selects int32 list counts instead of one byte.
	WideCounts bool

	// WideIndices selects int32 indices with negative meaning none, instead
	// of one byte with 255 meaning none.
	WideIndices bool

	// WideParameterCounts selects an int32 parameter count in constant
	// buffers instead of a 7-bit encoded one.
	WideParameterCounts bool

	// StageByte selects an explicit stage byte instead of an is-vertex flag.
	StageByte bool

	// VertexAttributes adds reflected vertex inputs to each shader.
	VertexAttributes bool

	// TrailingSignature requires Magic after the last technique.
	TrailingSignature bool
}

// Legacy and Current are the two supported dialects.
var (
	Legacy = Dialect{Version: VersionLegacy}

	Current = Dialect{
		Version:             VersionCurrent,
		WideCounts:          true,
		WideIndices:         true,
		WideParameterCounts: true,
		StageByte:           true,
		VertexAttributes:    true,
		TrailingSignature:   true,
	}
)

// legacyNone is the legacy dialect's byte-wide "no index" marker.
const legacyNone = 255

// DialectFor returns the dialect of a format version.
func DialectFor(version byte) (Dialect, bool) {
	switch version {
	case VersionLegacy:
		return Legacy, true
	case VersionCurrent:
		return Current, true
	}
	return Dialect{}, false
}
