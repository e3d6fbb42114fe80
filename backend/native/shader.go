package native

import (
	"fmt"

	"github.com/gogpu/naga"
)

// SPIRVWords reinterprets little-endian SPIR-V bytes as 32-bit words.
func SPIRVWords(code []byte) ([]uint32, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("native: empty SPIR-V bytecode")
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("native: SPIR-V length %d is not a multiple of 4", len(code))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = uint32(code[i*4]) |
			uint32(code[i*4+1])<<8 |
			uint32(code[i*4+2])<<16 |
			uint32(code[i*4+3])<<24
	}
	return words, nil
}

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}
	return SPIRVWords(spirvBytes)
}
