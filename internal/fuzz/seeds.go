package fuzztests

import (
	"os"
	"path/filepath"
	"testing"
)

const maxFuzzInput = 1 << 12 // 4 KiB

var inlineSeeds = []string{
	"",
	"42",
	"2+3*4",
	"(2+3)*4",
	"7-2-1",
	"1/0",
	"((((",
	"))",
	"1 @ 2",
	"99999999999999999999+1",
	"1 +\n* 2",
	"\ufeff1 +\r\n2",
	"中+@",
	"\t8 / ( 4 - 4 )\n",
}

// addSeeds adds the inline seeds and the driver golden inputs.
func addSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	paths, err := filepath.Glob(filepath.Join("..", "driver", "testdata", "golden", "*.flow"))
	if err != nil {
		return
	}
	for _, p := range paths {
		// #nosec G304 -- repository testdata
		if src, err := os.ReadFile(p); err == nil {
			f.Add(src)
		}
	}
}

func clamp(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
