package lib10x

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// BarcodeLibrary names the paired read files of one barcoded library.
type BarcodeLibrary struct {
	Barcode string
	Left    string
	Right   string
}

// LibraryManifest is a list of library declarations, one per line:
//
//	<barcode> : "<left reads>" , "<right reads>"
type LibraryManifest struct {
	Libraries []*LibraryDecl `@@*`
}

type LibraryDecl struct {
	Barcode string `@Ident ":"`
	Left    string `@String ","`
	Right   string `@String`
}

var parseManifest = participle.MustBuild[LibraryManifest](
	participle.Unquote("String"),
)

// ParseLibraryManifest parses a manifest text into its library triples.
func ParseLibraryManifest(text string) ([]BarcodeLibrary, error) {
	manifest, err := parseManifest.ParseString("", text)
	if err != nil {
		return nil, errors.Wrap(err, "parsing library manifest")
	}

	libs := make([]BarcodeLibrary, 0, len(manifest.Libraries))
	for _, decl := range manifest.Libraries {
		libs = append(libs, BarcodeLibrary{
			Barcode: decl.Barcode,
			Left:    decl.Left,
			Right:   decl.Right,
		})
	}
	return libs, nil
}
