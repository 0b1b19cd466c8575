/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package pdffont_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unidoc/pdflayout/backend"
	"github.com/unidoc/pdflayout/internal/pdffont"
	"github.com/unidoc/pdflayout/internal/resources"
)

// fakeDocument is a minimal backend.Document exercising only the methods
// font resolution needs.
type fakeDocument struct {
	streams map[string][]byte
}

func (d *fakeDocument) PageCount() int                         { return 1 }
func (d *fakeDocument) GetPage(i int) (backend.PageRef, error) { return 0, nil }
func (d *fakeDocument) PageGeometry(p backend.PageRef) (backend.Rectangle, backend.Rectangle, backend.Rectangle, backend.Rectangle, backend.Rectangle, int, error) {
	return backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, backend.Rectangle{}, 0, nil
}
func (d *fakeDocument) PageResources(p backend.PageRef) (backend.Value, error) {
	return backend.Value{}, nil
}
func (d *fakeDocument) ContentStream(p backend.PageRef) ([]byte, error) { return nil, nil }
func (d *fakeDocument) StreamData(v backend.Value) ([]byte, backend.Filter, error) {
	key := string(v.Str)
	return d.streams[key], "", nil
}
func (d *fakeDocument) Metadata() (backend.Metadata, error)                         { return backend.Metadata{}, nil }
func (d *fakeDocument) Bookmarks() ([]backend.Bookmark, error)                      { return nil, nil }
func (d *fakeDocument) FormFields() ([]backend.FormField, error)                    { return nil, nil }
func (d *fakeDocument) StructTree() ([]backend.StructElement, error)                { return nil, nil }
func (d *fakeDocument) Annotations(p backend.PageRef) ([]backend.Annotation, error) { return nil, nil }
func (d *fakeDocument) Signatures() []backend.SignatureInfo                        { return nil }

func dictVal(d map[string]backend.Value) backend.Value {
	return backend.Value{Kind: backend.ValDict, Dict: d}
}
func nameVal(n string) backend.Value          { return backend.Value{Kind: backend.ValName, Name: n} }
func intVal(i int64) backend.Value            { return backend.Value{Kind: backend.ValInt, Int: i} }
func arrVal(a ...backend.Value) backend.Value { return backend.Value{Kind: backend.ValArray, Array: a} }

// fontChain builds a resources.Chain whose "/Font" sub-dictionary maps
// resourceName to fontDict, the shape the interpreter hands pdffont.
func fontChain(resourceName string, fontDict backend.Value) *resources.Chain {
	return resources.New(dictVal(map[string]backend.Value{
		"Font": dictVal(map[string]backend.Value{resourceName: fontDict}),
	}))
}

func TestSimpleFontMissing(t *testing.T) {
	doc := &fakeDocument{}
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(resources.New(backend.Value{}), "F2")
	require.Equal(t, 600.0, f.Width('A'))
	require.Equal(t, "A", f.Unicode('A'))
}

func TestSimpleFontWidthsAndWinAnsi(t *testing.T) {
	doc := &fakeDocument{}
	chain := fontChain("F1", dictVal(map[string]backend.Value{
		"Subtype":   nameVal("Type1"),
		"BaseFont":  nameVal("Helvetica"),
		"Encoding":  nameVal("WinAnsiEncoding"),
		"FirstChar": intVal(72),
		"Widths":    arrVal(intVal(722), intVal(556), intVal(278), intVal(278), intVal(389)),
	}))
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(chain, "F1")
	require.Equal(t, "Helvetica", f.Name)
	require.Equal(t, 722.0, f.Width('H'))
	require.Equal(t, "H", f.Unicode('H'))
}

func TestSimpleFontSubsetPrefixStripped(t *testing.T) {
	doc := &fakeDocument{}
	chain := fontChain("F1", dictVal(map[string]backend.Value{
		"Subtype":  nameVal("TrueType"),
		"BaseFont": nameVal("ABCDEF+MSGothic"),
	}))
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(chain, "F1")
	require.Equal(t, "MSGothic", f.Name)
}

func TestType0IdentityHTwoByteDecode(t *testing.T) {
	doc := &fakeDocument{}
	chain := fontChain("F1", dictVal(map[string]backend.Value{
		"Subtype":  nameVal("Type0"),
		"Encoding": nameVal("Identity-H"),
		"DescendantFonts": arrVal(dictVal(map[string]backend.Value{
			"DW": intVal(1000),
		})),
	}))
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(chain, "F1")
	codes := f.Decode([]byte{0x4E, 0x2D, 0x65, 0x87})
	require.Equal(t, []uint32{0x4E2D, 0x6587}, codes)
	require.True(t, f.IsCID)
}

func TestCIDWidthsArray(t *testing.T) {
	doc := &fakeDocument{}
	chain := fontChain("F1", dictVal(map[string]backend.Value{
		"Subtype":  nameVal("Type0"),
		"Encoding": nameVal("Identity-H"),
		"DescendantFonts": arrVal(dictVal(map[string]backend.Value{
			"DW": intVal(1000),
			"W": arrVal(
				intVal(1), arrVal(intVal(500), intVal(600)),
				intVal(10), intVal(12), intVal(777),
			),
		})),
	}))
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(chain, "F1")
	require.Equal(t, 500.0, f.Width(1))
	require.Equal(t, 600.0, f.Width(2))
	require.Equal(t, 777.0, f.Width(11))
	require.Equal(t, 1000.0, f.Width(999))
}

func TestFontResolutionFallsBackToParentResources(t *testing.T) {
	doc := &fakeDocument{}
	parent := fontChain("F1", dictVal(map[string]backend.Value{
		"Subtype":  nameVal("Type1"),
		"BaseFont": nameVal("Helvetica"),
	}))
	child := parent.Child(backend.Value{}) // Form XObject with no /Font of its own
	cache := pdffont.NewCache(doc, nil)
	f := cache.Get(child, "F1")
	require.Equal(t, "Helvetica", f.Name)
}
