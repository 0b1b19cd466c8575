/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package backend defines the external-collaborator interface: the
// minimal surface a parsed-PDF object graph must expose for the core
// extraction pipeline to consume. Parsing the raw object graph itself —
// xref tables, object streams, decryption — is explicitly out of scope
// for this package. A real backend implementation (such as
// unidoc/unipdf's model.PdfReader, or the AOShei-pdf-loader /
// seehuhn-go-pdf parsers in the retrieval pack) wires its object graph
// to this interface; pdflayout's core never touches a raw PDF byte
// stream except the already-decompressed bytes this interface hands it.
package backend

import "github.com/unidoc/pdflayout/internal/pdferr"

// Value is a resolved PDF object as exposed across the backend boundary:
// a dynamically-typed tree mirroring PDF's own object model (dictionaries,
// arrays, names, numbers, strings, booleans, null, references already
// resolved). It intentionally mirrors internal/token.Operand's shape so
// font and resource resolution code can walk both with the same style of
// switch, but the two are kept as distinct types: Operand is a content
// stream's typed operand, Value is a document object graph node — they
// have different validity lifetimes and merging them would let a content
// stream operand be mistaken for a persistent document object.
type Value struct {
	Kind  ValueKind
	Int   int64
	Real  float64
	Name  string
	Str   []byte
	Array []Value
	Dict  map[string]Value
	Bool  bool
}

// ValueKind tags a Value's variant.
type ValueKind int

const (
	ValNull ValueKind = iota
	ValInt
	ValReal
	ValName
	ValString
	ValArray
	ValDict
	ValBool
)

// Number returns v as a float64 for ValInt/ValReal, ok=false otherwise.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case ValInt:
		return float64(v.Int), true
	case ValReal:
		return v.Real, true
	}
	return 0, false
}

// Rectangle is a PDF rectangle (MediaBox, CropBox, ...) in raw PDF
// (bottom-left origin) coordinates, before any display-geometry
// normalization.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Filter names a content/image stream filter as declared by the PDF
// object, passed through unexpanded except for the abbreviated inline
// image names the interpreter itself expands.
type Filter string

// PageRef is an opaque handle to one page within a Document, returned by
// GetPage and passed back into the page-geometry and resource-traversal
// methods. Backends are free to make it a pointer, an index, or anything
// else comparable.
type PageRef interface{}

// Bookmark is one flattened entry from /Outlines.
type Bookmark struct {
	Title     string
	Level     int
	PageIndex int
	DestTop   float64
}

// Metadata is the flattened /Info dictionary.
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
}

// FormField is one flattened /AcroForm/Fields entry.
type FormField struct {
	Name      string
	FieldType string
	Value     string
	PageIndex int
	Rect      Rectangle
}

// StructElement is one node of the /StructTreeRoot tree.
type StructElement struct {
	Tag      string
	MCID     *int
	PageIdx  *int
	Children []StructElement
}

// Annotation is one /Annots entry on a page.
type Annotation struct {
	Subtype string
	Rect    Rectangle
	URI     string // populated for Link annotations with a URI action
	Dest    string // populated for Link annotations with a named/explicit destination
}

// Document is the parsed-PDF object graph the core consumes: everything
// on the other side of it (xref parsing, object-stream decoding,
// decryption) is out of this module's scope.
type Document interface {
	PageCount() int
	GetPage(index int) (PageRef, error)

	// PageGeometry returns the five page boxes and rotation.
	// Boxes not present in the PDF fall back per the PDF spec's inheritance
	// rules (CropBox defaults to MediaBox, etc.) — the backend is
	// responsible for that fallback, not the core.
	PageGeometry(p PageRef) (mediaBox, cropBox, trimBox, bleedBox, artBox Rectangle, rotate int, err error)

	// PageResources returns the page's resolved /Resources dictionary
	// (Font, XObject, ExtGState, ColorSpace sub-dictionaries, with any
	// indirect references already resolved by the backend). Form
	// XObjects carry their own /Resources value nested in their XObject
	// dictionary, already reachable the same way once the interpreter has
	// the XObject's Value in hand — this is the one resources entry point
	// the core needs from the backend.
	PageResources(p PageRef) (Value, error)

	// ContentStream returns the page's decompressed content stream bytes.
	ContentStream(p PageRef) ([]byte, error)

	// StreamData returns the decompressed bytes of an arbitrary stream
	// object (e.g. a Form XObject's content, an image XObject's samples)
	// plus its declared filter name, if any.
	StreamData(v Value) ([]byte, Filter, error)

	Metadata() (Metadata, error)
	Bookmarks() ([]Bookmark, error)
	FormFields() ([]FormField, error)
	StructTree() ([]StructElement, error)
	Annotations(p PageRef) ([]Annotation, error)

	// Signatures reports whether the document carries digital signatures
	// and whether the backend considers them valid; verification detail
	// beyond that belongs to the backend, not this core.
	Signatures() []SignatureInfo
}

// SignatureInfo is a minimal digital-signature presence/validity report.
type SignatureInfo struct {
	Name  string
	Valid bool
}

// Opener opens raw PDF bytes into a Document. Encrypted-document
// semantics: Open on an encrypted document with no password
// yields PasswordRequired; OpenWithPassword with the wrong password yields
// InvalidPassword.
type Opener interface {
	Open(data []byte) (Document, error)
	OpenWithPassword(data []byte, password string) (Document, error)
}

// NewPasswordRequired and NewInvalidPassword are convenience constructors
// so backend implementations don't need to import internal/pdferr
// directly (it is an internal package, unreachable from outside the
// module tree) while still raising the structured errors callers expect.
func NewPasswordRequired() error { return &pdferr.PasswordRequired{} }

func NewInvalidPassword() error { return &pdferr.InvalidPassword{} }
