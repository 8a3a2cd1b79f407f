package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/tidwall/gjson"
)

// ExportFilename is the archive member holding the conversation history.
const ExportFilename = "conversations.json"

// DefaultMaxExportBytes caps the uncompressed size of the export member.
const DefaultMaxExportBytes int64 = 512 << 20

var (
	ErrInvalidArchive = errors.New("invalid zip archive")
	ErrMissingExport  = errors.New("no " + ExportFilename + " found in archive")
	ErrMalformedJSON  = errors.New("invalid JSON in " + ExportFilename)
	ErrNoPrompts      = errors.New("no user prompts found in conversations")
)

// Document is the decoded export, still untyped.
type Document struct {
	// Member is the archive path the export was read from.
	Member string
	Root   gjson.Result
}

// Load opens a ZIP archive and decodes its conversation export.
// The first member, in archive order, whose path ends with ExportFilename wins.
func Load(data []byte, maxBytes int64) (*Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxExportBytes
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var member *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name, ExportFilename) {
			member = f
			break
		}
	}
	if member == nil {
		return nil, ErrMissingExport
	}

	raw, err := readMember(member, maxBytes)
	if err != nil {
		return nil, err
	}
	return Decode(member.Name, raw)
}

// Decode validates and parses raw export JSON.
func Decode(member string, raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformedJSON
	}
	return &Document{Member: member, Root: gjson.ParseBytes(raw)}, nil
}

func readMember(f *zip.File, maxBytes int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, f.Name, err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("%w: export exceeds %d bytes", ErrMalformedJSON, maxBytes)
	}
	return raw, nil
}
