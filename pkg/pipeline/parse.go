package pipeline

import (
	"bytes"
	"os"

	"github.com/matzehuels/flametower/pkg/errors"
	flameio "github.com/matzehuels/flametower/pkg/io"
)

// Source is raw input content with its format.
type Source struct {
	Name   string
	Format flameio.Format
	Data   []byte
}

// ReadSource loads path and detects its format from the extension.
func ReadSource(path string) (Source, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return Source{}, err
	}
	format, err := flameio.DetectFormat(path)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Source{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Source{Name: path, Format: format, Data: data}, nil
}

// Parse decodes and validates a source.
func Parse(src Source) (*flameio.Document, error) {
	doc, err := flameio.Read(bytes.NewReader(src.Data), src.Format)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidTree
		}
		return nil, errors.Wrap(code, err, "parse %s", src.Name)
	}
	return doc, nil
}
