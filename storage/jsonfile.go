package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// jsonDocument is a JSON file that is always read and written as a whole
type jsonDocument struct {
	path string
}

// read unmarshals the document into v; it returns false if the file does not exist
func (d jsonDocument) read(v any) (bool, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	if err = json.Unmarshal(data, v); err != nil {
		return false, errors.Wrapf(err, "could not parse '%s'", d.path)
	}
	return true, nil
}

// write replaces the document with the pretty-printed JSON of v. The data is
// written to a temporary file next to the document and renamed over it.
func (d jsonDocument) write(v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return errors.WithStack(err)
	}
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.WithStack(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
		_ = tmp.Close()
		return errors.WithStack(err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WithStack(err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp.Name(), d.path))
}
