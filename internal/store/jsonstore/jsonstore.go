package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/longread/internal/log"
	"github.com/idilsaglam/longread/internal/model"
	"go.uber.org/zap"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; one editor per file.

const DefaultFileName = "longread.json"

// ErrNotExist is returned by Load when the document file is missing.
var ErrNotExist = os.ErrNotExist

type Store struct {
	Path string
}

// New returns a store for path, relative paths resolved against the working dir.
func New(path string) (Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return Store{}, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	return Store{Path: path}, nil
}

func (s Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

func (s Store) Load() (model.Document, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Document{}, fmt.Errorf("%s: %w", s.Path, ErrNotExist)
		}
		return model.Document{}, fmt.Errorf("read file: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Document{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.Version == 0 {
		doc.Version = model.ContentVersion
	}
	log.Get().Debug("document loaded", zap.String("path", s.Path), zap.Int("elements", len(doc.Elements)))
	return doc, nil
}

func (s Store) Save(doc model.Document) error {
	b, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := writeFile(s.Path, b); err != nil {
		return err
	}
	log.Get().Debug("document saved", zap.String("path", s.Path), zap.Int("bytes", len(b)))
	return nil
}

// writeFile replaces path through a temp file in the same directory, so a
// failed write never leaves a truncated document behind.
func writeFile(path string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Marshal renders doc the way Save writes it.
func Marshal(doc model.Document) ([]byte, error) {
	if doc.Elements == nil {
		doc.Elements = []model.Element{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}
