package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/model"
)

func TestLoad_Missing(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "nope.json")}
	assert.False(t, s.Exists())
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestSaveLoad(t *testing.T) {
	s := Store{Path: filepath.Join(t.TempDir(), "sub", "doc.json")}

	minutes := 10
	doc := document.New("Intro")
	doc.ApproximateProgressTime = &minutes
	doc = document.Add(doc, document.NewElement(model.ElementList, document.Options{Ordered: true}))
	doc = document.Add(doc, document.NewElement(model.ElementText, document.Options{}))

	require.NoError(t, s.Save(doc))
	assert.True(t, s.Exists())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSave_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	s := Store{Path: filepath.Join(dir, "doc.json")}
	require.NoError(t, s.Save(document.New("first")))
	require.NoError(t, s.Save(document.New("second")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are renamed into place")
	assert.Equal(t, "doc.json", entries[0].Name())

	fi, err := os.Stat(s.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)
}

func TestLoad_BackfillsVersion(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"title":"x","longreadElements":[]}`), 0o644))

	got, err := Store{Path: p}.Load()
	require.NoError(t, err)
	assert.Equal(t, model.ContentVersion, got.Version)
}

func TestLoad_BadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(p, []byte(`{`), 0o644))

	_, err := Store{Path: p}.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestMarshal_WireShape(t *testing.T) {
	b, err := Marshal(model.Document{Title: "x", Version: 1})
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"longreadElements": []`)
	assert.Contains(t, s, `"approximateProgressTime": null`)
	assert.NotContains(t, s, "remoteId")
}

func TestNew_ResolvesRelative(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.Path))
	assert.Equal(t, DefaultFileName, filepath.Base(s.Path))
}
