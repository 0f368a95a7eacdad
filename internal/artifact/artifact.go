// Package artifact holds the immutable output of a build and moves it to
// disk, archives and blob stores.
package artifact

import (
	"bytes"
	"fmt"
)

// Artifact is one named output document.
type Artifact struct {
	// Key is the logical output name, e.g. "ff_def" or "molecule_CO2_def".
	Key string
	// FileName is the name RASPA expects on disk.
	FileName string
	Content  []byte
	// Digest is the content-addressed identity (see digest.Artifact).
	Digest string
}

// Set is an ordered, immutable collection of artifacts. Accessors return
// copies so callers cannot mutate a built set.
type Set struct {
	items  []Artifact
	byKey  map[string]int
	byFile map[string]int
}

// NewSet assembles a set, keeping the given order. Keys and file names must
// be unique.
func NewSet(items ...Artifact) (*Set, error) {
	s := &Set{
		items:  make([]Artifact, 0, len(items)),
		byKey:  make(map[string]int, len(items)),
		byFile: make(map[string]int, len(items)),
	}
	for _, a := range items {
		if a.Key == "" || a.FileName == "" {
			return nil, fmt.Errorf("artifact requires key and file name")
		}
		if _, dup := s.byKey[a.Key]; dup {
			return nil, fmt.Errorf("duplicate artifact key %q", a.Key)
		}
		if _, dup := s.byFile[a.FileName]; dup {
			return nil, fmt.Errorf("duplicate artifact file name %q", a.FileName)
		}
		a.Content = bytes.Clone(a.Content)
		s.byKey[a.Key] = len(s.items)
		s.byFile[a.FileName] = len(s.items)
		s.items = append(s.items, a)
	}
	return s, nil
}

// Len returns the number of artifacts.
func (s *Set) Len() int {
	return len(s.items)
}

// All returns the artifacts in set order.
func (s *Set) All() []Artifact {
	out := make([]Artifact, len(s.items))
	for i, a := range s.items {
		a.Content = bytes.Clone(a.Content)
		out[i] = a
	}
	return out
}

// Keys returns artifact keys in set order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.items))
	for i, a := range s.items {
		keys[i] = a.Key
	}
	return keys
}

// Digests returns artifact digests in set order.
func (s *Set) Digests() []string {
	out := make([]string, len(s.items))
	for i, a := range s.items {
		out[i] = a.Digest
	}
	return out
}

// Get returns the artifact with the given key.
func (s *Set) Get(key string) (Artifact, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Artifact{}, false
	}
	a := s.items[i]
	a.Content = bytes.Clone(a.Content)
	return a, true
}

// File returns the artifact with the given file name.
func (s *Set) File(name string) (Artifact, bool) {
	i, ok := s.byFile[name]
	if !ok {
		return Artifact{}, false
	}
	return s.Get(s.items[i].Key)
}
