package pkgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoRounds        = errors.New("package has no rounds")
	ErrPackageNotFound = errors.New("package not found")
)

// Extensions accepted by the loader. JSON is read through the YAML decoder.
var Extensions = []string{".yaml", ".yml", ".json"}

// Decode reads a package document from YAML or JSON.
func Decode(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode package: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads a package document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, path)
		}
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Validate checks the structural requirements the engine relies on. Nil entries
// are rejected because the engine dereferences every round, theme and question.
func (d *Document) Validate() error {
	if len(d.Rounds) == 0 {
		return ErrNoRounds
	}
	for ri, r := range d.Rounds {
		if r == nil {
			return fmt.Errorf("round %d is empty", ri)
		}
		switch r.Type {
		case "", RoundStandard, RoundFinal:
		default:
			return fmt.Errorf("round %d: unknown round type %q", ri, r.Type)
		}
		for ti, t := range r.Themes {
			if t == nil {
				return fmt.Errorf("round %d theme %d is empty", ri, ti)
			}
			for qi, q := range t.Questions {
				if q == nil {
					return fmt.Errorf("round %d theme %d question %d is empty", ri, ti, qi)
				}
				if q.Price < 0 && q.Price != InvalidPrice {
					return fmt.Errorf("round %d theme %d question %d: negative price %d", ri, ti, qi, q.Price)
				}
			}
		}
	}
	return nil
}

// Library resolves package names to files inside a directory.
type Library struct {
	Dir string
}

// Names lists the packages available in the library, sorted.
func (l Library) Names() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list packages: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if isKnownExt(ext) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load opens the named package. Names never contain path separators.
func (l Library) Load(name string) (*Document, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrPackageNotFound, name)
	}
	for _, ext := range Extensions {
		path := filepath.Join(l.Dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPackageNotFound, name)
}

func isKnownExt(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
