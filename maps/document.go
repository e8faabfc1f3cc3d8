package maps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNoMatrix = errors.New("maps: document has no matrix")

// Document is a named tile matrix, the same shape the map service stores.
type Document struct {
	Name   string  `json:"map_name"`
	Matrix [][]int `json:"matrix"`
}

// Decode accepts either a bare JSON matrix or a Document.
func Decode(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Document{}, ErrNoMatrix
	}
	if data[0] == '[' {
		var m [][]int
		if err := json.Unmarshal(data, &m); err != nil {
			return Document{}, fmt.Errorf("maps: unmarshal matrix: %w", err)
		}
		if len(m) == 0 {
			return Document{}, ErrNoMatrix
		}
		return Document{Matrix: m}, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("maps: unmarshal document: %w", err)
	}
	if len(doc.Matrix) == 0 {
		return Document{}, ErrNoMatrix
	}
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("maps: marshal: %w", err)
	}
	return append(data, '\n'), nil
}

func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("maps: read %s: %w", path, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("maps: %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = nameFromPath(path)
	}
	return doc, nil
}

func WriteFile(path string, doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("maps: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("maps: write %s: %w", path, err)
	}
	return nil
}

func nameFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
