package maps

import (
	"errors"
	"fmt"

	"golang.design/x/clipboard"
)

var ErrClipboardUnavailable = errors.New("maps: clipboard unavailable")

// Clipboard moves matrices through the system clipboard as JSON.
type Clipboard struct {
	ready bool
}

// NewClipboard initializes the system clipboard. On failure the returned
// clipboard is usable but every call reports ErrClipboardUnavailable.
func NewClipboard() (*Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return &Clipboard{}, fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
	return &Clipboard{ready: true}, nil
}

func (c *Clipboard) CopyMatrix(doc Document) error {
	if c == nil || !c.ready {
		return ErrClipboardUnavailable
	}
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

func (c *Clipboard) PasteMatrix() (Document, error) {
	if c == nil || !c.ready {
		return Document{}, ErrClipboardUnavailable
	}
	return Decode(clipboard.Read(clipboard.FmtText))
}
