package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Prompt is a modal one-line text input drawn over the canvas. Enter calls
// the callback with the typed text; Escape closes without calling it.
type Prompt struct {
	open    bool
	label   string
	input   []rune
	limit   int
	onEnter func(string)

	back  *ebiten.Image
	chars []rune
}

func NewPrompt() *Prompt { return &Prompt{} }

func (p *Prompt) IsOpen() bool { return p.open }

// Open shows the prompt. A positive limit shows a rune counter next to the
// input; it does not stop typing so the user sees why a save is refused.
func (p *Prompt) Open(label, initial string, limit int, onEnter func(string)) {
	p.label = label
	p.input = []rune(initial)
	p.limit = limit
	p.onEnter = onEnter
	p.open = true
}

func (p *Prompt) Close() {
	p.open = false
	p.label = ""
	p.input = p.input[:0]
	p.onEnter = nil
}

// Update consumes keyboard input while the prompt is open and reports
// whether it still is.
func (p *Prompt) Update() bool {
	if !p.open {
		return false
	}
	p.chars = ebiten.AppendInputChars(p.chars[:0])
	for _, r := range p.chars {
		if r == '\n' || r == '\r' {
			continue
		}
		p.input = append(p.input, r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(p.input) > 0 {
		p.input = p.input[:len(p.input)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		cur, fn := string(p.input), p.onEnter
		p.Close()
		if fn != nil {
			fn(cur)
		}
		return p.open
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.Close()
		return false
	}
	return true
}

func (p *Prompt) Draw(screen *ebiten.Image) {
	if !p.open {
		return
	}
	sw := screen.Bounds().Dx()
	sh := screen.Bounds().Dy()
	if p.back == nil || p.back.Bounds().Dx() != sw {
		if p.back != nil {
			p.back.Deallocate()
		}
		p.back = ebiten.NewImage(sw, 48)
		p.back.Fill(color.RGBA{A: 0xcc})
	}
	o := &ebiten.DrawImageOptions{}
	o.GeoM.Translate(0, float64(sh/2-24))
	screen.DrawImage(p.back, o)

	label := p.label
	if label == "" {
		label = "Input:"
	}
	line := label + " " + string(p.input) + "_"
	if p.limit > 0 {
		line += fmt.Sprintf("   (%d/%d)", len(p.input), p.limit)
	}
	ebitenutil.DebugPrintAt(screen, line, 16, sh/2-8)
	ebitenutil.DebugPrintAt(screen, "Enter to save, Esc to cancel", 16, sh/2+8)
}
