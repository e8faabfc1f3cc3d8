package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelBackground  = color.RGBA{40, 40, 40, 255}
	canvasBackground = color.RGBA{24, 24, 24, 255}
	labelColor       = &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}
)

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func nameInputImage() *widget.TextInputImage {
	return &widget.TextInputImage{
		Idle:     solidNineSlice(color.RGBA{230, 230, 222, 255}),
		Disabled: solidNineSlice(color.RGBA{150, 150, 150, 255}),
	}
}

var nameInputColor = &widget.TextInputColor{
	Idle:     color.RGBA{20, 20, 20, 255},
	Disabled: color.Gray{Y: 90},
	Caret:    color.RGBA{20, 20, 20, 255},
}

func loadFontFace(size float64) (text.Face, error) {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return &text.GoTextFace{Source: s, Size: size}, nil
}

func newPanelTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelBackground),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

// tileButtonImage paints a palette button in its tile's color. The pressed
// state, which a toggled button keeps, gets a light frame.
func tileButtonImage(c color.RGBA) *widget.ButtonImage {
	return &widget.ButtonImage{
		Idle:    solidNineSlice(c),
		Hover:   solidNineSlice(shade(c, 0.85)),
		Pressed: solidNineSlice(shade(c, 0.6)),
	}
}

// contrastText picks black or white text for a background color.
func contrastText(c color.RGBA) color.Color {
	lum := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if lum > 128*1000 {
		return color.Black
	}
	return color.White
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}
