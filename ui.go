package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/tilepaint/session"
	"github.com/milk9111/tilepaint/tiles"
)

const panelWidth = 200

type panelHandlers struct {
	onTile    func(id int)
	onSave    func()
	onClear   func()
	onExample func()
	onCopy    func()
	onPaste   func()
}

// Panel is the left-hand side of the editor: palette, map name, actions and
// the status line.
type Panel struct {
	UI        *ebitenui.UI
	NameInput *widget.TextInput

	status    *widget.Text
	counter   *widget.Text
	nameLimit int
	group     *widget.RadioGroup
	buttons   map[int]*widget.Button
	selected  int
}

func buildPanel(fontFace *text.Face, kinds []tiles.Kind, selected, nameLimit int, h panelHandlers) *Panel {
	ui := &ebitenui.UI{}
	ui.PrimaryTheme = newPanelTheme(fontFace)

	left := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)

	p := &Panel{UI: ui, buttons: make(map[int]*widget.Button, len(kinds)), nameLimit: nameLimit, selected: -1}
	p.group = addPaletteSection(left, fontFace, kinds, p.buttons, h.onTile)
	p.NameInput, p.counter = addMapNameSection(left, fontFace, nameLimit, h.onSave)
	addActionsSection(left, ui.PrimaryTheme, fontFace, h)

	p.status = widget.NewText(
		widget.TextOpts.Text("", fontFace, color.White),
	)
	left.AddChild(p.status)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchVertical:    true,
	}
	root.AddChild(left)
	ui.Container = root

	p.SetSelected(selected)
	return p
}

func addPaletteSection(parent *widget.Container, fontFace *text.Face, kinds []tiles.Kind, buttons map[int]*widget.Button, onTile func(id int)) *widget.RadioGroup {
	parent.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Tiles", fontFace, labelColor),
	))

	grid := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(2),
				widget.GridLayoutOpts.Spacing(6, 6),
			),
		),
	)

	elements := make([]widget.RadioGroupElement, 0, len(kinds))
	ids := make(map[*widget.Button]int, len(kinds))
	for i, k := range kinds {
		label := k.Name
		if i < 10 {
			label = fmt.Sprintf("%d %s", i, k.Name)
		}
		fg := contrastText(k.Color)
		btn := widget.NewButton(
			widget.ButtonOpts.Image(tileButtonImage(k.Color)),
			widget.ButtonOpts.Text(label, fontFace, &widget.ButtonTextColor{Idle: fg, Hover: fg, Pressed: fg}),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(88, 32),
			),
		)
		buttons[k.ID] = btn
		ids[btn] = k.ID
		elements = append(elements, btn)
		grid.AddChild(btn)
	}
	parent.AddChild(grid)

	return widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onTile == nil {
				return
			}
			if b, ok := args.Active.(*widget.Button); ok {
				if id, ok := ids[b]; ok {
					onTile(id)
				}
			}
		}),
	)
}

// addMapNameSection adds the name field with a live rune count. Enter in the
// field saves.
func addMapNameSection(parent *widget.Container, fontFace *text.Face, limit int, onSubmit func()) (*widget.TextInput, *widget.Text) {
	header := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(2),
				widget.GridLayoutOpts.Spacing(12, 0),
			),
		),
	)
	header.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Map name", fontFace, labelColor),
	))
	count := widget.NewText(
		widget.TextOpts.Text(nameCount("", limit), fontFace, color.Gray{Y: 170}),
	)
	header.AddChild(count)

	input := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth-16, 28),
		),
		widget.TextInputOpts.Image(nameInputImage()),
		widget.TextInputOpts.Color(nameInputColor),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
			count.Label = nameCount(args.InputText, limit)
		}),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			if onSubmit != nil {
				onSubmit()
			}
		}),
	)
	parent.AddChild(header)
	parent.AddChild(input)
	return input, count
}

// nameCount is "n/limit", or just "n" when names are not capped.
func nameCount(name string, limit int) string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if limit <= 0 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d/%d", n, limit)
}

func addActionsSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, h panelHandlers) {
	actions := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewGridLayout(
				widget.GridLayoutOpts.Columns(2),
				widget.GridLayoutOpts.Spacing(6, 6),
			),
		),
	)
	add := func(label string, fn func()) {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(88, 28),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
		)
		actions.AddChild(btn)
	}
	add("Save", h.onSave)
	add("Clear", h.onClear)
	add("Copy", h.onCopy)
	add("Paste", h.onPaste)
	add("Example", h.onExample)
	parent.AddChild(actions)
}

// SetSelected highlights the palette button for id.
func (p *Panel) SetSelected(id int) {
	b, ok := p.buttons[id]
	if !ok || p.selected == id {
		return
	}
	p.selected = id
	p.group.SetActive(b)
}

func (p *Panel) SetStatus(st session.Status) {
	prefix := ""
	switch st.Level {
	case session.Success:
		prefix = "OK: "
	case session.Failure:
		prefix = "! "
	}
	p.status.Label = prefix + st.Text
}

func (p *Panel) MapName() string { return p.NameInput.GetText() }

func (p *Panel) SetMapName(name string) {
	p.NameInput.SetText(name)
	p.counter.Label = nameCount(name, p.nameLimit)
}

// Typing reports whether a text field has keyboard focus.
func (p *Panel) Typing() bool {
	_, ok := p.UI.GetFocusedWidget().(*widget.TextInput)
	return ok
}
