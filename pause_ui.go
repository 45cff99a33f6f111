package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/scrollbrawl/common"
	"github.com/milk9111/scrollbrawl/session"
)

var (
	white        = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor = &widget.ButtonTextColor{Idle: white}
)

func basicFace() *ebtext.Face {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	return &face
}

func centered() widget.WidgetOpt {
	return widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
}

// overlayPanel is the centred, semi-transparent box both overlays use.
func overlayPanel(children ...widget.PreferredSizeLocateableWidget) *ebitenui.UI {
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 200})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/2, common.BaseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	for _, c := range children {
		panel.AddChild(c)
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}

func button(label string, face *ebtext.Face, onClick func()) *widget.Button {
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text(label, face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(centered()),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

// NewPauseUI builds the in-level pause menu: resume or abandon to the hub.
func NewPauseUI(g *Game) *ebitenui.UI {
	face := basicFace()
	title := widget.NewText(
		widget.TextOpts.Text("Paused", face, white),
		widget.TextOpts.WidgetOpts(centered()),
	)
	resume := button("Resume", face, func() {
		g.paused = false
	})
	quit := button("Quit to hub", face, func() {
		g.paused = false
		g.rt.Session.ReturnToHub()
	})
	return overlayPanel(title, resume, quit)
}

type resultsUI struct {
	ui      *ebitenui.UI
	title   *widget.Text
	summary *widget.Text
	shown   session.Results
}

func newResultsUI(g *Game) *resultsUI {
	face := basicFace()
	r := &resultsUI{}
	r.title = widget.NewText(
		widget.TextOpts.Text("Level complete", face, white),
		widget.TextOpts.WidgetOpts(centered()),
	)
	r.summary = widget.NewText(
		widget.TextOpts.Text("", face, white),
		widget.TextOpts.WidgetOpts(centered()),
	)
	cont := button("Continue", face, func() {
		g.rt.Session.ReturnToHub()
	})
	r.ui = overlayPanel(r.title, r.summary, cont)
	return r
}

func (r *resultsUI) set(res session.Results) {
	if res == r.shown {
		return
	}
	r.shown = res
	r.title.Label = fmt.Sprintf("%s complete", res.LevelID)
	r.summary.Label = fmt.Sprintf("%d enemies defeated in %.1fs", res.Defeated, res.Elapsed.Seconds())
}
