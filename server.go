// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/swaywm/go-wlroots/xkb"
	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"github.com/veighnsche/niri-sub001/tiler"
	"github.com/veighnsche/niri-sub001/util/multiplexer"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
)

type CursorMode int

const (
	CursorModePassThrough CursorMode = iota
	CursorModeMove
	CursorModeResize
)

func (m CursorMode) String() string {
	switch m {
	case CursorModePassThrough:
		return "pass-through"
	case CursorModeMove:
		return "move"
	case CursorModeResize:
		return "resize"
	}
	return "unknown"
}

// Size of outputs whose backend has no modes (nested and headless)
var fallbackOutputSize = generaldata.Sz(1280, 720)

// Where windows that are not on any visible row get parked
const offscreen = -1 << 20

const (
	commandQueueSize = 64
	eventQueueSize   = 256
)

type Server struct {
	display     wlroots.Display
	backend     wlroots.Backend
	renderer    wlroots.Renderer
	allocator   wlroots.Allocator
	scene       wlroots.Scene
	sceneLayout wlroots.SceneOutputLayout

	xdgShell wlroots.XDGShell

	cursor    wlroots.Cursor
	cursorMgr wlroots.XCursorManager

	seat       wlroots.Seat
	keyboards  []*Keyboard
	altHeld    bool
	cursorMode CursorMode
	grabbed    *wlWindow
	// Cursor position when the resize started
	grabStart  generaldata.Point
	lastScroll uint32

	outputLayout wlroots.OutputLayout
	outputs      []*serverOutput

	conf         *config.Config
	rules        *config.RuleSet
	clock        *animation.Clock
	layout       *tiler.Layout
	windows      map[tiler.WindowID]*wlWindow
	nextWindowID tiler.WindowID

	// Work handed to the compositor thread, drained every frame
	commands *multiplexer.ManyToOne[func()]
	// Layout events for everyone watching from other goroutines
	events *multiplexer.OneToMany[tiler.Event]
}

type Keyboard struct {
	dev wlroots.InputDevice
}

type serverOutput struct {
	output wlroots.Output
	info   tiler.OutputInfo
	// Left edge in the output layout, outputs are placed left to right
	x float64
}

func (server *Server) outputByName(name string) *serverOutput {
	for _, o := range server.outputs {
		if o.info.Name == name {
			return o
		}
	}
	return nil
}

// outputAt returns the output under a point in layout coordinates
func (server *Server) outputAt(x, y float64) *serverOutput {
	for _, o := range server.outputs {
		area := generaldata.Rect(o.x, 0, o.info.Size.W, o.info.Size.H)
		if area.Contains(generaldata.Pt(x, y)) {
			return o
		}
	}
	if len(server.outputs) > 0 {
		return server.outputs[0]
	}
	return nil
}

func (server *Server) relayoutOutputs() {
	x := 0.0
	for _, o := range server.outputs {
		o.x = x
		x += o.info.Size.W
	}
}

func (server *Server) windowOf(topLevel wlroots.XDGTopLevel) *wlWindow {
	for _, w := range server.windows {
		if w.topLevel == topLevel {
			return w
		}
	}
	return nil
}

// cursorOnOutput returns the cursor position relative to the output it is on
func (server *Server) cursorOnOutput() (*serverOutput, generaldata.Point) {
	o := server.outputAt(server.cursor.X(), server.cursor.Y())
	if o == nil {
		return nil, generaldata.Pt(server.cursor.X(), server.cursor.Y())
	}
	return o, generaldata.Pt(server.cursor.X()-o.x, server.cursor.Y())
}

func (server *Server) handleNewPointer(dev wlroots.InputDevice) {
	server.cursor.AttachInputDevice(dev)
}

func (server *Server) handleKey(keyboard wlroots.Keyboard, time uint32, keyCode uint32, updateState bool, state wlroots.KeyState) {
	// translate libinput keycode to xkbcommon and obtain keysyms
	syms := keyboard.XKBState().Syms(xkb.KeyCode(keyCode + 8))

	handled := false
	server.altHeld = keyboard.Modifiers()&wlroots.KeyboardModifierAlt != 0
	if server.altHeld && state == wlroots.KeyStatePressed {
		for _, sym := range syms {
			if server.handleKeyBinding(sym) {
				handled = true
			}
		}
	}

	if !handled {
		server.seat.SetKeyboard(keyboard.Base())
		server.seat.NotifyKeyboardKey(time, keyCode, state)
	}
}

func (server *Server) handleNewKeyboard(dev wlroots.InputDevice) {
	keyboard := dev.Keyboard()

	// Default keymap, the layout comes from the XKB_DEFAULT_* environment
	context := xkb.NewContext(xkb.KeySymFlagNoFlags)
	keymap := context.KeyMap()
	keyboard.SetKeymap(keymap)
	keymap.Destroy()
	context.Destroy()
	keyboard.SetRepeatInfo(25, 600)

	keyboard.OnModifiers(func(keyboard wlroots.Keyboard) {
		server.altHeld = keyboard.Modifiers()&wlroots.KeyboardModifierAlt != 0
		server.seat.SetKeyboard(dev)
		server.seat.NotifyKeyboardModifiers(keyboard)
	})
	keyboard.OnKey(server.handleKey)

	server.seat.SetKeyboard(dev)
	server.keyboards = append(server.keyboards, &Keyboard{dev: dev})
}

func (server *Server) handleNewInput(dev wlroots.InputDevice) {
	switch dev.Type() {
	case wlroots.InputDeviceTypePointer:
		server.handleNewPointer(dev)
	case wlroots.InputDeviceTypeKeyboard:
		server.handleNewKeyboard(dev)
	}

	// There is always a cursor, even without pointer devices
	caps := wlroots.SeatCapabilityPointer
	if len(server.keyboards) > 0 {
		caps |= wlroots.SeatCapabilityKeyboard
	}
	server.seat.SetCapabilities(caps)
}

// windowAt returns the window and surface under a point in layout coordinates
func (server *Server) windowAt(lx float64, ly float64) (*wlWindow, *wlroots.Surface, float64, float64) {
	node, sx, sy := server.scene.Tree().Node().At(lx, ly)
	if node.Nil() || node.Type() != wlroots.SceneNodeBuffer {
		return nil, nil, 0, 0
	}
	sceneSurface := node.SceneBuffer().SceneSurface()
	if sceneSurface.Nil() {
		return nil, nil, 0, 0
	}
	surface := sceneSurface.Surface()
	topLevel := surface.XDGSurface().TopLevel()
	return server.windowOf(topLevel), &surface, sx, sy
}

// runFrame brings the layout up to date and moves every scene node where the layout wants it
func (server *Server) runFrame() {
	server.clock.Clear()
	server.commands.Drain(func(f func()) { f() })

	for id, w := range server.windows {
		if w.refresh() {
			server.layout.UpdateWindow(id)
		}
	}
	if server.cursorMode == CursorModeMove && server.grabbed != nil {
		o, pos := server.cursorOnOutput()
		if o != nil {
			// Keeps the edge view scroll going while the pointer rests at the edge
			server.layout.InteractiveMoveUpdate(server.grabbed.id, o.info.Name, pos)
		}
	}
	server.layout.AdvanceAnimations()

	shown := make(map[tiler.WindowID]bool, len(server.windows))
	for _, o := range server.outputs {
		positions := server.layout.TilesWithRenderPositions(o.info.Name)
		// Topmost first, raise bottom up so the stacking matches
		for i := len(positions) - 1; i >= 0; i-- {
			p := positions[i]
			w, ok := server.windows[p.Tile.ID()]
			if !ok || shown[w.id] {
				continue
			}
			shown[w.id] = true
			geo := p.Geometry()
			w.placeAt(geo.Loc.Add(generaldata.Pt(o.x, 0)))
			if p.IsFloating {
				w.topLevel.Base().SceneTree().Node().RaiseToTop()
			}
		}
	}
	for id, w := range server.windows {
		if !shown[id] {
			w.placeAt(generaldata.Pt(offscreen, offscreen))
		}
	}
}

func (server *Server) handleNewFrame(output wlroots.Output) {
	server.runFrame()

	sOut, err := server.scene.SceneOutput(output)
	if err != nil {
		return
	}
	sOut.Commit()
	sOut.SendFrameDone(time.Now())
}

func (server *Server) handleOutputRequestState(output wlroots.Output, state wlroots.OutputState) {
	logrus.WithField("output", output.Name()).Debugln("New state request for output")
	output.CommitState(state)
}

func (server *Server) handleOutputDestroy(output wlroots.Output) {
	name := output.Name()
	logrus.WithField("name", name).Debugln("Output getting destroyed")
	server.outputs = sliceutils.Filter(server.outputs, func(o *serverOutput) bool {
		return o.info.Name != name
	})
	server.relayoutOutputs()
	server.layout.RemoveOutput(name)
}

func (server *Server) handleNewOutput(output wlroots.Output) {
	logrus.WithField("name", output.Name()).Debugln("New output added")

	// Configures the output created by the backend to use our allocator and our renderer.
	// Must be done once, before commiting the output
	output.InitRender(server.allocator, server.renderer)

	oState := wlroots.NewOutputState()
	oState.StateInit()
	oState.StateSetEnabled(true)

	size := fallbackOutputSize
	mode, err := output.PrefferedMode()
	if err == nil {
		oState.SetMode(mode)
		size = generaldata.Sz(float64(mode.Width()), float64(mode.Height()))
	}
	output.CommitState(oState)
	oState.Finish()

	output.OnFrame(server.handleNewFrame)
	output.OnRequestState(server.handleOutputRequestState)
	output.OnDestroy(server.handleOutputDestroy)

	// Outputs are arranged left to right in the order they appear
	lOutput := server.outputLayout.AddOutputAuto(output)
	sceneOutput := server.scene.NewOutput(output)
	server.sceneLayout.AddOutput(lOutput, sceneOutput)

	o := &serverOutput{
		output: output,
		info: tiler.OutputInfo{
			Name:  output.Name(),
			Size:  size,
			Scale: 1,
		},
	}
	server.outputs = append(server.outputs, o)
	server.relayoutOutputs()
	server.layout.AddOutput(o.info)

	if err = output.SetTitle(fmt.Sprintf("way2gay - %s", output.Name())); err != nil {
		logrus.WithError(err).WithField("output", output.Name()).Debugln("Failed to set output title")
	}
}

func (server *Server) handleCursorMotion(dev wlroots.InputDevice, time uint32, dx float64, dy float64) {
	server.cursor.Move(dev, dx, dy)
	server.processCursorMotion(time)
}

func (server *Server) handleCursorMotionAbsolute(dev wlroots.InputDevice, time uint32, x float64, y float64) {
	server.cursor.WarpAbsolute(dev, x, y)
	server.processCursorMotion(time)
}

func (server *Server) processCursorMotion(time uint32) {
	switch server.cursorMode {
	case CursorModeMove:
		if o, pos := server.cursorOnOutput(); o != nil {
			server.layout.InteractiveMoveUpdate(server.grabbed.id, o.info.Name, pos)
		}
		return
	case CursorModeResize:
		delta := generaldata.Pt(server.cursor.X(), server.cursor.Y()).Sub(server.grabStart)
		server.layout.InteractiveResizeUpdate(server.grabbed.id, delta)
		return
	}

	w, surface, sx, sy := server.windowAt(server.cursor.X(), server.cursor.Y())
	if w == nil {
		server.cursor.SetXCursor(server.cursorMgr, "default")
	}
	if surface != nil {
		server.seat.NotifyPointerEnter(*surface, sx, sy)
		server.seat.NotifyPointerMotion(time, sx, sy)
	} else {
		server.seat.ClearPointerFocus()
	}
}

func (server *Server) handleSetCursorRequest(client wlroots.SeatClient, surface wlroots.Surface, _ uint32, hotspotX int32, hotspotY int32) {
	// Any client can send this, only the one with pointer focus gets to pick the image
	focusedClient := server.seat.PointerState().FocusedClient()
	if focusedClient == client {
		server.cursor.SetSurface(surface, hotspotX, hotspotY)
	}
}

// endInteractive finishes a move or resize, dropping the window where it is
func (server *Server) endInteractive() {
	if server.grabbed != nil {
		switch server.cursorMode {
		case CursorModeMove:
			server.layout.InteractiveMoveEnd(server.grabbed.id)
		case CursorModeResize:
			server.layout.InteractiveResizeEnd(server.grabbed.id)
		}
	}
	server.cursorMode = CursorModePassThrough
	server.grabbed = nil
}

func (server *Server) handleCursorButton(_ wlroots.InputDevice, time uint32, button uint32, state wlroots.ButtonState) {
	server.seat.NotifyPointerButton(time, button, state)

	if state == wlroots.ButtonStateReleased {
		server.endInteractive()
		return
	}
	w, _, _, _ := server.windowAt(server.cursor.X(), server.cursor.Y())
	if w != nil {
		server.layout.ActivateWindow(w.id)
	} else if o, _ := server.cursorOnOutput(); o != nil {
		server.layout.FocusOutput(o.info.Name)
	}
}

func (server *Server) handleCursorAxis(_ wlroots.InputDevice, time uint32, source wlroots.AxisSource, orientation wlroots.AxisOrientation, delta float64, deltaDiscrete int32) {
	if server.altHeld && delta != 0 {
		// Mod+scroll switches rows, one row per notch with a short cooldown for smooth scrolling
		if time-server.lastScroll < 150 {
			return
		}
		server.lastScroll = time
		if delta > 0 {
			server.layout.FocusRowDown()
		} else {
			server.layout.FocusRowUp()
		}
		return
	}
	server.seat.NotifyPointerAxis(time, orientation, delta, deltaDiscrete, source)
}

func (server *Server) handleCursorFrame() {
	server.seat.NotifyPointerFrame()
}

// Keysyms that have no named constant in the bindings
const (
	keySymReturn   = xkb.KeySym(0xff0d)
	keySymLeft     = xkb.KeySym(0xff51)
	keySymUp       = xkb.KeySym(0xff52)
	keySymRight    = xkb.KeySym(0xff53)
	keySymDown     = xkb.KeySym(0xff54)
	keySymPageUp   = xkb.KeySym(0xff55)
	keySymPageDown = xkb.KeySym(0xff56)
	keySymMinus    = xkb.KeySym('-')
	keySymEqual    = xkb.KeySym('=')
)

// handleKeyBinding runs compositor keybindings. Assumes Alt is held down.
func (server *Server) handleKeyBinding(sym xkb.KeySym) bool {
	focused, hasFocus := server.layout.FocusedWindow()
	switch sym {
	case xkb.KeySymEscape:
		if server.cursorMode == CursorModeMove {
			// Drops the window back where the move started
			server.layout.InteractiveMoveCancel()
			server.cursorMode = CursorModePassThrough
			server.grabbed = nil
			break
		}
		server.display.Terminate()
	case xkb.KeySymF1, keySymRight:
		server.layout.FocusRight()
	case keySymLeft:
		server.layout.FocusLeft()
	case keySymUp:
		server.layout.FocusUp()
	case keySymDown:
		server.layout.FocusDown()
	case keySymPageUp:
		server.layout.FocusRowUp()
	case keySymPageDown:
		server.layout.FocusRowDown()
	case xkb.KeySym('h'):
		server.layout.MoveLeft()
	case xkb.KeySym('l'):
		server.layout.MoveRight()
	case xkb.KeySym('k'):
		server.layout.MoveWindowToRowUp()
	case xkb.KeySym('j'):
		server.layout.MoveWindowToRowDown()
	case xkb.KeySym('r'):
		server.layout.Do("switch-preset-column-width", func(c *tiler.Canvas2D) { c.ToggleWidth(true) })
	case xkb.KeySym('c'):
		server.layout.Do("center-column", func(c *tiler.Canvas2D) { c.CenterColumn() })
	case keySymMinus:
		server.layout.SetColumnWidth(tiler.SizeChange{Kind: tiler.ADJUST_PROPORTION, Value: -10})
	case keySymEqual:
		server.layout.SetColumnWidth(tiler.SizeChange{Kind: tiler.ADJUST_PROPORTION, Value: 10})
	case xkb.KeySym('f'):
		if hasFocus {
			server.layout.ToggleFullscreen(focused)
		}
	case xkb.KeySym('m'):
		if hasFocus {
			server.layout.ToggleMaximized(focused)
		}
	case xkb.KeySym('v'):
		if hasFocus {
			server.layout.ToggleWindowFloating(focused)
		}
	case keySymReturn:
		if server.conf.StartCommand == "" {
			return false
		}
		spawn(server.conf.StartCommand, os.Stdout)
	default:
		return false
	}
	return true
}

func (server *Server) handleMapXDGToplevel(xdgSurface wlroots.XDGSurface) {
	topLevel := xdgSurface.TopLevel()
	server.nextWindowID++
	w := newWlWindow(server, server.nextWindowID, topLevel)
	server.windows[w.id] = w
	logrus.WithFields(logrus.Fields{
		"window": w.id,
		"app-id": w.appID,
		"title":  w.title,
	}).Debugln("Toplevel mapped")
	server.layout.AddWindow(w, tiler.AddWindowTarget{}, true)
}

func (server *Server) handleUnMapXDGToplevel(xdgSurface wlroots.XDGSurface) {
	w := server.windowOf(xdgSurface.TopLevel())
	if w == nil {
		return
	}
	if server.grabbed == w {
		server.cursorMode = CursorModePassThrough
		server.grabbed = nil
	}
	delete(server.windows, w.id)
	w.ackPending()
	server.layout.RemoveWindow(w.id)
}

func (server *Server) handleNewXDGSurface(xdgSurface wlroots.XDGSurface) {
	logrus.WithField("surface", xdgSurface).Debugln("New surface inbound")

	if xdgSurface.Role() == wlroots.XDGSurfaceRolePopup {
		parent := xdgSurface.Popup().Parent()
		if parent.Nil() {
			logrus.WithField("surface", xdgSurface).Warnln("Popup without parent, ignoring")
			return
		}
		xdgSurface.SetData(parent.XDGSurface().SceneTree().NewXDGSurface(xdgSurface))
		return
	}
	if xdgSurface.Role() != wlroots.XDGSurfaceRoleTopLevel {
		logrus.WithFields(logrus.Fields{
			"surface": xdgSurface,
			"role":    xdgSurface.Role(),
		}).Warnln("Surface with unknown role, ignoring")
		return
	}

	xdgSurface.SetData(server.scene.Tree().NewXDGSurface(xdgSurface.TopLevel().Base()))
	xdgSurface.OnMap(server.handleMapXDGToplevel)
	xdgSurface.OnUnmap(server.handleUnMapXDGToplevel)
	xdgSurface.OnDestroy(func(surface wlroots.XDGSurface) {})

	toplevel := xdgSurface.TopLevel()
	toplevel.OnRequestMove(func(client wlroots.SeatClient, serial uint32) {
		server.beginInteractive(toplevel, CursorModeMove, 0)
	})
	toplevel.OnRequestResize(func(client wlroots.SeatClient, serial uint32, edges wlroots.Edges) {
		server.beginInteractive(toplevel, CursorModeResize, edges)
	})
}

func resizeEdgesOf(edges wlroots.Edges) tiler.ResizeEdge {
	var res tiler.ResizeEdge
	if edges&wlroots.EdgeTop != 0 {
		res |= tiler.RESIZE_EDGE_TOP
	}
	if edges&wlroots.EdgeBottom != 0 {
		res |= tiler.RESIZE_EDGE_BOTTOM
	}
	if edges&wlroots.EdgeLeft != 0 {
		res |= tiler.RESIZE_EDGE_LEFT
	}
	if edges&wlroots.EdgeRight != 0 {
		res |= tiler.RESIZE_EDGE_RIGHT
	}
	return res
}

// beginInteractive hands a client's move or resize request to the layout.
// From here on pointer events drive the layout instead of going to clients.
func (server *Server) beginInteractive(topLevel wlroots.XDGTopLevel, mode CursorMode, edges wlroots.Edges) {
	if topLevel.Base().Surface() != server.seat.PointerState().FocusedSurface() {
		// Deny move/resize requests from unfocused clients
		return
	}
	w := server.windowOf(topLevel)
	if w == nil || server.cursorMode != CursorModePassThrough {
		return
	}

	ok := false
	switch mode {
	case CursorModeMove:
		if o, pos := server.cursorOnOutput(); o != nil {
			ok = server.layout.InteractiveMoveBegin(w.id, o.info.Name, pos)
		}
	case CursorModeResize:
		server.grabStart = generaldata.Pt(server.cursor.X(), server.cursor.Y())
		ok = server.layout.InteractiveResizeBegin(w.id, resizeEdgesOf(edges))
	}
	if !ok {
		return
	}
	server.grabbed = w
	server.cursorMode = mode
	logrus.WithFields(logrus.Fields{
		"window": w.id,
		"mode":   mode,
	}).Debugln("Interactive grab started")
}

func (server *Server) GetOutputs() []wlroots.Output {
	res := make([]wlroots.Output, 0, len(server.outputs))
	for _, o := range server.outputs {
		res = append(res, o.output)
	}
	return res
}

// Schedule runs f on the compositor thread before the next frame
func (server *Server) Schedule(ctx context.Context, f func()) error {
	return server.commands.Send(ctx, f)
}

func NewServer(conf *config.Config) (server *Server, err error) {
	server = new(Server)
	server.conf = conf
	server.windows = map[tiler.WindowID]*wlWindow{}
	server.commands = multiplexer.NewManyToOne[func()](commandQueueSize)
	server.events = multiplexer.NewOneToMany[tiler.Event](eventQueueSize)

	server.rules, err = config.NewRuleSet(conf.WindowRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile window rules: %w", err)
	}
	server.clock = animation.NewClock()
	applyAnimationSpeed(server.clock, conf)
	server.layout = tiler.NewLayout(server.clock, tiler.OptionsFromConfig(conf))
	server.layout.SetEventHandler(func(ev tiler.Event) {
		server.events.Publish(ev)
	})

	server.display = wlroots.NewDisplay()

	// Picks the most suitable backend for the environment, e.g. an X11 window if an X11 server is running
	server.backend, err = server.display.BackendAutocreate()
	if err != nil {
		return nil, err
	}

	server.renderer, err = server.backend.RendererAutoCreate()
	if err != nil {
		return nil, err
	}
	server.renderer.InitDisplay(server.display)

	server.allocator, err = server.backend.AllocatorAutocreate(server.renderer)
	if err != nil {
		return nil, err
	}

	server.display.CompositorCreate(5, server.renderer)
	server.display.SubCompositorCreate()
	server.display.DataDeviceManagerCreate()

	server.outputLayout = wlroots.NewOutputLayout()
	server.backend.OnNewOutput(server.handleNewOutput)

	server.scene = wlroots.NewScene()
	server.sceneLayout = server.scene.AttachOutputLayout(server.outputLayout)

	server.xdgShell = server.display.XDGShellCreate(3)
	server.xdgShell.OnNewSurface(server.handleNewXDGSurface)

	server.cursor = wlroots.NewCursor()
	server.cursor.AttachOutputLayout(server.outputLayout)
	server.cursorMgr = wlroots.NewXCursorManager("", 24)

	server.cursorMode = CursorModePassThrough
	server.cursor.OnMotion(server.handleCursorMotion)
	server.cursor.OnMotionAbsolute(server.handleCursorMotionAbsolute)
	server.cursor.OnButton(server.handleCursorButton)
	server.cursor.OnAxis(server.handleCursorAxis)
	server.cursor.OnFrame(server.handleCursorFrame)
	server.cursorMgr.Load(1)

	server.backend.OnNewInput(server.handleNewInput)
	server.seat = server.display.SeatCreate("seat0")
	server.seat.OnSetCursorRequest(server.handleSetCursorRequest)

	return
}

// applyAnimationSpeed maps the animation slowdown onto the clock rate
func applyAnimationSpeed(clock *animation.Clock, conf *config.Config) {
	clock.SetCompleteInstantly(conf.Animations.Off)
	if conf.Animations.Slowdown > 0 {
		clock.SetRate(1 / conf.Animations.Slowdown)
	}
}

func (server *Server) Start() error {
	socket, err := server.display.AddSocketAuto()
	if err != nil {
		server.backend.Destroy()
		return fmt.Errorf("failed to add wayland socket: %w", err)
	}
	logrus.WithField("socket", socket).Debugln("got wl socket")

	// Enumerates outputs and inputs, becomes the DRM master etc
	if err = server.backend.Start(); err != nil {
		server.backend.Destroy()
		server.display.Destroy()
		return fmt.Errorf("failed to start backend: %w", err)
	}

	if res := os.Getenv("WAYLAND_DISPLAY"); res != "" {
		logrus.WithField("WAYLAND_DISPLAY", res).Debugln("Wayland display already set, overwriting")
	}
	if err = os.Setenv("WAYLAND_DISPLAY", socket); err != nil {
		return err
	}

	logrus.WithField("WAYLAND_DISPLAY", socket).Infoln("Running Wayland compositor")
	return nil
}

// Run runs the Wayland event loop until the compositor exits
func (server *Server) Run() error {
	server.display.Run()
	server.Close()
	return nil
}

// Close tears down the display and everything attached to it
func (server *Server) Close() {
	server.commands.Close()
	server.events.Close()
	server.display.DestroyClients()
	server.scene.Tree().Node().Destroy()
	server.cursorMgr.Destroy()
	server.outputLayout.Destroy()
	server.display.Destroy()
}

func (server *Server) Stop() {
	server.display.Terminate()
}
