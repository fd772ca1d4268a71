// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// Resizes smaller than this snap instead of animating
const resizeAnimationThreshold = 10.0

// Longest a tile stays at its old position waiting for the other windows of a transaction
const transactionTimeout = 300 * time.Millisecond

type moveAnimation struct {
	anim *animation.Animation
	from float64
}

type resizeAnimation struct {
	anim     *animation.Animation
	sizeFrom generaldata.Size
}

// Tile is one window together with its decorations and animation state
type Tile struct {
	window     Window
	sizingMode SizingMode

	border    config.BorderConfig
	focusRing config.BorderConfig
	shadow    config.ShadowConfig

	// 0 = normal, 1 = fullscreen
	fullscreenProgress *animation.Animation
	// 0 = normal, 1 = maximized or fullscreen
	expandedProgress *animation.Animation

	openAnim   *animation.Animation
	resizeAnim *resizeAnimation
	moveX      *moveAnimation
	moveY      *moveAnimation
	alphaAnim  *animation.Animation

	restoreToFloating bool
	// Remembered while the tile is not floating
	floatingWindowSize *generaldata.Size
	// Fraction of the working area
	floatingPos             *generaldata.Point
	floatingPresetWidthIdx  int
	floatingPresetHeightIdx int

	// Size request that has to be committed by every window before the tile moves
	pendingTx     *Transaction
	pendingSince  time.Duration
	lastRenderPos *generaldata.Point

	viewSize generaldata.Size
	scale    float64
	clock    *animation.Clock
	options  *Options
}

func NewTile(window Window, viewSize generaldata.Size, scale float64, clock *animation.Clock, options *Options) *Tile {
	t := &Tile{
		window:                  window,
		sizingMode:              window.SizingMode(),
		floatingPresetWidthIdx:  -1,
		floatingPresetHeightIdx: -1,
		viewSize:                viewSize,
		scale:                   scale,
		clock:                   clock,
		options:                 options,
	}
	t.recomputeDecorations()
	return t
}

func (t *Tile) Window() Window {
	return t.window
}

func (t *Tile) ID() WindowID {
	return t.window.ID()
}

func (t *Tile) SizingMode() SizingMode {
	return t.sizingMode
}

func (t *Tile) IsFullscreen() bool {
	return t.sizingMode.IsFullscreen()
}

func (t *Tile) rules() *config.ResolvedWindowRules {
	if r := t.window.Rules(); r != nil {
		return r
	}
	return &config.ResolvedWindowRules{}
}

func (t *Tile) recomputeDecorations() {
	rules := t.rules()
	t.border = t.options.Border.MergeWith(rules.Border)
	t.focusRing = t.options.FocusRing.MergeWith(rules.FocusRing)
	t.shadow = t.options.Shadow.MergeWith(rules.Shadow)
}

// UpdateConfig is called when the output or the options change
func (t *Tile) UpdateConfig(viewSize generaldata.Size, scale float64, options *Options) {
	t.viewSize = viewSize
	t.scale = scale
	t.options = options
	t.recomputeDecorations()
}

// UpdateWindow syncs the tile with a new window state
func (t *Tile) UpdateWindow() {
	if snapshot, ok := t.window.TakeAnimationSnapshot(); ok {
		size := t.window.Size()
		change := math.Max(math.Abs(size.W-snapshot.W), math.Abs(size.H-snapshot.H))
		if change > resizeAnimationThreshold {
			from := snapshot
			if t.resizeAnim != nil {
				from = t.animatedWindowSize()
			}
			t.resizeAnim = &resizeAnimation{
				anim:     animation.New(t.clock, 0, 1, 0, t.options.Animations.WindowResize),
				sizeFrom: from,
			}
		} else {
			t.resizeAnim = nil
		}
	}

	prev := t.sizingMode
	next := t.window.SizingMode()
	if prev.IsFullscreen() != next.IsFullscreen() {
		target := 0.0
		if next.IsFullscreen() {
			target = 1
		}
		t.fullscreenProgress = animation.New(t.clock, t.FullscreenProgress(), target, 0, t.options.Animations.WindowResize)
	}
	if prev.IsNormal() != next.IsNormal() {
		target := 1.0
		if next.IsNormal() {
			target = 0
		}
		t.expandedProgress = animation.New(t.clock, t.ExpandedProgress(), target, 0, t.options.Animations.WindowResize)
	}
	if prev != next {
		logrus.WithFields(logrus.Fields{
			"window": t.ID(),
			"from":   prev,
			"to":     next,
		}).Debugln("Tile sizing mode changed")
	}
	t.sizingMode = next
	t.recomputeDecorations()
}

// FullscreenProgress goes from 0 (normal) to 1 (fullscreen)
func (t *Tile) FullscreenProgress() float64 {
	if t.fullscreenProgress != nil {
		return util01(t.fullscreenProgress.ClampedValue())
	}
	if t.sizingMode.IsFullscreen() {
		return 1
	}
	return 0
}

// ExpandedProgress goes from 0 (normal) to 1 (maximized or fullscreen)
func (t *Tile) ExpandedProgress() float64 {
	if t.expandedProgress != nil {
		return util01(t.expandedProgress.ClampedValue())
	}
	if t.sizingMode.IsNormal() {
		return 0
	}
	return 1
}

func util01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// BorderWidth is the width of the border actually drawn around the window
func (t *Tile) BorderWidth() float64 {
	if !t.sizingMode.IsNormal() {
		return 0
	}
	return t.normalBorderWidth()
}

// normalBorderWidth is the border width the tile has once it is back to normal sizing
func (t *Tile) normalBorderWidth() float64 {
	if t.border.Off {
		return 0
	}
	return generaldata.RoundLogicalInPhysicalMax1(t.scale, t.border.Width)
}

func (t *Tile) FocusRingWidth() float64 {
	if t.focusRing.Off || t.sizingMode.IsFullscreen() {
		return 0
	}
	return generaldata.RoundLogicalInPhysicalMax1(t.scale, t.focusRing.Width)
}

func (t *Tile) WindowSize() generaldata.Size {
	s := t.window.Size()
	return generaldata.Size{
		W: generaldata.RoundLogicalInPhysical(t.scale, s.W),
		H: generaldata.RoundLogicalInPhysical(t.scale, s.H),
	}
}

func (t *Tile) animatedWindowSize() generaldata.Size {
	size := t.WindowSize()
	if r := t.resizeAnim; r != nil {
		v := r.anim.Value()
		size.W = r.sizeFrom.W + (size.W-r.sizeFrom.W)*v
		size.H = r.sizeFrom.H + (size.H-r.sizeFrom.H)*v
	}
	return size
}

func (t *Tile) decorate(size generaldata.Size) generaldata.Size {
	if bw := t.BorderWidth(); bw > 0 {
		size.W += 2 * bw
		size.H += 2 * bw
	}
	if t.sizingMode.IsFullscreen() {
		size = size.Max(t.viewSize)
	}
	return size
}

// TileSize is the window size plus decorations. A fullscreen tile covers at least the whole view.
func (t *Tile) TileSize() generaldata.Size {
	return t.decorate(t.WindowSize())
}

// AnimatedTileSize is TileSize while a resize animation is running
func (t *Tile) AnimatedTileSize() generaldata.Size {
	return t.decorate(t.animatedWindowSize())
}

// ExpectedTileSize is the tile size once the window acks its last size request
func (t *Tile) ExpectedTileSize() generaldata.Size {
	if s, ok := t.window.ExpectedSize(); ok {
		return t.decorate(s)
	}
	return t.TileSize()
}

// WindowLoc is the position of the window inside its tile, centered and pixel aligned
func (t *Tile) WindowLoc() generaldata.Point {
	win := t.animatedWindowSize()
	tile := t.AnimatedTileSize()
	loc := generaldata.Point{X: (tile.W - win.W) / 2, Y: (tile.H - win.H) / 2}
	return loc.ToPhysicalPrecise(t.scale)
}

// MinSize is the smallest tile size the window accepts, never below one pixel of content
func (t *Tile) MinSize() generaldata.Size {
	size := t.window.MinSize()
	rules := t.rules()
	size.W = math.Max(size.W, rules.MinWidth)
	size.H = math.Max(size.H, rules.MinHeight)
	bw := t.normalBorderWidth()
	size.W = math.Max(1, size.W) + 2*bw
	size.H = math.Max(1, size.H) + 2*bw
	return size
}

// MaxSize is the largest tile size the window accepts, zero components are unbounded
func (t *Tile) MaxSize() generaldata.Size {
	size := t.window.MaxSize()
	rules := t.rules()
	if rules.MaxWidth > 0 && (size.W == 0 || rules.MaxWidth < size.W) {
		size.W = rules.MaxWidth
	}
	if rules.MaxHeight > 0 && (size.H == 0 || rules.MaxHeight < size.H) {
		size.H = rules.MaxHeight
	}
	bw := t.normalBorderWidth()
	if size.W > 0 {
		size.W += 2 * bw
	}
	if size.H > 0 {
		size.H += 2 * bw
	}
	return size
}

func (t *Tile) TileHeightForWindowHeight(h float64) float64 {
	return h + 2*t.normalBorderWidth()
}

func (t *Tile) WindowHeightForTileHeight(h float64) float64 {
	return h - 2*t.normalBorderWidth()
}

func (t *Tile) TileWidthForWindowWidth(w float64) float64 {
	return w + 2*t.normalBorderWidth()
}

func (t *Tile) WindowWidthForTileWidth(w float64) float64 {
	return w - 2*t.normalBorderWidth()
}

// RequestTileSize asks the window for a size so that the tile ends up at size
func (t *Tile) RequestTileSize(size generaldata.Size, animate bool, tx *Transaction) {
	bw := t.normalBorderWidth()
	size.W = math.Max(size.W-2*bw, 1)
	size.H = math.Max(size.H-2*bw, 1)
	t.window.RequestSize(size.Floor(), SIZING_NORMAL, animate, tx)
	t.latchTransaction(tx)
}

// RequestMaximized asks the window to fill the parent area
func (t *Tile) RequestMaximized(parentSize generaldata.Size, animate bool, tx *Transaction) {
	t.window.RequestSize(parentSize.Floor(), SIZING_MAXIMIZED, animate, tx)
	t.latchTransaction(tx)
}

// RequestFullscreen asks the window to cover the whole view
func (t *Tile) RequestFullscreen(animate bool, tx *Transaction) {
	t.window.RequestSize(t.viewSize.Floor(), SIZING_FULLSCREEN, animate, tx)
	t.latchTransaction(tx)
}

// latchTransaction keeps the tile where it is shown until every window in tx committed
func (t *Tile) latchTransaction(tx *Transaction) {
	if tx == nil || tx.IsCompleted() {
		return
	}
	// A newer transaction replaces the old one but keeps its deadline
	if t.pendingTx == nil {
		t.pendingSince = t.clock.NowUnadjusted()
	}
	t.pendingTx = tx
	tx.OnDone(func() {
		if t.pendingTx == tx {
			t.pendingTx = nil
		}
	})
}

// IsTransactionPending reports whether the tile still waits on windows of its last transaction
func (t *Tile) IsTransactionPending() bool {
	if t.pendingTx == nil {
		return false
	}
	if t.clock.NowUnadjusted()-t.pendingSince >= transactionTimeout {
		logrus.WithFields(logrus.Fields{
			"window":      t.ID(),
			"transaction": t.pendingTx.ID(),
		}).Debugln("Transaction timed out, placing the tile anyway")
		t.pendingTx = nil
		return false
	}
	return true
}

// latchedRenderPos returns the last placed position while a transaction is pending, pos otherwise
func (t *Tile) latchedRenderPos(pos generaldata.Point) generaldata.Point {
	if t.IsTransactionPending() && t.lastRenderPos != nil {
		return *t.lastRenderPos
	}
	t.lastRenderPos = &pos
	return pos
}

// StartOpenAnimation fades and scales the tile in
func (t *Tile) StartOpenAnimation() {
	t.openAnim = animation.New(t.clock, 0, 1, 0, t.options.Animations.WindowOpen)
}

// OpenProgress goes from 0 to 1 while the tile opens
func (t *Tile) OpenProgress() float64 {
	if t.openAnim == nil {
		return 1
	}
	return t.openAnim.Value()
}

// AnimateMoveFrom makes the tile slide in from an offset relative to its new position
func (t *Tile) AnimateMoveFrom(from generaldata.Point) {
	t.AnimateMoveXFrom(from.X)
	t.AnimateMoveYFrom(from.Y)
}

func (t *Tile) AnimateMoveXFrom(from float64) {
	t.moveX = t.restartMove(t.moveX, from, t.RenderOffset().X)
}

func (t *Tile) AnimateMoveYFrom(from float64) {
	t.moveY = t.restartMove(t.moveY, from, t.RenderOffset().Y)
}

func (t *Tile) restartMove(prev *moveAnimation, from, currentOffset float64) *moveAnimation {
	var anim *animation.Animation
	if prev != nil {
		anim = prev.anim.Restarted(1, 0, 0)
	} else {
		anim = animation.New(t.clock, 1, 0, 0, t.options.Animations.WindowMovement)
	}
	return &moveAnimation{anim: anim, from: from + currentOffset}
}

// StopMoveAnimations drops any running move animation, e.g. when the tile is picked up
func (t *Tile) StopMoveAnimations() {
	t.moveX = nil
	t.moveY = nil
}

// AnimateAlpha fades the tile between two opacities
func (t *Tile) AnimateAlpha(from, to float64) {
	current := from
	if t.alphaAnim != nil {
		current = t.alphaAnim.Value()
	}
	t.alphaAnim = animation.New(t.clock, current, to, 0, t.options.Animations.WindowMovement)
}

// Alpha is the opacity to render the tile with
func (t *Tile) Alpha() float64 {
	alpha := 1.0
	if o := t.rules().Opacity; o != nil {
		alpha = util01(*o)
	}
	if t.alphaAnim != nil {
		alpha *= util01(t.alphaAnim.ClampedValue())
	}
	if t.openAnim != nil {
		alpha *= util01(t.openAnim.ClampedValue())
	}
	return alpha
}

// RenderOffset is how far the tile is drawn from its layout position because of move animations
func (t *Tile) RenderOffset() generaldata.Point {
	var off generaldata.Point
	if t.moveX != nil {
		off.X += t.moveX.from * t.moveX.anim.Value()
	}
	if t.moveY != nil {
		off.Y += t.moveY.from * t.moveY.anim.Value()
	}
	return off
}

// AdvanceAnimations drops every finished animation
func (t *Tile) AdvanceAnimations() {
	if t.openAnim != nil && t.openAnim.IsDone() {
		t.openAnim = nil
	}
	if t.resizeAnim != nil && t.resizeAnim.anim.IsDone() {
		t.resizeAnim = nil
	}
	if t.moveX != nil && t.moveX.anim.IsDone() {
		t.moveX = nil
	}
	if t.moveY != nil && t.moveY.anim.IsDone() {
		t.moveY = nil
	}
	if t.alphaAnim != nil && t.alphaAnim.IsDone() && t.alphaAnim.To() >= 1 {
		t.alphaAnim = nil
	}
	if t.fullscreenProgress != nil && t.fullscreenProgress.IsDone() {
		t.fullscreenProgress = nil
	}
	if t.expandedProgress != nil && t.expandedProgress.IsDone() {
		t.expandedProgress = nil
	}
}

func (t *Tile) AreAnimationsOngoing() bool {
	return t.openAnim != nil || t.resizeAnim != nil || t.moveX != nil || t.moveY != nil ||
		(t.alphaAnim != nil && !t.alphaAnim.IsDone()) ||
		t.fullscreenProgress != nil || t.expandedProgress != nil
}

// IsMoveAnimationOngoing reports whether the tile slides towards its position
func (t *Tile) IsMoveAnimationOngoing() bool {
	return t.moveX != nil || t.moveY != nil
}

func (t *Tile) RestoreToFloating() bool {
	return t.restoreToFloating
}

func (t *Tile) SetRestoreToFloating(v bool) {
	t.restoreToFloating = v
}

// FloatingPos is the remembered position as a fraction of the working area
func (t *Tile) FloatingPos() (generaldata.Point, bool) {
	if t.floatingPos == nil {
		return generaldata.Point{}, false
	}
	return *t.floatingPos, true
}

func (t *Tile) FloatingWindowSize() (generaldata.Size, bool) {
	if t.floatingWindowSize == nil {
		return generaldata.Size{}, false
	}
	return *t.floatingWindowSize, true
}

// Decorations are the resolved border, focus ring and shadow settings
func (t *Tile) Decorations() (border, focusRing config.BorderConfig, shadow config.ShadowConfig) {
	return t.border, t.focusRing, t.shadow
}

// CornerRadius is the geometry corner radius from window rules, faded out when expanded
func (t *Tile) CornerRadius() float64 {
	return t.rules().GeometryCornerRadius * (1 - t.ExpandedProgress())
}
