package ui

import (
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/fdf-viewer/internal/engine/camera"
	"github.com/Faultbox/fdf-viewer/internal/engine/picking"
	"github.com/Faultbox/fdf-viewer/internal/engine/terrain"
)

const fixedWindow = imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

// drawControls draws the map and terrain parameter panel.
func (a *App) drawControls(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	if imgui.BeginV("Controls", nil, fixedWindow) {
		a.drawMapControls()
		a.drawTerrainControls()
		a.drawMotionControls()

		imgui.Separator()
		if imgui.Button("Screenshot") {
			a.shotRequested = true
		}
		imgui.SameLine()
		if imgui.Button("Save settings") {
			a.saveSettings()
		}
	}
	imgui.End()
}

func (a *App) drawMapControls() {
	if !imgui.CollapsingHeaderTreeNodeFlagsV("Maps", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	for i, name := range a.presets {
		if i%3 != 0 {
			imgui.SameLine()
		}
		if imgui.ButtonV(name, imgui.NewVec2(90, 0)) {
			a.Open(name)
		}
	}
	if imgui.ButtonV("Open FDF...", imgui.NewVec2(-1, 0)) {
		a.openFileDialog()
	}
	if imgui.ButtonV("Enter map", imgui.NewVec2(-1, 0)) {
		a.openEditor()
	}
}

func (a *App) drawTerrainControls() {
	if !imgui.CollapsingHeaderTreeNodeFlagsV("Terrain", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	s := a.ctrl.Settings()

	flat := s.FlatColor.Array()
	if imgui.ColorEdit3("Color", &flat) {
		a.report(a.ctrl.SetFlatColor(terrain.FromArray(flat)))
	}

	spacing := s.Spacing
	if imgui.SliderFloatV("Sizing", &spacing, minSpacing, maxSpacing, "%.2f", imgui.SliderFlagsNone) {
		a.report(a.ctrl.SetSpacing(spacing))
	}

	fading := s.GradientEnabled
	if imgui.Checkbox("Fading", &fading) {
		a.report(a.ctrl.SetGradientEnabled(fading))
	}

	imgui.BeginDisabledV(!fading)
	stops := s.Gradient.Stops()
	for i, st := range stops {
		c := st.Color.Array()
		if imgui.ColorEdit3(stopLabel(i, len(stops)), &c) {
			a.report(a.ctrl.SetStopColor(i, terrain.FromArray(c)))
		}
	}
	imgui.EndDisabled()

	imgui.Checkbox("Show bounds", &a.scene.ShowBounds)
	imgui.SameLine()
	imgui.Checkbox("Show axes", &a.scene.ShowAxes)
}

func (a *App) drawMotionControls() {
	if !imgui.CollapsingHeaderTreeNodeFlagsV("Motion", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	s := a.ctrl.Settings()

	for axis, label := range []string{"Rotation X", "Rotation Y", "Rotation Z"} {
		rate := s.Rotation[axis]
		if imgui.SliderFloatV(label, &rate, 0, maxRotation, "%.4f", imgui.SliderFlagsNone) {
			a.ctrl.SetRotation(axis, rate)
		}
	}

	speed := s.MoveSpeed
	if imgui.SliderFloatV("Move speed", &speed, minMoveSpeed, maxMoveSpeed, "%.0f", imgui.SliderFlagsNone) {
		a.ctrl.SetMoveSpeed(speed)
	}

	fov := s.FOV()
	if imgui.SliderFloatV("Field of view", &fov, minFOV, maxFOV, "%.0f deg", imgui.SliderFlagsNone) {
		a.report(a.ctrl.SetFOV(fov))
	}

	if imgui.Button("Reset rotation") {
		a.rig.Reset()
	}
	imgui.SameLine()
	if imgui.Button("Reframe") {
		a.report(a.ctrl.Rebuild())
	}
	imgui.TextDisabled("WASD move, R/F up/down, Q/E roll, arrows turn")
}

// drawViewport renders the scene offscreen and shows it as an image.
func (a *App) drawViewport(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	flags := fixedWindow | imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse
	if imgui.BeginV("Viewport", nil, flags) {
		avail := imgui.ContentRegionAvail()
		if avail.X >= 1 && avail.Y >= 1 {
			tex, err := a.scene.RenderOffscreen(int32(avail.X), int32(avail.Y))
			if err != nil {
				a.log.Error("offscreen render failed", zap.Error(err))
			} else {
				if a.shotRequested {
					a.shotRequested = false
					a.saveScreenshot()
				}

				// GL textures are bottom-up, so flip V.
				texRef := imgui.NewTextureRefTextureID(imgui.TextureID(tex))
				imgui.ImageWithBgV(
					*texRef,
					avail,
					imgui.NewVec2(0, 1),
					imgui.NewVec2(1, 0),
					imgui.NewVec4(0, 0, 0, 1),
					imgui.NewVec4(1, 1, 1, 1),
				)
				a.handleViewportInput(imgui.IsItemHovered())
			}
		}
	}
	imgui.End()
}

// handleViewportInput flies the camera while the pointer is over the viewport.
func (a *App) handleViewportInput(hovered bool) {
	io := imgui.CurrentIO()
	mouse := imgui.MousePos()
	defer func() { a.lastMouse = mouse }()
	a.hoverOK = false
	if !hovered {
		return
	}
	a.pick(mouse)

	cam := a.rig.Camera
	keys := camera.Controls{
		Forward:   IsKeyDown(imgui.KeyW),
		Back:      IsKeyDown(imgui.KeyS),
		Left:      IsKeyDown(imgui.KeyA),
		Right:     IsKeyDown(imgui.KeyD),
		Up:        IsKeyDown(imgui.KeyR),
		Down:      IsKeyDown(imgui.KeyF),
		RollLeft:  IsKeyDown(imgui.KeyQ),
		RollRight: IsKeyDown(imgui.KeyE),
		PitchUp:   IsKeyDown(imgui.KeyUpArrow),
		PitchDown: IsKeyDown(imgui.KeyDownArrow),
		YawLeft:   IsKeyDown(imgui.KeyLeftArrow),
		YawRight:  IsKeyDown(imgui.KeyRightArrow),
	}
	keys.Apply(cam, io.DeltaTime())

	if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		cam.HandleDrag(mouse.X-a.lastMouse.X, mouse.Y-a.lastMouse.Y)
	}
	if wheel := io.MouseWheel(); wheel != 0 {
		cam.Move(wheel, 0, 0, 0.1)
	}
}

// pick finds the terrain vertex under the pointer in the viewport image.
func (a *App) pick(mouse imgui.Vec2) {
	mesh, grid := a.ctrl.Mesh(), a.ctrl.Grid()
	if mesh == nil || grid == nil {
		return
	}
	origin, size := imgui.ItemRectMin(), imgui.ItemRectSize()
	if size.X < 1 || size.Y < 1 {
		return
	}
	inv := a.scene.ViewProjection(size.X / size.Y).Inv()
	ray := picking.ScreenToRay(mouse.X-origin.X, mouse.Y-origin.Y, size.X, size.Y, inv)
	a.hover, a.hoverOK = picking.PickTerrain(ray, grid, mesh.Bounds, a.ctrl.Settings().Spacing)
}

// drawStatus draws the bottom bar with the map summary and the last error.
func (a *App) drawStatus(x, y, w, h float32) {
	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))
	flags := fixedWindow | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("##Status", nil, flags) {
		st := a.ctrl.Status()
		vertices, edges := a.scene.Stats()
		imgui.Text(statusText(st, a.ctrl.Loading(), vertices, edges))

		pos := a.rig.WorldPosition()
		var ground float32
		var ok bool
		if g := a.ctrl.Grid(); g != nil {
			ground, ok = terrain.HeightAt(g, a.ctrl.Settings().Spacing, pos.X(), pos.Y())
		}
		imgui.SameLine()
		imgui.TextDisabled(groundText(ground, ok, pos.Z()))
		if text := pickText(a.hover, a.hoverOK); text != "" {
			imgui.SameLine()
			imgui.Text(text)
		}

		if st.Err != nil {
			imgui.SameLine()
			imgui.TextColored(imgui.NewVec4(1, 0.3, 0.3, 1), st.Err.Error())
		}
		if a.notice != "" && time.Since(a.noticeTime) < noticeTTL {
			imgui.SameLine()
			imgui.TextColored(imgui.NewVec4(0.4, 0.8, 0.4, 1), a.notice)
		}
	}
	imgui.End()
}

// drawEditor draws the "Enter map" window where FDF text can be typed or pasted.
func (a *App) drawEditor() {
	if !a.editor.open {
		return
	}
	imgui.SetNextWindowSizeV(imgui.NewVec2(480, 420), imgui.CondFirstUseEver)
	if imgui.BeginV("Enter map", &a.editor.open, imgui.WindowFlagsNone) {
		imgui.InputTextWithHint("##name", "Map name", &a.editor.name, 0, nil)
		size := imgui.NewVec2(-1, -imgui.FrameHeightWithSpacing())
		imgui.InputTextMultiline("##text", &a.editor.text, size, imgui.InputTextFlagsAllowTabInput, nil)

		if imgui.Button("Apply") {
			if name, text, ok := a.editor.submission(); ok {
				if a.ctrl.ApplyText(name, text) == nil {
					a.editor.open = false
				}
			} else {
				a.setNotice("map text is empty")
			}
		}
		imgui.SameLine()
		if imgui.Button("Close") {
			a.editor.open = false
		}
	}
	imgui.End()
}
