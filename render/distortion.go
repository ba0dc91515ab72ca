// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// InstallDistortionStages compiles correction stages for both eyes and
// appends them to the window's per-eye compositing chains, replacing
// whatever the chains held.
//
// Missing prerequisites are soft failures: a nil window or builder, a
// window that cannot be acquired, chains that do not accept user stages,
// or a builder that fails to compile its stages all log a warning and
// return (false, nil), leaving the session usable for tracking and
// parameter queries. Only compositor errors during installation are
// returned.
//
// Both stages are built before either chain is touched, so a failed
// build never leaves the window with one corrected eye.
func InstallDistortionStages(win Window, builder StageBuilder, dev DeviceHandle, left, right EyeStageConfig) (bool, error) {
	log := Logger()
	if win == nil {
		log.Warn("distortion stages skipped", "reason", "no window")
		return false, nil
	}
	if builder == nil {
		log.Warn("distortion stages skipped", "reason", "no stage builder")
		return false, nil
	}

	release, err := win.Acquire()
	if err != nil {
		log.Warn("distortion stages skipped", "reason", "window not acquirable", "error", err)
		return false, nil
	}
	defer release()

	comp := win.Compositor()
	if comp == nil {
		log.Warn("distortion stages skipped", "reason", "no compositor")
		return false, nil
	}
	for _, chain := range [2]string{ChainLeft, ChainRight} {
		if !comp.HookEnabled(chain) {
			log.Warn("distortion stages skipped", "reason", "chain hook disabled", "chain", chain)
			return false, nil
		}
	}

	leftStage, rightStage, err := builder.BuildStages(dev, left, right)
	if err != nil {
		log.Warn("distortion stages skipped", "reason", "stage build failed", "error", err)
		return false, nil
	}

	install := [2]struct {
		chain string
		stage *Stage
	}{
		{ChainLeft, leftStage},
		{ChainRight, rightStage},
	}
	for i, in := range install {
		err := comp.ClearChain(in.chain)
		if err == nil {
			err = comp.AppendStage(in.chain, in.stage)
		}
		if err != nil {
			// Stages not yet handed to the compositor are still ours.
			for _, rest := range install[i:] {
				rest.stage.Destroy()
			}
			return false, fmt.Errorf("render: install into chain %s: %w", in.chain, err)
		}
	}

	log.Info("distortion stages installed",
		"left_vertices", left.Mesh.VertexCount(),
		"right_vertices", right.Mesh.VertexCount())
	return true, nil
}
