package rift

import (
	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

// PerformPostWindowOpenSetup finishes display setup after the host opens
// its stereo window: it makes sure both eyes are resolved, compiles the
// lens-correction stages with the session's stage builder, and installs
// them into the window's per-eye compositing chains.
//
// The return value reports whether stages were installed. Missing
// prerequisites (no window, no stage builder, compositor hooks disabled)
// and stage build failures such as a shader that will not compile are
// not errors: setup logs a warning and returns (false, nil), and the
// session keeps working for tracking and parameter queries. Errors are
// reserved for bad handles and compositor failures during installation.
func (s *Session) PerformPostWindowOpenSetup(handle int, win render.Window, dev render.DeviceHandle) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.lookup(handle)
	if err != nil {
		return false, err
	}

	if s.opts.stageBuilder == nil {
		Logger().Warn("post-window setup skipped", "handle", handle, "reason", "no stage builder")
		return false, nil
	}
	if win == nil {
		Logger().Warn("post-window setup skipped", "handle", handle, "reason", "no window")
		return false, nil
	}

	// Eyes the caller has not resolved get device defaults.
	for eye := hmd.EyeLeft; eye < hmd.EyeCount; eye++ {
		if d.eyes[eye] == nil {
			if _, err := s.resolveEye(d, eye, nil); err != nil {
				return false, err
			}
		}
	}

	configs := [hmd.EyeCount]render.EyeStageConfig{}
	for eye := hmd.EyeLeft; eye < hmd.EyeCount; eye++ {
		src, size, err := win.SourceTexture(eye)
		if err != nil {
			Logger().Warn("post-window setup skipped",
				"handle", handle, "eye", eye,
				"reason", "no source texture", "error", err)
			return false, nil
		}
		er := d.eyes[eye]
		// Timewarp matrices are always resolved, but stages reproject
		// with identity unless live timewarp is switched on.
		start, end := hmd.Identity4(), hmd.Identity4()
		if s.opts.timewarp {
			start, end = er.TimewarpStart, er.TimewarpEnd
		}
		configs[eye] = render.EyeStageConfig{
			Eye:           eye,
			Mesh:          er.Mesh,
			UVScale:       er.UVScale,
			UVOffset:      er.UVOffset,
			TimewarpStart: start,
			TimewarpEnd:   end,
			Source:        src,
			SourceSize:    size,
		}
	}

	installed, err := render.InstallDistortionStages(win, s.opts.stageBuilder, dev,
		configs[hmd.EyeLeft], configs[hmd.EyeRight])
	if err != nil {
		return false, err
	}
	if installed {
		Logger().Info("post-window setup complete", "handle", handle)
	}
	return installed, nil
}
