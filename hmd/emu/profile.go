package emu

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rift/hmd"
)

// FovDegrees is a field of view in degrees from the line of sight, the
// human-editable form used in profile files.
type FovDegrees struct {
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
	Up    float64 `yaml:"up"`
	Down  float64 `yaml:"down"`
}

// Port converts to tangent-of-half-angle form.
func (f FovDegrees) Port() hmd.FovPort {
	return hmd.FovPort{
		LeftTan:  math.Tan(f.Left * math.Pi / 180),
		RightTan: math.Tan(f.Right * math.Pi / 180),
		UpTan:    math.Tan(f.Up * math.Pi / 180),
		DownTan:  math.Tan(f.Down * math.Pi / 180),
	}
}

// Profile describes an emulated headset: identity, panel geometry and the
// lens model the mesh generator runs on. Profiles can be authored as YAML
// files and loaded with LoadProfile.
type Profile struct {
	Name         string `yaml:"name"`
	Manufacturer string `yaml:"manufacturer"`
	SerialNumber string `yaml:"serialNumber"`
	VendorID     uint16 `yaml:"vendorId"`
	ProductID    uint16 `yaml:"productId"`

	FirmwareMajor int `yaml:"firmwareMajor"`
	FirmwareMinor int `yaml:"firmwareMinor"`

	// Panel size in pixels across both eyes.
	PanelWidth  int `yaml:"panelWidth"`
	PanelHeight int `yaml:"panelHeight"`

	// LensSeparation is the distance between lens centers in meters.
	LensSeparation float64 `yaml:"lensSeparation"`

	// EyeReliefDepth is the z offset from head frame to eye, in meters.
	EyeReliefDepth float64 `yaml:"eyeReliefDepth"`

	// DistortionK are the radial distortion polynomial coefficients:
	// scale(r^2) = k0 + k1*r^2 + k2*r^4 + k3*r^6 on tan-angle radius.
	DistortionK [4]float64 `yaml:"distortionK"`

	// ChromaK are the chromatic aberration coefficients: the red channel
	// scales by (c0 + c1*r^2) and blue by (c2 + c3*r^2), relative to green.
	ChromaK [4]float64 `yaml:"chromaK"`

	// DefaultFov is the recommended per-eye field of view, in degrees.
	DefaultFov [2]FovDegrees `yaml:"defaultFov"`

	// MeshGrid is the per-eye correction mesh tessellation: the grid has
	// MeshGrid[eye] cells per side. Counts may differ between eyes.
	MeshGrid [2]int `yaml:"meshGrid"`
}

// DK2 returns the profile of the emulated Rift DK2, the headset the debug
// device simulates. The lens coefficients mirror the classic Rift lens
// model; the 1920x1080 panel matches the real DK2 hardware.
func DK2() Profile {
	return Profile{
		Name:           "Oculus Rift DK2 (emulated)",
		Manufacturer:   "Oculus VR",
		SerialNumber:   "EMU-DK2-0001",
		VendorID:       0x2833,
		ProductID:      0x0021,
		FirmwareMajor:  2,
		FirmwareMinor:  12,
		PanelWidth:     1920,
		PanelHeight:    1080,
		LensSeparation: 0.0635,
		EyeReliefDepth: 0.039,
		DistortionK:    [4]float64{1.0, 0.22, 0.24, 0},
		ChromaK:        [4]float64{0.996, -0.004, 1.014, 0},
		DefaultFov: [2]FovDegrees{
			{Left: 52.5, Right: 46.3, Up: 53.6, Down: 58.9},
			{Left: 46.3, Right: 52.5, Up: 53.6, Down: 58.9},
		},
		MeshGrid: [2]int{32, 28},
	}
}

// Validate checks that the profile describes a usable headset.
func (p Profile) Validate() error {
	if p.PanelWidth <= 0 || p.PanelHeight <= 0 {
		return fmt.Errorf("emu: profile %q: panel size %dx%d not positive", p.Name, p.PanelWidth, p.PanelHeight)
	}
	if p.DistortionK[0] <= 0 {
		return fmt.Errorf("emu: profile %q: distortion k0 must be positive, got %g", p.Name, p.DistortionK[0])
	}
	for eye, g := range p.MeshGrid {
		if g < 2 {
			return fmt.Errorf("emu: profile %q: mesh grid for eye %d must be at least 2, got %d", p.Name, eye, g)
		}
		// Indices are uint16; the grid must stay addressable.
		if (g+1)*(g+1) > math.MaxUint16 {
			return fmt.Errorf("emu: profile %q: mesh grid %d exceeds uint16 index range", p.Name, g)
		}
	}
	for eye, f := range p.DefaultFov {
		for _, deg := range []float64{f.Left, f.Right, f.Up, f.Down} {
			if deg <= 0 || deg >= 90 {
				return fmt.Errorf("emu: profile %q: default FOV for eye %d out of (0, 90) degrees", p.Name, eye)
			}
		}
	}
	return nil
}

// fov returns the default FOV port for eye.
func (p Profile) fov(eye hmd.Eye) hmd.FovPort {
	return p.DefaultFov[eye].Port()
}

// LoadProfile reads and validates a YAML profile file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("emu: read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile parses and validates YAML profile data.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("emu: parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
