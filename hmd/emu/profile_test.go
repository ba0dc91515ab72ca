package emu

import (
	"math"
	"strings"
	"testing"
)

func TestDK2Validates(t *testing.T) {
	if err := DK2().Validate(); err != nil {
		t.Fatalf("DK2().Validate() = %v", err)
	}
}

func TestFovDegreesPort(t *testing.T) {
	port := FovDegrees{Left: 45, Right: 45, Up: 45, Down: 45}.Port()
	for name, tan := range map[string]float64{
		"LeftTan":  port.LeftTan,
		"RightTan": port.RightTan,
		"UpTan":    port.UpTan,
		"DownTan":  port.DownTan,
	} {
		if math.Abs(tan-1.0) > 1e-9 {
			t.Errorf("%s = %.12f, want 1.0 within 1e-9", name, tan)
		}
	}
}

func TestParseProfile(t *testing.T) {
	data := []byte(`
name: Test HMD
manufacturer: Testing Inc
serialNumber: TST-0001
vendorId: 0x2833
productId: 7
panelWidth: 1280
panelHeight: 800
lensSeparation: 0.0635
eyeReliefDepth: 0.041
distortionK: [1.0, 0.22, 0.24, 0.0]
chromaK: [0.996, -0.004, 1.014, 0.0]
defaultFov:
  - {left: 45, right: 45, up: 45, down: 45}
  - {left: 45, right: 45, up: 45, down: 45}
meshGrid: [16, 16]
`)
	p, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("ParseProfile() = %v", err)
	}
	if p.Name != "Test HMD" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.VendorID != 0x2833 {
		t.Errorf("VendorID = %#x, want 0x2833", p.VendorID)
	}
	if p.PanelWidth != 1280 || p.PanelHeight != 800 {
		t.Errorf("panel = %dx%d, want 1280x800", p.PanelWidth, p.PanelHeight)
	}
	if p.DistortionK != [4]float64{1.0, 0.22, 0.24, 0.0} {
		t.Errorf("DistortionK = %v", p.DistortionK)
	}
	if p.MeshGrid != [2]int{16, 16} {
		t.Errorf("MeshGrid = %v", p.MeshGrid)
	}
}

func TestParseProfileBadYAML(t *testing.T) {
	if _, err := ParseProfile([]byte("panelWidth: [not a number")); err == nil {
		t.Fatal("ParseProfile() accepted malformed YAML")
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{
			name:    "zero panel width",
			mutate:  func(p *Profile) { p.PanelWidth = 0 },
			wantErr: "panel size",
		},
		{
			name:    "negative panel height",
			mutate:  func(p *Profile) { p.PanelHeight = -1 },
			wantErr: "panel size",
		},
		{
			name:    "zero k0",
			mutate:  func(p *Profile) { p.DistortionK[0] = 0 },
			wantErr: "k0",
		},
		{
			name:    "grid too small",
			mutate:  func(p *Profile) { p.MeshGrid[1] = 1 },
			wantErr: "at least 2",
		},
		{
			name:    "grid exceeds index range",
			mutate:  func(p *Profile) { p.MeshGrid[0] = 300 },
			wantErr: "uint16",
		},
		{
			name:    "fov at 90 degrees",
			mutate:  func(p *Profile) { p.DefaultFov[0].Up = 90 },
			wantErr: "(0, 90)",
		},
		{
			name:    "fov not positive",
			mutate:  func(p *Profile) { p.DefaultFov[1].Down = 0 },
			wantErr: "(0, 90)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DK2()
			tt.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile("testdata/does-not-exist.yaml"); err == nil {
		t.Fatal("LoadProfile() on missing file succeeded")
	}
}
