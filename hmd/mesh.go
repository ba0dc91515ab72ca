package hmd

// DistortionVertex is one vertex of a lens correction mesh.
//
// ScreenPos is the distorted output position in normalized device
// coordinates of the full panel. The three tan-angle pairs are the
// undistorted source directions to sample for the red, green and blue
// channels; sampling them separately corrects chromatic aberration.
type DistortionVertex struct {
	ScreenPos Vec2

	// TimewarpFactor interpolates between the start and end timewarp
	// matrices across the display's scan-out, 0 at the first scanned
	// row and 1 at the last.
	TimewarpFactor float64

	// VignetteFactor fades the image toward the lens periphery,
	// 1 at the center falling to 0 at the edge.
	VignetteFactor float64

	TanEyeAnglesR Vec2
	TanEyeAnglesG Vec2
	TanEyeAnglesB Vec2
}

// DistortionMesh is a triangulated lens correction surface for one eye.
// Indices reference Vertices; every index is a valid vertex offset. Vertex
// and index counts are determined by the device's optical model and may
// differ between eyes.
type DistortionMesh struct {
	Vertices []DistortionVertex
	Indices  []uint16
}

// VertexCount returns the number of vertices.
func (m *DistortionMesh) VertexCount() int { return len(m.Vertices) }

// IndexCount returns the number of triangle indices.
func (m *DistortionMesh) IndexCount() int { return len(m.Indices) }

// TriangleCount returns the number of triangles.
func (m *DistortionMesh) TriangleCount() int { return len(m.Indices) / 3 }
