package render

import "github.com/litescript/ls-orrery/internal/mesh"

// MeshHandle identifies an uploaded mesh. Zero means none.
type MeshHandle uint32

// Assets is the upload table. A mesh is registered once at startup and
// keeps its handle for the whole run; the mesh value itself is never
// touched.
type Assets struct {
	meshes  []*mesh.Mesh
	handles map[*mesh.Mesh]MeshHandle
}

// NewAssets returns an empty table.
func NewAssets() *Assets {
	return &Assets{handles: make(map[*mesh.Mesh]MeshHandle)}
}

// Register uploads m, or returns its handle if it is already uploaded.
func (a *Assets) Register(m *mesh.Mesh) MeshHandle {
	if m == nil {
		return 0
	}
	if h, ok := a.handles[m]; ok {
		return h
	}
	a.meshes = append(a.meshes, m)
	h := MeshHandle(len(a.meshes))
	a.handles[m] = h
	return h
}

// Handle returns the handle of m, or 0 if it was never registered.
func (a *Assets) Handle(m *mesh.Mesh) MeshHandle {
	return a.handles[m]
}

// Mesh returns the mesh behind h.
func (a *Assets) Mesh(h MeshHandle) *mesh.Mesh {
	if h == 0 || int(h) > len(a.meshes) {
		return nil
	}
	return a.meshes[h-1]
}

// Len returns the number of uploaded meshes.
func (a *Assets) Len() int {
	return len(a.meshes)
}

// Vertices returns the total vertex count of every uploaded mesh.
func (a *Assets) Vertices() int {
	n := 0
	for _, m := range a.meshes {
		n += len(m.Vertices)
	}
	return n
}
