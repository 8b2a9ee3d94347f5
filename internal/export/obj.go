package export

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/ropesim/internal/tube"
)

// WriteOBJ writes the mesh as a Wavefront OBJ with positions, normals and
// texture coordinates. Face indices are 1-based and shared across all three
// attribute streams.
func WriteOBJ(w io.Writer, name string, mesh *tube.Mesh) error {
	if mesh == nil || mesh.Empty() {
		return fmt.Errorf("export: empty mesh")
	}
	if len(mesh.Indices)%3 != 0 {
		return fmt.Errorf("export: index count %d is not a multiple of 3", len(mesh.Indices))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# ropesim tube mesh\n")
	fmt.Fprintf(bw, "o %s\n", name)
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X(), v.Y(), v.Z())
	}
	for _, n := range mesh.Normals {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n.X(), n.Y(), n.Z())
	}
	for _, uv := range mesh.UVs {
		fmt.Fprintf(bw, "vt %.6f %.6f\n", uv.X(), uv.Y())
	}
	for i := 0; i < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}

func SaveOBJ(path, name string, mesh *tube.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, name, mesh); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
