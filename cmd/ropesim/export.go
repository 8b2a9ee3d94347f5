package main

import (
	"fmt"
	"os"

	"github.com/san-kum/ropesim/internal/export"
	"github.com/san-kum/ropesim/internal/pin"
	"github.com/san-kum/ropesim/internal/viz"
	"github.com/spf13/cobra"
)

func exportOBJ(cmd *cobra.Command, args []string) error {
	name := args[0]
	scene, _, _, err := simulate(cmd, name)
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = name + ".obj"
	}
	mesh := scene.Rope.RebuildMesh()
	if err := export.SaveOBJ(path, name, mesh); err != nil {
		return err
	}
	fmt.Printf("wrote %d vertices, %d triangles to %s\n", len(mesh.Vertices), mesh.TriangleCount(), path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	name := args[0]
	scene, _, _, err := simulate(cmd, name)
	if err != nil {
		return err
	}
	viz.SetTheme(themeName)

	r := scene.Rope
	var pinned []int
	for i := 0; i < r.Len(); i++ {
		if r.PinKind(i) != pin.Free {
			pinned = append(pinned, i)
		}
	}
	svg := export.CentrelineToSVG(r.Points(), r.Mask(), pinned, svgWidth, svgHeight, string(viz.CurrentTheme.Rope))

	path := outPath
	if path == "" {
		path = name + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
