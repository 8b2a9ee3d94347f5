package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// CentrelineToSVG draws the rope's x/y projection. Torn edges are left out,
// so every intact run becomes its own path. Pinned points are drawn as dots.
func CentrelineToSVG(points []mgl64.Vec3, mask []bool, pinned []int, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X(), points[0].X()
	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}

	// Equal scale on both axes keeps the rope from looking stretched.
	span := max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	scale := float64(min(width, height)) / (span * 1.2)

	project := func(p mgl64.Vec3) (float64, float64) {
		x := float64(width)/2 + (p.X()-cx)*scale
		y := float64(height)/2 - (p.Y()-cy)*scale
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	open := false
	for i := 0; i < len(points)-1; i++ {
		intact := i >= len(mask) || mask[i]
		if !intact {
			if open {
				sb.WriteString(`"/>` + "\n")
				open = false
			}
			continue
		}
		if !open {
			x, y := project(points[i])
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M%.1f,%.1f`, strokeColor, x, y))
			open = true
		}
		x, y := project(points[i+1])
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
	}
	if open {
		sb.WriteString(`"/>` + "\n")
	}

	for _, idx := range pinned {
		if idx < 0 || idx >= len(points) {
			continue
		}
		x, y := project(points[idx])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ff5f87"/>`+"\n", x, y))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
