// Package viz draws ropes in the terminal.
//
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell
//   - [Camera] and [Render3D]: orbiting wireframe projection
//   - [Framer]: spring-eased 2D framing of the rope's bounds
//   - [Model]: Bubble Tea live view of a scenario
//   - [Menu]: scenario and preset picker that opens a [Model]
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild the scene
//	C     - Cut the middle edge
//	F     - Repair torn edges
//	V     - Toggle 3D view
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
