// Package viz renders a particle session in the terminal.
//
// The live view is a Bubble Tea program drawing the cloud onto a braille
// canvas, one colored cell per 2x4 block of dots:
//
//   - [Model]: the live view over a [scene.Session]
//   - [Launcher]: preset and silhouette picker that starts the live view
//   - [Canvas]: braille pixel canvas with per-cell color and depth
//   - [Camera]: perspective projection with rotation and zoom
//
// # Key Bindings
//
//	Space - Toggle settled / dispersed
//	H T G - Home to heart, text or tree
//	X Y Z - Rotate (shift reverses)
//	+ -   - Zoom
//	O     - Toggle auto orbit
//	C     - Cycle color themes
//	P     - Pause
//	R     - Reset particles to the target
//	W     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// W starts and stops recording; frames are written as an animated GIF in the
// theme's colors to snowglobe.gif in the current directory.
package viz
