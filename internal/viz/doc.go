// Package viz renders runs in the terminal with Bubble Tea.
//
//   - [Model]: steps an engine on a timer and draws the periodic box, the
//     energies and an energy graph
//   - [Picker]: preset selection shown before a live run
//   - [Canvas]: Braille pixel canvas used for the box projection
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - More/fewer steps per frame
//	x/y   - Rotate the box (shift reverses)
//	[/]   - Zoom out/in
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
