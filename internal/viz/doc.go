// Package viz renders field data in the terminal.
//
//   - [LiveModel]: Bubble Tea program that steps a solver and draws E and H
//   - [Canvas]: Braille pixel canvas used for the field profiles
//   - [PlotField], [PlotFields]: asciigraph charts of a stored snapshot
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume stepping
//	N     - Single step while paused
//	R     - Rebuild the solver from its initial configuration
//	+/-   - Steps per frame
//	F     - Cycle E, H or both
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
