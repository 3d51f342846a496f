// Package viz hosts the pill widget in a terminal using Bubble Tea.
//
// Pills are rasterised onto a character [Surface] at [CellWidth] x
// [CellHeight] container pixels per cell, so mouse cells map straight to
// pointer coordinates for the widget's drag handling.
//
//   - [App]: preset picker that leads into a live model
//   - [Model]: the live host, with hero banner, metrics sidebar and legend
//
// # Key Bindings
//
//	Mouse - Drag a pill
//	Space - Pause/Resume simulation
//	R     - Restack the pyramid
//	K     - Kick every pill
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
