// Package seal renders small bitmap "duty seal" stamps in Go.
//
// A seal is a red bordered rectangle with a white inner panel, a bold label
// fitted to the panel width and a light grey watermark caption tiled along
// the bottom inner edge, with the last repetition clipped at the border.
// Rendering is a pure function of the Spec and the font metrics it is given;
// the package works entirely in memory and exports the result as PNG.
package seal
