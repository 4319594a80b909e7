// Package obj writes meshes as Wavefront OBJ text (*.obj), one mesh at a time.
//
// Only positions and faces are written: one "v x y z" record per vertex and
// one "f i j k ..." record per face, with 1-based indices that are global
// across every mesh written by the same Encoder. Basic format info:
// https://en.wikipedia.org/wiki/Wavefront_.obj_file
//
// A small Decode function reads the same subset back. It is meant for
// inspection and tests, not as a general OBJ loader.
package obj
