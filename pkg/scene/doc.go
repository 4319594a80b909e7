// Package scene defines declarative scene documents: named rules built from
// shapes, references to other rules, groups and random choices, each with
// optional transforms and replication.
//
// A document looks like this:
//
//	name: recursive-tile
//	seed: 7
//	depth: 3
//	entry: tile
//	rules:
//	  tile:
//	    - shape: cube
//	      transforms: [{translate: [0.25, 0.25, 0]}, {scale: 0.4}]
//	    - ref: tile
//	      transforms: [{translate: [0.25, -0.25, 0]}, {scale: 0.5}]
//
// Transform entries hold exactly one key: translate ([x, y, z]), x, y or z
// (a single axis offset), or scale (a factor or [x, y, z]). Entries apply in
// list order, the first one innermost.
package scene
