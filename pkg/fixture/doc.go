// Package fixture describes box trees declaratively and persists engine
// records.
//
// # TOML fixtures
//
// A fixture names a canvas and a tree of boxes:
//
//	name = "toolbar"
//
//	[canvas]
//	width = 800
//	height = 600
//
//	[[root.children]]
//	tag = "bar"
//	anchor = ["fill-row", "top"]
//	expand = "y"
//
//	[[root.children.children]]
//	tag = "icon"
//	anchor = ["left", "top"]
//	width = { fixed = 100 }
//	height = { fixed = 50 }
//
// Margins and padding take one number (all edges), two (horizontal,
// vertical) or four (left, top, right, bottom). An optional canvas scale
// multiplies every size, margin, padding and floating position, leaving
// the canvas itself alone. Use [Load] or [Decode] to
// read a fixture and [Build] to create its boxes in a [layout.Engine].
//
// # Record dumps
//
// [WriteRecords] and [ReadRecords] persist the raw record array of an engine
// as XML, keys and links included. Dumps reproduce a tree exactly, including
// detached boxes, which makes them suitable for regression reports.
package fixture
