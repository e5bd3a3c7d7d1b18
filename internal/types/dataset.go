// Package types provides type definitions for structured data used throughout the cutgen system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Item is one rectangular piece to be cut from some plate.
type Item struct {
	Length int `json:"length"`
	Width  int `json:"width"`
}

// Defect is an axis-aligned flawed rectangle on a plate
type Defect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Stack is an ordered sequence of items. The item at position k must be
// cut before the item at position k+1.
type Stack []Item

// Plate is the set of defects carried by one raw sheet.
type Plate []Defect

// Dataset is a complete generated instance: stacks first, then plates.
type Dataset struct {
	Stacks []Stack `json:"stacks"`
	Plates []Plate `json:"plates"`
}

// ItemCount returns the total number of items across all stacks
func (d *Dataset) ItemCount() int {
	n := 0
	for _, s := range d.Stacks {
		n += len(s)
	}
	return n
}

// DefectCount returns the total number of defects across all plates
func (d *Dataset) DefectCount() int {
	n := 0
	for _, p := range d.Plates {
		n += len(p)
	}
	return n
}

// EmptyPlateCount returns the number of plates without any defect
func (d *Dataset) EmptyPlateCount() int {
	n := 0
	for _, p := range d.Plates {
		if len(p) == 0 {
			n++
		}
	}
	return n
}
