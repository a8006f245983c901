// Package render provides the generic text templates that paint a step's data:
// Array, LinkedList, Stack and String.
//
// Each template is a pure function of the data, a caller-supplied per-element
// Patch function merged over the template's own defaults, and optional Slots
// that replace the container, header, footer or item rendering. Templates never
// read or change playback state; item clicks are reported through Frame.Select.
package render
