// Package progress tracks which problems a learner completed, started or
// starred, plus their playback preferences.
//
// The Tracker owns no state of its own: every action loads the profile from an
// injected ports.ProgressStore, applies the change and saves it back.
package progress
