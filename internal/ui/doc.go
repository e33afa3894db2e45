// package ui implements the interactive practice screen.
//
// The TUI is a bubbletea program: a Model holding the session timer and
// metronome engine, updated by keyboard input, clock ticks, metronome
// beats, and notifications. Rendering follows the Elm-style
// Update/View split; long-running work happens in tea.Cmd closures so
// the update loop never blocks.
package ui
