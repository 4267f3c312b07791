// Package artifact manages synthesized audio files on disk: the single
// current artifact that "play again" replays, and an optional compressed
// archive of superseded artifacts.
package artifact
