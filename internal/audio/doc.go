// Package audio plays the open and close clips.
//
// CommandPlayer spawns the platform's command-line player, Gate holds clips
// back until playback is unlocked by a user interaction and retries the last
// failed clip on unlock, and Mute only logs.
package audio
