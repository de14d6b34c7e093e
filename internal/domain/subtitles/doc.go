// Package subtitles parses numbered subtitle files into timed cues.
package subtitles
