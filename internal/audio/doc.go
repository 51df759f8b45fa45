// Package audio provides audio file manipulation services including
// ID3 tag writing, tag reading and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to stamp a song's catalog metadata onto its MP3
// recordings:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	result, err := tagger.WriteTags(song)
//
// The tagger supports:
//   - Title, Artist
//   - Genre (from the song's style)
//   - BPM (from the song's tempo)
//   - Comments (from the song's notes)
//
// Reading goes the other way and feeds import prefill:
//
//	info, err := audio.ReadTags("/recordings/take1.mp3")
//
// # Playlist Generation
//
// Generate playlists over any set of songs:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("Ballads", lib.FilterByStyle("ballad"))
//	os.WriteFile("ballads.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
