package model

// MediaType classifies a medium attached to a song.
type MediaType int

const (
	// MediaDocument is sheet music, lyrics or another document file.
	MediaDocument MediaType = iota

	// MediaAudio is an audio recording file.
	MediaAudio

	// MediaVideo is a video recording file.
	MediaVideo

	// MediaLink is a web link rather than a local file.
	MediaLink
)

// String returns the lower-case name of the media type.
func (mt MediaType) String() string {
	switch mt {
	case MediaDocument:
		return "document"
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	case MediaLink:
		return "link"
	default:
		return "unknown"
	}
}

// MediaRef points at one medium of one song: a tagged reference passed
// between the library and user-facing layers instead of loose
// (type, path) pairs.
type MediaRef struct {
	// Song is the owning song.
	Song *Song

	// Type tells which list of the song the reference came from.
	Type MediaType

	// Path is the file path, or the URL for MediaLink.
	Path string
}

// MediaRefs returns one reference per medium of the song, documents
// first, then audio, video and links, preserving list order.
func (s *Song) MediaRefs() []MediaRef {
	refs := make([]MediaRef, 0, len(s.Documents)+len(s.Audios)+len(s.Videos)+len(s.Links))
	for _, p := range s.Documents {
		refs = append(refs, MediaRef{Song: s, Type: MediaDocument, Path: p})
	}
	for _, p := range s.Audios {
		refs = append(refs, MediaRef{Song: s, Type: MediaAudio, Path: p})
	}
	for _, p := range s.Videos {
		refs = append(refs, MediaRef{Song: s, Type: MediaVideo, Path: p})
	}
	for _, u := range s.Links {
		refs = append(refs, MediaRef{Song: s, Type: MediaLink, Path: u})
	}
	return refs
}
