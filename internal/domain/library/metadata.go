package library

import (
	"os"

	"github.com/dhowden/tag"
)

// TitleInfo is display metadata for a title. Fields other than Title may be
// empty when the file carries no usable tags.
type TitleInfo struct {
	Title  string
	Artist string
	Album  string
}

// ReadTitleInfo reads embedded tag metadata (ID3, FLAC, Vorbis comments) for
// a title. Any open or parse failure falls back to the bare file name, so
// callers always get something printable.
func (l *Library) ReadTitleInfo(album, title string) TitleInfo {
	info := TitleInfo{Title: title}

	f, err := os.Open(l.GetTitlePath(album, title))
	if err != nil {
		return info
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return info
	}
	if t := m.Title(); t != "" {
		info.Title = t
	}
	info.Artist = m.Artist()
	info.Album = m.Album()
	return info
}
