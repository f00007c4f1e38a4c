// Package library provides a read-only view over a folder-based music
// collection.
//
// Expected layout:
//
//	<basepath>/
//	    Album A/
//	        01 - First Track.mp3
//	        02 - Second Track.flac
//	    Album B/
//	        song.ogg
//
// Each direct subdirectory of basepath is an album. Files inside an album
// directory that carry a recognised audio extension are titles. Results are
// sorted by name so that track-number prefixes produce the intended play
// order. Nothing is cached: every query re-reads the filesystem, so changes
// on disk are visible immediately.
package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions is the set of recognised title extensions (lower case,
// including the leading dot).
var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".ogg":  {},
	".wav":  {},
	".m4a":  {},
	".aac":  {},
	".wma":  {},
	".opus": {},
}

// Library is a read-only view on a folder-based music collection.
type Library struct {
	basepath string
}

// New creates a library rooted at basepath. The path is never written to.
func New(basepath string) *Library {
	return &Library{basepath: basepath}
}

// Basepath returns the collection root.
func (l *Library) Basepath() string {
	return l.basepath
}

// ListAlbums returns the sorted names of all album directories. A missing or
// unreadable basepath yields an empty result, never an error.
func (l *Library) ListAlbums() []string {
	entries, err := os.ReadDir(l.basepath)
	if err != nil {
		return []string{}
	}

	albums := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			albums = append(albums, entry.Name())
		}
	}
	sort.Strings(albums)
	return albums
}

// GetTitles returns the sorted audio file names inside an album directory.
// A missing album yields an empty result, never an error.
func (l *Library) GetTitles(album string) []string {
	entries, err := os.ReadDir(filepath.Join(l.basepath, album))
	if err != nil {
		return []string{}
	}

	titles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; ok {
			titles = append(titles, entry.Name())
		}
	}
	sort.Strings(titles)
	return titles
}

// FindAlbumByUID returns the first album (in sorted order) whose name starts
// with uid, compared case-insensitively.
func (l *Library) FindAlbumByUID(uid string) (string, bool) {
	prefix := strings.ToUpper(uid)
	for _, album := range l.ListAlbums() {
		if strings.HasPrefix(strings.ToUpper(album), prefix) {
			return album, true
		}
	}
	return "", false
}

// GetTitlePath returns the full path of a title inside an album. It is a pure
// path join; existence is not checked.
func (l *Library) GetTitlePath(album, title string) string {
	return filepath.Join(l.basepath, album, title)
}
