// Package todo holds the item model, attachment staging, and the
// synchronization layer that mirrors the remote collection.
package todo

import (
	"path/filepath"
	"strings"
)

// MediaKind is a coarse classification of an attachment, used only to pick a
// display affordance. It is derived from the file name, never from content.
type MediaKind string

const (
	KindImage    MediaKind = "image"
	KindDocument MediaKind = "document"
	KindVideo    MediaKind = "video"
	KindAudio    MediaKind = "audio"
	KindArchive  MediaKind = "archive"
	KindOther    MediaKind = "other"
)

var kindByExt = map[string]MediaKind{
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage,
	"gif": KindImage, "webp": KindImage, "svg": KindImage,

	"pdf": KindDocument, "doc": KindDocument, "docx": KindDocument,
	"txt": KindDocument, "md": KindDocument, "rtf": KindDocument, "odt": KindDocument,

	"mp4": KindVideo, "mov": KindVideo, "avi": KindVideo,
	"mkv": KindVideo, "webm": KindVideo,

	"mp3": KindAudio, "wav": KindAudio, "ogg": KindAudio,
	"flac": KindAudio, "m4a": KindAudio,

	"zip": KindArchive, "tar": KindArchive, "gz": KindArchive,
	"tgz": KindArchive, "rar": KindArchive, "7z": KindArchive,
}

// KindForName classifies a file by its name extension.
func KindForName(name string) MediaKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if k, ok := kindByExt[ext]; ok {
		return k
	}
	return KindOther
}

// Attachment is the server-side file attached to an item.
type Attachment struct {
	URL         string    `json:"url"`
	DisplayName string    `json:"display_name"`
	Kind        MediaKind `json:"media_kind"`
}

// Item is the domain model for a to-do entry.
type Item struct {
	ID         int64       `json:"id"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}
