package model

import "time"

// ItemKind classifies a media entry by its content type.
type ItemKind string

const (
	KindImage ItemKind = "image"
	KindVideo ItemKind = "video"
	KindAudio ItemKind = "audio"
	KindOther ItemKind = "other"
)

// Item represents a media entry inside a folder.
// Sequence is a dense ordering key starting at 1, unique within the parent;
// rendering and export rely on it.
type Item struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parentId"`
	Sequence  int       `json:"sequence"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	Kind      ItemKind  `json:"kind"`

	// Descriptive metadata, searchable when metadata search is enabled.
	Prompt string `json:"prompt,omitempty"`
	Model  string `json:"model,omitempty"`
	Source string `json:"source,omitempty"`

	// Path is the absolute on-disk location for imported files. Empty for
	// entries that have no backing file.
	Path string `json:"path,omitempty"`
}

// NewItemParams holds parameters for creating a new Item.
type NewItemParams struct {
	ParentID  string
	Name      string
	SizeBytes int64
	Kind      ItemKind
	Path      string
}

// NewItem creates an Item with generated UUID and creation timestamp.
// Sequence is assigned when the item is appended to a Library.
func NewItem(params NewItemParams) Item {
	return Item{
		ID:        GenerateUUID(),
		ParentID:  params.ParentID,
		Name:      params.Name,
		SizeBytes: params.SizeBytes,
		CreatedAt: time.Now(),
		Kind:      params.Kind,
		Path:      params.Path,
	}
}

// KindForExtension maps a file extension (with or without leading dot) to an ItemKind.
func KindForExtension(ext string) ItemKind {
	switch normalizeExt(ext) {
	case "jpg", "jpeg", "png", "gif", "webp", "heic", "bmp", "tiff":
		return KindImage
	case "mp4", "mov", "mkv", "webm", "avi":
		return KindVideo
	case "mp3", "wav", "flac", "ogg", "m4a":
		return KindAudio
	default:
		return KindOther
	}
}

func normalizeExt(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	b := []byte(ext)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
