package ingest

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/shashiranjanraj/decora/app/models"
)

// The bucket encodes the taxonomy positionally:
//
//	Baby Children/Baby/Babies Tableware/00319526.jpg
//	└─ STYLE ──┘ └ROOM┘ └─ PRODUCT_TYPE ─┘ └─ original id
//
// Only the first two and last two segments are anchored, so extra nominal
// segments between ROOM_TYPE and PRODUCT_TYPE are tolerated.

// ErrNotImage marks a key whose extension is not on the image allow-list.
var ErrNotImage = errors.New("not an image file")

// ErrShallowKey marks a key with fewer than three path segments.
var ErrShallowKey = errors.New("key has too few path segments")

// imageMIMEs is the extension allow-list and its MIME mapping.
var imageMIMEs = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ParsedKey is the taxonomy decomposition of one object key.
type ParsedKey struct {
	Key         string
	Style       string
	RoomType    string
	ProductType string
	OriginalID  string
	MimeType    string
}

// ParseKey splits an object key into its taxonomy segments and the
// filename-derived original identifier. Pure function; rejects non-image
// extensions (case-insensitive) and keys shallower than
// style/room/filename.
func ParseKey(key string) (ParsedKey, error) {
	ext := strings.ToLower(path.Ext(key))
	mime, ok := imageMIMEs[ext]
	if !ok {
		return ParsedKey{}, fmt.Errorf("%w: %q", ErrNotImage, key)
	}

	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return ParsedKey{}, fmt.Errorf("%w: %q", ErrShallowKey, key)
	}

	filename := parts[len(parts)-1]

	return ParsedKey{
		Key:         key,
		Style:       parts[0],
		RoomType:    parts[1],
		ProductType: parts[len(parts)-2],
		OriginalID:  strings.TrimSuffix(filename, path.Ext(filename)),
		MimeType:    mime,
	}, nil
}

// levels returns the category chain in strict hierarchical order, so the
// resolver can always link a child to an already-resolved parent.
func (p ParsedKey) levels() []struct {
	name string
	typ  models.CategoryType
} {
	return []struct {
		name string
		typ  models.CategoryType
	}{
		{p.Style, models.CategoryStyle},
		{p.RoomType, models.CategoryRoomType},
		{p.ProductType, models.CategoryProductType},
	}
}
