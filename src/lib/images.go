package lib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"uservice/src/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore persists uploaded catalog images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)
}

// Image is a sniffed, size-checked upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ReadImage reads at most MaxImageSize bytes and accepts only jpeg, png and webp.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, types.NewFieldError("image", "file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, types.NewFieldError("image", "file exceeds 5MB")
	}
	mt := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mt.String()]
	if !ok {
		return nil, types.NewFieldError("image", fmt.Sprintf("unsupported file type %s", mt.String()))
	}
	return &Image{Data: data, ContentType: mt.String(), Ext: ext}, nil
}

func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// ImageKey builds the object key for an image owned by a catalog entry.
func ImageKey(kind string, owner uuid.UUID, ext string) string {
	return path.Join(kind, owner.String(), uuid.NewString()+ext)
}
