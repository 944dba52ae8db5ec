package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const MaxImageBytes = 5 << 20

var (
	ErrImageTooLarge   = fmt.Errorf("image larger than %d MB", MaxImageBytes>>20)
	ErrUnsupportedType = errors.New("only JPEG, PNG and WebP images are accepted")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Uploader is the object storage used for avatars and posters.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(u string) (string, bool)
}

// Image is an uploaded image file whose type was sniffed from its content.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        multipart.File
}

// OpenImage validates and opens an uploaded image. The caller closes Body.
func OpenImage(fh *multipart.FileHeader) (*Image, error) {
	if fh.Size > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, err
	}
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		f.Close()
		return nil, ErrUnsupportedType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return &Image{Filename: fh.Filename, ContentType: contentType, Size: fh.Size, Body: f}, nil
}
