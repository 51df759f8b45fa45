package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// jpegQuality is the encode quality for all thumbnails.
const jpegQuality = 90

// ImageService renders thumbnails of image documents, scanned sheet
// music mostly, for list views and previews.
//
// Example usage:
//
//	svc := media.NewImageService()
//
//	// One-off thumbnail next to the source
//	err := svc.Thumbnail(ctx, "/scores/page1.png", "/tmp/page1.jpg", 400)
//
//	// Or content-addressed into a cache directory
//	path, err := svc.ThumbnailInto(ctx, "/scores/page1.png", cacheDir, 400)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Resize scales an image to fit within the given maximum dimensions.
//
// The aspect ratio is preserved. An image already inside the limits is
// not scaled but still re-encoded as JPEG.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (JPEG, PNG, GIF, BMP)
//   - maxWidth: Maximum width in pixels
//   - maxHeight: Maximum height in pixels
//
// Returns the resized image as JPEG-encoded bytes.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
func (s *ImageService) Resize(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail renders a square-bounded thumbnail of the image at src and
// writes it to dst as JPEG.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - src: Source image path
//   - dst: Destination path (created or overwritten)
//   - maxEdge: Maximum width and height in pixels
//
// Returns an error if:
//   - The source cannot be read or decoded
//   - The destination cannot be written
func (s *ImageService) Thumbnail(ctx context.Context, src, dst string, maxEdge int) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	thumb, err := s.Resize(ctx, data, maxEdge, maxEdge)
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", filepath.Base(src), err)
	}
	return os.WriteFile(dst, thumb, 0644)
}

// ThumbnailInto renders a thumbnail of src into cacheDir, named by the
// source's content hash so unchanged files hit the cache. Returns the
// thumbnail path.
//
// A cached thumbnail is reused without re-rendering; callers can
// invoke this repeatedly for the same source at no cost.
func (s *ImageService) ThumbnailInto(ctx context.Context, src, cacheDir string, maxEdge int) (string, error) {
	digest, err := FileHash(src, "sha256")
	if err != nil {
		return "", err
	}
	if err := EnsureDir(cacheDir); err != nil {
		return "", err
	}

	dst := filepath.Join(cacheDir, digest[:16]+".jpg")
	if FileExists(dst) {
		return dst, nil
	}
	if err := s.Thumbnail(ctx, src, dst, maxEdge); err != nil {
		return "", err
	}
	return dst, nil
}
