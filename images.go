package ezoterika

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"github.com/eringen/ezoterika/content"
)

const (
	maxImageWidth  = 800
	maxImageHeight = 600
	jpegQuality    = 80
	imagesDir      = "images"
)

// processedImage is an upload after downscaling and re-encoding.
type processedImage struct {
	Data          []byte
	Width, Height int
}

// processImage decodes an image from src, scales it to fit within
// maxImageWidth x maxImageHeight keeping its aspect ratio, and encodes
// it as JPEG.
func processImage(src io.Reader) (processedImage, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return processedImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := fitWithin(bounds.Dx(), bounds.Dy(), maxImageWidth, maxImageHeight)
	if w != bounds.Dx() || h != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return processedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return processedImage{Data: buf.Bytes(), Width: w, Height: h}, nil
}

// fitWithin scales w x h down to fit maxW x maxH. Smaller images are
// left alone.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

// dataURI encodes a JPEG as an inline image source.
func dataURI(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// storeImage processes an uploaded image for a block. Small results are
// returned as data URIs; larger ones are stored as media and their URL
// is returned.
func (a *App) storeImage(ctx context.Context, src io.Reader, size int64, filename string) (string, error) {
	if size > a.Config.MaxImageUpload {
		return "", fmt.Errorf("image %s is too large (max %s)", filename, humanize.IBytes(uint64(a.Config.MaxImageUpload)))
	}
	img, err := processImage(src)
	if err != nil {
		return "", fmt.Errorf("invalid image %s: %w", filename, err)
	}
	if len(img.Data) <= a.Config.InlineImageLimit {
		return dataURI(img.Data), nil
	}
	name, err := a.uniqueMediaName(ctx, filename, ".jpg", func(file string) string {
		return path.Join(imagesDir, file)
	})
	if err != nil {
		return "", err
	}
	if err := a.Media.Put(ctx, name, "image/jpeg", bytes.NewReader(img.Data), int64(len(img.Data))); err != nil {
		return "", err
	}
	if err := a.Store.SaveMedia(Media{
		Name:   name,
		Type:   "image/jpeg",
		Size:   int64(len(img.Data)),
		Width:  img.Width,
		Height: img.Height,
	}); err != nil {
		return "", err
	}
	return a.Media.URL(name), nil
}

// storeAudio checks that an upload is audio and stores it under the
// attachment path the serializer links to.
func (a *App) storeAudio(ctx context.Context, src io.Reader, size int64, filename string) (content.Attachment, error) {
	if size > a.Config.MaxAudioUpload {
		return content.Attachment{}, fmt.Errorf("audio %s is too large (max %s)", filename, humanize.IBytes(uint64(a.Config.MaxAudioUpload)))
	}
	data, err := io.ReadAll(io.LimitReader(src, a.Config.MaxAudioUpload+1))
	if err != nil {
		return content.Attachment{}, err
	}
	if int64(len(data)) > a.Config.MaxAudioUpload {
		return content.Attachment{}, fmt.Errorf("audio %s is too large (max %s)", filename, humanize.IBytes(uint64(a.Config.MaxAudioUpload)))
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "audio/") {
		return content.Attachment{}, fmt.Errorf("%s is not an audio file (%s)", filename, mt.String())
	}
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = mt.Extension()
	}
	name, err := a.uniqueMediaName(ctx, filename, ext, content.AudioPath)
	if err != nil {
		return content.Attachment{}, err
	}
	if err := a.Media.Put(ctx, name, mt.String(), bytes.NewReader(data), int64(len(data))); err != nil {
		return content.Attachment{}, err
	}
	if err := a.Store.SaveMedia(Media{Name: name, Type: mt.String(), Size: int64(len(data))}); err != nil {
		return content.Attachment{}, err
	}
	return content.Attachment{
		Name: path.Base(name),
		Size: int64(len(data)),
		Type: mt.String(),
	}, nil
}

// uniqueMediaName places <slug><ext>, built from an upload's filename,
// and appends a counter while the name is taken in the store or media.
func (a *App) uniqueMediaName(ctx context.Context, filename, ext string, place func(string) string) (string, error) {
	base := Slugify(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = time.Now().UTC().Format("20060102-150405")
	}
	candidate := base
	for n := 2; ; n++ {
		name := place(candidate + ext)
		taken, err := a.Store.MediaExists(name)
		if err != nil {
			return "", err
		}
		if !taken {
			taken, err = a.Media.Exists(ctx, name)
			if err != nil {
				return "", err
			}
		}
		if !taken {
			return name, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
