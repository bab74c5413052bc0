package ezoterika

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrMediaNotFound is returned when a media object does not exist.
var ErrMediaNotFound = errors.New("ezoterika: media not found")

// ErrBadMediaName is returned for names that escape the media root.
var ErrBadMediaName = errors.New("ezoterika: invalid media name")

// MediaInfo describes a stored media object.
type MediaInfo struct {
	ContentType string
	Size        int64
	ModTime     time.Time
}

// MediaStore persists uploaded files. Names are slash-separated paths
// relative to the media root, such as "audio/chant.mp3".
type MediaStore interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error
	Open(ctx context.Context, name string) (io.ReadCloser, MediaInfo, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	// URL returns the address readers fetch name from.
	URL(name string) string
}

// cleanMediaName normalizes name and rejects anything outside the root.
func cleanMediaName(name string) (string, error) {
	if strings.Contains(name, "\\") || strings.ContainsRune(name, 0) {
		return "", ErrBadMediaName
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", ErrBadMediaName
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" {
		return "", ErrBadMediaName
	}
	return cleaned, nil
}

// mediaURL is the site path media is served under.
func mediaURL(name string) string {
	segs := strings.Split(name, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "/media/" + strings.Join(segs, "/")
}

// LocalMediaStore keeps media under a directory on disk.
type LocalMediaStore struct {
	root string
}

// NewLocalMediaStore creates the root directory if needed.
func NewLocalMediaStore(root string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalMediaStore{root: root}, nil
}

func (s *LocalMediaStore) path(name string) (string, error) {
	cleaned, err := cleanMediaName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

func (s *LocalMediaStore) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write media: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalMediaStore) Open(ctx context.Context, name string) (io.ReadCloser, MediaInfo, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, MediaInfo{}, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, MediaInfo{}, ErrMediaNotFound
	}
	if err != nil {
		return nil, MediaInfo{}, err
	}
	st, err := f.Stat()
	if err != nil || st.IsDir() {
		f.Close()
		return nil, MediaInfo{}, ErrMediaNotFound
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, MediaInfo{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, MediaInfo{}, err
	}
	return f, MediaInfo{ContentType: mt.String(), Size: st.Size(), ModTime: st.ModTime()}, nil
}

func (s *LocalMediaStore) Delete(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalMediaStore) Exists(ctx context.Context, name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalMediaStore) URL(name string) string {
	return mediaURL(name)
}

// MinIOMediaStore keeps media in an S3-compatible bucket. Objects are
// proxied through /media/ so pages never link to the bucket directly.
type MinIOMediaStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOMediaStore connects to the configured endpoint and creates the
// bucket if it is missing.
func NewMinIOMediaStore(ctx context.Context, cfg MinIOConfig) (*MinIOMediaStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("minio make bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinIOMediaStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinIOMediaStore) Put(ctx context.Context, name, contentType string, r io.Reader, size int64) error {
	cleaned, err := cleanMediaName(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, cleaned, r, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", cleaned, err)
	}
	return nil
}

func (s *MinIOMediaStore) Open(ctx context.Context, name string) (io.ReadCloser, MediaInfo, error) {
	cleaned, err := cleanMediaName(name)
	if err != nil {
		return nil, MediaInfo{}, err
	}
	st, err := s.client.StatObject(ctx, s.bucket, cleaned, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, MediaInfo{}, ErrMediaNotFound
		}
		return nil, MediaInfo{}, fmt.Errorf("minio stat %s: %w", cleaned, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, MediaInfo{}, fmt.Errorf("minio get %s: %w", cleaned, err)
	}
	return obj, MediaInfo{ContentType: st.ContentType, Size: st.Size, ModTime: st.LastModified}, nil
}

func (s *MinIOMediaStore) Delete(ctx context.Context, name string) error {
	cleaned, err := cleanMediaName(name)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, cleaned, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", cleaned, err)
	}
	return nil
}

func (s *MinIOMediaStore) Exists(ctx context.Context, name string) (bool, error) {
	cleaned, err := cleanMediaName(name)
	if err != nil {
		return false, err
	}
	_, err = s.client.StatObject(ctx, s.bucket, cleaned, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, err
}

func (s *MinIOMediaStore) URL(name string) string {
	return mediaURL(name)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
