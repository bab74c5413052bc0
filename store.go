package ezoterika

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for posts and
// media metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers run during a write; busy_timeout makes writers wait
	// instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    preview_text TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    preview_image TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT 'other',
    accessibility TEXT NOT NULL DEFAULT 'all',
    published INTEGER NOT NULL DEFAULT 1,
    views INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_feed ON posts (published, created_at);
CREATE TABLE IF NOT EXISTS media (
    name TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    size INTEGER NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const postColumns = `id, title, preview_text, content, preview_image, category, accessibility, published, views, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var (
		p                    Post
		category, access     string
		published            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Title, &p.PreviewText, &p.Content, &p.PreviewImage,
		&category, &access, &published, &p.Views, &createdAt, &updatedAt); err != nil {
		return Post{}, err
	}
	p.Category = Category(category)
	p.Accessibility = Accessibility(access)
	p.Published = published == 1
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns all published posts, newest first. If category is
// non-empty, results are filtered to that category.
func (s *Store) ListPosts(category Category) ([]Post, error) {
	if category == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY created_at DESC`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 AND category = ? ORDER BY created_at DESC`, string(category))
}

// ListAllPosts returns every post (published and drafts), newest first.
func (s *Store) ListAllPosts() ([]Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
}

// GetPost returns a single published post by id.
func (s *Store) GetPost(id string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ? AND published = 1`, id))
}

// GetPostAny returns a post by id regardless of published status (for admin).
func (s *Store) GetPostAny(id string) (Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

// SavePost inserts or updates a post and returns it as stored. A post
// without an ID gets a new UUID. CreatedAt and the view counter are kept
// on update.
func (s *Store) SavePost(p Post) (Post, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Category == "" {
		p.Category = CategoryOther
	}
	if p.Accessibility == "" {
		p.Accessibility = AccessAll
	}
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`
INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    preview_text = excluded.preview_text,
    content = excluded.content,
    preview_image = excluded.preview_image,
    category = excluded.category,
    accessibility = excluded.accessibility,
    published = excluded.published,
    updated_at = excluded.updated_at`,
		p.ID, p.Title, p.PreviewText, p.Content, p.PreviewImage, string(p.Category), string(p.Accessibility),
		published, p.CreatedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// IncrementViews adds one to the view counter of a published post.
func (s *Store) IncrementViews(id string) error {
	res, err := s.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = ? AND published = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveMedia records an uploaded file, replacing any record with the same name.
func (s *Store) SaveMedia(m Media) error {
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO media (name, type, size, width, height, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		m.Name, m.Type, m.Size, m.Width, m.Height, m.UploadedAt.UTC().Format(timeLayout))
	return err
}

// ListMedia returns all media records, newest first.
func (s *Store) ListMedia() ([]Media, error) {
	rows, err := s.db.Query(`SELECT name, type, size, width, height, uploaded_at FROM media ORDER BY uploaded_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Media
	for rows.Next() {
		var m Media
		var uploadedAt string
		if err := rows.Scan(&m.Name, &m.Type, &m.Size, &m.Width, &m.Height, &uploadedAt); err != nil {
			return nil, err
		}
		m.UploadedAt, _ = time.Parse(timeLayout, uploadedAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMedia removes the record for name.
func (s *Store) DeleteMedia(name string) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE name = ?`, name)
	return err
}

// MediaExists reports whether a record for name exists.
func (s *Store) MediaExists(name string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM media WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
