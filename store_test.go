package ezoterika

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSave(t *testing.T, s *Store, p Post) Post {
	t.Helper()
	saved, err := s.SavePost(p)
	if err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	return saved
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 10, 0, 0, 0, time.UTC)
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{
		Title:         "Test Post",
		PreviewText:   "A test post preview",
		Content:       "## Test Post\n\nA test post preview",
		PreviewImage:  "/media/images/moon.jpg",
		Category:      CategoryTarot,
		Accessibility: AccessSubscribers,
		Published:     true,
	})
	if post.ID == "" {
		t.Fatal("SavePost should assign an id")
	}
	if post.CreatedAt.IsZero() || post.UpdatedAt.IsZero() {
		t.Fatal("SavePost should set timestamps")
	}

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.PreviewText != post.PreviewText {
		t.Errorf("PreviewText = %q, want %q", got.PreviewText, post.PreviewText)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.PreviewImage != post.PreviewImage {
		t.Errorf("PreviewImage = %q, want %q", got.PreviewImage, post.PreviewImage)
	}
	if got.Category != CategoryTarot {
		t.Errorf("Category = %q, want %q", got.Category, CategoryTarot)
	}
	if got.Accessibility != AccessSubscribers {
		t.Errorf("Accessibility = %q, want %q", got.Accessibility, AccessSubscribers)
	}
	if !got.Published {
		t.Error("Published should be true")
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, post.CreatedAt)
	}
}

func TestSavePostDefaults(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{Title: "Bare", Content: "Bare", Published: true})
	if post.Category != CategoryOther {
		t.Errorf("Category = %q, want %q", post.Category, CategoryOther)
	}
	if post.Accessibility != AccessAll {
		t.Errorf("Accessibility = %q, want %q", post.Accessibility, AccessAll)
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{
		Title:     "Original Title",
		Content:   "Original content",
		CreatedAt: day(1),
		Published: true,
	})
	if err := s.IncrementViews(post.ID); err != nil {
		t.Fatalf("IncrementViews failed: %v", err)
	}

	post.Title = "Updated Title"
	post.Category = CategoryMeditation
	post.CreatedAt = day(5)
	mustSave(t, s, post)

	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if got.Category != CategoryMeditation {
		t.Errorf("Category = %q, want %q", got.Category, CategoryMeditation)
	}
	if got.Views != 1 {
		t.Errorf("Views = %d, want 1 (update must keep the counter)", got.Views)
	}
	if !got.CreatedAt.Equal(day(1)) {
		t.Errorf("CreatedAt = %v, want %v (update must keep it)", got.CreatedAt, day(1))
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetPost("nonexistent")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetPostUnpublished(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{Title: "Draft", Content: "Draft content"})

	// GetPost should not find unpublished posts
	_, err := s.GetPost(post.ID)
	if err != sql.ErrNoRows {
		t.Errorf("GetPost should return ErrNoRows for unpublished, got %v", err)
	}

	// GetPostAny should find unpublished posts
	got, err := s.GetPostAny(post.ID)
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("Published should be false")
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)

	mustSave(t, s, Post{Title: "Oldest", Content: "a", CreatedAt: day(1), Published: true, Category: CategoryTarot})
	mustSave(t, s, Post{Title: "Newest", Content: "b", CreatedAt: day(3), Published: true, Category: CategoryAstrology})
	mustSave(t, s, Post{Title: "Middle", Content: "c", CreatedAt: day(2), Published: true, Category: CategoryTarot})
	mustSave(t, s, Post{Title: "Draft", Content: "d", CreatedAt: day(4)})

	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	want := []string{"Newest", "Middle", "Oldest"}
	if len(posts) != len(want) {
		t.Fatalf("ListPosts returned %d posts, want %d", len(posts), len(want))
	}
	for i, p := range posts {
		if p.Title != want[i] {
			t.Errorf("posts[%d].Title = %q, want %q", i, p.Title, want[i])
		}
	}

	tarot, err := s.ListPosts(CategoryTarot)
	if err != nil {
		t.Fatalf("ListPosts(tarot) failed: %v", err)
	}
	if len(tarot) != 2 || tarot[0].Title != "Middle" || tarot[1].Title != "Oldest" {
		t.Errorf("ListPosts(tarot) = %v, want [Middle Oldest]", titles(tarot))
	}
}

func TestListAllPosts(t *testing.T) {
	s := setupTestStore(t)

	mustSave(t, s, Post{Title: "Published", Content: "a", CreatedAt: day(1), Published: true})
	mustSave(t, s, Post{Title: "Draft", Content: "b", CreatedAt: day(2)})

	posts, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ListAllPosts returned %d posts, want 2", len(posts))
	}
	if posts[0].Title != "Draft" {
		t.Errorf("posts[0].Title = %q, want %q", posts[0].Title, "Draft")
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{Title: "Doomed", Content: "x", Published: true})
	if err := s.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPostAny(post.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestDeleteNonexistentPost(t *testing.T) {
	s := setupTestStore(t)

	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost of missing post should not fail, got %v", err)
	}
}

func TestIncrementViews(t *testing.T) {
	s := setupTestStore(t)

	post := mustSave(t, s, Post{Title: "Popular", Content: "x", Published: true})
	for i := 0; i < 3; i++ {
		if err := s.IncrementViews(post.ID); err != nil {
			t.Fatalf("IncrementViews failed: %v", err)
		}
	}
	got, err := s.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("Views = %d, want 3", got.Views)
	}

	draft := mustSave(t, s, Post{Title: "Draft", Content: "x"})
	if err := s.IncrementViews(draft.ID); err != ErrNotFound {
		t.Errorf("IncrementViews on a draft = %v, want ErrNotFound", err)
	}
}

func TestMediaRecords(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SaveMedia(Media{Name: "images/moon.jpg", Type: "image/jpeg", Size: 1200, Width: 800, Height: 600, UploadedAt: day(1)}); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}
	if err := s.SaveMedia(Media{Name: "audio/chant.mp3", Type: "audio/mpeg", Size: 5000, UploadedAt: day(2)}); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}

	media, err := s.ListMedia()
	if err != nil {
		t.Fatalf("ListMedia failed: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("ListMedia returned %d records, want 2", len(media))
	}
	if media[0].Name != "audio/chant.mp3" || !media[0].IsAudio() {
		t.Errorf("media[0] = %+v, want the audio record first", media[0])
	}
	if media[1].Width != 800 || media[1].Height != 600 {
		t.Errorf("media[1] size = %dx%d, want 800x600", media[1].Width, media[1].Height)
	}

	ok, err := s.MediaExists("audio/chant.mp3")
	if err != nil || !ok {
		t.Errorf("MediaExists(chant) = %v, %v; want true, nil", ok, err)
	}
	if err := s.DeleteMedia("audio/chant.mp3"); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}
	ok, err = s.MediaExists("audio/chant.mp3")
	if err != nil || ok {
		t.Errorf("MediaExists after delete = %v, %v; want false, nil", ok, err)
	}
}

func titles(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}
