package data

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS stories (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			description VARCHAR DEFAULT '',
			cover_image_url VARCHAR DEFAULT '',
			pdf_format VARCHAR DEFAULT '',
			status VARCHAR DEFAULT ''
		)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS pages (
			id VARCHAR PRIMARY KEY,
			story_id VARCHAR NOT NULL,
			page_number INTEGER NOT NULL,
			text VARCHAR DEFAULT '',
			image_url VARCHAR DEFAULT ''
		)`)
	return err
}

type Repository struct {
	db *sql.DB
}

var duckDB *sql.DB

// DefaultDBPath is where the library lives unless a caller overrides it.
func DefaultDBPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".bookpress", "library.db")
}

func NewDuckDBRepository() *Repository {
	if duckDB == nil {
		db, err := InitDuckDB(DefaultDBPath())
		if err != nil {
			log.Fatal(err)
		}
		duckDB = db
	}

	return &Repository{db: duckDB}
}

// NewRepositoryWithDB wraps an already-open database handle.
func NewRepositoryWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveStory inserts or updates a story by ID.
func (r *Repository) SaveStory(story *Story) error {
	_, err := r.db.Exec(`
		INSERT INTO stories (id, title, description, cover_image_url, pdf_format, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			cover_image_url = excluded.cover_image_url,
			pdf_format = excluded.pdf_format,
			status = excluded.status`,
		story.ID, story.Title, story.Description, story.CoverImageURL, story.PDFFormat, story.Status)
	return err
}

// GetStory returns nil without error when the story does not exist.
func (r *Repository) GetStory(id string) (*Story, error) {
	row := r.db.QueryRow(`
		SELECT id, title, description, cover_image_url, pdf_format, status
		FROM stories WHERE id = ?`, id)

	var story Story
	err := row.Scan(&story.ID, &story.Title, &story.Description,
		&story.CoverImageURL, &story.PDFFormat, &story.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *Repository) ListStories() ([]*Story, error) {
	rows, err := r.db.Query(`
		SELECT id, title, description, cover_image_url, pdf_format, status
		FROM stories ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*Story
	for rows.Next() {
		var story Story
		if err := rows.Scan(&story.ID, &story.Title, &story.Description,
			&story.CoverImageURL, &story.PDFFormat, &story.Status); err != nil {
			return nil, err
		}
		stories = append(stories, &story)
	}
	return stories, rows.Err()
}

// SavePage inserts or updates a page by ID.
func (r *Repository) SavePage(page *Page) error {
	_, err := r.db.Exec(`
		INSERT INTO pages (id, story_id, page_number, text, image_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			story_id = excluded.story_id,
			page_number = excluded.page_number,
			text = excluded.text,
			image_url = excluded.image_url`,
		page.ID, page.StoryID, page.PageNumber, page.Text, page.ImageURL)
	return err
}

// GetPages returns a story's pages ordered by page number.
func (r *Repository) GetPages(storyID string) ([]*Page, error) {
	rows, err := r.db.Query(`
		SELECT id, story_id, page_number, text, image_url
		FROM pages WHERE story_id = ? ORDER BY page_number`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.ID, &page.StoryID, &page.PageNumber,
			&page.Text, &page.ImageURL); err != nil {
			return nil, err
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

func (r *Repository) UpdateStoryStatus(storyID string, status string) error {
	_, err := r.db.Exec(`UPDATE stories SET status = ? WHERE id = ?`, status, storyID)
	return err
}

// DeleteStory removes a story and all of its pages.
func (r *Repository) DeleteStory(storyID string) error {
	if _, err := r.db.Exec(`DELETE FROM pages WHERE story_id = ?`, storyID); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM stories WHERE id = ?`, storyID)
	return err
}

// GetStoryWithPageCount returns a story along with how many pages it has.
func (r *Repository) GetStoryWithPageCount(storyID string) (*Story, int, error) {
	story, err := r.GetStory(storyID)
	if err != nil || story == nil {
		return story, 0, err
	}

	var count int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM pages WHERE story_id = ?`, storyID).Scan(&count)
	if err != nil {
		return story, 0, err
	}
	return story, count, nil
}
