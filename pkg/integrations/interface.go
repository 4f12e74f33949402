package integrations

import "github.com/littleroot/bookpress/pkg/data"

// BookBuilder assembles a story into a book file one drawable element at a
// time, in story order. A nil image on AddPage means the page renders its
// text instead.
type BookBuilder interface {
	Init(story *data.Story, formatID string) error
	SetCover(img ImageData) error
	AddPage(page *data.Page, img *ImageData) error
	Done() (string, error)
}
