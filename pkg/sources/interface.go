package sources

import "github.com/littleroot/bookpress/pkg/data"

type Source interface {
	Search(query string) ([]*data.Story, error)
	GetStory(id string) (*data.Story, error)
	GetPages(story *data.Story) ([]*data.Page, error)
}
