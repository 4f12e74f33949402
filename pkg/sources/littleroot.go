package sources

import (
	"fmt"
	"net/url"

	"github.com/littleroot/bookpress/pkg/data"
	"github.com/littleroot/bookpress/pkg/utils"
)

type Story struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CoverImageURL string `json:"coverImageUrl"`
	PDFFormat     string `json:"pdfFormat"`
}

func (s *Story) ToStory() *data.Story {
	return &data.Story{
		ID:            s.ID,
		Title:         s.Title,
		Description:   s.Description,
		CoverImageURL: s.CoverImageURL,
		PDFFormat:     s.PDFFormat,
	}
}

type Page struct {
	ID         string `json:"id"`
	StoryID    string `json:"storyId"`
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
	ImageURL   string `json:"imageUrl"`
}

func (p *Page) ToPage() *data.Page {
	return &data.Page{
		ID:         p.ID,
		StoryID:    p.StoryID,
		PageNumber: p.PageNumber,
		Text:       p.Text,
		ImageURL:   p.ImageURL,
	}
}

// LittleRoot talks to the LittleRoot Studios story API.
type LittleRoot struct {
	api *utils.API
}

func NewLittleRoot() *LittleRoot {
	return &LittleRoot{api: utils.NewAPI("https://api.littleroot.studio/v1")}
}

// NewLittleRootWithBaseURL points the client at a non-production API.
func NewLittleRootWithBaseURL(baseURL string) *LittleRoot {
	return &LittleRoot{api: utils.NewAPI(baseURL)}
}

// SetToken forwards the session token used for authenticated requests.
func (l *LittleRoot) SetToken(token string) {
	l.api.SetToken(token)
}

func (l *LittleRoot) Search(query string) ([]*data.Story, error) {
	params := url.Values{}
	params.Set("title", query)

	var stories struct {
		Data []Story `json:"data"`
	}
	if err := l.api.Get("/stories", params, &stories); err != nil {
		return nil, err
	}

	out := make([]*data.Story, len(stories.Data))
	for i, story := range stories.Data {
		out[i] = story.ToStory()
	}
	return out, nil
}

func (l *LittleRoot) GetStory(id string) (*data.Story, error) {
	var story struct {
		Data Story `json:"data"`
	}
	if err := l.api.Get(fmt.Sprintf("/stories/%s", id), nil, &story); err != nil {
		return nil, err
	}
	return story.Data.ToStory(), nil
}

func (l *LittleRoot) GetPages(story *data.Story) ([]*data.Page, error) {
	var pages struct {
		Data []Page `json:"data"`
	}
	if err := l.api.Get(fmt.Sprintf("/stories/%s/pages", story.ID), nil, &pages); err != nil {
		return nil, err
	}

	out := make([]*data.Page, len(pages.Data))
	for i, page := range pages.Data {
		p := page.ToPage()
		if p.StoryID == "" {
			p.StoryID = story.ID
		}
		out[i] = p
	}
	return out, nil
}
