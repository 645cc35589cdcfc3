package resource

import (
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const (
	BlogDraft     Status = "draft"
	BlogPublished Status = "published"
	BlogArchived  Status = "archived"
)

// Blog is a post of the CMS module. Content is markdown.
type Blog struct {
	ID         ID         `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug,omitempty"`
	Excerpt    string     `json:"excerpt,omitempty"`
	Content    string     `json:"content,omitempty"`
	CoverImage string     `json:"coverImage,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Author     string     `json:"author,omitempty"`
	Status     Status     `json:"status"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

func (b Blog) ResourceID() ID {
	return b.ID
}

func (b Blog) ResourceStatus() Status {
	return b.Status
}

// ContentHTML renders the markdown content of the post.
func (b Blog) ContentHTML() string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(b.Content))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	return string(markdown.Render(doc, renderer))
}
