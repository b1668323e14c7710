package report

import "context"

// Measurer word-wraps text the way the renderer will draw it.
type Measurer interface {
	Wrap(text string, fontSize, width float64) []string
}

// Renderer turns a composed document into binary document bytes.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	ContentType() string
}

// Archive stores rendered reports and returns where they can be fetched.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
