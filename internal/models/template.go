package models

import "time"

// EngineType identifies the templating language a template body is written in
type EngineType string

const (
	// EngineA renders Liquid/Jinja-style markup (extends/block inheritance)
	EngineA EngineType = "EngineA"
	// EngineB renders Razor-style markup (layout directive + @RenderBody())
	EngineB EngineType = "EngineB"
)

// Valid reports whether the engine type is one of the supported variants
func (e EngineType) Valid() bool {
	return e == EngineA || e == EngineB
}

// Template represents a named message template, optionally inheriting a
// one-level parent layout. Name is the canonical lowercase identity.
type Template struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Parent      string     `json:"parent,omitempty"`
	Body        string     `json:"body"`
	EngineType  EngineType `json:"engineType"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedDate time.Time  `json:"createdDate,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
	UpdatedDate time.Time  `json:"updatedDate,omitempty"`
}

// PageInfo carries the requested page number and size for template listing
type PageInfo struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// PagedTemplates is a read-only projection of one page of the template store
type PagedTemplates struct {
	CurrentPage    int        `json:"currentPage"`
	PageSize       int        `json:"pageSize"`
	PagesCount     int        `json:"pagesCount"`
	TotalTemplates int        `json:"totalTemplates"`
	Templates      []Template `json:"templates"`
}
