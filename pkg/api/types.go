package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Annotations are the independent style flags of a text run.
// A missing flag decodes as false.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

type Link struct {
	URL string `json:"url"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// RichText is a single annotated text run.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	PlainText   string       `json:"plain_text"`
	Href        string       `json:"href,omitempty"`
	Text        *TextContent `json:"text,omitempty"`
	Annotations Annotations  `json:"annotations"`
}

// Content returns text.content, or plain_text for runs without a text
// object (mentions, equations).
func (r RichText) Content() string {
	if r.Text != nil {
		return r.Text.Content
	}
	return r.PlainText
}

// LinkURL returns the run's hyperlink target, or "" when it has none.
func (r RichText) LinkURL() string {
	if r.Text != nil && r.Text.Link != nil {
		return r.Text.Link.URL
	}
	return ""
}

// PlainText concatenates the plain text of all runs.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

// FirstPlainText returns the plain text of the first run, or "".
func FirstPlainText(runs []RichText) string {
	if len(runs) == 0 {
		return ""
	}
	return runs[0].PlainText
}

type FileRef struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

type Icon struct {
	Type     string   `json:"type,omitempty"`
	Emoji    string   `json:"emoji,omitempty"`
	External *FileRef `json:"external,omitempty"`
	File     *FileRef `json:"file,omitempty"`
}

// BlockPayload is the union of the fields found under a block's
// type-named object. Each block type uses a subset.
type BlockPayload struct {
	RichText        []RichText   `json:"rich_text,omitempty"`
	Checked         bool         `json:"checked,omitempty"`
	URL             string       `json:"url,omitempty"`
	Caption         []RichText   `json:"caption,omitempty"`
	Type            string       `json:"type,omitempty"`
	External        *FileRef     `json:"external,omitempty"`
	File            *FileRef     `json:"file,omitempty"`
	TableWidth      int          `json:"table_width,omitempty"`
	HasColumnHeader bool         `json:"has_column_header,omitempty"`
	HasRowHeader    bool         `json:"has_row_header,omitempty"`
	Title           string       `json:"title,omitempty"`
	Cells           [][]RichText `json:"cells,omitempty"`
	Language        string       `json:"language,omitempty"`
	Icon            *Icon        `json:"icon,omitempty"`
	Color           string       `json:"color,omitempty"`
	Children        []Block      `json:"children,omitempty"`
}

// MediaURL resolves the URL of an image or file payload. The payload's
// type selects between the external and the hosted reference; a missing
// reference yields "".
func (p BlockPayload) MediaURL() string {
	switch p.Type {
	case "external":
		if p.External != nil {
			return p.External.URL
		}
	case "file":
		if p.File != nil {
			return p.File.URL
		}
	}
	if p.External != nil {
		return p.External.URL
	}
	if p.File != nil {
		return p.File.URL
	}
	return ""
}

// Block is one node of the content tree. Type is empty for generic
// (database-row) records, which carry Properties instead of a payload.
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	Payload     BlockPayload
	Children    []Block
	Properties  Properties
}

// Kind classifies the block's discriminator.
func (b Block) Kind() Kind { return ParseKind(b.Type) }

// ChildBlocks returns the block's children. Children attached at the top
// level win over children nested in the payload.
func (b Block) ChildBlocks() []Block {
	if len(b.Children) > 0 {
		return b.Children
	}
	return b.Payload.Children
}

// Name returns the rich text of the record's Name title.
func (b Block) Name() []RichText {
	return b.Properties.Title()
}

// reserved top-level keys a payload key must never overwrite.
var reservedBlockKeys = map[string]bool{
	"id": true, "object": true, "type": true, "has_children": true,
	"children": true, "properties": true,
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          string     `json:"id"`
		Type        string     `json:"type"`
		HasChildren bool       `json:"has_children"`
		Children    []Block    `json:"children"`
		Properties  Properties `json:"properties"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Block{
		ID:          aux.ID,
		Type:        aux.Type,
		HasChildren: aux.HasChildren,
		Children:    aux.Children,
		Properties:  aux.Properties,
	}
	if aux.Type == "" || reservedBlockKeys[aux.Type] {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields[aux.Type]
	if !ok || len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(raw, &b.Payload); err != nil {
		return fmt.Errorf("block %s: decode %s: %w", aux.ID, aux.Type, err)
	}
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := map[string]any{"id": b.ID}
	if b.Type != "" {
		out["object"] = "block"
		out["type"] = b.Type
		if !reservedBlockKeys[b.Type] {
			out[b.Type] = b.Payload
		}
	} else {
		out["object"] = "page"
	}
	if b.HasChildren {
		out["has_children"] = true
	}
	if len(b.Children) > 0 {
		out["children"] = b.Children
	}
	if b.Properties != nil {
		out["properties"] = b.Properties
	}
	return json.Marshal(out)
}

// Page is a page record of the external store.
type Page struct {
	ID             string     `json:"id"`
	CreatedTime    time.Time  `json:"created_time"`
	LastEditedTime time.Time  `json:"last_edited_time"`
	URL            string     `json:"url,omitempty"`
	Archived       bool       `json:"archived,omitempty"`
	Properties     Properties `json:"properties"`
}

// Title returns properties.Name.title.
func (p Page) Title() []RichText { return p.Properties.Title() }

// AsRecord converts a page of a collection into a generic record block.
func (p Page) AsRecord() Block {
	return Block{ID: p.ID, Properties: p.Properties}
}

// Records converts collection pages into record blocks, keeping order.
func Records(pages []Page) []Block {
	if pages == nil {
		return nil
	}
	out := make([]Block, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.AsRecord())
	}
	return out
}
