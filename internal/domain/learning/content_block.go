package learning

import (
	"encoding/json"
	"fmt"
)

const (
	ComponentText          = "coursecontent.text"
	ComponentImage         = "coursecontent.image"
	ComponentVideo         = "coursecontent.video"
	ComponentExternalVideo = "coursecontent.external-video"
	ComponentQuiz          = "coursecontent.quiz"
	ComponentPageBreak     = "coursecontent.pagebreaker"
)

// ContentBlock is one entry of a course's ordered content. Concrete variants
// are TextBlock, ImageBlock, VideoBlock, ExternalVideoBlock, QuizBlock,
// PageBreak and RawBlock (any component this build does not know about).
type ContentBlock interface {
	Component() string
}

type TextBlock struct {
	Data  string          `json:"data"`
	Style json.RawMessage `json:"style,omitempty"`
}

type ImageBlock struct {
	ImageURL string `json:"image_url,omitempty"`
}

type VideoBlock struct {
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type ExternalVideoBlock struct {
	Caption     string `json:"caption,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

type QuizBlock struct {
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
}

// PageBreak closes a page of content. UnitUUID is the stable identity of that
// page for progress tracking.
type PageBreak struct {
	UnitUUID   string `json:"unit_uuid,omitempty"`
	BackButton bool   `json:"backbutton"`
	NextButton bool   `json:"nextbutton"`
}

type RawBlock struct {
	Kind string
	Raw  json.RawMessage
}

func (TextBlock) Component() string          { return ComponentText }
func (ImageBlock) Component() string         { return ComponentImage }
func (VideoBlock) Component() string         { return ComponentVideo }
func (ExternalVideoBlock) Component() string { return ComponentExternalVideo }
func (QuizBlock) Component() string          { return ComponentQuiz }
func (*PageBreak) Component() string         { return ComponentPageBreak }
func (b RawBlock) Component() string         { return b.Kind }

// ContentBlocks is the JSON form of a course's content: an array of objects
// discriminated by "__component".
type ContentBlocks []ContentBlock

type componentTag struct {
	Component string `json:"__component"`
}

func (bs *ContentBlocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(ContentBlocks, 0, len(raws))
	for i, raw := range raws {
		var tag componentTag
		if err := json.Unmarshal(raw, &tag); err != nil {
			return fmt.Errorf("content block %d: %w", i, err)
		}
		b, err := decodeBlock(tag.Component, raw)
		if err != nil {
			return fmt.Errorf("content block %d (%s): %w", i, tag.Component, err)
		}
		out = append(out, b)
	}
	*bs = out
	return nil
}

func decodeBlock(kind string, raw json.RawMessage) (ContentBlock, error) {
	var target ContentBlock
	switch kind {
	case ComponentText:
		target = &TextBlock{}
	case ComponentImage:
		target = &ImageBlock{}
	case ComponentVideo:
		target = &VideoBlock{}
	case ComponentExternalVideo:
		target = &ExternalVideoBlock{}
	case ComponentQuiz:
		target = &QuizBlock{}
	case ComponentPageBreak:
		target = &PageBreak{BackButton: true, NextButton: true}
	default:
		return RawBlock{Kind: kind, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	switch b := target.(type) {
	case *TextBlock:
		return *b, nil
	case *ImageBlock:
		return *b, nil
	case *VideoBlock:
		return *b, nil
	case *ExternalVideoBlock:
		return *b, nil
	case *QuizBlock:
		return *b, nil
	}
	return target, nil
}

func (bs ContentBlocks) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(bs))
	for i, b := range bs {
		if rb, ok := b.(RawBlock); ok {
			out = append(out, rb.Raw)
			continue
		}
		body, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		fields["__component"], _ = json.Marshal(b.Component())
		merged, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("content block %d: %w", i, err)
		}
		out = append(out, merged)
	}
	return json.Marshal(out)
}

// PageBreaks returns the page-break variants in content order. The returned
// pointers alias the blocks, so callers may assign UnitUUIDs in place.
func (bs ContentBlocks) PageBreaks() []*PageBreak {
	var out []*PageBreak
	for _, b := range bs {
		if pb, ok := b.(*PageBreak); ok && pb != nil {
			out = append(out, pb)
		}
	}
	return out
}

func NewPageBreak(unitUUID string) *PageBreak {
	return &PageBreak{UnitUUID: unitUUID, BackButton: true, NextButton: true}
}

// UnitUUIDs lists the non-empty unit ids in content order.
func (bs ContentBlocks) UnitUUIDs() []string {
	out := make([]string, 0)
	for _, pb := range bs.PageBreaks() {
		if pb.UnitUUID != "" {
			out = append(out, pb.UnitUUID)
		}
	}
	return out
}
