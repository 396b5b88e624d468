package search

import (
	"strings"

	"nriassist/internal/script"
)

// Source identifies where a document came from.
type Source string

const (
	SourceScript       Source = "script"
	SourceTranscript   Source = "transcript"
	SourceUploadedFile Source = "uploadedFile"
)

// Document is one searchable entry.
type Document struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	Source  Source   `json:"source"`
	Key     string   `json:"key,omitempty"`
}

func (d Document) clone() Document {
	if d.Options != nil {
		d.Options = append([]string(nil), d.Options...)
	}
	return d
}

// Documents assembles the document set in insertion order: script nodes,
// then transcript texts, then uploaded file names. Blank entries are skipped.
func Documents(nodes []script.Node, transcript []string, uploads []string) []Document {
	docs := make([]Document, 0, len(nodes)+len(transcript)+len(uploads))
	for _, node := range nodes {
		docs = append(docs, Document{
			Text:    node.Text,
			Options: append([]string(nil), node.Options...),
			Source:  SourceScript,
			Key:     node.Key,
		})
	}
	for _, text := range transcript {
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, Document{Text: text, Source: SourceTranscript})
	}
	for _, name := range uploads {
		if strings.TrimSpace(name) == "" {
			continue
		}
		docs = append(docs, Document{Text: name, Source: SourceUploadedFile})
	}
	return docs
}

// Build indexes the assembled document set.
func Build(nodes []script.Node, transcript []string, uploads []string, opts ...Option) *Index {
	return NewIndex(Documents(nodes, transcript, uploads), opts...)
}
