package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sop.yaml
var embeddedSOP []byte

// Node is one step of the scripted guide.
type Node struct {
	Key     string   `yaml:"key" json:"key"`
	Text    string   `yaml:"text" json:"text"`
	Options []string `yaml:"options" json:"options"`
}

// Script is an ordered set of guide nodes.
type Script struct {
	Nodes []Node `yaml:"nodes"`

	index map[string]int
}

// ErrEmpty reports a script document without nodes.
var ErrEmpty = errors.New("script: no nodes defined")

// Default parses the embedded guide. The embedded file is validated by tests,
// so a failure here is a build defect.
func Default() *Script {
	s, err := Parse(embeddedSOP)
	if err != nil {
		panic(fmt.Sprintf("script: embedded guide invalid: %v", err))
	}
	return s
}

// Parse decodes a guide from YAML bytes.
func Parse(data []byte) (*Script, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a guide from path. An empty path selects the embedded guide.
func LoadFile(path string) (*Script, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	return s, nil
}

func (s *Script) normalize() error {
	if len(s.Nodes) == 0 {
		return ErrEmpty
	}
	s.index = make(map[string]int, len(s.Nodes))
	for i := range s.Nodes {
		node := &s.Nodes[i]
		node.Key = strings.TrimSpace(node.Key)
		if node.Key == "" {
			return fmt.Errorf("script: node %d has no key", i+1)
		}
		if _, dup := s.index[node.Key]; dup {
			return fmt.Errorf("script: duplicate node key %q", node.Key)
		}
		if strings.TrimSpace(node.Text) == "" {
			return fmt.Errorf("script: node %q has no text", node.Key)
		}
		options := node.Options[:0]
		for _, opt := range node.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		node.Options = options
		s.index[node.Key] = i
	}
	return nil
}

// Len reports the number of nodes.
func (s *Script) Len() int {
	return len(s.Nodes)
}

// List returns a copy of every node in file order.
func (s *Script) List() []Node {
	out := make([]Node, len(s.Nodes))
	for i, node := range s.Nodes {
		out[i] = node.clone()
	}
	return out
}

// Lookup returns the node stored under key.
func (s *Script) Lookup(key string) (Node, bool) {
	idx, ok := s.index[strings.TrimSpace(key)]
	if !ok {
		return Node{}, false
	}
	return s.Nodes[idx].clone(), true
}

// Start returns the first node of the guide.
func (s *Script) Start() Node {
	return s.Nodes[0].clone()
}

func (n Node) clone() Node {
	if n.Options != nil {
		n.Options = append([]string(nil), n.Options...)
	}
	return n
}
