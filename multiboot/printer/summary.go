package printer

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/mbkit/multiboot/bootinfo"
)

// Summary is the format-neutral view of a structure that every output format
// is rendered from.
type Summary struct {
	Kind   string       `json:"kind" yaml:"kind"`
	Fields Fields       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Tags   []TagSummary `json:"tags" yaml:"tags"`
}

// TagSummary describes one tag.
type TagSummary struct {
	Type   string   `json:"type" yaml:"type"`
	ID     uint32   `json:"id" yaml:"id"`
	Offset int      `json:"offset" yaml:"offset"`
	Size   uint32   `json:"size" yaml:"size"`
	Flags  string   `json:"flags,omitempty" yaml:"flags,omitempty"`
	Fields Fields   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Field is one named value. Values are strings, integers, booleans or
// string slices.
type Field struct {
	Name  string
	Value any
}

// Fields keeps its order in every output format.
type Fields []Field

// MarshalJSON writes the fields as an object in order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(fld.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fld.Name, err)
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML writes the fields as a mapping in order.
func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, fld := range f {
		var v yaml.Node
		if err := v.Encode(fld.Value); err != nil {
			return nil, fmt.Errorf("field %s: %w", fld.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fld.Name}, &v)
	}
	return node, nil
}

// Get returns the value of the named field.
func (f Fields) Get(name string) (any, bool) {
	for _, fld := range f {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return nil, false
}

// fieldSet accumulates fields and decode errors for one tag.
type fieldSet struct {
	fields   Fields
	errs     []string
	maxBytes int
}

func (s *fieldSet) add(name string, v any) { s.fields = append(s.fields, Field{name, v}) }

func (s *fieldSet) hex(name string, v uint64) { s.add(name, fmt.Sprintf("%#x", v)) }

func (s *fieldSet) fail(err error) { s.errs = append(s.errs, err.Error()) }

// data adds a hex rendering of b, truncated to the configured limit.
func (s *fieldSet) data(name string, b []byte) {
	s.add(name+"_len", len(b))
	if len(b) == 0 {
		return
	}
	shown := b
	if s.maxBytes > 0 && len(b) > s.maxBytes {
		shown = b[:s.maxBytes]
	}
	out := hex.EncodeToString(shown)
	if len(shown) < len(b) {
		out += "..."
	}
	s.add(name, out)
}

// str adds a decoded string field. Strings that are not UTF-8 are shown as
// Windows-1252, which firmware and older bootloaders commonly emit, and the
// decode error is recorded.
func (s *fieldSet) str(name string, v string, err error) {
	if err == nil {
		s.add(name, v)
		return
	}
	s.fail(err)
	var se *bootinfo.StringError
	if errors.As(err, &se) && se.Raw != nil {
		if dec, derr := charmap.Windows1252.NewDecoder().Bytes(se.Raw); derr == nil {
			s.add(name, string(dec))
		}
	}
}
