package parser

import "encoding/json"

type jsonToken struct {
	Kind      string   `json:"kind"`
	Offset    int      `json:"offset"`
	Length    int      `json:"length"`
	ModeStack []string `json:"modeStack,omitempty"`
}

type jsonPhrase struct {
	Kind       string     `json:"kind"`
	Unexpected *jsonToken `json:"unexpected,omitempty"`
	Expected   string     `json:"expected,omitempty"`
	Children   []Node     `json:"children,omitempty"`
}

func (t *Token) toJSON() *jsonToken {
	jt := &jsonToken{
		Kind:   t.Kind.String(),
		Offset: t.Offset,
		Length: t.Length,
	}
	for _, m := range t.ModeStack {
		jt.ModeStack = append(jt.ModeStack, m.String())
	}
	return jt
}

func (t *Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

func (p *Phrase) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonPhrase{
		Kind:     p.Kind.String(),
		Children: p.Children,
	})
}

func (e *ParseError) MarshalJSON() ([]byte, error) {
	jp := &jsonPhrase{
		Kind:       e.Kind.String(),
		Unexpected: e.Unexpected.toJSON(),
		Children:   e.Children,
	}
	if e.Expected != TokenNone {
		jp.Expected = e.Expected.String()
	}
	return json.Marshal(jp)
}
