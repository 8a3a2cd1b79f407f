package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// GraphConversation is the node-mapping layout of the official export.
type GraphConversation struct {
	Mapping gjson.Result
}

func (GraphConversation) Shape() Shape { return ShapeGraph }
func (GraphConversation) conversation() {}

// Prompts emits one record per non-blank string part of every user node.
// Nodes without a usable create_time still yield records.
func (g GraphConversation) Prompts() []PromptRecord {
	var out []PromptRecord
	g.Mapping.ForEach(func(_, node gjson.Result) bool {
		out = append(out, graphNodePrompts(node)...)
		return true
	})
	return out
}

func graphNodePrompts(node gjson.Result) []PromptRecord {
	if !node.IsObject() {
		return nil
	}
	msg := node.Get("message")
	if !msg.IsObject() {
		return nil
	}
	if msg.Get("author.role").String() != "user" {
		return nil
	}
	content := msg.Get("content")
	if !content.IsObject() {
		return nil
	}
	parts := content.Get("parts")
	if !parts.IsArray() {
		return nil
	}
	ts, err := epochSeconds(msg.Get("create_time"))
	if err != nil {
		return nil
	}

	var out []PromptRecord
	parts.ForEach(func(_, part gjson.Result) bool {
		if part.Type == gjson.String && strings.TrimSpace(part.Str) != "" {
			out = append(out, PromptRecord{Text: part.Str, Timestamp: ts})
		}
		return true
	})
	return out
}

// FlatConversation is a plain list of role/content messages.
type FlatConversation struct {
	Items gjson.Result
}

func (FlatConversation) Shape() Shape { return ShapeFlat }
func (FlatConversation) conversation() {}

// Prompts emits one record per user item that has both text and a non-zero timestamp.
func (f FlatConversation) Prompts() []PromptRecord {
	var out []PromptRecord
	f.Items.ForEach(func(_, item gjson.Result) bool {
		if rec, ok := flatItemPrompt(item); ok {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func flatItemPrompt(item gjson.Result) (PromptRecord, bool) {
	if !item.IsObject() || item.Get("role").String() != "user" {
		return PromptRecord{}, false
	}

	text := item.Get("content")
	if !text.Exists() {
		text = item.Get("text")
	}
	if text.Type != gjson.String || strings.TrimSpace(text.Str) == "" {
		return PromptRecord{}, false
	}

	rawTS := item.Get("create_time")
	if !rawTS.Exists() {
		rawTS = item.Get("timestamp")
	}
	ts, err := epochSeconds(rawTS)
	if err != nil || ts == 0 {
		return PromptRecord{}, false
	}
	return PromptRecord{Text: text.Str, Timestamp: ts}, true
}

// epochSeconds coerces a JSON timestamp to float seconds.
// Missing and null values are zero; non-numeric values are an error.
func epochSeconds(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: %w", v.Str, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("timestamp has unsupported type %s", v.Type)
	}
}

// Conversations returns the conversations found under root in document order.
// Elements that match neither layout are dropped.
func Conversations(root gjson.Result) []Conversation {
	list := root
	if root.IsObject() {
		if root.Get("mapping").Exists() {
			if c := parseConversation(root); c != nil {
				return []Conversation{c}
			}
			return nil
		}
		list = firstArrayMember(root)
	}
	if !list.IsArray() {
		return nil
	}

	var convs []Conversation
	list.ForEach(func(_, el gjson.Result) bool {
		if c := parseConversation(el); c != nil {
			convs = append(convs, c)
		}
		return true
	})
	return convs
}

// parseConversation is the single point where an element's layout is decided.
func parseConversation(el gjson.Result) Conversation {
	switch {
	case el.IsArray():
		return FlatConversation{Items: el}
	case el.IsObject():
		mapping := el.Get("mapping")
		if !mapping.IsObject() {
			return nil
		}
		return GraphConversation{Mapping: mapping}
	default:
		return nil
	}
}

func firstArrayMember(obj gjson.Result) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(_, v gjson.Result) bool {
		if v.IsArray() {
			found = v
			return false
		}
		return true
	})
	return found
}

// Walk extracts every user prompt from the document in traversal order.
func Walk(doc *Document) ([]PromptRecord, error) {
	var records []PromptRecord
	for _, c := range Conversations(doc.Root) {
		records = append(records, c.Prompts()...)
	}
	if len(records) == 0 {
		return nil, ErrNoPrompts
	}
	return records, nil
}
