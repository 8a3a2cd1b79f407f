package export

import "math"

// PromptRecord is a single user-authored prompt recovered from the export.
type PromptRecord struct {
	Text string
	// Timestamp is epoch seconds. Zero means the source carried no usable time.
	Timestamp float64
}

// Dated reports whether the record carries a usable timestamp.
func (r PromptRecord) Dated() bool {
	return r.Timestamp > 0 && !math.IsInf(r.Timestamp, 0) && !math.IsNaN(r.Timestamp)
}

// Shape identifies which export layout a conversation was parsed from.
type Shape int

const (
	ShapeGraph Shape = iota
	ShapeFlat
)

func (s Shape) String() string {
	switch s {
	case ShapeGraph:
		return "graph"
	case ShapeFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Conversation is either a GraphConversation or a FlatConversation.
type Conversation interface {
	Shape() Shape
	Prompts() []PromptRecord
	conversation()
}
