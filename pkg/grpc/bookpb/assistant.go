// Package bookpb holds the bookhub.v1.Assistant messages and service
// bindings described by assistant.proto. Messages are encoded with the
// registered "json" codec.
package bookpb

import (
	_ "embed"

	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

//go:embed assistant.proto
var AssistantProto string

// CodecName is the content subtype clients select with
// grpc.CallContentSubtype.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Book struct {
	Id          int32   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Genre       string  `json:"genre"`
	Year        int32   `json:"year"`
	Bestseller  bool    `json:"bestseller"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
}

func (x *Book) GetId() int32 {
	if x != nil {
		return x.Id
	}
	return 0
}

func (x *Book) GetTitle() string {
	if x != nil {
		return x.Title
	}
	return ""
}

type Intent struct {
	Name       string            `json:"name"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

func (x *Intent) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Intent) GetConfidence() float64 {
	if x != nil {
		return x.Confidence
	}
	return 0
}

func (x *Intent) GetEntities() map[string]string {
	if x != nil {
		return x.Entities
	}
	return nil
}

type ClassifyRequest struct {
	Message string `json:"message"`
}

func (x *ClassifyRequest) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

type ClassifyResponse struct {
	Intent         *Intent `json:"intent"`
	ProcessingUsed string  `json:"processing_used"`
}

func (x *ClassifyResponse) GetIntent() *Intent {
	if x != nil {
		return x.Intent
	}
	return nil
}

func (x *ClassifyResponse) GetProcessingUsed() string {
	if x != nil {
		return x.ProcessingUsed
	}
	return ""
}

type RecommendRequest struct {
	Genre      string `json:"genre,omitempty"`
	Author     string `json:"author,omitempty"`
	Year       int32  `json:"year,omitempty"`
	Bestseller *bool  `json:"bestseller,omitempty"`
	Limit      int32  `json:"limit,omitempty"`
}

func (x *RecommendRequest) GetGenre() string {
	if x != nil {
		return x.Genre
	}
	return ""
}

func (x *RecommendRequest) GetAuthor() string {
	if x != nil {
		return x.Author
	}
	return ""
}

func (x *RecommendRequest) GetYear() int32 {
	if x != nil {
		return x.Year
	}
	return 0
}

// GetBestseller returns nil when the filter is unset.
func (x *RecommendRequest) GetBestseller() *bool {
	if x != nil {
		return x.Bestseller
	}
	return nil
}

func (x *RecommendRequest) GetLimit() int32 {
	if x != nil {
		return x.Limit
	}
	return 0
}

type RecommendResponse struct {
	Books []*Book `json:"books"`
}

func (x *RecommendResponse) GetBooks() []*Book {
	if x != nil {
		return x.Books
	}
	return nil
}

type ChatRequest struct {
	Message string `json:"message"`
	UserId  string `json:"user_id,omitempty"`
}

func (x *ChatRequest) GetMessage() string {
	if x != nil {
		return x.Message
	}
	return ""
}

func (x *ChatRequest) GetUserId() string {
	if x != nil {
		return x.UserId
	}
	return ""
}

type ChatResponse struct {
	Response         string            `json:"response"`
	RecommendedBooks []*Book           `json:"recommended_books"`
	Intent           string            `json:"intent"`
	Confidence       float64           `json:"confidence"`
	Entities         map[string]string `json:"entities,omitempty"`
	ProcessingUsed   string            `json:"processing_used,omitempty"`
	Suggestions      []string          `json:"suggestions,omitempty"`
}

func (x *ChatResponse) GetResponse() string {
	if x != nil {
		return x.Response
	}
	return ""
}

func (x *ChatResponse) GetRecommendedBooks() []*Book {
	if x != nil {
		return x.RecommendedBooks
	}
	return nil
}

func (x *ChatResponse) GetIntent() string {
	if x != nil {
		return x.Intent
	}
	return ""
}
