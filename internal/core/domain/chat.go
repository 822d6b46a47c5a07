package domain

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn in a chat transcript. Messages are appended
// monotonically; the last model message grows in place while a response
// is streaming.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatFragment is one incremental unit of a streamed chat response.
// Text carries a delta to append; FacilityID and Route are side-channel
// directives for the map.
type ChatFragment struct {
	Text       string `json:"text,omitempty"`
	FacilityID string `json:"facility_id,omitempty"`
	Route      *Route `json:"route,omitempty"`

	// Err terminates the stream when set; no further fragments follow.
	Err error `json:"-"`
}
