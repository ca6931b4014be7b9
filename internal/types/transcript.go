package types

// Sender identifies who produced a transcript entry.
type Sender string

const (
	// SenderUser marks entries typed or uploaded by the HR user.
	SenderUser Sender = "user"
	// SenderSystem marks entries produced from evaluator responses.
	SenderSystem Sender = "system"
)

// TranscriptEntry is one line of the chat composer's transcript.
type TranscriptEntry struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// FilePayload is a resume or attachment held in memory until it is sent.
type FilePayload struct {
	Name    string
	Size    int64
	Content []byte
}
