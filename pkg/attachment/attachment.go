package attachment

// Kind classifies the payload of an uploaded file.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindCode  Kind = "code"
)

// Attachment is an immutable uploaded-file payload in a backend-agnostic format.
// Image data is base64 encoded; text and code data is the raw file content.
type Attachment struct {
	Kind Kind   `json:"kind"`
	Data string `json:"data"`
	Name string `json:"name"`
}
