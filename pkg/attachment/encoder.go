package attachment

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	imageExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".gif": true,
	}
	codeExtensions = map[string]bool{
		".py": true, ".js": true, ".go": true, ".ts": true, ".java": true, ".c": true, ".cpp": true,
	}
)

// EncodeFile converts an uploaded file into an Attachment based on its
// extension. Images are base64 encoded, text and code files are kept as raw
// text. PDFs must be rendered to page images upstream and submitted via
// EncodePDFPages.
func EncodeFile(name string, data []byte) (Attachment, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case imageExtensions[ext]:
		return Attachment{
			Kind: KindImage,
			Data: base64.StdEncoding.EncodeToString(data),
			Name: name,
		}, nil

	case ext == ".txt":
		return Attachment{Kind: KindText, Data: string(data), Name: name}, nil

	case codeExtensions[ext]:
		return Attachment{Kind: KindCode, Data: string(data), Name: name}, nil

	case ext == ".pdf":
		return Attachment{}, fmt.Errorf("pdf %s must be rendered to page images before upload", name)

	default:
		return Attachment{}, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// EncodePDFPages wraps pre-rendered PDF page images as one image attachment
// per page, named "<file>_page_<n>.png".
func EncodePDFPages(name string, pages [][]byte) []Attachment {
	attachments := make([]Attachment, 0, len(pages))
	for i, page := range pages {
		attachments = append(attachments, Attachment{
			Kind: KindImage,
			Data: base64.StdEncoding.EncodeToString(page),
			Name: fmt.Sprintf("%s_page_%d.png", name, i+1),
		})
	}
	return attachments
}
