package attachment

import (
	"encoding/base64"
	"testing"
)

func TestEncodeFile(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		wantKind Kind
		wantData string
		wantErr  bool
	}{
		{
			name:     "png image is base64 encoded",
			fileName: "shot.png",
			data:     []byte{0x89, 0x50},
			wantKind: KindImage,
			wantData: base64.StdEncoding.EncodeToString([]byte{0x89, 0x50}),
		},
		{
			name:     "jpeg extension case insensitive",
			fileName: "photo.JPEG",
			data:     []byte("jpg-bytes"),
			wantKind: KindImage,
			wantData: base64.StdEncoding.EncodeToString([]byte("jpg-bytes")),
		},
		{
			name:     "txt stays raw text",
			fileName: "notes.txt",
			data:     []byte("plain notes"),
			wantKind: KindText,
			wantData: "plain notes",
		},
		{
			name:     "go source is code",
			fileName: "main.go",
			data:     []byte("package main"),
			wantKind: KindCode,
			wantData: "package main",
		},
		{
			name:     "pdf rejected",
			fileName: "paper.pdf",
			data:     []byte("%PDF"),
			wantErr:  true,
		},
		{
			name:     "unknown extension rejected",
			fileName: "archive.zip",
			data:     []byte("zip"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, err := EncodeFile(tt.fileName, tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("EncodeFile(%q) error = nil, want error", tt.fileName)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeFile(%q) error = %v", tt.fileName, err)
			}
			if att.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", att.Kind, tt.wantKind)
			}
			if att.Data != tt.wantData {
				t.Errorf("Data = %q, want %q", att.Data, tt.wantData)
			}
			if att.Name != tt.fileName {
				t.Errorf("Name = %q, want %q", att.Name, tt.fileName)
			}
		})
	}
}

func TestEncodePDFPages(t *testing.T) {
	pages := [][]byte{[]byte("page-one"), []byte("page-two")}

	attachments := EncodePDFPages("report.pdf", pages)
	if len(attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(attachments))
	}

	if attachments[0].Name != "report.pdf_page_1.png" {
		t.Errorf("first page name = %q", attachments[0].Name)
	}
	if attachments[1].Name != "report.pdf_page_2.png" {
		t.Errorf("second page name = %q", attachments[1].Name)
	}
	for i, att := range attachments {
		if att.Kind != KindImage {
			t.Errorf("page %d Kind = %q, want image", i+1, att.Kind)
		}
		if att.Data != base64.StdEncoding.EncodeToString(pages[i]) {
			t.Errorf("page %d Data not base64 of the page bytes", i+1)
		}
	}
}

func TestEncodePDFPagesEmpty(t *testing.T) {
	if got := EncodePDFPages("empty.pdf", nil); len(got) != 0 {
		t.Errorf("EncodePDFPages(nil) = %v, want empty", got)
	}
}
