package util

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSniffMimeTypeKeepsBytes(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 2048)...)
	mime, rest, err := SniffMimeType(bytes.NewReader(body), []string{MimeImage})
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q", mime)
	}
	got, _ := io.ReadAll(rest)
	if !bytes.Equal(got, body) {
		t.Fatalf("read %d bytes, want %d", len(got), len(body))
	}
}

func TestSniffMimeTypeRejects(t *testing.T) {
	mime, _, err := SniffMimeType(bytes.NewReader([]byte("plain text")), []string{MimeImage})
	if !errors.Is(err, ErrInvalidFileType) {
		t.Fatalf("mime %q: err = %v", mime, err)
	}
}

func TestImageExtension(t *testing.T) {
	cases := []struct{ name, mime, want string }{
		{"cat.PNG", "image/png", ".png"},
		{"cat", "image/jpeg", ".jpg"},
		{"cat.exe", "image/gif", ".gif"},
		{"cat", "image/tiff", ""},
	}
	for _, tc := range cases {
		if got := ImageExtension(tc.name, tc.mime); got != tc.want {
			t.Errorf("ImageExtension(%q, %q) = %q, want %q", tc.name, tc.mime, got, tc.want)
		}
	}
}

func TestInt64sToUintsDropsPlaceholders(t *testing.T) {
	got := Int64sToUints([]int64{5, -12345, 0, 7})
	if len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Fatalf("got %v", got)
	}
}
