package client

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FormField is a text part of a multipart body.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a file part of a multipart body, streamed from Path.
// The part's filename is the base name of Path.
type FormFile struct {
	Field string
	Path  string
}

type form struct {
	fields []FormField
	files  []FormFile
}

// open opens every file up front so that a missing file fails before
// anything goes on the wire, then returns a reader producing the encoded
// body and its Content-Type. Read failures on the files surface from the
// returned reader wrapped with [ErrLocalIO].
func (f *form) open() (io.ReadCloser, string, error) {
	handles := make([]*os.File, 0, len(f.files))
	closeAll := func() {
		for _, h := range handles {
			h.Close()
		}
	}

	for _, ff := range f.files {
		h, err := os.Open(ff.Path)
		if err != nil {
			closeAll()
			return nil, "", fmt.Errorf("%w: opening form file: %w", ErrLocalIO, err)
		}
		handles = append(handles, h)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer closeAll()
		pw.CloseWithError(f.write(mw, handles))
	}()

	return pr, mw.FormDataContentType(), nil
}

func (f *form) write(mw *multipart.Writer, handles []*os.File) error {
	for _, field := range f.fields {
		if err := mw.WriteField(field.Name, field.Value); err != nil {
			return fmt.Errorf("writing form field %s: %w", field.Name, err)
		}
	}

	for i, ff := range f.files {
		part, err := mw.CreateFormFile(ff.Field, filepath.Base(ff.Path))
		if err != nil {
			return fmt.Errorf("creating form file %s: %w", ff.Field, err)
		}

		if _, err := io.Copy(part, fileReader{handles[i]}); err != nil {
			return fmt.Errorf("streaming form file %s: %w", ff.Field, err)
		}
	}

	return mw.Close()
}

// fileReader tags read failures so they can be told apart from failures
// writing to the pipe.
type fileReader struct {
	f *os.File
}

func (r fileReader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: reading form file: %w", ErrLocalIO, err)
	}
	return n, err
}
