package zip

import (
	"archive/zip"
	"bytes"
	"time"
)

// File is one archive member.
type File struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// Archive writes files into an in-memory zip in the order given.
func Archive(files []File) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
