package artifact

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// archiveTime is stamped on every tar entry so archives of equal sets are
// byte-identical.
var archiveTime = time.Unix(0, 0).UTC()

// File is one entry read back from an archive.
type File struct {
	Name    string
	Content []byte
}

// WriteArchive writes the set as a zstd-compressed tar stream, in set order.
func WriteArchive(w io.Writer, set *Set) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)
	for _, a := range set.items {
		hdr := &tar.Header{
			Name:     a.FileName,
			Mode:     0o644,
			Size:     int64(len(a.Content)),
			ModTime:  archiveTime,
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			zw.Close()
			return fmt.Errorf("archive %s: %w", a.FileName, err)
		}
		if _, err := tw.Write(a.Content); err != nil {
			zw.Close()
			return fmt.Errorf("archive %s: %w", a.FileName, err)
		}
	}
	if err := tw.Close(); err != nil {
		zw.Close()
		return fmt.Errorf("close tar stream: %w", err)
	}
	return zw.Close()
}

// ReadArchive reads back an archive written by WriteArchive.
func ReadArchive(r io.Reader) ([]File, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open zstd stream: %w", err)
	}
	defer zr.Close()

	var files []File
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		files = append(files, File{Name: hdr.Name, Content: data})
	}
}
