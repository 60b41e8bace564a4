package store

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

//BundleDir is the directory the results of pdbID are archived under.
func BundleDir(pdbID string) string { return pdbID + "_minim" }

//BundleName is the file name of the results archive of pdbID.
func BundleName(pdbID string) string { return BundleDir(pdbID) + ".tar.gz" }

//WriteBundle writes a gzipped tar archive to w holding the given files
//under the directory dir.
func WriteBundle(w io.Writer, dir string, files []string) error {
	z := gzip.NewWriter(w)
	t := tar.NewWriter(z)
	for _, name := range files {
		if err := addFile(t, dir, name); err != nil {
			t.Close()
			z.Close()
			return err
		}
	}
	if err := t.Close(); err != nil {
		z.Close()
		return err
	}
	return z.Close()
}

func addFile(t *tar.Writer, dir, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := t.WriteHeader(&tar.Header{
		Name:    path.Join(dir, filepath.Base(name)),
		Mode:    0644,
		Size:    info.Size(),
		ModTime: info.ModTime().Truncate(time.Second),
	}); err != nil {
		return err
	}
	_, err = io.Copy(t, f)
	return err
}

//Bundle returns the archive WriteBundle would write.
func Bundle(dir string, files []string) ([]byte, error) {
	var b bytes.Buffer
	if err := WriteBundle(&b, dir, files); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

//ReadBundle returns the regular files of a gzipped tar archive, by name.
func ReadBundle(r io.Reader) (map[string][]byte, error) {
	z, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer z.Close()
	t := tar.NewReader(z)
	ret := make(map[string][]byte)
	for {
		h, err := t.Next()
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, err
		}
		if h.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Name, err)
		}
		ret[h.Name] = data
	}
}

//ExtractBundle unpacks the archive in r into dir and returns the paths
//written. Entries that would land outside dir are rejected.
func ExtractBundle(r io.Reader, dir string) ([]string, error) {
	files, err := ReadBundle(r)
	if err != nil {
		return nil, err
	}
	var ret []string
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if rel, err := filepath.Rel(dir, p); err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
			return ret, fmt.Errorf("entry %s escapes %s", name, dir)
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return ret, err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return ret, err
		}
		ret = append(ret, p)
	}
	return ret, nil
}
