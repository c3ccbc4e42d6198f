package draft

import (
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Info holds lightweight metadata for a draft file discovered on disk.
type Info struct {
	Key       Key       `json:"key"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScanDrafts inspects a draft directory and returns metadata for each
// draft file it finds, newest first. Files that are not well-formed draft
// files are ignored. A missing directory yields an empty slice.
func ScanDrafts(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, err
	}

	var out []Info
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := decodeKeyFileName(e.Name())
		if !ok {
			continue
		}

		fi, err := e.Info()
		if err != nil {
			continue
		}

		out = append(out, Info{
			Key:       key,
			Path:      filepath.Join(dir, e.Name()),
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	return out, nil
}
