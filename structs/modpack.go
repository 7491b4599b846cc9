package structs

// Entry is a single file or directory inside a modpack archive.
type Entry struct {
	Name  string `json:"name"`
	Size  uint64 `json:"size"`
	IsDir bool   `json:"isDir,omitempty"`
}

// Files returns only the non directory entries.
func Files(entries []Entry) []Entry {
	var files []Entry
	for _, e := range entries {
		if !e.IsDir {
			files = append(files, e)
		}
	}
	return files
}
