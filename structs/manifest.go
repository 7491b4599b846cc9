package structs

import "time"

// Manifest records the last successful install, stored next to the downloaded archive.
type Manifest struct {
	Url         string    `json:"url"`
	InstalledAt time.Time `json:"installedAt"`
	ArchiveSize int64     `json:"archiveSize"`
	ModsPath    string    `json:"modsPath"`
	BackupPath  string    `json:"backupPath,omitempty"`
	Entries     []Entry   `json:"entries,omitempty"`
}
