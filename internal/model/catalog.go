package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the "dd.MM.yyyy HH:mm" format used for both
// TimeCreated and TimeUpdated, kept as a named constant since the original
// implementation hard-codes the same pattern in FileUtil.
const TimestampLayout = "02.01.2006 15:04"

// NullTypeTag and DirTypeTag are the two non-extension type tags a catalog
// entry can carry; everything else is "<EXT>" in upper case.
const (
	NullTypeTag = "<NULL>"
	DirTypeTag  = "<DIR>"
)

// FileEntry is one catalog record. Field names match the metadata file's
// per-entry JSON keys exactly (spec §6); only the two top-level keys
// (currentId/data) are configurable, these are not.
type FileEntry struct {
	FileID      int64  `json:"fileId"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileSize    string `json:"fileSize"`
	TimeCreated string `json:"timeCreated"`
	TimeUpdated string `json:"timeUpdated"`
}

// TypeTagOf derives the "<EXT>" tag from a file name: everything after the
// last '.', upper-cased, or NullTypeTag when there is no extension. A name
// ending in "." (extension is empty) is treated the same as no extension.
func TypeTagOf(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return NullTypeTag
	}
	return "<" + strings.ToUpper(name[idx+1:]) + ">"
}

// SizeString renders the "<kb> kb (<bytes> bytes)" form used for FileSize.
// kb is bytes/1024, truncated, matching the original's integer division.
func SizeString(bytes int64) string {
	kb := bytes / 1024
	return fmt.Sprintf("%d kb (%d bytes)", kb, bytes)
}

// NewFileEntry builds a freshly-created entry: creation and update
// timestamps are the same instant.
func NewFileEntry(id int64, name string, size int64, now time.Time) *FileEntry {
	ts := now.Format(TimestampLayout)
	return &FileEntry{
		FileID:      id,
		FileName:    name,
		FileType:    TypeTagOf(name),
		FileSize:    SizeString(size),
		TimeCreated: ts,
		TimeUpdated: ts,
	}
}
