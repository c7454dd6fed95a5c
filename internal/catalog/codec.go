package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Wire types mirror the published JSON schema. Required fields are pointers
// so a missing field can be told apart from a zero value.
type catalogDoc struct {
	Branches *map[string]branchDoc `json:"branches"`
}

type branchDoc struct {
	CurrentVersion *string                `json:"currentVersion"`
	Versions       *map[string]versionDoc `json:"versions"`
}

type versionDoc struct {
	ReleasePath *string    `json:"releasePath"`
	ReleaseHash *string    `json:"releaseHash"`
	Files       *[]fileDoc `json:"files"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

type fileDoc struct {
	Path *string `json:"path"`
	Hash *string `json:"hash"`
}

// Decode parses a catalog document. Decoding fails closed: unknown fields,
// missing required fields, malformed hashes and invalid semantic-version
// keys are all hard errors, never silently dropped.
func Decode(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc catalogDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidCatalog)
	}
	if doc.Branches == nil {
		return nil, fmt.Errorf("%w: missing branches field", ErrInvalidCatalog)
	}

	c := &Catalog{Branches: make(map[string]BranchInfo, len(*doc.Branches))}
	for name, bd := range *doc.Branches {
		branch, err := decodeBranch(name, bd)
		if err != nil {
			return nil, err
		}
		c.Branches[name] = branch
	}
	return c, nil
}

func decodeBranch(name string, bd branchDoc) (BranchInfo, error) {
	if bd.CurrentVersion == nil || *bd.CurrentVersion == "" {
		return BranchInfo{}, fmt.Errorf("%w: branch %q: missing currentVersion field", ErrInvalidCatalog, name)
	}
	if _, err := semver.NewVersion(*bd.CurrentVersion); err != nil {
		return BranchInfo{}, fmt.Errorf("%w: branch %q: currentVersion %q: %v", ErrInvalidCatalog, name, *bd.CurrentVersion, err)
	}
	if bd.Versions == nil {
		return BranchInfo{}, fmt.Errorf("%w: branch %q: missing versions field", ErrInvalidCatalog, name)
	}

	branch := BranchInfo{
		Name:           name,
		CurrentVersion: *bd.CurrentVersion,
		Versions:       make(map[string]VersionInfo, len(*bd.Versions)),
	}
	for key, vd := range *bd.Versions {
		if _, err := semver.NewVersion(key); err != nil {
			return BranchInfo{}, fmt.Errorf("%w: branch %q: version key %q: %v", ErrInvalidCatalog, name, key, err)
		}
		info, err := decodeVersion(name, key, vd)
		if err != nil {
			return BranchInfo{}, err
		}
		branch.Versions[key] = info
	}
	return branch, nil
}

func decodeVersion(branch, version string, vd versionDoc) (VersionInfo, error) {
	if vd.ReleasePath == nil || *vd.ReleasePath == "" {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: missing releasePath field", ErrInvalidCatalog, branch, version)
	}
	if vd.ReleaseHash == nil {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: missing releaseHash field", ErrInvalidCatalog, branch, version)
	}
	if !isSHA256Hex(*vd.ReleaseHash) {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: malformed releaseHash %q", ErrInvalidCatalog, branch, version, *vd.ReleaseHash)
	}
	if vd.Files == nil {
		return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: missing files field", ErrInvalidCatalog, branch, version)
	}

	info := VersionInfo{
		ReleasePath: *vd.ReleasePath,
		ReleaseHash: *vd.ReleaseHash,
		Files:       make([]File, 0, len(*vd.Files)),
	}
	if vd.Timestamp != nil {
		info.Timestamp = *vd.Timestamp
	}
	for i, fd := range *vd.Files {
		if fd.Path == nil || *fd.Path == "" {
			return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: files[%d]: missing path field", ErrInvalidCatalog, branch, version, i)
		}
		if fd.Hash == nil {
			return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: files[%d]: missing hash field", ErrInvalidCatalog, branch, version, i)
		}
		if !isSHA256Hex(*fd.Hash) {
			return VersionInfo{}, fmt.Errorf("%w: branch %q version %q: files[%d]: malformed hash %q", ErrInvalidCatalog, branch, version, i, *fd.Hash)
		}
		info.Files = append(info.Files, File{Path: *fd.Path, Hash: *fd.Hash})
	}
	return info, nil
}

// Encode serializes a catalog deterministically: branches ascending by name,
// versions descending by semantic-version precedence, independent of map
// iteration order. Every version key must parse as a valid semantic version.
func Encode(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"branches":{`)
	for i, name := range c.SortedBranches() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeKey(&buf, name); err != nil {
			return nil, err
		}
		if err := encodeBranch(&buf, c.Branches[name]); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func encodeBranch(buf *bytes.Buffer, b BranchInfo) error {
	keys, err := b.SortedVersions()
	if err != nil {
		return err
	}

	buf.WriteString(`{"currentVersion":`)
	if err := encodeValue(buf, b.CurrentVersion); err != nil {
		return err
	}
	buf.WriteString(`,"versions":{`)
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeKey(buf, key); err != nil {
			return err
		}
		info := b.Versions[key]
		ts := info.Timestamp
		doc := versionDoc{
			ReleasePath: &info.ReleasePath,
			ReleaseHash: &info.ReleaseHash,
			Files:       filesToDocs(info.Files),
			Timestamp:   &ts,
		}
		if ts.IsZero() {
			doc.Timestamp = nil
		}
		if err := encodeValue(buf, doc); err != nil {
			return err
		}
	}
	buf.WriteString("}}")
	return nil
}

func filesToDocs(files []File) *[]fileDoc {
	docs := make([]fileDoc, len(files))
	for i := range files {
		docs[i] = fileDoc{Path: &files[i].Path, Hash: &files[i].Hash}
	}
	return &docs
}

func encodeKey(buf *bytes.Buffer, key string) error {
	if err := encodeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// isSHA256Hex reports whether s is a 64-character lowercase hex string.
func isSHA256Hex(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
