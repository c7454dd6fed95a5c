package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	hashC = "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"
)

func sampleCatalog() *Catalog {
	return &Catalog{
		Branches: map[string]BranchInfo{
			"main": {
				Name:           "main",
				CurrentVersion: "1.2.0",
				Versions: map[string]VersionInfo{
					"1.2.0": {
						ReleasePath: "/releases/main/v1.2.0.zip",
						ReleaseHash: hashA,
						Files: []File{
							{Path: "polaris.exe", Hash: hashB},
							{Path: "data/assets.pak", Hash: hashC},
						},
						Timestamp: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
					},
					"1.0.0": {
						ReleasePath: "/releases/main/v1.0.0.zip",
						ReleaseHash: hashB,
						Files:       []File{{Path: "polaris.exe", Hash: hashA}},
					},
				},
			},
			"beta": {
				Name:           "beta",
				CurrentVersion: "2.0.0-rc.1",
				Versions: map[string]VersionInfo{
					"2.0.0-rc.1": {
						ReleasePath: "/releases/beta/v2.0.0-rc.1.zip",
						ReleaseHash: hashC,
						Files:       []File{{Path: "polaris.exe", Hash: hashB}},
					},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	c := sampleCatalog()

	data, err := Encode(c)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, c, decoded)
}

func TestEncode_Deterministic(t *testing.T) {
	c := sampleCatalog()

	first, err := Encode(c)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Encode(c)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	// Branches ascending, versions descending by semver.
	s := string(first)
	assert.Less(t, strings.Index(s, `"beta"`), strings.Index(s, `"main"`))
	assert.Less(t, strings.Index(s, `"1.2.0"`), strings.Index(s, `"1.0.0"`))
}

func TestEncode_InvalidVersionKey(t *testing.T) {
	c := sampleCatalog()
	main := c.Branches["main"]
	main.Versions["not-a-version"] = VersionInfo{ReleasePath: "/x.zip", ReleaseHash: hashA}
	c.Branches["main"] = main

	_, err := Encode(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestDecode_Valid(t *testing.T) {
	doc := `{"branches":{"main":{"currentVersion":"1.2.0","versions":{"1.2.0":{"releasePath":"/releases/main/v1.2.0.zip","releaseHash":"` + hashA + `","files":[{"path":"polaris.exe","hash":"` + hashB + `"}]}}}}}`

	c, err := Decode([]byte(doc))
	require.NoError(t, err)

	b, err := c.GetBranch("main")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", b.CurrentVersion)

	info, err := b.GetCurrentVersionInfo()
	require.NoError(t, err)
	assert.Equal(t, "/releases/main/v1.2.0.zip", info.ReleasePath)
	require.Len(t, info.Files, 1)
	assert.Equal(t, "polaris.exe", info.Files[0].Path)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing branches", `{}`},
		{"unknown top-level field", `{"branches":{},"extra":1}`},
		{"missing currentVersion", `{"branches":{"main":{"versions":{}}}}`},
		{"empty currentVersion", `{"branches":{"main":{"currentVersion":"","versions":{}}}}`},
		{"bad currentVersion", `{"branches":{"main":{"currentVersion":"latest","versions":{}}}}`},
		{"missing versions", `{"branches":{"main":{"currentVersion":"1.0.0"}}}`},
		{"non-object versions", `{"branches":{"main":{"currentVersion":"1.0.0","versions":[]}}}`},
		{"bad version key", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"oops":{"releasePath":"/a.zip","releaseHash":"` + hashA + `","files":[]}}}}}`},
		{"missing releasePath", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releaseHash":"` + hashA + `","files":[]}}}}}`},
		{"missing releaseHash", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","files":[]}}}}}`},
		{"uppercase releaseHash", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + strings.ToUpper(hashA) + `","files":[]}}}}}`},
		{"missing files", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + hashA + `"}}}}}`},
		{"file missing path", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + hashA + `","files":[{"hash":"` + hashB + `"}]}}}}}`},
		{"file missing hash", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + hashA + `","files":[{"path":"a"}]}}}}}`},
		{"file short hash", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + hashA + `","files":[{"path":"a","hash":"abc123"}]}}}}}`},
		{"unknown version field", `{"branches":{"main":{"currentVersion":"1.0.0","versions":{"1.0.0":{"releasePath":"/a.zip","releaseHash":"` + hashA + `","files":[],"size":12}}}}}`},
		{"trailing data", `{"branches":{}} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestGetBranch_NotFound(t *testing.T) {
	c := sampleCatalog()
	_, err := c.GetBranch("nightly")
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestGetCurrentVersionInfo_Corrupt(t *testing.T) {
	b := BranchInfo{
		Name:           "main",
		CurrentVersion: "9.9.9",
		Versions:       map[string]VersionInfo{"1.0.0": {}},
	}
	_, err := b.GetCurrentVersionInfo()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptCatalog)
}

func TestGetVersionInfo_NotFound(t *testing.T) {
	b := sampleCatalog().Branches["main"]
	_, err := b.GetVersionInfo("3.0.0")
	assert.ErrorIs(t, err, ErrVersionNotFound)

	info, err := b.GetVersionInfo("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "/releases/main/v1.0.0.zip", info.ReleasePath)
}

func TestMarkCurrent(t *testing.T) {
	b := sampleCatalog().Branches["main"]

	require.NoError(t, b.MarkCurrent("1.0.0"))
	assert.Equal(t, "1.0.0", b.CurrentVersion)

	err := b.MarkCurrent("4.0.0")
	assert.True(t, errors.Is(err, ErrVersionNotFound))
	assert.Equal(t, "1.0.0", b.CurrentVersion)
}

func TestSortedVersions_PrereleaseOrdering(t *testing.T) {
	b := BranchInfo{
		Name: "main",
		Versions: map[string]VersionInfo{
			"1.0.0":      {},
			"1.0.0-rc.1": {},
			"2.0.0":      {},
			"1.5.0":      {},
		},
	}

	keys, err := b.SortedVersions()
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.0", "1.5.0", "1.0.0", "1.0.0-rc.1"}, keys)
}
