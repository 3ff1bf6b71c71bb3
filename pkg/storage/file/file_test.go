package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"briefing/pkg/domain"
	"briefing/pkg/serrors"
	"briefing/pkg/storage"
	"briefing/pkg/storage/file"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var sample = []domain.PointOfInterest{
	{Name: "Alpha", Lat: 49.74, Lon: 15.10, Affiliation: domain.AffiliationFriend},
	{Name: "Bravo", Lat: 50.08, Lon: 14.42, Affiliation: domain.AffiliationFoe},
	{Name: "Bravo", Lat: 50.08, Lon: 14.42, Affiliation: domain.AffiliationFoe},
	{Name: "Charlie", Lat: -33.9, Lon: -70.6, Affiliation: domain.AffiliationNeutral},
}

func newFile(t *testing.T, name string) *file.File {
	t.Helper()

	f, err := file.New(file.Options{Path: filepath.Join(t.TempDir(), name)})
	require.NoError(t, err)

	return f
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := file.New(file.Options{})
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"missions.json", "missions.yaml", "nested/dir/missions.yml"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFile(t, name)

			require.NoError(t, f.Save(ctx, sample))
			got, err := f.Load(ctx)
			require.NoError(t, err)
			if diff := cmp.Diff(sample, got); diff != "" {
				t.Fatalf("load(save(c)) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	ctx := context.Background()
	f := newFile(t, "missions.json")

	require.NoError(t, f.Save(ctx, nil))
	raw, err := os.ReadFile(f.Location())
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(raw))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSave_JSONLayout(t *testing.T) {
	ctx := context.Background()
	f := newFile(t, "missions.json")

	require.NoError(t, f.Save(ctx, sample[:1]))
	raw, err := os.ReadFile(f.Location())
	require.NoError(t, err)
	require.Equal(t, `[
  {
    "name": "Alpha",
    "lat": 49.74,
    "lon": 15.1,
    "affiliation": "Friend"
  }
]
`, string(raw))
}

func TestLoad_Missing(t *testing.T) {
	_, err := newFile(t, "missions.json").Load(context.Background())
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "empty json", file: "m.json", content: ""},
		{name: "truncated json", file: "m.json", content: `[{"name":"Alpha","lat":49.7`},
		{name: "object instead of array", file: "m.json", content: `{"name":"Alpha"}`},
		{name: "unknown field", file: "m.json", content: `[{"name":"A","lat":1,"lon":2,"affiliation":"Foe","x":1}]`},
		{name: "string coordinate", file: "m.json", content: `[{"name":"A","lat":"1","lon":2,"affiliation":"Foe"}]`},
		{name: "trailing data", file: "m.json", content: `[] []`},
		{name: "trailing bracket", file: "m.json", content: `[] ]`},
		{name: "trailing brace", file: "m.json", content: `[]}`},
		{name: "trailing garbage", file: "m.json", content: `[]x`},
		{name: "padded name", file: "m.json", content: `[{"name":" A ","lat":1,"lon":2,"affiliation":"Foe"}]`},
		{name: "invalid poi", file: "m.json", content: `[{"name":"A","lat":100,"lon":2,"affiliation":"Foe"}]`},
		{name: "missing lon", file: "m.json", content: `[{"name":"A","lat":1,"affiliation":"Foe"}]`},
		{name: "empty yaml", file: "m.yaml", content: ""},
		{name: "yaml mapping", file: "m.yaml", content: "name: A\n"},
		{name: "yaml bad affiliation", file: "m.yaml", content: "- name: A\n  lat: 1\n  lon: 2\n  affiliation: Ally\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			f, err := file.New(file.Options{Path: path})
			require.NoError(t, err)

			_, err = f.Load(context.Background())
			require.ErrorIs(t, err, serrors.ErrCorruptStore)
		})
	}
}

func TestLoad_TrailingWhitespaceAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.json")
	require.NoError(t, os.WriteFile(path, []byte("[]\n\n  \t\n"), 0o600))

	f, err := file.New(file.Options{Path: path})
	require.NoError(t, err)

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoad_UnreadableIsNotCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missions.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	f, err := file.New(file.Options{Path: path})
	require.NoError(t, err)

	_, err = f.Load(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.NotErrorIs(t, err, serrors.ErrCorruptStore)
}

type failingCodec struct{ file.JSONCodec }

func (failingCodec) Marshal([]storage.Record) ([]byte, error) { return nil, errors.New("encoder broke") }

func TestSave_FailureKeepsPreviousRecord(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "missions.json")

	good, err := file.New(file.Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, good.Save(ctx, sample))

	bad, err := file.New(file.Options{Path: path, Codec: failingCodec{}})
	require.NoError(t, err)
	require.ErrorIs(t, bad.Save(ctx, sample[:1]), serrors.ErrPersist)

	got, err := good.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, sample, got)
}

func TestSave_RenameFailureRemovesTemporaryFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	target := filepath.Join(dir, "missions.json")
	// a non-empty directory cannot be replaced by a rename
	require.NoError(t, os.MkdirAll(filepath.Join(target, "keep"), 0o755))

	f, err := file.New(file.Options{Path: target})
	require.NoError(t, err)
	require.ErrorIs(t, f.Save(ctx, sample), serrors.ErrPersist)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "missions.json", entries[0].Name())
}

func TestSave_Permissions(t *testing.T) {
	ctx := context.Background()
	f := newFile(t, "missions.json")
	require.NoError(t, f.Save(ctx, sample))

	info, err := os.Stat(f.Location())
	require.NoError(t, err)
	require.Equal(t, file.DefaultPerm, info.Mode().Perm())
}

func TestCodecFor(t *testing.T) {
	require.Equal(t, "yaml", file.CodecFor("a/b.YAML").Name())
	require.Equal(t, "yaml", file.CodecFor("b.yml").Name())
	require.Equal(t, "json", file.CodecFor("missions.json").Name())
	require.Equal(t, "json", file.CodecFor("missions").Name())
}
