package corpus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
)

const sampleCSV = `name,field_of_research,university_name,email,official_url,publications,citations
Alice Zhang,Machine Learning; Computer Vision,Stanford University,azhang@stanford.edu,https://stanford.edu/~azhang,120,4500
Bob Okafor,Organic Chemistry,MIT,,https://mit.edu/~bokafor,80,2100
`

func TestParse(t *testing.T) {
	professors, err := Parse([]byte(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(professors) != 2 {
		t.Fatalf("got %d records, want 2", len(professors))
	}

	alice := professors[0]
	if alice.Name != "Alice Zhang" {
		t.Errorf("name = %q", alice.Name)
	}
	if alice.ResearchField != "Machine Learning; Computer Vision" {
		t.Errorf("research field = %q", alice.ResearchField)
	}
	if alice.Publications != 120 || alice.Citations != 4500 {
		t.Errorf("metrics = %d/%d, want 120/4500", alice.Publications, alice.Citations)
	}
	if professors[1].ContactEmail != "" {
		t.Errorf("email = %q, want empty", professors[1].ContactEmail)
	}
}

func TestParseSkipsIncompleteRows(t *testing.T) {
	data := []byte(`name,field_of_research,university_name
Alice Zhang,Machine Learning,Stanford University
,Neuroscience,Harvard University
Carol Learning,,Harvard University
`)

	professors, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(professors) != 1 {
		t.Errorf("got %d records, want 1 (incomplete rows skipped)", len(professors))
	}
}

func TestParseMalformedMetricsDegradeToZero(t *testing.T) {
	data := []byte(`name,field_of_research,publications,citations
Alice Zhang,Machine Learning,many,-5
`)

	professors, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if professors[0].Publications != 0 || professors[0].Citations != 0 {
		t.Errorf("metrics = %d/%d, want 0/0 for malformed values",
			professors[0].Publications, professors[0].Citations)
	}
}

func TestParseRaggedRows(t *testing.T) {
	data := []byte(`name,field_of_research,university_name,email
Alice Zhang,Machine Learning
Bob Okafor,Organic Chemistry,MIT,bokafor@mit.edu,extra
`)

	professors, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(professors) != 2 {
		t.Fatalf("got %d records, want 2", len(professors))
	}
	if professors[0].Institution != "" {
		t.Errorf("institution = %q, want empty for short row", professors[0].Institution)
	}
}

func TestParseRequiresNameColumn(t *testing.T) {
	data := []byte(`field_of_research,university_name
Machine Learning,Stanford University
`)

	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for catalog without a name column")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	professors, err := Parse([]byte("name,field_of_research\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(professors) != 0 {
		t.Errorf("got %d records, want 0", len(professors))
	}
}

func TestLoaderEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "professors.csv")
	if err := os.WriteFile(path, []byte("name,field_of_research\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(NewFileSource(path)).Load(context.Background())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("err = %v, want ErrEmptyCorpus", err)
	}
}

func TestLoaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "professors.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	professors, err := NewLoader(NewFileSource(path)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(professors) != 2 {
		t.Errorf("got %d records, want 2", len(professors))
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.csv")).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

// fakeGetter serves object bytes from memory.
type fakeGetter struct {
	data []byte
	err  error
}

func (f *fakeGetter) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func TestS3SourceFetch(t *testing.T) {
	src := &S3Source{
		client: &fakeGetter{data: []byte(sampleCSV)},
		bucket: "profscout-corpus",
		object: "professors.csv",
	}

	data, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, []byte(sampleCSV)) {
		t.Error("fetched bytes do not match the object contents")
	}
}

func TestS3SourceFetchError(t *testing.T) {
	src := &S3Source{
		client: &fakeGetter{err: errors.New("access denied")},
		bucket: "profscout-corpus",
		object: "professors.csv",
	}

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error from failing object store")
	}
}
