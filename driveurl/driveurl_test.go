package driveurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFileID = "1aBcDeFgHiJkLmNoP"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want URLKind
	}{
		{"share link", "https://drive.google.com/file/d/" + testFileID + "/view?usp=sharing", KindFile},
		{"short d path", "https://drive.google.com/d/" + testFileID, KindFile},
		{"uc export", "https://drive.google.com/uc?export=view&id=" + testFileID, KindFile},
		{"folder", "https://drive.google.com/drive/folders/" + testFileID, KindFolder},
		{"folder without drive prefix", "https://drive.google.com/folders/" + testFileID, KindFolder},
		{"storage url", "https://storage.example.com/team-logos/real.png", KindUnknown},
		{"empty", "", KindUnknown},
		{"garbage", "not a url at all", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestExtractFileID(t *testing.T) {
	assert.Equal(t, testFileID, ExtractFileID("https://drive.google.com/file/d/"+testFileID+"/view"))
	assert.Equal(t, testFileID, ExtractFileID("https://drive.google.com/uc?export=view&id="+testFileID))
	assert.Empty(t, ExtractFileID("https://drive.google.com/uc?id=short"), "ids below the minimum length are rejected")
	assert.Empty(t, ExtractFileID("https://example.com/foto.png"))
}

func TestExpandCandidateURLs(t *testing.T) {
	t.Run("folder yields no candidates", func(t *testing.T) {
		candidates := ExpandCandidateURLs("https://drive.google.com/drive/folders/" + testFileID)
		assert.Empty(t, candidates)
	})

	t.Run("unknown url is its own candidate", func(t *testing.T) {
		raw := "https://storage.example.com/jugadores/fotos_perfil/123.png"
		candidates := ExpandCandidateURLs(raw)
		require.Len(t, candidates, 1)
		assert.Equal(t, raw, candidates[0])
	})

	t.Run("empty yields nothing", func(t *testing.T) {
		assert.Empty(t, ExpandCandidateURLs("   "))
	})

	t.Run("file url expands in stable order", func(t *testing.T) {
		raw := "https://drive.google.com/file/d/" + testFileID + "/view"
		first := ExpandCandidateURLs(raw)
		second := ExpandCandidateURLs(raw)

		require.NotEmpty(t, first)
		assert.Equal(t, first, second, "expansion must be deterministic")
		assert.Contains(t, first[0], "thumbnail", "the thumbnail endpoint goes first")
		for _, c := range first {
			assert.Contains(t, c, testFileID)
		}
	})
}

func TestViewerURL(t *testing.T) {
	raw := "https://drive.google.com/uc?export=view&id=" + testFileID
	assert.Equal(t, "https://drive.google.com/file/d/"+testFileID+"/view", ViewerURL(raw))

	passthrough := "https://example.com/foto.png"
	assert.Equal(t, passthrough, ViewerURL(passthrough))
}

func TestDiagnose(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		d := Diagnose("https://drive.google.com/file/d/" + testFileID + "/view")
		assert.True(t, d.IsValid)
		assert.Equal(t, testFileID, d.FileID)
		assert.Equal(t, KindFile, d.URLType)
		assert.Empty(t, d.Error)
	})

	t.Run("folder", func(t *testing.T) {
		d := Diagnose("https://drive.google.com/drive/folders/" + testFileID)
		assert.False(t, d.IsValid)
		assert.Equal(t, KindFolder, d.URLType)
		assert.NotEmpty(t, d.Error)
		assert.NotEmpty(t, d.Suggestions)
	})

	t.Run("empty url", func(t *testing.T) {
		d := Diagnose("")
		assert.False(t, d.IsValid)
		assert.Equal(t, KindUnknown, d.URLType)
		assert.NotEmpty(t, d.Error)
	})

	t.Run("non drive url", func(t *testing.T) {
		d := Diagnose("https://example.com/foto.png")
		assert.False(t, d.IsValid)
		assert.Equal(t, KindUnknown, d.URLType)
	})
}
