package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/longread/internal/model"
)

func TestMain(m *testing.M) {
	SetTheme("mono")
	os.Exit(m.Run())
}

func sampleDoc() model.Document {
	minutes := 15
	return model.Document{
		Title:                   "Intro to <b>Go</b>",
		Version:                 1,
		ApproximateProgressTime: &minutes,
		RemoteID:                7,
		Elements: []model.Element{
			{ID: "t1", Type: model.ElementText, Value: "<p>Hello &amp; welcome</p><p>Second line</p>"},
			{ID: "t2", Type: model.ElementText, Value: "<p><br></p>"},
			{ID: "l1", Type: model.ElementList, Title: "Steps", Settings: model.Settings{Ordered: true}, Items: []model.ListItem{
				{ID: "a", ParentID: "l1", Value: "Install"},
				{ID: "a1", ParentID: "a", Value: "Download"},
				{ID: "b", ParentID: "l1", Value: ""},
				{ID: "a2", ParentID: "a", Value: "<i>Unpack</i>"},
				{ID: "c", ParentID: "l1", Value: "Run"},
				{ID: "x", ParentID: "gone", Value: "orphan"},
			}},
			{ID: "l2", Type: model.ElementList, Items: []model.ListItem{{ID: "u", ParentID: "l2", Value: "Point"}}},
			{ID: "p1", Type: model.ElementPanel, Badge: "Note", Content: "<p>Mind the gap</p>"},
			{ID: "i1", Type: model.ElementImage, Images: []model.Image{{URL: "https://cdn/x.png"}, {}}},
			{ID: "v1", Type: model.ElementVideo, LessonResource: &model.LessonResource{Title: "Demo", VideoID: "42", URL: "https://video/42"}},
			{ID: "pg", Type: model.ElementPage},
			{ID: "c1", Type: model.ElementCode, Value: "fmt.Println(1)"},
		},
	}
}

func TestMarkdown_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "markdown", []byte(Markdown(sampleDoc())))
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Empty(t, Markdown(model.Document{}))
}

func TestPreview(t *testing.T) {
	out := Preview(sampleDoc(), 60)
	assert.Contains(t, out, "Install")
	assert.Contains(t, out, "Mind the gap")
	assert.NotContains(t, out, "orphan")
	assert.Empty(t, Preview(model.Document{}, 60))
}

func TestPlainText(t *testing.T) {
	tests := map[string]string{
		"<p>a</p><p>b</p>":           "a\nb",
		"x<br>y<br/>z":               "x\ny\nz",
		"<b>bold</b> &lt;tag&gt;":    "bold <tag>",
		"<script>alert(1)</script>ok": "ok",
		"<p><br></p>":                "",
		"non&nbsp;breaking":          "non breaking",
	}
	for in, want := range tests {
		assert.Equal(t, want, PlainText(in), in)
	}
}

func TestInline_Truncates(t *testing.T) {
	assert.Equal(t, "a b", Inline("<p>a</p><p>b</p>", 0))
	got := Inline(strings.Repeat("x", 20), 10)
	assert.Equal(t, strings.Repeat("x", 9)+"…", got)
}

func TestLetter(t *testing.T) {
	assert.Equal(t, "а", Letter(0))
	assert.Equal(t, "б", Letter(1))
	assert.Equal(t, "я", Letter(27))
	assert.Equal(t, "аа", Letter(28))
	assert.Equal(t, "", Letter(-1))
}

func TestMarker(t *testing.T) {
	assert.Equal(t, "3.", Marker(true, 1, 2))
	assert.Equal(t, "в.", Marker(true, 2, 2))
	assert.Equal(t, "-", Marker(false, 1, 0))
}

func TestListLines(t *testing.T) {
	el := sampleDoc().Elements[2]
	assert.Equal(t, []string{
		"1. Install  a",
		"  а. Download  a1",
		"  б. Unpack  a2",
		"2. (empty)  b",
		"3. Run  c",
	}, ListLines(el.AsList()))
}

func TestDocumentLines(t *testing.T) {
	lines := DocumentLines(sampleDoc())
	require.NotEmpty(t, lines)
	assert.Equal(t, "Intro to Go", lines[0])
	assert.Equal(t, "15 min · remote #7", lines[1])

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "#3 list l1 ordered")
	assert.Contains(t, joined, "  Hello & welcome Second line")
	assert.Contains(t, joined, "  (image slot)")
	assert.Contains(t, joined, "  ── page break ──")
	assert.Contains(t, joined, "  1 orphaned hidden")

	empty := DocumentLines(model.Document{})
	assert.Equal(t, []string{"(untitled)", "", "no blocks yet"}, empty)
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "saved")
	Fail(&buf, "broken")
	Note(&buf, "nothing to do")
	assert.Equal(t, "ok saved\nerror: broken\nnothing to do\n", buf.String())
}

func TestPanel(t *testing.T) {
	var buf bytes.Buffer
	Panel(&buf, []string{"one", "three"})
	assert.Equal(t, "+-------+\n| one   |\n| three |\n+-------+\n", buf.String())
}

func TestSetTheme_Fallback(t *testing.T) {
	defer SetTheme("mono")
	assert.Equal(t, "classic", SetTheme("nope").Name)
	assert.Equal(t, "neon", SetTheme(" NEON ").Name)
	assert.Equal(t, []string{"classic", "mono", "neon"}, ThemeNames())
}
