package document

import (
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/pdf-autotag/internal/testutil"
)

func fixturePath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	require.NoError(t, testutil.WritePDFFile(path,
		testutil.Line{Text: "Invoice Summary", FontSize: 16, X: 72, Y: 720}))
	return path
}

func TestOpen(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	ref, err := doc.PageRef(1)
	require.NoError(t, err)
	assert.NotNil(t, ref)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestPageContent(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)

	content, err := doc.PageContent(1)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(Invoice Summary) Tj")
}

func TestReplacePageContent(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)

	replacement := []byte("BT /F1 10 Tf 72 700 Td (Replaced) Tj ET\n")
	require.NoError(t, doc.ReplacePageContent(1, replacement))

	content, err := doc.PageContent(1)
	require.NoError(t, err)
	assert.Equal(t, replacement, content)
}

func TestEnsureStructTreeRootIdempotent(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)

	first, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, types.Name("StructTreeRoot"), first.Dict["Type"])

	second, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, first.Ref, second.Ref)

	// Mutations through one handle are visible through the other.
	elem, err := doc.NewStructElem("Sect", first, "Page-1", nil, -1)
	require.NoError(t, err)
	doc.AppendKid(first, elem)

	third, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)
	kids, ok := third.Dict["K"].(types.Array)
	require.True(t, ok)
	assert.Len(t, kids, 1)
}

func TestNewStructElem(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)
	root, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)
	pageRef, err := doc.PageRef(1)
	require.NoError(t, err)

	t.Run("leaf with identifier", func(t *testing.T) {
		elem, err := doc.NewStructElem("P", root, "Body text", pageRef, 7)
		require.NoError(t, err)
		assert.Equal(t, types.Name("StructElem"), elem.Dict["Type"])
		assert.Equal(t, types.Name("P"), elem.Dict["S"])
		assert.Equal(t, root.Ref, elem.Dict["P"])
		assert.Equal(t, types.Integer(7), elem.Dict["K"])
		assert.Equal(t, *pageRef, elem.Dict["Pg"])
	})

	t.Run("container without identifier", func(t *testing.T) {
		elem, err := doc.NewStructElem("Table", root, "", nil, -1)
		require.NoError(t, err)
		kids, ok := elem.Dict["K"].(types.Array)
		require.True(t, ok)
		assert.Empty(t, kids)
		assert.NotContains(t, elem.Dict, "T")
		assert.NotContains(t, elem.Dict, "Pg")
	})
}

func TestResolveElem(t *testing.T) {
	doc, err := Open(fixturePath(t))
	require.NoError(t, err)
	root, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)

	elem, err := doc.NewStructElem("Sect", root, "Page-1", nil, -1)
	require.NoError(t, err)

	resolved, err := doc.ResolveElem(elem.Ref)
	require.NoError(t, err)
	assert.Equal(t, types.Name("Sect"), resolved.Dict["S"])
}

func TestSaveRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.pdf")
	require.NoError(t, testutil.WritePDFFile(path,
		testutil.Line{Text: "Invoice Summary", FontSize: 16, X: 72, Y: 720}))

	doc, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, doc.SetMarked())
	require.NoError(t, doc.SetStructParents(1, 0))
	root, err := doc.EnsureStructTreeRoot()
	require.NoError(t, err)
	sect, err := doc.NewStructElem("Sect", root, "Page-1", nil, -1)
	require.NoError(t, err)
	doc.AppendKid(root, sect)

	replacement := []byte("BT /F1 10 Tf 72 700 Td (Rewritten) Tj ET\n")
	require.NoError(t, doc.ReplacePageContent(1, replacement))

	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, doc.Save(out))

	reopened, err := Open(out)
	require.NoError(t, err)

	content, err := reopened.PageContent(1)
	require.NoError(t, err)
	assert.Equal(t, replacement, content)

	// The saved tree root is found, not recreated.
	savedRoot, err := reopened.EnsureStructTreeRoot()
	require.NoError(t, err)
	kids, ok := savedRoot.Dict["K"].(types.Array)
	require.True(t, ok)
	assert.Len(t, kids, 1)
}
