package listengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/model"
)

func seqIDs(t *testing.T) {
	t.Helper()
	t.Cleanup(ids.SetGenerator(ids.Sequence("id")))
}

// threeItems builds a list with three top-level items.
func threeItems(t *testing.T) model.List {
	t.Helper()
	l := New(false)
	l = AddItem(l, "")
	l = AddItem(l, "")
	require.Len(t, l.Items, 3)
	return l
}

func itemIDs(l model.List) []string {
	out := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		out = append(out, it.ID)
	}
	return out
}

func TestNew_SeedsOneTopLevelItem(t *testing.T) {
	seqIDs(t)
	l := New(true)
	assert.Equal(t, "id-1", l.ID)
	assert.True(t, l.Settings.Ordered)
	require.Len(t, l.Items, 1)
	assert.Equal(t, l.ID, l.Items[0].ParentID)
	assert.Empty(t, l.Items[0].Value)
}

func TestChangeTitle(t *testing.T) {
	l := New(false)
	assert.Equal(t, "New title", ChangeTitle(l, "New title").Title)
	assert.Equal(t, "<h1>New title</h1>", ChangeTitle(l, "<h1>New title</h1>").Title)
	assert.Empty(t, l.Title)
}

func TestAddItem_TopLevel(t *testing.T) {
	l := New(false)
	got := AddItem(l, "")
	require.Len(t, got.Items, 2)
	assert.Equal(t, l.ID, got.Items[1].ParentID)
	assert.Len(t, l.Items, 1, "input must not change")
}

func TestAddItem_Nested(t *testing.T) {
	l := New(false)
	got := AddItem(l, l.Items[0].ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, got.Items[0].ID, got.Items[1].ParentID)
}

func TestAddItemAfter_SoleItem(t *testing.T) {
	l := New(false)
	a := l.Items[0]

	got, changed := AddItemAfter(l, a)
	require.True(t, changed)
	require.Len(t, got.Items, 2)
	assert.Equal(t, a.ID, got.Items[0].ID)
	assert.Equal(t, a.ParentID, got.Items[1].ParentID)
	assert.NotEqual(t, a.ID, got.Items[1].ID)
}

func TestAddItemAfter_TwiceAfterFirst(t *testing.T) {
	l := New(false)
	first := l.Items[0]
	l, _ = AddItemAfter(l, first)
	second := l.Items[1]
	l, _ = AddItemAfter(l, first)

	require.Len(t, l.Items, 3)
	assert.Equal(t, []string{first.ID, l.Items[1].ID, second.ID}, itemIDs(l))
	assert.Equal(t, l.ID, l.Items[1].ParentID)
	assert.Equal(t, l.ID, l.Items[2].ParentID)
}

func TestAddItemAfter_NestedAnchorInheritsParent(t *testing.T) {
	l := New(false)
	l = AddItem(l, l.Items[0].ID)
	child := l.Items[1]

	got, changed := AddItemAfter(l, child)
	require.True(t, changed)
	assert.Equal(t, child.ParentID, got.Items[2].ParentID)
}

func TestAddItemAfter_MissingAnchor(t *testing.T) {
	l := New(false)
	got, changed := AddItemAfter(l, model.ListItem{ID: "missing"})
	assert.False(t, changed)
	assert.Equal(t, l, got)
}

func TestChangeValue(t *testing.T) {
	l := threeItems(t)
	got, changed := ChangeValue(l, l.Items[0], "123")
	require.True(t, changed)
	assert.Equal(t, "123", got.Items[0].Value)
	assert.Equal(t, l.Items[0].ParentID, got.Items[0].ParentID)
	assert.Empty(t, l.Items[0].Value, "input must not change")
}

func TestChangeValue_KeepsStoredParent(t *testing.T) {
	l := threeItems(t)
	stale := l.Items[1]
	stale.ParentID = "somewhere-else"
	got, changed := ChangeValue(l, stale, "x")
	require.True(t, changed)
	assert.Equal(t, l.ID, got.Items[1].ParentID)
}

func TestChangeValue_Missing(t *testing.T) {
	l := threeItems(t)
	got, changed := ChangeValue(l, model.ListItem{ID: "nope"}, "x")
	assert.False(t, changed)
	assert.Equal(t, l, got)
}

func TestMoveUp(t *testing.T) {
	tests := []struct {
		name string
		from int
		want []int
	}{
		{"second to first", 1, []int{1, 0, 2}},
		{"third to second", 2, []int{0, 2, 1}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			l := threeItems(t)
			got, changed := MoveUp(l, l.Items[tc.from])
			require.True(t, changed)
			for i, src := range tc.want {
				assert.Equal(t, l.Items[src], got.Items[i])
			}
		})
	}
}

func TestMoveUp_FirstIsNoop(t *testing.T) {
	l := threeItems(t)
	got, changed := MoveUp(l, l.Items[0])
	assert.False(t, changed)
	assert.Equal(t, l, got)
}

func TestMoveDown(t *testing.T) {
	tests := []struct {
		name string
		from int
		want []int
	}{
		{"first to second", 0, []int{1, 0, 2}},
		{"second to third", 1, []int{0, 2, 1}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			l := threeItems(t)
			got, changed := MoveDown(l, l.Items[tc.from])
			require.True(t, changed)
			for i, src := range tc.want {
				assert.Equal(t, l.Items[src], got.Items[i])
			}
		})
	}
}

func TestMoveDown_LastIsNoop(t *testing.T) {
	l := threeItems(t)
	got, changed := MoveDown(l, l.Items[2])
	assert.False(t, changed)
	assert.Equal(t, l, got)
}

func TestMoveUp_ScenarioABC(t *testing.T) {
	l := threeItems(t)
	a, b, c := l.Items[0], l.Items[1], l.Items[2]

	got, changed := MoveUp(l, c)
	require.True(t, changed)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, itemIDs(got))

	again, changed := MoveUp(got, a)
	assert.False(t, changed)
	assert.Equal(t, got, again)
}

func TestMove_SkipsInterleavedSubtrees(t *testing.T) {
	// [A, B, A1, C]: A1 sits between B and C in sequence order.
	l := New(false)
	a := l.Items[0]
	l = AddItem(l, "")
	b := l.Items[1]
	l = AddItem(l, a.ID)
	a1 := l.Items[2]
	l = AddItem(l, "")
	c := l.Items[3]

	got, changed := MoveUp(l, c)
	require.True(t, changed)
	assert.Equal(t, []string{a.ID, c.ID, a1.ID, b.ID}, itemIDs(got))

	_, changed = MoveDown(l, a1)
	assert.False(t, changed, "A1 has no following sibling")
}

func TestMoveUpDown_RoundTrip(t *testing.T) {
	l := threeItems(t)
	mid := l.Items[1]

	up, ok := MoveUp(l, mid)
	require.True(t, ok)
	back, ok := MoveDown(up, mid)
	require.True(t, ok)
	assert.Equal(t, itemIDs(l), itemIDs(back))

	down, ok := MoveDown(l, mid)
	require.True(t, ok)
	back, ok = MoveUp(down, mid)
	require.True(t, ok)
	assert.Equal(t, itemIDs(l), itemIDs(back))
}

func TestMove_DoesNotMutateInput(t *testing.T) {
	l := threeItems(t)
	before := itemIDs(l)
	_, _ = MoveUp(l, l.Items[2])
	_, _ = MoveDown(l, l.Items[0])
	assert.Equal(t, before, itemIDs(l))
}

func TestDeleteItem(t *testing.T) {
	tests := []struct {
		name string
		del  int
		keep []int
	}{
		{"first of three", 0, []int{1, 2}},
		{"second of three", 1, []int{0, 2}},
		{"third of three", 2, []int{0, 1}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			l := threeItems(t)
			got, changed := DeleteItem(l, l.Items[tc.del])
			require.True(t, changed)
			require.Len(t, got.Items, len(tc.keep))
			for i, src := range tc.keep {
				assert.Equal(t, l.Items[src], got.Items[i])
			}
		})
	}
}

func TestDeleteItem_WithChildren(t *testing.T) {
	// 1, 2, 2.1, 2.2, 3
	l := New(false)
	l = AddItem(l, "")
	l = AddItem(l, l.Items[1].ID)
	l = AddItem(l, l.Items[1].ID)
	l = AddItem(l, "")

	got, changed := DeleteItem(l, l.Items[1])
	require.True(t, changed)
	require.Len(t, got.Items, 2)
	assert.Equal(t, l.Items[0], got.Items[0])
	assert.Equal(t, l.Items[4], got.Items[1])
}

func TestDeleteItem_SoleParentWithChildren(t *testing.T) {
	l := New(false)
	a := l.Items[0]
	l = AddItem(l, a.ID)
	l = AddItem(l, a.ID)

	got, changed := DeleteItem(l, a)
	require.True(t, changed)
	assert.Empty(t, got.Items)
	assert.Empty(t, Children(got, got.ID))
}

func TestDeleteItem_LeavesGrandchildrenAsOrphans(t *testing.T) {
	l := New(false)
	a := l.Items[0]
	l = AddItem(l, a.ID)
	a1 := l.Items[1]
	l = AddItem(l, a1.ID)
	a11 := l.Items[2]

	got, changed := DeleteItem(l, a)
	require.True(t, changed)
	assert.Equal(t, []string{a11.ID}, itemIDs(got))
	assert.Equal(t, []model.ListItem{a11}, Orphans(got))
}

func TestDeleteItem_Missing(t *testing.T) {
	l := threeItems(t)
	got, changed := DeleteItem(l, model.ListItem{ID: "missing"})
	assert.False(t, changed)
	assert.Equal(t, l, got)
}

func TestAddThenDelete_RestoresIdentitySet(t *testing.T) {
	l := threeItems(t)
	added := AddItem(l, "")
	newest := added.Items[len(added.Items)-1]

	got, changed := DeleteItem(added, newest)
	require.True(t, changed)
	assert.ElementsMatch(t, itemIDs(l), itemIDs(got))
}
